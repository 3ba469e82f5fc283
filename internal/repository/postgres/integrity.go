package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

// liveStatus matches rows whose approval was neither rejected nor expired.
const liveStatus = `approval_status NOT IN ('rejected', 'expired')`

func isLive(status string) bool {
	return status != model.ApprovalRejected && status != model.ApprovalExpired
}

// lockRow locks an approval-gated row until the transaction ends and returns its status.
// table is never user input.
func lockRow(ctx context.Context, q querier, table, id string) (string, error) {
	var status string
	err := q.QueryRowContext(ctx, `SELECT approval_status FROM `+table+` WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	return status, err
}

// lockBatches locks batch rows in id order so that concurrent movements
// between the same batches queue instead of deadlocking.
func lockBatches(ctx context.Context, q querier, ids ...string) ([]string, error) {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	for _, id := range out {
		if _, err := lockRow(ctx, q, "batch_assigns", id); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// allotment caps the live rows of child drawing on one parent row.
type allotment struct {
	label    string
	parent   string
	capacity string // male, female capacity of the parent; $1 is its id
	child    string
	column   string
}

var (
	psAllotment = allotment{
		label:  "ps receive",
		parent: "ps_receives",
		capacity: `
			SELECT COALESCE((SELECT SUM(male_qty) FROM ps_chick_counts WHERE ps_receive_id = $1), 0)
					- COALESCE((SELECT SUM(male_qty) FROM ps_lab_transfers WHERE ps_receive_id = $1), 0),
				COALESCE((SELECT SUM(female_qty) FROM ps_chick_counts WHERE ps_receive_id = $1), 0)
					- COALESCE((SELECT SUM(female_qty) FROM ps_lab_transfers WHERE ps_receive_id = $1), 0)`,
		child:  "firm_receives",
		column: "ps_receive_id",
	}
	firmAllotment = allotment{
		label:    "firm receive",
		parent:   "firm_receives",
		capacity: `SELECT male_qty, female_qty FROM firm_receives WHERE id = $1`,
		child:    "shed_receives",
		column:   "firm_receive_id",
	}
	shedAllotment = allotment{
		label:    "shed receive",
		parent:   "shed_receives",
		capacity: `SELECT male_qty, female_qty FROM shed_receives WHERE id = $1`,
		child:    "batch_assigns",
		column:   "shed_receive_id",
	}
)

// claim locks the parent for the rest of the transaction and refuses one that
// was rejected or expired. Call it before writing a child and verify after.
func (a allotment) claim(ctx context.Context, q querier, parentID string) error {
	status, err := lockRow(ctx, q, a.parent, parentID)
	if err != nil {
		return err
	}
	if !isLive(status) {
		return fmt.Errorf("%s is %s: %w", a.label, status, repository.ErrOverdrawn)
	}
	return nil
}

// verify fails with repository.ErrOverdrawn when the live children of the parent exceed its capacity.
func (a allotment) verify(ctx context.Context, q querier, parentID string) error {
	var male, female int
	if err := q.QueryRowContext(ctx, a.capacity, parentID).Scan(&male, &female); err != nil {
		return err
	}
	capacity := model.NewHeadCount(male, female)
	used, err := sumQuantity(ctx, q, a.child, a.column, parentID, "")
	if err != nil {
		return err
	}
	if !used.Fits(capacity) {
		return fmt.Errorf("%s holds %d/%d but %d/%d is drawn from it: %w",
			a.label, capacity.Male, capacity.Female, used.Male, used.Female, repository.ErrOverdrawn)
	}
	return nil
}

// verifyBalances fails with repository.ErrOverdrawn when any batch would hold a negative live count.
func verifyBalances(ctx context.Context, q querier, ids ...string) error {
	for _, id := range ids {
		bal, err := queryBalance(ctx, q, id)
		if err != nil {
			return err
		}
		if bal.Live.Negative() {
			return fmt.Errorf("batch would hold %d/%d live birds: %w", bal.Live.Male, bal.Live.Female, repository.ErrOverdrawn)
		}
	}
	return nil
}

// dependentQueries count the live records drawing on a row of each approval table. $1 is the row id.
var dependentQueries = map[string]string{
	"ps_receives":   `SELECT COUNT(*) FROM firm_receives WHERE ps_receive_id = $1 AND ` + liveStatus,
	"firm_receives": `SELECT COUNT(*) FROM shed_receives WHERE firm_receive_id = $1 AND ` + liveStatus,
	"shed_receives": `SELECT COUNT(*) FROM batch_assigns WHERE shed_receive_id = $1 AND ` + liveStatus,
	"batch_assigns": `
		SELECT (SELECT COUNT(*) FROM bird_transfers WHERE (batch_assign_id = $1 OR to_batch_assign_id = $1) AND ` + liveStatus + `)
			+ (SELECT COUNT(*) FROM daily_operations WHERE batch_assign_id = $1)
			+ (SELECT COUNT(*) FROM egg_classifications WHERE batch_assign_id = $1)
			+ (SELECT COUNT(*) FROM vaccine_schedules WHERE batch_assign_id = $1)`,
}

// checkWithdrawal refuses to reject or expire a row that live records still draw on.
// A transfer is withdrawable while its destination batch can give the birds back.
func checkWithdrawal(ctx context.Context, q querier, table, id string) error {
	if table == "bird_transfers" {
		return checkTransferWithdrawal(ctx, q, id)
	}
	query, ok := dependentQueries[table]
	if !ok {
		return nil
	}
	var n int
	if err := q.QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%d live records still depend on it: %w", n, repository.ErrLiveDependents)
	}
	return nil
}

func checkTransferWithdrawal(ctx context.Context, q querier, id string) error {
	var (
		dest         sql.NullString
		male, female int
	)
	err := q.QueryRowContext(ctx, `SELECT to_batch_assign_id, net_male, net_female FROM bird_transfers WHERE id = $1`, id).
		Scan(&dest, &male, &female)
	if err != nil || !dest.Valid {
		return err
	}
	if _, err := lockBatches(ctx, q, dest.String); err != nil {
		return err
	}
	bal, err := queryBalance(ctx, q, dest.String)
	if err != nil {
		return err
	}
	if left := bal.Live.Sub(model.NewHeadCount(male, female)); left.Negative() {
		return fmt.Errorf("the destination batch has already used the transferred birds (%d/%d short): %w",
			-min(left.Male, 0), -min(left.Female, 0), repository.ErrLiveDependents)
	}
	return nil
}

// dropPendingRequests removes the open approval requests of a record being deleted.
// Decided requests stay as history.
func dropPendingRequests(ctx context.Context, q querier, module, referenceID string) error {
	_, err := q.ExecContext(ctx,
		`DELETE FROM approval_requests WHERE module = $1 AND reference_id = $2 AND status = $3`,
		module, referenceID, model.ApprovalPending)
	return err
}

// deleteGated deletes an approval-gated row together with its pending requests.
func deleteGated(ctx context.Context, db *sql.DB, module, id string) error {
	table := approvalTables[module]
	return withTx(ctx, db, func(tx *sql.Tx) error {
		if err := dropPendingRequests(ctx, tx, module, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}
