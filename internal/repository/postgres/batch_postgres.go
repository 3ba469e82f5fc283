package postgres

import (
	"context"
	"database/sql"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

// BatchAssignPostgres is a PostgreSQL implementation of repository.BatchAssignRepository.
type BatchAssignPostgres struct {
	db *sql.DB
}

// NewBatchAssignPostgres creates a new BatchAssignPostgres repository.
func NewBatchAssignPostgres(db *sql.DB) *BatchAssignPostgres {
	return &BatchAssignPostgres{db: db}
}

var _ repository.BatchAssignRepository = (*BatchAssignPostgres)(nil)

const batchAssignColumns = `id, shed_receive_id, shed_id, level, batch_no, assign_date, male_qty, female_qty, total_qty,
	remarks, approval_status, created_by, created_at, updated_at`

func scanBatchAssign(row interface{ Scan(...any) error }) (*model.BatchAssign, error) {
	var (
		b         model.BatchAssign
		createdBy sql.NullString
	)
	err := row.Scan(&b.ID, &b.ShedReceiveID, &b.ShedID, &b.Level, &b.BatchNo, &b.AssignDate,
		&b.Quantity.Male, &b.Quantity.Female, &b.Quantity.Total,
		&b.Remarks, &b.ApprovalStatus, &createdBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.CreatedBy = createdBy.String
	return &b, nil
}

func (r *BatchAssignPostgres) Create(ctx context.Context, b *model.BatchAssign) (*model.BatchAssign, error) {
	const q = `
		INSERT INTO batch_assigns (id, shed_receive_id, shed_id, level, batch_no, assign_date,
			male_qty, female_qty, total_qty, remarks, approval_status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + batchAssignColumns

	var out *model.BatchAssign
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := shedAllotment.claim(ctx, tx, b.ShedReceiveID); err != nil {
			return err
		}
		var err error
		out, err = scanBatchAssign(tx.QueryRowContext(ctx, q,
			b.ID, b.ShedReceiveID, b.ShedID, b.Level, b.BatchNo, b.AssignDate,
			b.Quantity.Male, b.Quantity.Female, b.Quantity.Total,
			b.Remarks, b.ApprovalStatus, nullable(b.CreatedBy), b.CreatedAt, b.UpdatedAt))
		if err != nil {
			return err
		}
		return shedAllotment.verify(ctx, tx, b.ShedReceiveID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BatchAssignPostgres) FindByID(ctx context.Context, id string) (*model.BatchAssign, error) {
	return scanBatchAssign(r.db.QueryRowContext(ctx, `SELECT `+batchAssignColumns+` FROM batch_assigns WHERE id = $1`, id))
}

func (r *BatchAssignPostgres) List(ctx context.Context, shedReceiveID string, pq repository.PageQuery) (*repository.PageResult[model.BatchAssign], error) {
	var w where
	w.eq("shed_receive_id", shedReceiveID)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM batch_assigns`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, err
	}
	suffix, args := w.page(pq)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+batchAssignColumns+` FROM batch_assigns`+w.sql()+` ORDER BY assign_date DESC, batch_no`+suffix, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.BatchAssign, 0)
	for rows.Next() {
		b, err := scanBatchAssign(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.BatchAssign]{Items: items, Total: total}, nil
}

func (r *BatchAssignPostgres) Update(ctx context.Context, b *model.BatchAssign) (*model.BatchAssign, error) {
	const q = `
		UPDATE batch_assigns SET shed_receive_id = $2, shed_id = $3, level = $4, batch_no = $5, assign_date = $6,
			male_qty = $7, female_qty = $8, total_qty = $9, remarks = $10, updated_at = $11
		WHERE id = $1
		RETURNING ` + batchAssignColumns

	var out *model.BatchAssign
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := shedAllotment.claim(ctx, tx, b.ShedReceiveID); err != nil {
			return err
		}
		var err error
		out, err = scanBatchAssign(tx.QueryRowContext(ctx, q,
			b.ID, b.ShedReceiveID, b.ShedID, b.Level, b.BatchNo, b.AssignDate,
			b.Quantity.Male, b.Quantity.Female, b.Quantity.Total, b.Remarks, b.UpdatedAt))
		if err != nil {
			return err
		}
		if err := shedAllotment.verify(ctx, tx, b.ShedReceiveID); err != nil {
			return err
		}
		return verifyBalances(ctx, tx, b.ID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BatchAssignPostgres) Delete(ctx context.Context, id string) error {
	return deleteGated(ctx, r.db, model.ModuleBatchAssign, id)
}

func (r *BatchAssignPostgres) SetApprovalStatus(ctx context.Context, id, status string) error {
	return setApprovalStatus(ctx, r.db, "batch_assigns", id, status)
}

func (r *BatchAssignPostgres) SumByShedReceive(ctx context.Context, shedReceiveID, excludeID string) (model.HeadCount, error) {
	return sumQuantity(ctx, r.db, "batch_assigns", "shed_receive_id", shedReceiveID, excludeID)
}

// balanceQuery aggregates every movement of one batch. Rejected and expired transfers are ignored.
const balanceQuery = `
	SELECT b.male_qty, b.female_qty,
		COALESCE(d.mort_m, 0), COALESCE(d.mort_f, 0),
		COALESCE(d.cull_m, 0), COALESCE(d.cull_f, 0),
		COALESCE(o.out_m, 0), COALESCE(o.out_f, 0),
		COALESCE(i.in_m, 0), COALESCE(i.in_f, 0)
	FROM batch_assigns b
	LEFT JOIN (
		SELECT batch_assign_id,
			SUM(mortality_male) AS mort_m, SUM(mortality_female) AS mort_f,
			SUM(culling_male) AS cull_m, SUM(culling_female) AS cull_f
		FROM daily_operations GROUP BY batch_assign_id
	) d ON d.batch_assign_id = b.id
	LEFT JOIN (
		SELECT batch_assign_id, SUM(recorded_male) AS out_m, SUM(recorded_female) AS out_f
		FROM bird_transfers WHERE approval_status NOT IN ('rejected', 'expired') GROUP BY batch_assign_id
	) o ON o.batch_assign_id = b.id
	LEFT JOIN (
		SELECT to_batch_assign_id, SUM(net_male) AS in_m, SUM(net_female) AS in_f
		FROM bird_transfers WHERE approval_status NOT IN ('rejected', 'expired') AND to_batch_assign_id IS NOT NULL
		GROUP BY to_batch_assign_id
	) i ON i.to_batch_assign_id = b.id
	WHERE b.id = $1`

func (r *BatchAssignPostgres) Balance(ctx context.Context, id string) (*model.BatchBalance, error) {
	return queryBalance(ctx, r.db, id)
}

func queryBalance(ctx context.Context, q querier, id string) (*model.BatchBalance, error) {
	var am, af, mm, mf, cm, cf, om, of, im, inf int
	err := q.QueryRowContext(ctx, balanceQuery, id).Scan(&am, &af, &mm, &mf, &cm, &cf, &om, &of, &im, &inf)
	if err != nil {
		return nil, err
	}
	b := &model.BatchBalance{
		BatchAssignID:  id,
		Assigned:       model.NewHeadCount(am, af),
		Mortality:      model.NewHeadCount(mm, mf),
		Culling:        model.NewHeadCount(cm, cf),
		TransferredOut: model.NewHeadCount(om, of),
		TransferredIn:  model.NewHeadCount(im, inf),
	}
	b.Compute()
	return b, nil
}

// BirdTransferPostgres is a PostgreSQL implementation of repository.BirdTransferRepository.
type BirdTransferPostgres struct {
	db *sql.DB
}

// NewBirdTransferPostgres creates a new BirdTransferPostgres repository.
func NewBirdTransferPostgres(db *sql.DB) *BirdTransferPostgres {
	return &BirdTransferPostgres{db: db}
}

var _ repository.BirdTransferRepository = (*BirdTransferPostgres)(nil)

const birdTransferColumns = `id, batch_assign_id, to_batch_assign_id, from_company_id, from_shed_id, to_company_id, to_shed_id,
	transfer_date, recorded_male, recorded_female, recorded_total, mortality_male, mortality_female, mortality_total,
	excess_male, excess_female, excess_total, shortage_male, shortage_female, shortage_total,
	net_male, net_female, net_total, remarks, approval_status, created_by, created_at, updated_at`

func scanBirdTransfer(row interface{ Scan(...any) error }) (*model.BirdTransfer, error) {
	var (
		t         model.BirdTransfer
		toBatch   sql.NullString
		createdBy sql.NullString
	)
	err := row.Scan(&t.ID, &t.BatchAssignID, &toBatch, &t.FromCompanyID, &t.FromShedID, &t.ToCompanyID, &t.ToShedID,
		&t.TransferDate,
		&t.Recorded.Male, &t.Recorded.Female, &t.Recorded.Total,
		&t.Mortality.Male, &t.Mortality.Female, &t.Mortality.Total,
		&t.Excess.Male, &t.Excess.Female, &t.Excess.Total,
		&t.Shortage.Male, &t.Shortage.Female, &t.Shortage.Total,
		&t.Net.Male, &t.Net.Female, &t.Net.Total,
		&t.Remarks, &t.ApprovalStatus, &createdBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.ToBatchAssignID = stringPtr(toBatch)
	t.CreatedBy = createdBy.String
	t.Deviation = t.Recorded.Sub(t.Net)
	return &t, nil
}

func birdTransferArgs(t *model.BirdTransfer) []any {
	return []any{
		t.ID, t.BatchAssignID, nullablePtr(t.ToBatchAssignID), t.FromCompanyID, t.FromShedID, t.ToCompanyID, t.ToShedID,
		t.TransferDate,
		t.Recorded.Male, t.Recorded.Female, t.Recorded.Total,
		t.Mortality.Male, t.Mortality.Female, t.Mortality.Total,
		t.Excess.Male, t.Excess.Female, t.Excess.Total,
		t.Shortage.Male, t.Shortage.Female, t.Shortage.Total,
		t.Net.Male, t.Net.Female, t.Net.Total,
		t.Remarks,
	}
}

func (r *BirdTransferPostgres) Create(ctx context.Context, t *model.BirdTransfer) (*model.BirdTransfer, error) {
	const q = `
		INSERT INTO bird_transfers (id, batch_assign_id, to_batch_assign_id, from_company_id, from_shed_id, to_company_id, to_shed_id,
			transfer_date, recorded_male, recorded_female, recorded_total, mortality_male, mortality_female, mortality_total,
			excess_male, excess_female, excess_total, shortage_male, shortage_female, shortage_total,
			net_male, net_female, net_total, remarks, approval_status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28)
		RETURNING ` + birdTransferColumns
	args := append(birdTransferArgs(t), t.ApprovalStatus, nullable(t.CreatedBy), t.CreatedAt, t.UpdatedAt)

	var out *model.BirdTransfer
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := lockBatches(ctx, tx, t.BatchAssignID, derefString(t.ToBatchAssignID)); err != nil {
			return err
		}
		var err error
		if out, err = scanBirdTransfer(tx.QueryRowContext(ctx, q, args...)); err != nil {
			return err
		}
		return verifyBalances(ctx, tx, t.BatchAssignID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// lockTransfer locks a transfer row and returns the batches it moves birds between.
func lockTransfer(ctx context.Context, q querier, id string) (from, to string, err error) {
	var dest sql.NullString
	err = q.QueryRowContext(ctx,
		`SELECT batch_assign_id, to_batch_assign_id FROM bird_transfers WHERE id = $1 FOR UPDATE`, id).Scan(&from, &dest)
	return from, dest.String, err
}

func (r *BirdTransferPostgres) FindByID(ctx context.Context, id string) (*model.BirdTransfer, error) {
	return scanBirdTransfer(r.db.QueryRowContext(ctx, `SELECT `+birdTransferColumns+` FROM bird_transfers WHERE id = $1`, id))
}

func (r *BirdTransferPostgres) List(ctx context.Context, batchAssignID string, dr repository.DateRange, pq repository.PageQuery) (*repository.PageResult[model.BirdTransfer], error) {
	var w where
	if batchAssignID != "" {
		w.add("(batch_assign_id = ? OR to_batch_assign_id = ?)", batchAssignID)
	}
	w.dateRange("transfer_date", dr)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bird_transfers`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, err
	}
	suffix, args := w.page(pq)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+birdTransferColumns+` FROM bird_transfers`+w.sql()+` ORDER BY transfer_date DESC, id`+suffix, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.BirdTransfer, 0)
	for rows.Next() {
		t, err := scanBirdTransfer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.BirdTransfer]{Items: items, Total: total}, nil
}

func (r *BirdTransferPostgres) Update(ctx context.Context, t *model.BirdTransfer) (*model.BirdTransfer, error) {
	const q = `
		UPDATE bird_transfers SET batch_assign_id = $2, to_batch_assign_id = $3, from_company_id = $4, from_shed_id = $5,
			to_company_id = $6, to_shed_id = $7, transfer_date = $8,
			recorded_male = $9, recorded_female = $10, recorded_total = $11,
			mortality_male = $12, mortality_female = $13, mortality_total = $14,
			excess_male = $15, excess_female = $16, excess_total = $17,
			shortage_male = $18, shortage_female = $19, shortage_total = $20,
			net_male = $21, net_female = $22, net_total = $23, remarks = $24, updated_at = $25
		WHERE id = $1
		RETURNING ` + birdTransferColumns
	args := append(birdTransferArgs(t), t.UpdatedAt)

	var out *model.BirdTransfer
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		from, to, err := lockTransfer(ctx, tx, t.ID)
		if err != nil {
			return err
		}
		ids, err := lockBatches(ctx, tx, from, to, t.BatchAssignID, derefString(t.ToBatchAssignID))
		if err != nil {
			return err
		}
		if out, err = scanBirdTransfer(tx.QueryRowContext(ctx, q, args...)); err != nil {
			return err
		}
		return verifyBalances(ctx, tx, ids...)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the transfer and its pending requests, refusing when the
// destination batch has already used the birds.
func (r *BirdTransferPostgres) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, to, err := lockTransfer(ctx, tx, id)
		if err != nil {
			return err
		}
		ids, err := lockBatches(ctx, tx, to)
		if err != nil {
			return err
		}
		if err := dropPendingRequests(ctx, tx, model.ModuleBirdTransfer, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM bird_transfers WHERE id = $1`, id); err != nil {
			return err
		}
		return verifyBalances(ctx, tx, ids...)
	})
}

func (r *BirdTransferPostgres) SetApprovalStatus(ctx context.Context, id, status string) error {
	return setApprovalStatus(ctx, r.db, "bird_transfers", id, status)
}
