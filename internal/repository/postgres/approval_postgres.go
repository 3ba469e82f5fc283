package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

// approvalTables maps an approval module to the table whose approval_status it drives.
var approvalTables = map[string]string{
	model.ModulePsReceive:    "ps_receives",
	model.ModuleFirmReceive:  "firm_receives",
	model.ModuleShedReceive:  "shed_receives",
	model.ModuleBatchAssign:  "batch_assigns",
	model.ModuleBirdTransfer: "bird_transfers",
}

// ApprovalPostgres is a PostgreSQL implementation of repository.ApprovalRepository.
type ApprovalPostgres struct {
	db *sql.DB
}

// NewApprovalPostgres creates a new ApprovalPostgres repository.
func NewApprovalPostgres(db *sql.DB) *ApprovalPostgres {
	return &ApprovalPostgres{db: db}
}

var _ repository.ApprovalRepository = (*ApprovalPostgres)(nil)

const approvalConfigColumns = `id, module, name, is_active, timeout_hours, created_at, updated_at`

const approvalLayerColumns = `id, config_id, layer_order, name, role, is_active, is_required`

const approvalRequestColumns = `id, config_id, module, reference_id, status, requested_by, expires_at, completed_at, created_at, updated_at`

const approvalActionColumns = `id, request_id, layer_id, user_id, action, comment, created_at`

func scanApprovalConfig(row interface{ Scan(...any) error }) (*model.ApprovalMatrixConfig, error) {
	var c model.ApprovalMatrixConfig
	if err := row.Scan(&c.ID, &c.Module, &c.Name, &c.IsActive, &c.TimeoutHours, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanApprovalRequest(row interface{ Scan(...any) error }) (*model.ApprovalRequest, error) {
	var (
		r           model.ApprovalRequest
		requestedBy sql.NullString
		expiresAt   sql.NullTime
		completedAt sql.NullTime
	)
	err := row.Scan(&r.ID, &r.ConfigID, &r.Module, &r.ReferenceID, &r.Status, &requestedBy,
		&expiresAt, &completedAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.RequestedBy = stringPtr(requestedBy)
	if expiresAt.Valid {
		t := expiresAt.Time
		r.ExpiresAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
	}
	return &r, nil
}

func loadLayers(ctx context.Context, q querier, configID string) ([]model.ApprovalMatrixLayer, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+approvalLayerColumns+` FROM approval_matrix_layers WHERE config_id = $1 ORDER BY layer_order`, configID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ApprovalMatrixLayer, 0)
	for rows.Next() {
		var l model.ApprovalMatrixLayer
		if err := rows.Scan(&l.ID, &l.ConfigID, &l.LayerOrder, &l.Name, &l.Role, &l.IsActive, &l.IsRequired); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func loadActions(ctx context.Context, q querier, requestID string) ([]model.ApprovalAction, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+approvalActionColumns+` FROM approval_actions WHERE request_id = $1 ORDER BY created_at, id`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ApprovalAction, 0)
	for rows.Next() {
		var a model.ApprovalAction
		if err := rows.Scan(&a.ID, &a.RequestID, &a.LayerID, &a.UserID, &a.Action, &a.Comment, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ApprovalPostgres) CreateConfig(ctx context.Context, c *model.ApprovalMatrixConfig) (*model.ApprovalMatrixConfig, error) {
	const q = `
		INSERT INTO approval_matrix_configs (id, module, name, is_active, timeout_hours, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + approvalConfigColumns
	const layerQ = `
		INSERT INTO approval_matrix_layers (id, config_id, layer_order, name, role, is_active, is_required)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	var out *model.ApprovalMatrixConfig
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		out, err = scanApprovalConfig(tx.QueryRowContext(ctx, q, c.ID, c.Module, c.Name, c.IsActive, c.TimeoutHours, c.CreatedAt, c.UpdatedAt))
		if err != nil {
			return err
		}
		out.Layers = make([]model.ApprovalMatrixLayer, 0, len(c.Layers))
		for _, l := range c.Layers {
			l.ConfigID = c.ID
			if _, err := tx.ExecContext(ctx, layerQ, l.ID, c.ID, l.LayerOrder, l.Name, l.Role, l.IsActive, l.IsRequired); err != nil {
				return err
			}
			out.Layers = append(out.Layers, l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ApprovalPostgres) UpdateConfig(ctx context.Context, c *model.ApprovalMatrixConfig) (*model.ApprovalMatrixConfig, error) {
	const q = `
		UPDATE approval_matrix_configs SET module = $2, name = $3, is_active = $4, timeout_hours = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + approvalConfigColumns
	const upsertQ = `
		INSERT INTO approval_matrix_layers (id, config_id, layer_order, name, role, is_active, is_required)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (config_id, layer_order)
		DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role, is_active = EXCLUDED.is_active, is_required = EXCLUDED.is_required`

	var out *model.ApprovalMatrixConfig
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		out, err = scanApprovalConfig(tx.QueryRowContext(ctx, q, c.ID, c.Module, c.Name, c.IsActive, c.TimeoutHours, c.UpdatedAt))
		if err != nil {
			return err
		}

		deactivate := `UPDATE approval_matrix_layers SET is_active = false WHERE config_id = $1`
		args := []any{c.ID}
		placeholders := make([]string, 0, len(c.Layers))
		for _, l := range c.Layers {
			if _, err := tx.ExecContext(ctx, upsertQ, l.ID, c.ID, l.LayerOrder, l.Name, l.Role, l.IsActive, l.IsRequired); err != nil {
				return err
			}
			args = append(args, l.LayerOrder)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		if len(placeholders) > 0 {
			deactivate += ` AND layer_order NOT IN (` + strings.Join(placeholders, ", ") + `)`
		}
		if _, err := tx.ExecContext(ctx, deactivate, args...); err != nil {
			return err
		}

		out.Layers, err = loadLayers(ctx, tx, c.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ApprovalPostgres) FindConfig(ctx context.Context, id string) (*model.ApprovalMatrixConfig, error) {
	c, err := scanApprovalConfig(r.db.QueryRowContext(ctx, `SELECT `+approvalConfigColumns+` FROM approval_matrix_configs WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if c.Layers, err = loadLayers(ctx, r.db, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ApprovalPostgres) FindActiveConfig(ctx context.Context, module string) (*model.ApprovalMatrixConfig, error) {
	c, err := scanApprovalConfig(r.db.QueryRowContext(ctx,
		`SELECT `+approvalConfigColumns+` FROM approval_matrix_configs WHERE module = $1 AND is_active`, module))
	if err != nil {
		return nil, err
	}
	if c.Layers, err = loadLayers(ctx, r.db, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ApprovalPostgres) ListConfigs(ctx context.Context, module string) ([]model.ApprovalMatrixConfig, error) {
	var w where
	w.eq("module", module)

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+approvalConfigColumns+` FROM approval_matrix_configs`+w.sql()+` ORDER BY module, created_at`, w.args...)
	if err != nil {
		return nil, err
	}
	out := make([]model.ApprovalMatrixConfig, 0)
	for rows.Next() {
		c, err := scanApprovalConfig(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, *c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if out[i].Layers, err = loadLayers(ctx, r.db, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *ApprovalPostgres) DeleteConfig(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM approval_matrix_configs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *ApprovalPostgres) CreateRequest(ctx context.Context, req *model.ApprovalRequest) (*model.ApprovalRequest, error) {
	const q = `
		INSERT INTO approval_requests (id, config_id, module, reference_id, status, requested_by, expires_at, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + approvalRequestColumns

	var expiresAt, completedAt any
	if req.ExpiresAt != nil {
		expiresAt = *req.ExpiresAt
	}
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}
	out, err := scanApprovalRequest(r.db.QueryRowContext(ctx, q,
		req.ID, req.ConfigID, req.Module, req.ReferenceID, req.Status, nullablePtr(req.RequestedBy),
		expiresAt, completedAt, req.CreatedAt, req.UpdatedAt))
	if err != nil {
		return nil, err
	}
	out.Layers = req.Layers
	out.Actions = make([]model.ApprovalAction, 0)
	return out, nil
}

// hydrate loads the config layers and recorded actions of each request.
func hydrate(ctx context.Context, q querier, reqs []model.ApprovalRequest) error {
	for i := range reqs {
		var err error
		if reqs[i].Layers, err = loadLayers(ctx, q, reqs[i].ConfigID); err != nil {
			return err
		}
		if reqs[i].Actions, err = loadActions(ctx, q, reqs[i].ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ApprovalPostgres) FindRequest(ctx context.Context, id string) (*model.ApprovalRequest, error) {
	req, err := scanApprovalRequest(r.db.QueryRowContext(ctx, `SELECT `+approvalRequestColumns+` FROM approval_requests WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	reqs := []model.ApprovalRequest{*req}
	if err := hydrate(ctx, r.db, reqs); err != nil {
		return nil, err
	}
	return &reqs[0], nil
}

func queryRequests(ctx context.Context, q querier, query string, args ...any) ([]model.ApprovalRequest, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ApprovalRequest, 0)
	for rows.Next() {
		req, err := scanApprovalRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}

func (r *ApprovalPostgres) ListRequests(ctx context.Context, f repository.ApprovalFilter, pq repository.PageQuery) (*repository.PageResult[model.ApprovalRequest], error) {
	var w where
	w.eq("status", f.Status)
	w.eq("module", f.Module)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM approval_requests`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, err
	}
	suffix, args := w.page(pq)
	items, err := queryRequests(ctx, r.db,
		`SELECT `+approvalRequestColumns+` FROM approval_requests`+w.sql()+` ORDER BY created_at DESC, id`+suffix, args...)
	if err != nil {
		return nil, err
	}
	if err := hydrate(ctx, r.db, items); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.ApprovalRequest]{Items: items, Total: total}, nil
}

func (r *ApprovalPostgres) ListPendingWithLayers(ctx context.Context) ([]model.ApprovalRequest, error) {
	items, err := queryRequests(ctx, r.db,
		`SELECT `+approvalRequestColumns+` FROM approval_requests WHERE status = $1 ORDER BY created_at, id`, model.ApprovalPending)
	if err != nil {
		return nil, err
	}
	if err := hydrate(ctx, r.db, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ApprovalPostgres) Decide(ctx context.Context, requestID string, fn repository.DecideFunc) (*model.ApprovalRequest, error) {
	const insertAction = `
		INSERT INTO approval_actions (id, request_id, layer_id, user_id, action, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	const updateStatus = `
		UPDATE approval_requests SET status = $2, completed_at = $3, updated_at = now()
		WHERE id = $1`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	req, err := scanApprovalRequest(tx.QueryRowContext(ctx,
		`SELECT `+approvalRequestColumns+` FROM approval_requests WHERE id = $1 FOR UPDATE`, requestID))
	if err != nil {
		return nil, err
	}
	reqs := []model.ApprovalRequest{*req}
	if err := hydrate(ctx, tx, reqs); err != nil {
		return nil, err
	}
	req = &reqs[0]

	decision, fnErr := fn(req)
	if decision == nil {
		return nil, fnErr
	}

	if a := decision.Action; a != nil {
		if _, err := tx.ExecContext(ctx, insertAction, a.ID, req.ID, a.LayerID, a.UserID, a.Action, a.Comment, a.CreatedAt); err != nil {
			return nil, err
		}
		a.RequestID = req.ID
		req.Actions = append(req.Actions, *a)
	}

	var completedAt any
	if decision.CompletedAt != nil {
		completedAt = *decision.CompletedAt
	}
	if _, err := tx.ExecContext(ctx, updateStatus, req.ID, decision.Status, completedAt); err != nil {
		return nil, err
	}
	req.Status = decision.Status
	req.CompletedAt = decision.CompletedAt

	if decision.Status != model.ApprovalPending {
		if err := propagateStatus(ctx, tx, req.Module, req.ReferenceID, decision.Status); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return req, fnErr
}

// propagateStatus writes a final approval status onto the referenced record.
// A record deleted since submission is not an error. Rejecting or expiring a
// record that live records still draw on fails with repository.ErrLiveDependents
// before anything is written.
func propagateStatus(ctx context.Context, q querier, module, referenceID, status string) error {
	table, ok := approvalTables[module]
	if !ok {
		return fmt.Errorf("unknown approval module %q", module)
	}
	current, err := lockRow(ctx, q, table, referenceID)
	if repository.IsNoRows(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !isLive(status) && isLive(current) {
		if err := checkWithdrawal(ctx, q, table, referenceID); err != nil {
			return err
		}
	}
	_, err = q.ExecContext(ctx, `UPDATE `+table+` SET approval_status = $2, updated_at = now() WHERE id = $1`, referenceID, status)
	return err
}

// ExpireOverdue expires pending requests whose deadline is at or before now.
// A request whose record still has live dependents stays pending and is
// retried on the next sweep.
func (r *ApprovalPostgres) ExpireOverdue(ctx context.Context, now time.Time) ([]model.ApprovalRequest, error) {
	const overdue = `
		SELECT ` + approvalRequestColumns + ` FROM approval_requests
		WHERE status = $1 AND expires_at IS NOT NULL AND expires_at <= $2
		ORDER BY expires_at, id
		FOR UPDATE SKIP LOCKED`
	const expire = `
		UPDATE approval_requests SET status = $2, completed_at = $3, updated_at = $3
		WHERE id = $1`

	var out []model.ApprovalRequest
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		due, err := queryRequests(ctx, tx, overdue, model.ApprovalPending, now)
		if err != nil {
			return err
		}
		out = make([]model.ApprovalRequest, 0, len(due))
		for _, req := range due {
			err := propagateStatus(ctx, tx, req.Module, req.ReferenceID, model.ApprovalExpired)
			if errors.Is(err, repository.ErrLiveDependents) {
				continue
			}
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, expire, req.ID, model.ApprovalExpired, now); err != nil {
				return err
			}
			completed := now
			req.Status = model.ApprovalExpired
			req.CompletedAt = &completed
			req.UpdatedAt = now
			out = append(out, req)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ApprovalPostgres) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM approval_requests WHERE status = $1`, model.ApprovalPending).Scan(&n)
	return n, err
}
