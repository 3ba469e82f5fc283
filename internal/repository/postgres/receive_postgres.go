package postgres

import (
	"context"
	"database/sql"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

// PsReceivePostgres is a PostgreSQL implementation of repository.PsReceiveRepository.
type PsReceivePostgres struct {
	db *sql.DB
}

// NewPsReceivePostgres creates a new PsReceivePostgres repository.
func NewPsReceivePostgres(db *sql.DB) *PsReceivePostgres {
	return &PsReceivePostgres{db: db}
}

var _ repository.PsReceiveRepository = (*PsReceivePostgres)(nil)

const psReceiveColumns = `id, shipment_no, supplier, breed, receive_date, company_id,
	challan_male, challan_female, challan_total, remarks, approval_status, created_by, created_at, updated_at`

func scanPsReceive(row interface{ Scan(...any) error }) (*model.PsReceive, error) {
	var (
		p         model.PsReceive
		createdBy sql.NullString
	)
	err := row.Scan(&p.ID, &p.ShipmentNo, &p.Supplier, &p.Breed, &p.ReceiveDate, &p.CompanyID,
		&p.Challan.Male, &p.Challan.Female, &p.Challan.Total,
		&p.Remarks, &p.ApprovalStatus, &createdBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.CreatedBy = createdBy.String
	return &p, nil
}

func (r *PsReceivePostgres) Create(ctx context.Context, p *model.PsReceive) (*model.PsReceive, error) {
	const q = `
		INSERT INTO ps_receives (id, shipment_no, supplier, breed, receive_date, company_id,
			challan_male, challan_female, challan_total, remarks, approval_status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + psReceiveColumns

	var out *model.PsReceive
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		out, err = scanPsReceive(tx.QueryRowContext(ctx, q,
			p.ID, p.ShipmentNo, p.Supplier, p.Breed, p.ReceiveDate, p.CompanyID,
			p.Challan.Male, p.Challan.Female, p.Challan.Total,
			p.Remarks, p.ApprovalStatus, nullable(p.CreatedBy), p.CreatedAt, p.UpdatedAt))
		if err != nil {
			return err
		}
		out.ChickCounts, out.LabTransfers, err = insertPsChildren(ctx, tx, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func insertPsChildren(ctx context.Context, tx *sql.Tx, p *model.PsReceive) ([]model.PsChickCount, []model.PsLabTransfer, error) {
	const countQ = `
		INSERT INTO ps_chick_counts (id, ps_receive_id, box_label, male_qty, female_qty, total_qty)
		VALUES ($1, $2, $3, $4, $5, $6)`
	const labQ = `
		INSERT INTO ps_lab_transfers (id, ps_receive_id, lab_name, purpose, transfer_date, male_qty, female_qty, total_qty)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	counts := make([]model.PsChickCount, 0, len(p.ChickCounts))
	for _, c := range p.ChickCounts {
		c.PsReceiveID = p.ID
		if _, err := tx.ExecContext(ctx, countQ, c.ID, p.ID, c.BoxLabel, c.Count.Male, c.Count.Female, c.Count.Total); err != nil {
			return nil, nil, err
		}
		counts = append(counts, c)
	}
	labs := make([]model.PsLabTransfer, 0, len(p.LabTransfers))
	for _, l := range p.LabTransfers {
		l.PsReceiveID = p.ID
		if _, err := tx.ExecContext(ctx, labQ, l.ID, p.ID, l.LabName, l.Purpose, l.TransferDate, l.Count.Male, l.Count.Female, l.Count.Total); err != nil {
			return nil, nil, err
		}
		labs = append(labs, l)
	}
	return counts, labs, nil
}

func (r *PsReceivePostgres) FindByID(ctx context.Context, id string) (*model.PsReceive, error) {
	p, err := scanPsReceive(r.db.QueryRowContext(ctx, `SELECT `+psReceiveColumns+` FROM ps_receives WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, ps_receive_id, box_label, male_qty, female_qty, total_qty
		FROM ps_chick_counts WHERE ps_receive_id = $1 ORDER BY box_label, id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	p.ChickCounts = make([]model.PsChickCount, 0)
	for rows.Next() {
		var c model.PsChickCount
		if err := rows.Scan(&c.ID, &c.PsReceiveID, &c.BoxLabel, &c.Count.Male, &c.Count.Female, &c.Count.Total); err != nil {
			return nil, err
		}
		p.ChickCounts = append(p.ChickCounts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	labRows, err := r.db.QueryContext(ctx, `
		SELECT id, ps_receive_id, lab_name, purpose, transfer_date, male_qty, female_qty, total_qty
		FROM ps_lab_transfers WHERE ps_receive_id = $1 ORDER BY transfer_date, id`, id)
	if err != nil {
		return nil, err
	}
	defer labRows.Close()
	p.LabTransfers = make([]model.PsLabTransfer, 0)
	for labRows.Next() {
		var l model.PsLabTransfer
		if err := labRows.Scan(&l.ID, &l.PsReceiveID, &l.LabName, &l.Purpose, &l.TransferDate, &l.Count.Male, &l.Count.Female, &l.Count.Total); err != nil {
			return nil, err
		}
		p.LabTransfers = append(p.LabTransfers, l)
	}
	if err := labRows.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PsReceivePostgres) List(ctx context.Context, dr repository.DateRange, pq repository.PageQuery) (*repository.PageResult[model.PsReceive], error) {
	var w where
	w.dateRange("receive_date", dr)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ps_receives`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, err
	}
	suffix, args := w.page(pq)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+psReceiveColumns+` FROM ps_receives`+w.sql()+` ORDER BY receive_date DESC, id`+suffix, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.PsReceive, 0)
	for rows.Next() {
		p, err := scanPsReceive(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.PsReceive]{Items: items, Total: total}, nil
}

func (r *PsReceivePostgres) Update(ctx context.Context, p *model.PsReceive) (*model.PsReceive, error) {
	const q = `
		UPDATE ps_receives SET shipment_no = $2, supplier = $3, breed = $4, receive_date = $5, company_id = $6,
			challan_male = $7, challan_female = $8, challan_total = $9, remarks = $10, updated_at = $11
		WHERE id = $1
		RETURNING ` + psReceiveColumns

	var out *model.PsReceive
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		out, err = scanPsReceive(tx.QueryRowContext(ctx, q,
			p.ID, p.ShipmentNo, p.Supplier, p.Breed, p.ReceiveDate, p.CompanyID,
			p.Challan.Male, p.Challan.Female, p.Challan.Total, p.Remarks, p.UpdatedAt))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM ps_chick_counts WHERE ps_receive_id = $1`, p.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM ps_lab_transfers WHERE ps_receive_id = $1`, p.ID); err != nil {
			return err
		}
		if out.ChickCounts, out.LabTransfers, err = insertPsChildren(ctx, tx, p); err != nil {
			return err
		}
		return psAllotment.verify(ctx, tx, p.ID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PsReceivePostgres) Delete(ctx context.Context, id string) error {
	return deleteGated(ctx, r.db, model.ModulePsReceive, id)
}

func (r *PsReceivePostgres) SetApprovalStatus(ctx context.Context, id, status string) error {
	return setApprovalStatus(ctx, r.db, "ps_receives", id, status)
}

// setApprovalStatus writes a record's approval_status. table is never user input.
func setApprovalStatus(ctx context.Context, q querier, table, id, status string) error {
	res, err := q.ExecContext(ctx, `UPDATE `+table+` SET approval_status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// sumQuantity totals male/female of rows in table whose parent column equals parentID,
// skipping excludeID and records whose approval was rejected or expired.
func sumQuantity(ctx context.Context, q querier, table, parentColumn, parentID, excludeID string) (model.HeadCount, error) {
	var male, female int
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(male_qty), 0), COALESCE(SUM(female_qty), 0)
		FROM `+table+`
		WHERE `+parentColumn+` = $1 AND ($2::uuid IS NULL OR id <> $2::uuid)
			AND approval_status NOT IN ('rejected', 'expired')`,
		parentID, nullable(excludeID)).Scan(&male, &female)
	if err != nil {
		return model.HeadCount{}, err
	}
	return model.NewHeadCount(male, female), nil
}

// FirmReceivePostgres is a PostgreSQL implementation of repository.FirmReceiveRepository.
type FirmReceivePostgres struct {
	db *sql.DB
}

// NewFirmReceivePostgres creates a new FirmReceivePostgres repository.
func NewFirmReceivePostgres(db *sql.DB) *FirmReceivePostgres {
	return &FirmReceivePostgres{db: db}
}

var _ repository.FirmReceiveRepository = (*FirmReceivePostgres)(nil)

const firmReceiveColumns = `id, ps_receive_id, company_id, receive_date, male_qty, female_qty, total_qty,
	remarks, approval_status, created_by, created_at, updated_at`

func scanFirmReceive(row interface{ Scan(...any) error }) (*model.FirmReceive, error) {
	var (
		f         model.FirmReceive
		createdBy sql.NullString
	)
	err := row.Scan(&f.ID, &f.PsReceiveID, &f.CompanyID, &f.ReceiveDate,
		&f.Quantity.Male, &f.Quantity.Female, &f.Quantity.Total,
		&f.Remarks, &f.ApprovalStatus, &createdBy, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	f.CreatedBy = createdBy.String
	return &f, nil
}

func (r *FirmReceivePostgres) Create(ctx context.Context, f *model.FirmReceive) (*model.FirmReceive, error) {
	const q = `
		INSERT INTO firm_receives (id, ps_receive_id, company_id, receive_date, male_qty, female_qty, total_qty,
			remarks, approval_status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + firmReceiveColumns

	var out *model.FirmReceive
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := psAllotment.claim(ctx, tx, f.PsReceiveID); err != nil {
			return err
		}
		var err error
		out, err = scanFirmReceive(tx.QueryRowContext(ctx, q,
			f.ID, f.PsReceiveID, f.CompanyID, f.ReceiveDate, f.Quantity.Male, f.Quantity.Female, f.Quantity.Total,
			f.Remarks, f.ApprovalStatus, nullable(f.CreatedBy), f.CreatedAt, f.UpdatedAt))
		if err != nil {
			return err
		}
		return psAllotment.verify(ctx, tx, f.PsReceiveID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *FirmReceivePostgres) FindByID(ctx context.Context, id string) (*model.FirmReceive, error) {
	return scanFirmReceive(r.db.QueryRowContext(ctx, `SELECT `+firmReceiveColumns+` FROM firm_receives WHERE id = $1`, id))
}

func (r *FirmReceivePostgres) List(ctx context.Context, psReceiveID string, pq repository.PageQuery) (*repository.PageResult[model.FirmReceive], error) {
	var w where
	w.eq("ps_receive_id", psReceiveID)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM firm_receives`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, err
	}
	suffix, args := w.page(pq)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+firmReceiveColumns+` FROM firm_receives`+w.sql()+` ORDER BY receive_date DESC, id`+suffix, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.FirmReceive, 0)
	for rows.Next() {
		f, err := scanFirmReceive(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.FirmReceive]{Items: items, Total: total}, nil
}

func (r *FirmReceivePostgres) Update(ctx context.Context, f *model.FirmReceive) (*model.FirmReceive, error) {
	const q = `
		UPDATE firm_receives SET ps_receive_id = $2, company_id = $3, receive_date = $4,
			male_qty = $5, female_qty = $6, total_qty = $7, remarks = $8, updated_at = $9
		WHERE id = $1
		RETURNING ` + firmReceiveColumns

	var out *model.FirmReceive
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := psAllotment.claim(ctx, tx, f.PsReceiveID); err != nil {
			return err
		}
		var err error
		out, err = scanFirmReceive(tx.QueryRowContext(ctx, q,
			f.ID, f.PsReceiveID, f.CompanyID, f.ReceiveDate, f.Quantity.Male, f.Quantity.Female, f.Quantity.Total,
			f.Remarks, f.UpdatedAt))
		if err != nil {
			return err
		}
		if err := psAllotment.verify(ctx, tx, f.PsReceiveID); err != nil {
			return err
		}
		return firmAllotment.verify(ctx, tx, f.ID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *FirmReceivePostgres) Delete(ctx context.Context, id string) error {
	return deleteGated(ctx, r.db, model.ModuleFirmReceive, id)
}

func (r *FirmReceivePostgres) SetApprovalStatus(ctx context.Context, id, status string) error {
	return setApprovalStatus(ctx, r.db, "firm_receives", id, status)
}

func (r *FirmReceivePostgres) SumByPsReceive(ctx context.Context, psReceiveID, excludeID string) (model.HeadCount, error) {
	return sumQuantity(ctx, r.db, "firm_receives", "ps_receive_id", psReceiveID, excludeID)
}

// ShedReceivePostgres is a PostgreSQL implementation of repository.ShedReceiveRepository.
type ShedReceivePostgres struct {
	db *sql.DB
}

// NewShedReceivePostgres creates a new ShedReceivePostgres repository.
func NewShedReceivePostgres(db *sql.DB) *ShedReceivePostgres {
	return &ShedReceivePostgres{db: db}
}

var _ repository.ShedReceiveRepository = (*ShedReceivePostgres)(nil)

const shedReceiveColumns = `id, firm_receive_id, shed_id, receive_date, male_qty, female_qty, total_qty,
	remarks, approval_status, created_by, created_at, updated_at`

func scanShedReceive(row interface{ Scan(...any) error }) (*model.ShedReceive, error) {
	var (
		s         model.ShedReceive
		createdBy sql.NullString
	)
	err := row.Scan(&s.ID, &s.FirmReceiveID, &s.ShedID, &s.ReceiveDate,
		&s.Quantity.Male, &s.Quantity.Female, &s.Quantity.Total,
		&s.Remarks, &s.ApprovalStatus, &createdBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.CreatedBy = createdBy.String
	return &s, nil
}

func (r *ShedReceivePostgres) Create(ctx context.Context, s *model.ShedReceive) (*model.ShedReceive, error) {
	const q = `
		INSERT INTO shed_receives (id, firm_receive_id, shed_id, receive_date, male_qty, female_qty, total_qty,
			remarks, approval_status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + shedReceiveColumns

	var out *model.ShedReceive
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := firmAllotment.claim(ctx, tx, s.FirmReceiveID); err != nil {
			return err
		}
		var err error
		out, err = scanShedReceive(tx.QueryRowContext(ctx, q,
			s.ID, s.FirmReceiveID, s.ShedID, s.ReceiveDate, s.Quantity.Male, s.Quantity.Female, s.Quantity.Total,
			s.Remarks, s.ApprovalStatus, nullable(s.CreatedBy), s.CreatedAt, s.UpdatedAt))
		if err != nil {
			return err
		}
		return firmAllotment.verify(ctx, tx, s.FirmReceiveID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ShedReceivePostgres) FindByID(ctx context.Context, id string) (*model.ShedReceive, error) {
	return scanShedReceive(r.db.QueryRowContext(ctx, `SELECT `+shedReceiveColumns+` FROM shed_receives WHERE id = $1`, id))
}

func (r *ShedReceivePostgres) List(ctx context.Context, firmReceiveID string, pq repository.PageQuery) (*repository.PageResult[model.ShedReceive], error) {
	var w where
	w.eq("firm_receive_id", firmReceiveID)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shed_receives`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, err
	}
	suffix, args := w.page(pq)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+shedReceiveColumns+` FROM shed_receives`+w.sql()+` ORDER BY receive_date DESC, id`+suffix, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ShedReceive, 0)
	for rows.Next() {
		s, err := scanShedReceive(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.ShedReceive]{Items: items, Total: total}, nil
}

func (r *ShedReceivePostgres) Update(ctx context.Context, s *model.ShedReceive) (*model.ShedReceive, error) {
	const q = `
		UPDATE shed_receives SET firm_receive_id = $2, shed_id = $3, receive_date = $4,
			male_qty = $5, female_qty = $6, total_qty = $7, remarks = $8, updated_at = $9
		WHERE id = $1
		RETURNING ` + shedReceiveColumns

	var out *model.ShedReceive
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := firmAllotment.claim(ctx, tx, s.FirmReceiveID); err != nil {
			return err
		}
		var err error
		out, err = scanShedReceive(tx.QueryRowContext(ctx, q,
			s.ID, s.FirmReceiveID, s.ShedID, s.ReceiveDate, s.Quantity.Male, s.Quantity.Female, s.Quantity.Total,
			s.Remarks, s.UpdatedAt))
		if err != nil {
			return err
		}
		if err := firmAllotment.verify(ctx, tx, s.FirmReceiveID); err != nil {
			return err
		}
		return shedAllotment.verify(ctx, tx, s.ID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ShedReceivePostgres) Delete(ctx context.Context, id string) error {
	return deleteGated(ctx, r.db, model.ModuleShedReceive, id)
}

func (r *ShedReceivePostgres) SetApprovalStatus(ctx context.Context, id, status string) error {
	return setApprovalStatus(ctx, r.db, "shed_receives", id, status)
}

func (r *ShedReceivePostgres) SumByFirmReceive(ctx context.Context, firmReceiveID, excludeID string) (model.HeadCount, error) {
	return sumQuantity(ctx, r.db, "shed_receives", "firm_receive_id", firmReceiveID, excludeID)
}
