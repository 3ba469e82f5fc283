package postgres

import (
	"context"
	"database/sql"
	"time"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

// VaccineSchedulePostgres is a PostgreSQL implementation of repository.VaccineScheduleRepository.
type VaccineSchedulePostgres struct {
	db *sql.DB
}

// NewVaccineSchedulePostgres creates a new VaccineSchedulePostgres repository.
func NewVaccineSchedulePostgres(db *sql.DB) *VaccineSchedulePostgres {
	return &VaccineSchedulePostgres{db: db}
}

var _ repository.VaccineScheduleRepository = (*VaccineSchedulePostgres)(nil)

const vaccineScheduleColumns = `id, batch_assign_id, title, start_date, remarks, created_by, created_at, updated_at`

const vaccineStageColumns = `id, schedule_id, stage_no, stage_name, age_days, vaccine_name, dose, route,
	scheduled_date, status, done_at, done_by, notes`

func scanVaccineSchedule(row interface{ Scan(...any) error }) (*model.VaccineSchedule, error) {
	var (
		s         model.VaccineSchedule
		createdBy sql.NullString
	)
	if err := row.Scan(&s.ID, &s.BatchAssignID, &s.Title, &s.StartDate, &s.Remarks, &createdBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.CreatedBy = createdBy.String
	return &s, nil
}

func vaccineStageDest(st *model.VaccineStage, doneAt *sql.NullTime, doneBy *sql.NullString) []any {
	return []any{&st.ID, &st.ScheduleID, &st.StageNo, &st.StageName, &st.AgeDays, &st.VaccineName, &st.Dose, &st.Route,
		&st.ScheduledDate, &st.Status, doneAt, doneBy, &st.Notes}
}

func finishStage(st *model.VaccineStage, doneAt sql.NullTime, doneBy sql.NullString) {
	if doneAt.Valid {
		t := doneAt.Time
		st.DoneAt = &t
	}
	st.DoneBy = stringPtr(doneBy)
}

func scanVaccineStage(row interface{ Scan(...any) error }) (*model.VaccineStage, error) {
	var (
		st     model.VaccineStage
		doneAt sql.NullTime
		doneBy sql.NullString
	)
	if err := row.Scan(vaccineStageDest(&st, &doneAt, &doneBy)...); err != nil {
		return nil, err
	}
	finishStage(&st, doneAt, doneBy)
	return &st, nil
}

func (r *VaccineSchedulePostgres) Create(ctx context.Context, s *model.VaccineSchedule) (*model.VaccineSchedule, error) {
	const q = `
		INSERT INTO vaccine_schedules (id, batch_assign_id, title, start_date, remarks, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + vaccineScheduleColumns

	var out *model.VaccineSchedule
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		out, err = scanVaccineSchedule(tx.QueryRowContext(ctx, q,
			s.ID, s.BatchAssignID, s.Title, s.StartDate, s.Remarks, nullable(s.CreatedBy), s.CreatedAt, s.UpdatedAt))
		if err != nil {
			return err
		}
		out.Stages, err = insertStages(ctx, tx, s)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func insertStages(ctx context.Context, tx *sql.Tx, s *model.VaccineSchedule) ([]model.VaccineStage, error) {
	const q = `
		INSERT INTO vaccine_stages (id, schedule_id, stage_no, stage_name, age_days, vaccine_name, dose, route,
			scheduled_date, status, done_at, done_by, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	out := make([]model.VaccineStage, 0, len(s.Stages))
	for _, st := range s.Stages {
		st.ScheduleID = s.ID
		var doneAt any
		if st.DoneAt != nil {
			doneAt = *st.DoneAt
		}
		_, err := tx.ExecContext(ctx, q, st.ID, s.ID, st.StageNo, st.StageName, st.AgeDays, st.VaccineName, st.Dose, st.Route,
			st.ScheduledDate, st.Status, doneAt, nullablePtr(st.DoneBy), st.Notes)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func (r *VaccineSchedulePostgres) FindByID(ctx context.Context, id string) (*model.VaccineSchedule, error) {
	s, err := scanVaccineSchedule(r.db.QueryRowContext(ctx, `SELECT `+vaccineScheduleColumns+` FROM vaccine_schedules WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+vaccineStageColumns+` FROM vaccine_stages WHERE schedule_id = $1 ORDER BY stage_no`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	s.Stages = make([]model.VaccineStage, 0)
	for rows.Next() {
		st, err := scanVaccineStage(rows)
		if err != nil {
			return nil, err
		}
		s.Stages = append(s.Stages, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *VaccineSchedulePostgres) List(ctx context.Context, batchAssignID string, pq repository.PageQuery) (*repository.PageResult[model.VaccineSchedule], error) {
	var w where
	w.eq("batch_assign_id", batchAssignID)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vaccine_schedules`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, err
	}
	suffix, args := w.page(pq)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+vaccineScheduleColumns+` FROM vaccine_schedules`+w.sql()+` ORDER BY start_date DESC, id`+suffix, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.VaccineSchedule, 0)
	for rows.Next() {
		s, err := scanVaccineSchedule(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.VaccineSchedule]{Items: items, Total: total}, nil
}

func (r *VaccineSchedulePostgres) Update(ctx context.Context, s *model.VaccineSchedule) (*model.VaccineSchedule, error) {
	const q = `
		UPDATE vaccine_schedules SET batch_assign_id = $2, title = $3, start_date = $4, remarks = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + vaccineScheduleColumns

	var out *model.VaccineSchedule
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		out, err = scanVaccineSchedule(tx.QueryRowContext(ctx, q, s.ID, s.BatchAssignID, s.Title, s.StartDate, s.Remarks, s.UpdatedAt))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM vaccine_stages WHERE schedule_id = $1`, s.ID); err != nil {
			return err
		}
		out.Stages, err = insertStages(ctx, tx, s)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *VaccineSchedulePostgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vaccine_schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *VaccineSchedulePostgres) FindStage(ctx context.Context, scheduleID, stageID string) (*model.VaccineStage, error) {
	return scanVaccineStage(r.db.QueryRowContext(ctx,
		`SELECT `+vaccineStageColumns+` FROM vaccine_stages WHERE schedule_id = $1 AND id = $2`, scheduleID, stageID))
}

func (r *VaccineSchedulePostgres) UpdateStageStatus(ctx context.Context, stageID, status string, at time.Time, by, notes string) (*model.VaccineStage, error) {
	const q = `
		UPDATE vaccine_stages SET status = $2, done_at = $3, done_by = $4, notes = $5
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + vaccineStageColumns
	return scanVaccineStage(r.db.QueryRowContext(ctx, q, stageID, status, at, nullable(by), notes))
}

func (r *VaccineSchedulePostgres) ListDue(ctx context.Context, dr repository.DateRange) ([]model.DueStage, error) {
	var w where
	w.add("st.status = ?", model.StageStatusPending)
	w.dateRange("st.scheduled_date", dr)

	rows, err := r.db.QueryContext(ctx, `
		SELECT st.id, st.schedule_id, st.stage_no, st.stage_name, st.age_days, st.vaccine_name, st.dose, st.route,
			st.scheduled_date, st.status, st.done_at, st.done_by, st.notes,
			s.title, s.batch_assign_id, b.batch_no
		FROM vaccine_stages st
		JOIN vaccine_schedules s ON s.id = st.schedule_id
		JOIN batch_assigns b ON b.id = s.batch_assign_id`+w.sql()+`
		ORDER BY st.scheduled_date, b.batch_no, st.stage_no`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.DueStage, 0)
	for rows.Next() {
		var (
			d      model.DueStage
			doneAt sql.NullTime
			doneBy sql.NullString
		)
		dest := append(vaccineStageDest(&d.VaccineStage, &doneAt, &doneBy), &d.Title, &d.BatchAssignID, &d.BatchNo)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		finishStage(&d.VaccineStage, doneAt, doneBy)
		out = append(out, d)
	}
	return out, rows.Err()
}

// EggClassificationPostgres is a PostgreSQL implementation of repository.EggClassificationRepository.
type EggClassificationPostgres struct {
	db *sql.DB
}

// NewEggClassificationPostgres creates a new EggClassificationPostgres repository.
func NewEggClassificationPostgres(db *sql.DB) *EggClassificationPostgres {
	return &EggClassificationPostgres{db: db}
}

var _ repository.EggClassificationRepository = (*EggClassificationPostgres)(nil)

const eggClassificationColumns = `id, batch_assign_id, classify_date, total_eggs, hatching, commercial, double_yolk,
	cracked, dirty, small, rejected, remarks, created_by, created_at, updated_at`

func scanEggClassification(row interface{ Scan(...any) error }) (*model.EggClassification, error) {
	var (
		e         model.EggClassification
		createdBy sql.NullString
	)
	err := row.Scan(&e.ID, &e.BatchAssignID, &e.ClassifyDate, &e.TotalEggs, &e.Hatching, &e.Commercial, &e.DoubleYolk,
		&e.Cracked, &e.Dirty, &e.Small, &e.Rejected, &e.Remarks, &createdBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.CreatedBy = createdBy.String
	return &e, nil
}

func (r *EggClassificationPostgres) Create(ctx context.Context, e *model.EggClassification) (*model.EggClassification, error) {
	const q = `
		INSERT INTO egg_classifications (id, batch_assign_id, classify_date, total_eggs, hatching, commercial, double_yolk,
			cracked, dirty, small, rejected, remarks, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + eggClassificationColumns
	return scanEggClassification(r.db.QueryRowContext(ctx, q,
		e.ID, e.BatchAssignID, e.ClassifyDate, e.TotalEggs, e.Hatching, e.Commercial, e.DoubleYolk,
		e.Cracked, e.Dirty, e.Small, e.Rejected, e.Remarks, nullable(e.CreatedBy), e.CreatedAt, e.UpdatedAt))
}

func (r *EggClassificationPostgres) FindByID(ctx context.Context, id string) (*model.EggClassification, error) {
	return scanEggClassification(r.db.QueryRowContext(ctx, `SELECT `+eggClassificationColumns+` FROM egg_classifications WHERE id = $1`, id))
}

func (r *EggClassificationPostgres) List(ctx context.Context, batchAssignID string, dr repository.DateRange, pq repository.PageQuery) (*repository.PageResult[model.EggClassification], error) {
	var w where
	w.eq("batch_assign_id", batchAssignID)
	w.dateRange("classify_date", dr)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM egg_classifications`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, err
	}
	suffix, args := w.page(pq)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eggClassificationColumns+` FROM egg_classifications`+w.sql()+` ORDER BY classify_date DESC, id`+suffix, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.EggClassification, 0)
	for rows.Next() {
		e, err := scanEggClassification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.EggClassification]{Items: items, Total: total}, nil
}

func (r *EggClassificationPostgres) Update(ctx context.Context, e *model.EggClassification) (*model.EggClassification, error) {
	const q = `
		UPDATE egg_classifications SET batch_assign_id = $2, classify_date = $3, total_eggs = $4, hatching = $5,
			commercial = $6, double_yolk = $7, cracked = $8, dirty = $9, small = $10, rejected = $11,
			remarks = $12, updated_at = $13
		WHERE id = $1
		RETURNING ` + eggClassificationColumns
	return scanEggClassification(r.db.QueryRowContext(ctx, q,
		e.ID, e.BatchAssignID, e.ClassifyDate, e.TotalEggs, e.Hatching, e.Commercial, e.DoubleYolk,
		e.Cracked, e.Dirty, e.Small, e.Rejected, e.Remarks, e.UpdatedAt))
}

func (r *EggClassificationPostgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM egg_classifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DailyOperationPostgres is a PostgreSQL implementation of repository.DailyOperationRepository.
type DailyOperationPostgres struct {
	db *sql.DB
}

// NewDailyOperationPostgres creates a new DailyOperationPostgres repository.
func NewDailyOperationPostgres(db *sql.DB) *DailyOperationPostgres {
	return &DailyOperationPostgres{db: db}
}

var _ repository.DailyOperationRepository = (*DailyOperationPostgres)(nil)

const dailyOperationColumns = `id, batch_assign_id, operation_date,
	mortality_male, mortality_female, mortality_total, culling_male, culling_female, culling_total,
	feed_kg, water_liters, avg_body_weight_g, eggs_collected, remarks, created_by, created_at, updated_at`

func scanDailyOperation(row interface{ Scan(...any) error }) (*model.DailyOperation, error) {
	var (
		d         model.DailyOperation
		createdBy sql.NullString
	)
	err := row.Scan(&d.ID, &d.BatchAssignID, &d.OperationDate,
		&d.Mortality.Male, &d.Mortality.Female, &d.Mortality.Total,
		&d.Culling.Male, &d.Culling.Female, &d.Culling.Total,
		&d.FeedKg, &d.WaterLiters, &d.AvgBodyWeightG, &d.EggsCollected, &d.Remarks, &createdBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.CreatedBy = createdBy.String
	return &d, nil
}

func (r *DailyOperationPostgres) Create(ctx context.Context, d *model.DailyOperation) (*model.DailyOperation, error) {
	const q = `
		INSERT INTO daily_operations (id, batch_assign_id, operation_date,
			mortality_male, mortality_female, mortality_total, culling_male, culling_female, culling_total,
			feed_kg, water_liters, avg_body_weight_g, eggs_collected, remarks, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + dailyOperationColumns

	var out *model.DailyOperation
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := lockBatches(ctx, tx, d.BatchAssignID); err != nil {
			return err
		}
		var err error
		out, err = scanDailyOperation(tx.QueryRowContext(ctx, q,
			d.ID, d.BatchAssignID, d.OperationDate,
			d.Mortality.Male, d.Mortality.Female, d.Mortality.Total,
			d.Culling.Male, d.Culling.Female, d.Culling.Total,
			d.FeedKg, d.WaterLiters, d.AvgBodyWeightG, d.EggsCollected, d.Remarks, nullable(d.CreatedBy), d.CreatedAt, d.UpdatedAt))
		if err != nil {
			return err
		}
		return verifyBalances(ctx, tx, d.BatchAssignID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DailyOperationPostgres) FindByID(ctx context.Context, id string) (*model.DailyOperation, error) {
	return scanDailyOperation(r.db.QueryRowContext(ctx, `SELECT `+dailyOperationColumns+` FROM daily_operations WHERE id = $1`, id))
}

func (r *DailyOperationPostgres) List(ctx context.Context, batchAssignID string, dr repository.DateRange, pq repository.PageQuery) (*repository.PageResult[model.DailyOperation], error) {
	var w where
	w.eq("batch_assign_id", batchAssignID)
	w.dateRange("operation_date", dr)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM daily_operations`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, err
	}
	suffix, args := w.page(pq)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+dailyOperationColumns+` FROM daily_operations`+w.sql()+` ORDER BY operation_date DESC, id`+suffix, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DailyOperation, 0)
	for rows.Next() {
		d, err := scanDailyOperation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.DailyOperation]{Items: items, Total: total}, nil
}

func (r *DailyOperationPostgres) Update(ctx context.Context, d *model.DailyOperation) (*model.DailyOperation, error) {
	const q = `
		UPDATE daily_operations SET batch_assign_id = $2, operation_date = $3,
			mortality_male = $4, mortality_female = $5, mortality_total = $6,
			culling_male = $7, culling_female = $8, culling_total = $9,
			feed_kg = $10, water_liters = $11, avg_body_weight_g = $12, eggs_collected = $13,
			remarks = $14, updated_at = $15
		WHERE id = $1
		RETURNING ` + dailyOperationColumns

	var out *model.DailyOperation
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var prev string
		if err := tx.QueryRowContext(ctx, `SELECT batch_assign_id FROM daily_operations WHERE id = $1`, d.ID).Scan(&prev); err != nil {
			return err
		}
		if _, err := lockBatches(ctx, tx, prev, d.BatchAssignID); err != nil {
			return err
		}
		var err error
		out, err = scanDailyOperation(tx.QueryRowContext(ctx, q,
			d.ID, d.BatchAssignID, d.OperationDate,
			d.Mortality.Male, d.Mortality.Female, d.Mortality.Total,
			d.Culling.Male, d.Culling.Female, d.Culling.Total,
			d.FeedKg, d.WaterLiters, d.AvgBodyWeightG, d.EggsCollected, d.Remarks, d.UpdatedAt))
		if err != nil {
			return err
		}
		return verifyBalances(ctx, tx, d.BatchAssignID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DailyOperationPostgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM daily_operations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
