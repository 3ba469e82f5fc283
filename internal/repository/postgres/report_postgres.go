package postgres

import (
	"context"
	"database/sql"
	"time"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

// ReportPostgres is a PostgreSQL implementation of repository.ReportRepository.
type ReportPostgres struct {
	db *sql.DB
}

// NewReportPostgres creates a new ReportPostgres repository.
func NewReportPostgres(db *sql.DB) *ReportPostgres {
	return &ReportPostgres{db: db}
}

var _ repository.ReportRepository = (*ReportPostgres)(nil)

// dashboardQuery takes the day as $1. Live birds follow the batch balance rule
// over every batch that was not rejected.
const dashboardQuery = `
	SELECT
		(SELECT COALESCE(SUM(c.male_qty), 0) FROM ps_chick_counts c
			JOIN ps_receives p ON p.id = c.ps_receive_id WHERE p.receive_date = $1::date),
		(SELECT COALESCE(SUM(c.female_qty), 0) FROM ps_chick_counts c
			JOIN ps_receives p ON p.id = c.ps_receive_id WHERE p.receive_date = $1::date),
		(SELECT COALESCE(SUM(male_qty), 0) FROM batch_assigns WHERE approval_status NOT IN ('rejected', 'expired'))
			- (SELECT COALESCE(SUM(d.mortality_male + d.culling_male), 0) FROM daily_operations d
				JOIN batch_assigns b ON b.id = d.batch_assign_id WHERE b.approval_status NOT IN ('rejected', 'expired'))
			- (SELECT COALESCE(SUM(recorded_male), 0) FROM bird_transfers WHERE approval_status NOT IN ('rejected', 'expired'))
			+ (SELECT COALESCE(SUM(net_male), 0) FROM bird_transfers
				WHERE approval_status NOT IN ('rejected', 'expired') AND to_batch_assign_id IS NOT NULL),
		(SELECT COALESCE(SUM(female_qty), 0) FROM batch_assigns WHERE approval_status NOT IN ('rejected', 'expired'))
			- (SELECT COALESCE(SUM(d.mortality_female + d.culling_female), 0) FROM daily_operations d
				JOIN batch_assigns b ON b.id = d.batch_assign_id WHERE b.approval_status NOT IN ('rejected', 'expired'))
			- (SELECT COALESCE(SUM(recorded_female), 0) FROM bird_transfers WHERE approval_status NOT IN ('rejected', 'expired'))
			+ (SELECT COALESCE(SUM(net_female), 0) FROM bird_transfers
				WHERE approval_status NOT IN ('rejected', 'expired') AND to_batch_assign_id IS NOT NULL),
		(SELECT COALESCE(SUM(mortality_male), 0) FROM daily_operations WHERE operation_date = $1::date),
		(SELECT COALESCE(SUM(mortality_female), 0) FROM daily_operations WHERE operation_date = $1::date),
		(SELECT COALESCE(SUM(eggs_collected), 0) FROM daily_operations WHERE operation_date = $1::date),
		(SELECT COALESCE(SUM(hatching), 0) FROM egg_classifications WHERE classify_date = $1::date),
		(SELECT COUNT(*) FROM approval_requests WHERE status = 'pending'),
		(SELECT COUNT(*) FROM vaccine_stages WHERE status = 'pending' AND scheduled_date = $1::date)`

func (r *ReportPostgres) Dashboard(ctx context.Context, day time.Time) (*model.Dashboard, error) {
	var psM, psF, liveM, liveF, mortM, mortF int
	d := &model.Dashboard{Date: day}
	err := r.db.QueryRowContext(ctx, dashboardQuery, day).Scan(
		&psM, &psF, &liveM, &liveF, &mortM, &mortF,
		&d.EggsToday, &d.HatchingToday, &d.PendingApprovals, &d.VaccinesDueToday)
	if err != nil {
		return nil, err
	}
	d.PsReceived = model.NewHeadCount(psM, psF)
	d.LiveBirds = model.NewHeadCount(liveM, liveF)
	d.MortalityToday = model.NewHeadCount(mortM, mortF)
	return d, nil
}

// performanceQuery joins daily logs and egg gradings of one batch by date, keeping days present in either.
const performanceQuery = `
	SELECT COALESCE(d.operation_date, e.classify_date) AS day,
		COALESCE(d.mortality_male, 0), COALESCE(d.mortality_female, 0),
		COALESCE(d.culling_male, 0), COALESCE(d.culling_female, 0),
		COALESCE(d.feed_kg, 0), COALESCE(d.eggs_collected, 0), COALESCE(e.hatching, 0)
	FROM (
		SELECT * FROM daily_operations
		WHERE batch_assign_id = $1 AND operation_date BETWEEN $2::date AND $3::date
	) d
	FULL OUTER JOIN (
		SELECT * FROM egg_classifications
		WHERE batch_assign_id = $1 AND classify_date BETWEEN $2::date AND $3::date
	) e ON e.classify_date = d.operation_date
	ORDER BY day`

func (r *ReportPostgres) PerformanceRows(ctx context.Context, batchAssignID string, dr repository.DateRange) ([]model.PerformanceRow, error) {
	rows, err := r.db.QueryContext(ctx, performanceQuery, batchAssignID, dr.From, dr.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.PerformanceRow, 0)
	for rows.Next() {
		var (
			row            model.PerformanceRow
			mm, mf, cm, cf int
		)
		if err := rows.Scan(&row.Date, &mm, &mf, &cm, &cf, &row.FeedKg, &row.EggsCollected, &row.HatchingEggs); err != nil {
			return nil, err
		}
		row.Mortality = model.NewHeadCount(mm, mf)
		row.Culling = model.NewHeadCount(cm, cf)
		out = append(out, row)
	}
	return out, rows.Err()
}
