package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

var vaccineStageCols = []string{"id", "schedule_id", "stage_no", "stage_name", "age_days", "vaccine_name", "dose", "route",
	"scheduled_date", "status", "done_at", "done_by", "notes"}

func TestVaccineSchedulePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	s := &model.VaccineSchedule{
		ID: "vs-1", BatchAssignID: "b-1", Title: "Broiler breeder programme", StartDate: start,
		CreatedAt: start, UpdatedAt: start,
		Stages: []model.VaccineStage{
			{ID: "st-1", StageNo: 1, StageName: "Day old", AgeDays: 0, VaccineName: "Marek", ScheduledDate: start, Status: model.StageStatusPending},
			{ID: "st-2", StageNo: 2, StageName: "Week 1", AgeDays: 7, VaccineName: "ND-IB", ScheduledDate: start.AddDate(0, 0, 7), Status: model.StageStatusPending},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO vaccine_schedules").
		WillReturnRows(sqlmock.NewRows([]string{"id", "batch_assign_id", "title", "start_date", "remarks", "created_by", "created_at", "updated_at"}).
			AddRow("vs-1", "b-1", s.Title, start, "", nil, start, start))
	mock.ExpectExec("INSERT INTO vaccine_stages").
		WithArgs("st-1", "vs-1", 1, "Day old", 0, "Marek", "", "", start, model.StageStatusPending, nil, nil, "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO vaccine_stages").
		WithArgs("st-2", "vs-1", 2, "Week 1", 7, "ND-IB", "", "", start.AddDate(0, 0, 7), model.StageStatusPending, nil, nil, "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := NewVaccineSchedulePostgres(db).Create(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, got.Stages, 2)
	assert.Equal(t, "vs-1", got.Stages[1].ScheduleID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVaccineSchedulePostgres_UpdateStageStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVaccineSchedulePostgres(db)
	at := time.Date(2026, 5, 8, 9, 30, 0, 0, time.UTC)
	day := time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC)

	t.Run("pending stage transitions", func(t *testing.T) {
		mock.ExpectQuery("UPDATE vaccine_stages SET status = (.+) WHERE id = (.+) AND status = 'pending'").
			WithArgs("st-2", model.StageStatusDone, at, "u-1", "all birds").
			WillReturnRows(sqlmock.NewRows(vaccineStageCols).
				AddRow("st-2", "vs-1", 2, "Week 1", 7, "ND-IB", "", "", day, model.StageStatusDone, at, "u-1", "all birds"))

		st, err := repo.UpdateStageStatus(context.Background(), "st-2", model.StageStatusDone, at, "u-1", "all birds")
		require.NoError(t, err)
		assert.Equal(t, model.StageStatusDone, st.Status)
		require.NotNil(t, st.DoneAt)
		assert.Equal(t, at, *st.DoneAt)
		require.NotNil(t, st.DoneBy)
		assert.Equal(t, "u-1", *st.DoneBy)
	})

	t.Run("non-pending stage yields no rows", func(t *testing.T) {
		mock.ExpectQuery("UPDATE vaccine_stages SET status").
			WillReturnRows(sqlmock.NewRows(vaccineStageCols))

		_, err := repo.UpdateStageStatus(context.Background(), "st-2", model.StageStatusSkipped, at, "u-1", "")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVaccineSchedulePostgres_ListDue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	cols := append(append([]string{}, vaccineStageCols...), "title", "batch_assign_id", "batch_no")

	mock.ExpectQuery(`WHERE st.status = \$1 AND st.scheduled_date >= \$2 AND st.scheduled_date <= \$3`).
		WithArgs(model.StageStatusPending, from, to).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("st-2", "vs-1", 2, "Week 1", 7, "ND-IB", "0.03ml", "eye drop", from.AddDate(0, 0, 3), model.StageStatusPending, nil, nil, "",
				"Programme", "b-1", "B-2026-01"))

	got, err := NewVaccineSchedulePostgres(db).ListDue(context.Background(), repository.DateRange{From: from, To: to})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B-2026-01", got[0].BatchNo)
	assert.Equal(t, "eye drop", got[0].Route)
	assert.Nil(t, got[0].DoneAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyOperationPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	day := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "batch_assign_id", "operation_date",
		"mortality_male", "mortality_female", "mortality_total", "culling_male", "culling_female", "culling_total",
		"feed_kg", "water_liters", "avg_body_weight_g", "eggs_collected", "remarks", "created_by", "created_at", "updated_at"}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM daily_operations WHERE batch_assign_id = \$1`).
		WithArgs("b-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM daily_operations WHERE batch_assign_id = \$1 ORDER BY operation_date DESC`).
		WithArgs("b-1", 10, 0).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("d-1", "b-1", day, 1, 3, 4, 0, 1, 1, 120.5, 240.0, 1850.25, 0, "", "u-1", day, day))

	res, err := NewDailyOperationPostgres(db).List(context.Background(), "b-1", repository.DateRange{}, repository.PageQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, model.NewHeadCount(1, 3), res.Items[0].Mortality)
	assert.InDelta(t, 120.5, res.Items[0].FeedKg, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEggClassificationPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM egg_classifications WHERE id = ").WithArgs("e-1").WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, NewEggClassificationPostgres(db).Delete(context.Background(), "e-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
