package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

func expectRowLock(mock sqlmock.Sqlmock, table, id, status string) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT approval_status FROM " + table + " WHERE id = $1 FOR UPDATE")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"approval_status"}).AddRow(status))
}

func expectDependents(mock sqlmock.Sqlmock, childTable, id string, n int) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM " + childTable + " WHERE")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(n))
}

func expectCapacity(mock sqlmock.Sqlmock, a allotment, id string, capacity model.HeadCount) {
	mock.ExpectQuery(regexp.QuoteMeta(a.capacity)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"m", "f"}).AddRow(capacity.Male, capacity.Female))
}

func expectSum(mock sqlmock.Sqlmock, childTable, parentID string, used model.HeadCount) {
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(male_qty\), 0\), COALESCE\(SUM\(female_qty\), 0\)\s+FROM `+childTable).
		WithArgs(parentID, nil).
		WillReturnRows(sqlmock.NewRows([]string{"m", "f"}).AddRow(used.Male, used.Female))
}

func expectBalance(mock sqlmock.Sqlmock, id string, assigned, mortality, out, in model.HeadCount) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM batch_assigns b")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"am", "af", "mm", "mf", "cm", "cf", "om", "of", "im", "if"}).
			AddRow(assigned.Male, assigned.Female, mortality.Male, mortality.Female, 0, 0, out.Male, out.Female, in.Male, in.Female))
}

func TestLockBatches_SortsAndSkipsDuplicates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectRowLock(mock, "batch_assigns", "b-1", model.ApprovalApproved)
	expectRowLock(mock, "batch_assigns", "b-2", model.ApprovalPending)

	got, err := lockBatches(context.Background(), db, "b-2", "", "b-1", "b-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"b-1", "b-2"}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFirmReceivePostgres_CreateHoldsTheParentLock(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f := &model.FirmReceive{
		ID: "fr-2", PsReceiveID: "ps-1", CompanyID: "c-2", ReceiveDate: now,
		Quantity: model.NewHeadCount(40, 400), ApprovalStatus: model.ApprovalPending, CreatedAt: now, UpdatedAt: now,
	}
	row := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "ps_receive_id", "company_id", "receive_date", "male_qty", "female_qty", "total_qty",
			"remarks", "approval_status", "created_by", "created_at", "updated_at"}).
			AddRow(f.ID, f.PsReceiveID, f.CompanyID, now, 40, 400, 440, "", model.ApprovalPending, nil, now, now)
	}

	t.Run("fits what is left", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		expectRowLock(mock, "ps_receives", "ps-1", model.ApprovalApproved)
		mock.ExpectQuery("INSERT INTO firm_receives").WillReturnRows(row())
		expectCapacity(mock, psAllotment, "ps-1", model.NewHeadCount(100, 1000))
		expectSum(mock, "firm_receives", "ps-1", model.NewHeadCount(100, 1000))
		mock.ExpectCommit()

		got, err := NewFirmReceivePostgres(db).Create(context.Background(), f)
		require.NoError(t, err)
		assert.Equal(t, "fr-2", got.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a concurrent receive took the stock first", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		expectRowLock(mock, "ps_receives", "ps-1", model.ApprovalApproved)
		mock.ExpectQuery("INSERT INTO firm_receives").WillReturnRows(row())
		expectCapacity(mock, psAllotment, "ps-1", model.NewHeadCount(100, 1000))
		expectSum(mock, "firm_receives", "ps-1", model.NewHeadCount(120, 1000))
		mock.ExpectRollback()

		got, err := NewFirmReceivePostgres(db).Create(context.Background(), f)
		assert.ErrorIs(t, err, repository.ErrOverdrawn)
		assert.ErrorContains(t, err, "ps receive holds 100/1000 but 120/1000")
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("parent rejected in the meantime", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		expectRowLock(mock, "ps_receives", "ps-1", model.ApprovalRejected)
		mock.ExpectRollback()

		_, err = NewFirmReceivePostgres(db).Create(context.Background(), f)
		assert.ErrorIs(t, err, repository.ErrOverdrawn)
		assert.ErrorContains(t, err, "ps receive is rejected")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestShedReceivePostgres_UpdateChecksParentAndChildren(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	s := &model.ShedReceive{
		ID: "sr-1", FirmReceiveID: "fr-1", ShedID: "s-1", ReceiveDate: now,
		Quantity: model.NewHeadCount(10, 100), UpdatedAt: now,
	}

	mock.ExpectBegin()
	expectRowLock(mock, "firm_receives", "fr-1", model.ApprovalApproved)
	mock.ExpectQuery("UPDATE shed_receives SET").
		WillReturnRows(sqlmock.NewRows([]string{"id", "firm_receive_id", "shed_id", "receive_date", "male_qty", "female_qty", "total_qty",
			"remarks", "approval_status", "created_by", "created_at", "updated_at"}).
			AddRow("sr-1", "fr-1", "s-1", now, 10, 100, 110, "", model.ApprovalPending, "u-1", now, now))
	expectCapacity(mock, firmAllotment, "fr-1", model.NewHeadCount(50, 500))
	expectSum(mock, "shed_receives", "fr-1", model.NewHeadCount(10, 100))
	expectCapacity(mock, shedAllotment, "sr-1", model.NewHeadCount(10, 100))
	expectSum(mock, "batch_assigns", "sr-1", model.NewHeadCount(12, 100))
	mock.ExpectRollback()

	_, err = NewShedReceivePostgres(db).Update(context.Background(), s)
	assert.ErrorIs(t, err, repository.ErrOverdrawn)
	assert.ErrorContains(t, err, "shed receive holds 10/100 but 12/100")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchAssignPostgres_UpdateKeepsLiveBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	b := &model.BatchAssign{
		ID: "b-1", ShedReceiveID: "sr-1", ShedID: "s-1", Level: 1, BatchNo: "B1", AssignDate: now,
		Quantity: model.NewHeadCount(5, 50), UpdatedAt: now,
	}

	mock.ExpectBegin()
	expectRowLock(mock, "shed_receives", "sr-1", model.ApprovalApproved)
	mock.ExpectQuery("UPDATE batch_assigns SET").
		WillReturnRows(sqlmock.NewRows([]string{"id", "shed_receive_id", "shed_id", "level", "batch_no", "assign_date",
			"male_qty", "female_qty", "total_qty", "remarks", "approval_status", "created_by", "created_at", "updated_at"}).
			AddRow("b-1", "sr-1", "s-1", 1, "B1", now, 5, 50, 55, "", model.ApprovalPending, "u-1", now, now))
	expectCapacity(mock, shedAllotment, "sr-1", model.NewHeadCount(10, 100))
	expectSum(mock, "batch_assigns", "sr-1", model.NewHeadCount(5, 50))
	expectBalance(mock, "b-1", model.NewHeadCount(5, 50), model.NewHeadCount(6, 0), model.NewHeadCount(0, 0), model.NewHeadCount(0, 0))
	mock.ExpectRollback()

	_, err = NewBatchAssignPostgres(db).Update(context.Background(), b)
	assert.ErrorIs(t, err, repository.ErrOverdrawn)
	assert.ErrorContains(t, err, "batch would hold -1/50 live birds")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyOperationPostgres_CreateChecksBalanceUnderLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	d := &model.DailyOperation{
		ID: "d-1", BatchAssignID: "b-1", OperationDate: now,
		Mortality: model.NewHeadCount(3, 0), CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectBegin()
	expectRowLock(mock, "batch_assigns", "b-1", model.ApprovalApproved)
	mock.ExpectQuery("INSERT INTO daily_operations").
		WillReturnRows(sqlmock.NewRows([]string{"id", "batch_assign_id", "operation_date",
			"mortality_male", "mortality_female", "mortality_total", "culling_male", "culling_female", "culling_total",
			"feed_kg", "water_liters", "avg_body_weight_g", "eggs_collected", "remarks", "created_by", "created_at", "updated_at"}).
			AddRow("d-1", "b-1", now, 3, 0, 3, 0, 0, 0, 0.0, 0.0, 0.0, 0, "", nil, now, now))
	// Two concurrent logs of 3 males each against a batch of 5.
	expectBalance(mock, "b-1", model.NewHeadCount(5, 50), model.NewHeadCount(6, 0), model.NewHeadCount(0, 0), model.NewHeadCount(0, 0))
	mock.ExpectRollback()

	_, err = NewDailyOperationPostgres(db).Create(context.Background(), d)
	assert.ErrorIs(t, err, repository.ErrOverdrawn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGatedDeleteDropsPendingRequests(t *testing.T) {
	tests := []struct {
		name   string
		module string
		table  string
		del    func(db *sql.DB) error
	}{
		{"ps receive", model.ModulePsReceive, "ps_receives", func(db *sql.DB) error {
			return NewPsReceivePostgres(db).Delete(context.Background(), "r-1")
		}},
		{"firm receive", model.ModuleFirmReceive, "firm_receives", func(db *sql.DB) error {
			return NewFirmReceivePostgres(db).Delete(context.Background(), "r-1")
		}},
		{"shed receive", model.ModuleShedReceive, "shed_receives", func(db *sql.DB) error {
			return NewShedReceivePostgres(db).Delete(context.Background(), "r-1")
		}},
		{"batch assign", model.ModuleBatchAssign, "batch_assigns", func(db *sql.DB) error {
			return NewBatchAssignPostgres(db).Delete(context.Background(), "r-1")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM approval_requests WHERE module = $1 AND reference_id = $2 AND status = $3")).
				WithArgs(tt.module, "r-1", model.ApprovalPending).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM " + tt.table + " WHERE id = $1")).
				WithArgs("r-1").
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			require.NoError(t, tt.del(db))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("missing record keeps its requests", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM approval_requests").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM firm_receives WHERE id = $1")).
			WithArgs("gone").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = NewFirmReceivePostgres(db).Delete(context.Background(), "gone")
		assert.True(t, repository.IsNoRows(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBirdTransferPostgres_Delete(t *testing.T) {
	t.Run("drops pending requests and gives birds back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT batch_assign_id, to_batch_assign_id FROM bird_transfers WHERE id = $1 FOR UPDATE")).
			WithArgs("t-1").
			WillReturnRows(sqlmock.NewRows([]string{"from", "to"}).AddRow("b-1", "b-2"))
		expectRowLock(mock, "batch_assigns", "b-2", model.ApprovalApproved)
		mock.ExpectExec("DELETE FROM approval_requests").
			WithArgs(model.ModuleBirdTransfer, "t-1", model.ApprovalPending).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bird_transfers WHERE id = $1")).
			WithArgs("t-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		expectBalance(mock, "b-2", model.NewHeadCount(5, 50), model.NewHeadCount(0, 0), model.NewHeadCount(0, 0), model.NewHeadCount(0, 0))
		mock.ExpectCommit()

		require.NoError(t, NewBirdTransferPostgres(db).Delete(context.Background(), "t-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("destination already used the birds", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("FROM bird_transfers WHERE id = ").
			WithArgs("t-1").
			WillReturnRows(sqlmock.NewRows([]string{"from", "to"}).AddRow("b-1", "b-2"))
		expectRowLock(mock, "batch_assigns", "b-2", model.ApprovalApproved)
		mock.ExpectExec("DELETE FROM approval_requests").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM bird_transfers").WillReturnResult(sqlmock.NewResult(0, 1))
		expectBalance(mock, "b-2", model.NewHeadCount(5, 50), model.NewHeadCount(9, 0), model.NewHeadCount(0, 0), model.NewHeadCount(0, 0))
		mock.ExpectRollback()

		err = NewBirdTransferPostgres(db).Delete(context.Background(), "t-1")
		assert.ErrorIs(t, err, repository.ErrOverdrawn)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
