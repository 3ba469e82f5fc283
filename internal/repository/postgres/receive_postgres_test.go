package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

var psReceiveCols = []string{"id", "shipment_no", "supplier", "breed", "receive_date", "company_id",
	"challan_male", "challan_female", "challan_total", "remarks", "approval_status", "created_by", "created_at", "updated_at"}

func samplePsReceive() *model.PsReceive {
	day := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	return &model.PsReceive{
		ID:             "ps-1",
		ShipmentNo:     "SHP-001",
		Supplier:       "Aviagen",
		Breed:          "Ross 308",
		ReceiveDate:    day,
		CompanyID:      "c-1",
		Challan:        model.NewHeadCount(100, 1000),
		ApprovalStatus: model.ApprovalPending,
		CreatedBy:      "u-1",
		CreatedAt:      day,
		UpdatedAt:      day,
		ChickCounts: []model.PsChickCount{
			{ID: "cc-1", BoxLabel: "A", Count: model.NewHeadCount(50, 500)},
			{ID: "cc-2", BoxLabel: "B", Count: model.NewHeadCount(50, 498)},
		},
		LabTransfers: []model.PsLabTransfer{
			{ID: "lt-1", LabName: "Central Lab", TransferDate: day, Count: model.NewHeadCount(2, 2)},
		},
	}
}

func psReceiveRow(p *model.PsReceive) *sqlmock.Rows {
	return sqlmock.NewRows(psReceiveCols).AddRow(p.ID, p.ShipmentNo, p.Supplier, p.Breed, p.ReceiveDate, p.CompanyID,
		p.Challan.Male, p.Challan.Female, p.Challan.Total, p.Remarks, p.ApprovalStatus, p.CreatedBy, p.CreatedAt, p.UpdatedAt)
}

func TestPsReceivePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPsReceivePostgres(db)
	p := samplePsReceive()

	t.Run("writes parent and children in one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO ps_receives").WillReturnRows(psReceiveRow(p))
		mock.ExpectExec("INSERT INTO ps_chick_counts").
			WithArgs("cc-1", "ps-1", "A", 50, 500, 550).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO ps_chick_counts").
			WithArgs("cc-2", "ps-1", "B", 50, 498, 548).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO ps_lab_transfers").
			WithArgs("lt-1", "ps-1", "Central Lab", "", p.ReceiveDate, 2, 2, 4).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		got, err := repo.Create(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, "u-1", got.CreatedBy)
		require.Len(t, got.ChickCounts, 2)
		assert.Equal(t, "ps-1", got.ChickCounts[0].PsReceiveID)
		require.Len(t, got.LabTransfers, 1)
	})

	t.Run("child failure rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO ps_receives").WillReturnRows(psReceiveRow(p))
		mock.ExpectExec("INSERT INTO ps_chick_counts").WillReturnError(errors.New("check violation"))
		mock.ExpectRollback()

		got, err := repo.Create(context.Background(), p)
		assert.Error(t, err)
		assert.Nil(t, got)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPsReceivePostgres_UpdateReplacesChildren(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := samplePsReceive()
	p.LabTransfers = nil

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE ps_receives SET").WillReturnRows(psReceiveRow(p))
	mock.ExpectExec("DELETE FROM ps_chick_counts WHERE ps_receive_id = ").WithArgs("ps-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM ps_lab_transfers WHERE ps_receive_id = ").WithArgs("ps-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO ps_chick_counts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO ps_chick_counts").WillReturnResult(sqlmock.NewResult(0, 1))
	expectCapacity(mock, psAllotment, "ps-1", model.NewHeadCount(100, 998))
	expectSum(mock, "firm_receives", "ps-1", model.NewHeadCount(60, 600))
	mock.ExpectCommit()

	got, err := NewPsReceivePostgres(db).Update(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, got.ChickCounts, 2)
	assert.Empty(t, got.LabTransfers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPsReceivePostgres_UpdateBelowFirmReceivesRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := samplePsReceive()
	p.LabTransfers = nil
	p.ChickCounts = p.ChickCounts[:1]

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE ps_receives SET").WillReturnRows(psReceiveRow(p))
	mock.ExpectExec("DELETE FROM ps_chick_counts").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM ps_lab_transfers").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO ps_chick_counts").WillReturnResult(sqlmock.NewResult(0, 1))
	expectCapacity(mock, psAllotment, "ps-1", model.NewHeadCount(50, 500))
	expectSum(mock, "firm_receives", "ps-1", model.NewHeadCount(60, 600))
	mock.ExpectRollback()

	_, err = NewPsReceivePostgres(db).Update(context.Background(), p)
	assert.ErrorIs(t, err, repository.ErrOverdrawn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPsReceivePostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := samplePsReceive()
	mock.ExpectQuery("SELECT (.+) FROM ps_receives WHERE id = ").WithArgs("ps-1").WillReturnRows(psReceiveRow(p))
	mock.ExpectQuery("FROM ps_chick_counts WHERE ps_receive_id = ").WithArgs("ps-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "ps_receive_id", "box_label", "male_qty", "female_qty", "total_qty"}).
			AddRow("cc-1", "ps-1", "A", 50, 500, 550))
	mock.ExpectQuery("FROM ps_lab_transfers WHERE ps_receive_id = ").WithArgs("ps-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "ps_receive_id", "lab_name", "purpose", "transfer_date", "male_qty", "female_qty", "total_qty"}))

	got, err := NewPsReceivePostgres(db).FindByID(context.Background(), "ps-1")
	require.NoError(t, err)
	require.Len(t, got.ChickCounts, 1)
	assert.Equal(t, model.NewHeadCount(50, 500), got.ChickCounts[0].Count)
	assert.NotNil(t, got.LabTransfers)
	assert.Empty(t, got.LabTransfers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPsReceivePostgres_ListByDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM ps_receives WHERE receive_date >= \$1 AND receive_date <= \$2`).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM ps_receives WHERE receive_date >= \$1 AND receive_date <= \$2 ORDER BY receive_date DESC, id LIMIT \$3 OFFSET \$4`).
		WithArgs(from, to, 10, 0).
		WillReturnRows(psReceiveRow(samplePsReceive()))

	res, err := NewPsReceivePostgres(db).List(context.Background(), repository.DateRange{From: from, To: to}, repository.PageQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Nil(t, res.Items[0].ChickCounts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFirmReceivePostgres_SumByPsReceive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFirmReceivePostgres(db)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(male_qty\), 0\), COALESCE\(SUM\(female_qty\), 0\)\s+FROM firm_receives`).
		WithArgs("ps-1", nil).
		WillReturnRows(sqlmock.NewRows([]string{"m", "f"}).AddRow(40, 400))
	got, err := repo.SumByPsReceive(context.Background(), "ps-1", "")
	require.NoError(t, err)
	assert.Equal(t, model.NewHeadCount(40, 400), got)

	mock.ExpectQuery("FROM firm_receives").
		WithArgs("ps-1", "fr-9").
		WillReturnRows(sqlmock.NewRows([]string{"m", "f"}).AddRow(0, 0))
	got, err = repo.SumByPsReceive(context.Background(), "ps-1", "fr-9")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShedReceivePostgres_SetApprovalStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewShedReceivePostgres(db)

	mock.ExpectExec("UPDATE shed_receives SET approval_status = ").
		WithArgs("sr-1", model.ApprovalApproved).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.SetApprovalStatus(context.Background(), "sr-1", model.ApprovalApproved))

	mock.ExpectExec("UPDATE shed_receives SET approval_status = ").
		WithArgs("gone", model.ApprovalApproved).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.True(t, repository.IsNoRows(repo.SetApprovalStatus(context.Background(), "gone", model.ApprovalApproved)))

	assert.NoError(t, mock.ExpectationsWereMet())
}
