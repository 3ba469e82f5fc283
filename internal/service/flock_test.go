package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hatchops/internal/model"
	"hatchops/internal/repository"
	repoMocks "hatchops/internal/repository/mocks"
)

func liveBatch() *model.BatchAssign {
	return &model.BatchAssign{ID: "b1", ShedID: "s1", AssignDate: receiveDay, ApprovalStatus: model.ApprovalApproved}
}

func TestVaccineScheduleService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("computes scheduled dates", func(t *testing.T) {
		repo := new(repoMocks.MockVaccineScheduleRepository)
		batches := new(repoMocks.MockBatchAssignRepository)
		svc := NewVaccineScheduleService(repo, batches).(*vaccineScheduleService)
		svc.clock = fixedClock()

		batches.On("FindByID", ctx, "b1").Return(liveBatch(), nil)
		repo.On("Create", ctx, mock.MatchedBy(func(v *model.VaccineSchedule) bool {
			return v.ID == "id-1" &&
				v.Stages[0].ScheduledDate.Equal(receiveDay) &&
				v.Stages[1].ScheduledDate.Equal(receiveDay.AddDate(0, 0, 14)) &&
				v.Stages[1].Status == model.StageStatusPending &&
				v.Stages[1].ScheduleID == "id-1" &&
				v.Stages[1].StageName == "Stage 2"
		})).Return(&model.VaccineSchedule{ID: "id-1"}, nil)

		_, err := svc.Create(ctx, &model.VaccineSchedule{
			BatchAssignID: "b1",
			Title:         "Layer programme",
			StartDate:     receiveDay,
			Stages: []model.VaccineStage{
				{StageNo: 1, StageName: "Day old", AgeDays: 0, VaccineName: "Marek"},
				{StageNo: 2, AgeDays: 14, VaccineName: "IBD"},
			},
		}, model.Actor{UserID: "u-vet"})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate stage number", func(t *testing.T) {
		batches := new(repoMocks.MockBatchAssignRepository)
		batches.On("FindByID", ctx, "b1").Return(liveBatch(), nil)
		svc := NewVaccineScheduleService(new(repoMocks.MockVaccineScheduleRepository), batches)

		_, err := svc.Create(ctx, &model.VaccineSchedule{
			BatchAssignID: "b1", Title: "x", StartDate: receiveDay,
			Stages: []model.VaccineStage{{StageNo: 1, VaccineName: "a"}, {StageNo: 1, VaccineName: "b"}},
		}, model.Actor{})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "stages[1].stage_no", ve.Field)
	})
}

func TestVaccineScheduleService_UpdateKeepsProgress(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockVaccineScheduleRepository)
	batches := new(repoMocks.MockBatchAssignRepository)
	svc := NewVaccineScheduleService(repo, batches).(*vaccineScheduleService)
	svc.clock = fixedClock()

	doneAt := testNow.Add(-time.Hour)
	doneBy := "u-vet"
	repo.On("FindByID", ctx, "vs-1").Return(&model.VaccineSchedule{
		ID: "vs-1",
		Stages: []model.VaccineStage{
			{ID: "st-1", StageNo: 1, Status: model.StageStatusDone, DoneAt: &doneAt, DoneBy: &doneBy},
		},
	}, nil)
	batches.On("FindByID", ctx, "b1").Return(liveBatch(), nil)
	repo.On("Update", ctx, mock.MatchedBy(func(v *model.VaccineSchedule) bool {
		return v.Stages[0].ID == "st-1" && v.Stages[0].Status == model.StageStatusDone &&
			v.Stages[1].ID == "id-1" && v.Stages[1].Status == model.StageStatusPending
	})).Return(&model.VaccineSchedule{ID: "vs-1"}, nil)

	_, err := svc.Update(ctx, "vs-1", &model.VaccineSchedule{
		BatchAssignID: "b1", Title: "x", StartDate: receiveDay,
		Stages: []model.VaccineStage{{StageNo: 1, VaccineName: "a"}, {StageNo: 2, AgeDays: 7, VaccineName: "b"}},
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestVaccineScheduleService_FinishStage(t *testing.T) {
	ctx := context.Background()
	actor := model.Actor{UserID: "u-vet"}

	tests := []struct {
		name       string
		skip       bool
		notes      string
		setupMocks func(r *repoMocks.MockVaccineScheduleRepository)
		wantErr    error
	}{
		{
			name: "complete pending stage",
			setupMocks: func(r *repoMocks.MockVaccineScheduleRepository) {
				r.On("FindStage", ctx, "vs-1", "st-1").Return(&model.VaccineStage{ID: "st-1", Status: model.StageStatusPending}, nil)
				r.On("UpdateStageStatus", ctx, "st-1", model.StageStatusDone, testNow, "u-vet", "").
					Return(&model.VaccineStage{ID: "st-1", Status: model.StageStatusDone}, nil)
			},
		},
		{
			name:  "skip with reason",
			skip:  true,
			notes: "flock under treatment",
			setupMocks: func(r *repoMocks.MockVaccineScheduleRepository) {
				r.On("FindStage", ctx, "vs-1", "st-1").Return(&model.VaccineStage{ID: "st-1", Status: model.StageStatusPending}, nil)
				r.On("UpdateStageStatus", ctx, "st-1", model.StageStatusSkipped, testNow, "u-vet", "flock under treatment").
					Return(&model.VaccineStage{ID: "st-1", Status: model.StageStatusSkipped}, nil)
			},
		},
		{
			name:    "skip without reason",
			skip:    true,
			wantErr: ErrInvalidInput,
		},
		{
			name: "already done",
			setupMocks: func(r *repoMocks.MockVaccineScheduleRepository) {
				r.On("FindStage", ctx, "vs-1", "st-1").Return(&model.VaccineStage{ID: "st-1", Status: model.StageStatusDone}, nil)
			},
			wantErr: ErrInvalidState,
		},
		{
			name: "lost race",
			setupMocks: func(r *repoMocks.MockVaccineScheduleRepository) {
				r.On("FindStage", ctx, "vs-1", "st-1").Return(&model.VaccineStage{ID: "st-1", Status: model.StageStatusPending}, nil)
				r.On("UpdateStageStatus", ctx, "st-1", model.StageStatusDone, testNow, "u-vet", "").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrInvalidState,
		},
		{
			name: "unknown stage",
			setupMocks: func(r *repoMocks.MockVaccineScheduleRepository) {
				r.On("FindStage", ctx, "vs-1", "st-1").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(repoMocks.MockVaccineScheduleRepository)
			if tt.setupMocks != nil {
				tt.setupMocks(repo)
			}
			svc := NewVaccineScheduleService(repo, nil).(*vaccineScheduleService)
			svc.clock = fixedClock()

			var err error
			if tt.skip {
				_, err = svc.SkipStage(ctx, "vs-1", "st-1", actor, tt.notes)
			} else {
				_, err = svc.CompleteStage(ctx, "vs-1", "st-1", actor, tt.notes)
			}
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestVaccineScheduleService_Due(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockVaccineScheduleRepository)
	svc := NewVaccineScheduleService(repo, nil).(*vaccineScheduleService)
	svc.clock = fixedClock()

	today := dateOnly(testNow)
	repo.On("ListDue", ctx, repository.DateRange{From: today, To: today}).Return([]model.DueStage{{BatchNo: "B-01"}}, nil)

	got, err := svc.Due(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.Due(ctx, today, today.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEggClassificationService_Create(t *testing.T) {
	ctx := context.Background()
	valid := func() *model.EggClassification {
		return &model.EggClassification{
			BatchAssignID: "b1", ClassifyDate: receiveDay, TotalEggs: 1000,
			Hatching: 850, Commercial: 100, DoubleYolk: 10, Cracked: 20, Dirty: 10, Small: 5, Rejected: 5,
		}
	}

	tests := []struct {
		name       string
		in         *model.EggClassification
		setupMocks func(r *repoMocks.MockEggClassificationRepository)
		wantErr    error
	}{
		{
			name: "categories add up",
			in:   valid(),
			setupMocks: func(r *repoMocks.MockEggClassificationRepository) {
				r.On("Create", ctx, mock.Anything).Return(&model.EggClassification{ID: "id-1"}, nil)
			},
		},
		{
			name:    "categories do not add up",
			in:      func() *model.EggClassification { e := valid(); e.TotalEggs = 999; return e }(),
			wantErr: ErrInvalidInput,
		},
		{
			name:    "negative category",
			in:      func() *model.EggClassification { e := valid(); e.Small = -5; e.Rejected = 15; return e }(),
			wantErr: ErrInvalidInput,
		},
		{
			name: "second grading for the day",
			in:   valid(),
			setupMocks: func(r *repoMocks.MockEggClassificationRepository) {
				r.On("Create", ctx, mock.Anything).Return(nil, &pgconn.PgError{Code: "23505"})
			},
			wantErr: ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(repoMocks.MockEggClassificationRepository)
			batches := new(repoMocks.MockBatchAssignRepository)
			batches.On("FindByID", ctx, "b1").Return(liveBatch(), nil)
			if tt.setupMocks != nil {
				tt.setupMocks(repo)
			}
			svc := NewEggClassificationService(repo, batches).(*eggClassificationService)
			svc.clock = fixedClock()

			_, err := svc.Create(ctx, tt.in, model.Actor{UserID: "u-op"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestDailyOperationService(t *testing.T) {
	ctx := context.Background()
	newSvc := func(live model.HeadCount) (*dailyOperationService, *repoMocks.MockDailyOperationRepository) {
		repo := new(repoMocks.MockDailyOperationRepository)
		batches := new(repoMocks.MockBatchAssignRepository)
		batches.On("FindByID", ctx, "b1").Return(liveBatch(), nil)
		batches.On("Balance", ctx, "b1").Return(&model.BatchBalance{BatchAssignID: "b1", Live: live}, nil)
		svc := NewDailyOperationService(repo, batches).(*dailyOperationService)
		svc.clock = fixedClock()
		return svc, repo
	}

	t.Run("losses fit the live balance", func(t *testing.T) {
		svc, repo := newSvc(hc(10, 100))
		repo.On("Create", ctx, mock.Anything).Return(&model.DailyOperation{ID: "id-1"}, nil)
		_, err := svc.Create(ctx, &model.DailyOperation{
			BatchAssignID: "b1", OperationDate: receiveDay, Mortality: hc(5, 50), Culling: hc(5, 50), FeedKg: 120.5,
		}, model.Actor{UserID: "u-op"})
		assert.NoError(t, err)
	})

	t.Run("losses exceed the live balance", func(t *testing.T) {
		svc, _ := newSvc(hc(10, 100))
		_, err := svc.Create(ctx, &model.DailyOperation{
			BatchAssignID: "b1", OperationDate: receiveDay, Mortality: hc(6, 0), Culling: hc(5, 0),
		}, model.Actor{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("update adds back its own losses", func(t *testing.T) {
		svc, repo := newSvc(hc(0, 0))
		repo.On("FindByID", ctx, "d1").Return(&model.DailyOperation{ID: "d1", BatchAssignID: "b1", Mortality: hc(3, 3)}, nil)
		repo.On("Update", ctx, mock.Anything).Return(&model.DailyOperation{ID: "d1"}, nil)
		_, err := svc.Update(ctx, "d1", &model.DailyOperation{
			BatchAssignID: "b1", OperationDate: receiveDay, Mortality: hc(2, 3), Culling: hc(1, 0),
		})
		assert.NoError(t, err)
	})

	t.Run("duplicate day", func(t *testing.T) {
		svc, repo := newSvc(hc(10, 10))
		repo.On("Create", ctx, mock.Anything).Return(nil, &pgconn.PgError{Code: "23505"})
		_, err := svc.Create(ctx, &model.DailyOperation{BatchAssignID: "b1", OperationDate: receiveDay}, model.Actor{})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("before the batch existed", func(t *testing.T) {
		svc, _ := newSvc(hc(10, 10))
		_, err := svc.Create(ctx, &model.DailyOperation{BatchAssignID: "b1", OperationDate: receiveDay.AddDate(0, 0, -1)}, model.Actor{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
