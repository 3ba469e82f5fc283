package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

type MockVaccineScheduleRepository struct {
	mock.Mock
}

func (m *MockVaccineScheduleRepository) Create(ctx context.Context, v *model.VaccineSchedule) (*model.VaccineSchedule, error) {
	args := m.Called(ctx, v)
	if f, ok := args.Get(0).(func(context.Context, *model.VaccineSchedule) *model.VaccineSchedule); ok {
		return f(ctx, v), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VaccineSchedule), args.Error(1)
}

func (m *MockVaccineScheduleRepository) FindByID(ctx context.Context, id string) (*model.VaccineSchedule, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.VaccineSchedule); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VaccineSchedule), args.Error(1)
}

func (m *MockVaccineScheduleRepository) List(ctx context.Context, batchAssignID string, pq repository.PageQuery) (*repository.PageResult[model.VaccineSchedule], error) {
	args := m.Called(ctx, batchAssignID, pq)
	if f, ok := args.Get(0).(func(context.Context, string, repository.PageQuery) *repository.PageResult[model.VaccineSchedule]); ok {
		return f(ctx, batchAssignID, pq), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.VaccineSchedule]), args.Error(1)
}

func (m *MockVaccineScheduleRepository) Update(ctx context.Context, v *model.VaccineSchedule) (*model.VaccineSchedule, error) {
	args := m.Called(ctx, v)
	if f, ok := args.Get(0).(func(context.Context, *model.VaccineSchedule) *model.VaccineSchedule); ok {
		return f(ctx, v), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VaccineSchedule), args.Error(1)
}

func (m *MockVaccineScheduleRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVaccineScheduleRepository) FindStage(ctx context.Context, scheduleID string, stageID string) (*model.VaccineStage, error) {
	args := m.Called(ctx, scheduleID, stageID)
	if f, ok := args.Get(0).(func(context.Context, string, string) *model.VaccineStage); ok {
		return f(ctx, scheduleID, stageID), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VaccineStage), args.Error(1)
}

func (m *MockVaccineScheduleRepository) UpdateStageStatus(ctx context.Context, stageID string, status string, at time.Time, by string, notes string) (*model.VaccineStage, error) {
	args := m.Called(ctx, stageID, status, at, by, notes)
	if f, ok := args.Get(0).(func(context.Context, string, string, time.Time, string, string) *model.VaccineStage); ok {
		return f(ctx, stageID, status, at, by, notes), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VaccineStage), args.Error(1)
}

func (m *MockVaccineScheduleRepository) ListDue(ctx context.Context, dr repository.DateRange) ([]model.DueStage, error) {
	args := m.Called(ctx, dr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DueStage), args.Error(1)
}

type MockEggClassificationRepository struct {
	mock.Mock
}

func (m *MockEggClassificationRepository) Create(ctx context.Context, v *model.EggClassification) (*model.EggClassification, error) {
	args := m.Called(ctx, v)
	if f, ok := args.Get(0).(func(context.Context, *model.EggClassification) *model.EggClassification); ok {
		return f(ctx, v), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EggClassification), args.Error(1)
}

func (m *MockEggClassificationRepository) FindByID(ctx context.Context, id string) (*model.EggClassification, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.EggClassification); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EggClassification), args.Error(1)
}

func (m *MockEggClassificationRepository) List(ctx context.Context, batchAssignID string, dr repository.DateRange, pq repository.PageQuery) (*repository.PageResult[model.EggClassification], error) {
	args := m.Called(ctx, batchAssignID, dr, pq)
	if f, ok := args.Get(0).(func(context.Context, string, repository.DateRange, repository.PageQuery) *repository.PageResult[model.EggClassification]); ok {
		return f(ctx, batchAssignID, dr, pq), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.EggClassification]), args.Error(1)
}

func (m *MockEggClassificationRepository) Update(ctx context.Context, v *model.EggClassification) (*model.EggClassification, error) {
	args := m.Called(ctx, v)
	if f, ok := args.Get(0).(func(context.Context, *model.EggClassification) *model.EggClassification); ok {
		return f(ctx, v), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EggClassification), args.Error(1)
}

func (m *MockEggClassificationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDailyOperationRepository struct {
	mock.Mock
}

func (m *MockDailyOperationRepository) Create(ctx context.Context, v *model.DailyOperation) (*model.DailyOperation, error) {
	args := m.Called(ctx, v)
	if f, ok := args.Get(0).(func(context.Context, *model.DailyOperation) *model.DailyOperation); ok {
		return f(ctx, v), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyOperation), args.Error(1)
}

func (m *MockDailyOperationRepository) FindByID(ctx context.Context, id string) (*model.DailyOperation, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.DailyOperation); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyOperation), args.Error(1)
}

func (m *MockDailyOperationRepository) List(ctx context.Context, batchAssignID string, dr repository.DateRange, pq repository.PageQuery) (*repository.PageResult[model.DailyOperation], error) {
	args := m.Called(ctx, batchAssignID, dr, pq)
	if f, ok := args.Get(0).(func(context.Context, string, repository.DateRange, repository.PageQuery) *repository.PageResult[model.DailyOperation]); ok {
		return f(ctx, batchAssignID, dr, pq), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.DailyOperation]), args.Error(1)
}

func (m *MockDailyOperationRepository) Update(ctx context.Context, v *model.DailyOperation) (*model.DailyOperation, error) {
	args := m.Called(ctx, v)
	if f, ok := args.Get(0).(func(context.Context, *model.DailyOperation) *model.DailyOperation); ok {
		return f(ctx, v), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyOperation), args.Error(1)
}

func (m *MockDailyOperationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
