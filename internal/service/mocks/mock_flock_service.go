package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"hatchops/internal/model"
	"hatchops/internal/service"
)

type MockVaccineScheduleService struct {
	mock.Mock
}

func (m *MockVaccineScheduleService) Create(ctx context.Context, in *model.VaccineSchedule, actor model.Actor) (*model.VaccineSchedule, error) {
	args := m.Called(ctx, in, actor)
	if f, ok := args.Get(0).(func(context.Context, *model.VaccineSchedule, model.Actor) *model.VaccineSchedule); ok {
		return f(ctx, in, actor), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VaccineSchedule), args.Error(1)
}

func (m *MockVaccineScheduleService) Get(ctx context.Context, id string) (*model.VaccineSchedule, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.VaccineSchedule); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VaccineSchedule), args.Error(1)
}

func (m *MockVaccineScheduleService) List(ctx context.Context, batchAssignID string, limit int, offset int) (*service.ListResult[model.VaccineSchedule], error) {
	args := m.Called(ctx, batchAssignID, limit, offset)
	if f, ok := args.Get(0).(func(context.Context, string, int, int) *service.ListResult[model.VaccineSchedule]); ok {
		return f(ctx, batchAssignID, limit, offset), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.VaccineSchedule]), args.Error(1)
}

func (m *MockVaccineScheduleService) Update(ctx context.Context, id string, in *model.VaccineSchedule) (*model.VaccineSchedule, error) {
	args := m.Called(ctx, id, in)
	if f, ok := args.Get(0).(func(context.Context, string, *model.VaccineSchedule) *model.VaccineSchedule); ok {
		return f(ctx, id, in), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VaccineSchedule), args.Error(1)
}

func (m *MockVaccineScheduleService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVaccineScheduleService) CompleteStage(ctx context.Context, scheduleID string, stageID string, actor model.Actor, notes string) (*model.VaccineStage, error) {
	args := m.Called(ctx, scheduleID, stageID, actor, notes)
	if f, ok := args.Get(0).(func(context.Context, string, string, model.Actor, string) *model.VaccineStage); ok {
		return f(ctx, scheduleID, stageID, actor, notes), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VaccineStage), args.Error(1)
}

func (m *MockVaccineScheduleService) SkipStage(ctx context.Context, scheduleID string, stageID string, actor model.Actor, notes string) (*model.VaccineStage, error) {
	args := m.Called(ctx, scheduleID, stageID, actor, notes)
	if f, ok := args.Get(0).(func(context.Context, string, string, model.Actor, string) *model.VaccineStage); ok {
		return f(ctx, scheduleID, stageID, actor, notes), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VaccineStage), args.Error(1)
}

func (m *MockVaccineScheduleService) Due(ctx context.Context, from time.Time, to time.Time) ([]model.DueStage, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DueStage), args.Error(1)
}

type MockEggClassificationService struct {
	mock.Mock
}

func (m *MockEggClassificationService) Create(ctx context.Context, in *model.EggClassification, actor model.Actor) (*model.EggClassification, error) {
	args := m.Called(ctx, in, actor)
	if f, ok := args.Get(0).(func(context.Context, *model.EggClassification, model.Actor) *model.EggClassification); ok {
		return f(ctx, in, actor), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EggClassification), args.Error(1)
}

func (m *MockEggClassificationService) Get(ctx context.Context, id string) (*model.EggClassification, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.EggClassification); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EggClassification), args.Error(1)
}

func (m *MockEggClassificationService) List(ctx context.Context, batchAssignID string, from time.Time, to time.Time, limit int, offset int) (*service.ListResult[model.EggClassification], error) {
	args := m.Called(ctx, batchAssignID, from, to, limit, offset)
	if f, ok := args.Get(0).(func(context.Context, string, time.Time, time.Time, int, int) *service.ListResult[model.EggClassification]); ok {
		return f(ctx, batchAssignID, from, to, limit, offset), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.EggClassification]), args.Error(1)
}

func (m *MockEggClassificationService) Update(ctx context.Context, id string, in *model.EggClassification) (*model.EggClassification, error) {
	args := m.Called(ctx, id, in)
	if f, ok := args.Get(0).(func(context.Context, string, *model.EggClassification) *model.EggClassification); ok {
		return f(ctx, id, in), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EggClassification), args.Error(1)
}

func (m *MockEggClassificationService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDailyOperationService struct {
	mock.Mock
}

func (m *MockDailyOperationService) Create(ctx context.Context, in *model.DailyOperation, actor model.Actor) (*model.DailyOperation, error) {
	args := m.Called(ctx, in, actor)
	if f, ok := args.Get(0).(func(context.Context, *model.DailyOperation, model.Actor) *model.DailyOperation); ok {
		return f(ctx, in, actor), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyOperation), args.Error(1)
}

func (m *MockDailyOperationService) Get(ctx context.Context, id string) (*model.DailyOperation, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.DailyOperation); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyOperation), args.Error(1)
}

func (m *MockDailyOperationService) List(ctx context.Context, batchAssignID string, from time.Time, to time.Time, limit int, offset int) (*service.ListResult[model.DailyOperation], error) {
	args := m.Called(ctx, batchAssignID, from, to, limit, offset)
	if f, ok := args.Get(0).(func(context.Context, string, time.Time, time.Time, int, int) *service.ListResult[model.DailyOperation]); ok {
		return f(ctx, batchAssignID, from, to, limit, offset), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.DailyOperation]), args.Error(1)
}

func (m *MockDailyOperationService) Update(ctx context.Context, id string, in *model.DailyOperation) (*model.DailyOperation, error) {
	args := m.Called(ctx, id, in)
	if f, ok := args.Get(0).(func(context.Context, string, *model.DailyOperation) *model.DailyOperation); ok {
		return f(ctx, id, in), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyOperation), args.Error(1)
}

func (m *MockDailyOperationService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
