package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"hatchops/internal/model"
	"hatchops/internal/service"
)

type MockBatchAssignService struct {
	mock.Mock
}

func (m *MockBatchAssignService) Create(ctx context.Context, in *model.BatchAssign, actor model.Actor) (*model.BatchAssign, error) {
	args := m.Called(ctx, in, actor)
	if f, ok := args.Get(0).(func(context.Context, *model.BatchAssign, model.Actor) *model.BatchAssign); ok {
		return f(ctx, in, actor), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchAssign), args.Error(1)
}

func (m *MockBatchAssignService) Get(ctx context.Context, id string) (*model.BatchAssign, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.BatchAssign); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchAssign), args.Error(1)
}

func (m *MockBatchAssignService) List(ctx context.Context, shedReceiveID string, limit int, offset int) (*service.ListResult[model.BatchAssign], error) {
	args := m.Called(ctx, shedReceiveID, limit, offset)
	if f, ok := args.Get(0).(func(context.Context, string, int, int) *service.ListResult[model.BatchAssign]); ok {
		return f(ctx, shedReceiveID, limit, offset), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.BatchAssign]), args.Error(1)
}

func (m *MockBatchAssignService) Update(ctx context.Context, id string, in *model.BatchAssign, actor model.Actor) (*model.BatchAssign, error) {
	args := m.Called(ctx, id, in, actor)
	if f, ok := args.Get(0).(func(context.Context, string, *model.BatchAssign, model.Actor) *model.BatchAssign); ok {
		return f(ctx, id, in, actor), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchAssign), args.Error(1)
}

func (m *MockBatchAssignService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBatchAssignService) Balance(ctx context.Context, id string) (*model.BatchBalance, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.BatchBalance); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchBalance), args.Error(1)
}

type MockBirdTransferService struct {
	mock.Mock
}

func (m *MockBirdTransferService) Create(ctx context.Context, in *model.BirdTransfer, actor model.Actor) (*model.BirdTransfer, error) {
	args := m.Called(ctx, in, actor)
	if f, ok := args.Get(0).(func(context.Context, *model.BirdTransfer, model.Actor) *model.BirdTransfer); ok {
		return f(ctx, in, actor), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BirdTransfer), args.Error(1)
}

func (m *MockBirdTransferService) Get(ctx context.Context, id string) (*model.BirdTransfer, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.BirdTransfer); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BirdTransfer), args.Error(1)
}

func (m *MockBirdTransferService) List(ctx context.Context, batchAssignID string, from time.Time, to time.Time, limit int, offset int) (*service.ListResult[model.BirdTransfer], error) {
	args := m.Called(ctx, batchAssignID, from, to, limit, offset)
	if f, ok := args.Get(0).(func(context.Context, string, time.Time, time.Time, int, int) *service.ListResult[model.BirdTransfer]); ok {
		return f(ctx, batchAssignID, from, to, limit, offset), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.BirdTransfer]), args.Error(1)
}

func (m *MockBirdTransferService) Update(ctx context.Context, id string, in *model.BirdTransfer, actor model.Actor) (*model.BirdTransfer, error) {
	args := m.Called(ctx, id, in, actor)
	if f, ok := args.Get(0).(func(context.Context, string, *model.BirdTransfer, model.Actor) *model.BirdTransfer); ok {
		return f(ctx, id, in, actor), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BirdTransfer), args.Error(1)
}

func (m *MockBirdTransferService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
