package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

type MockBatchAssignRepository struct {
	mock.Mock
}

func (m *MockBatchAssignRepository) Create(ctx context.Context, v *model.BatchAssign) (*model.BatchAssign, error) {
	args := m.Called(ctx, v)
	if f, ok := args.Get(0).(func(context.Context, *model.BatchAssign) *model.BatchAssign); ok {
		return f(ctx, v), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchAssign), args.Error(1)
}

func (m *MockBatchAssignRepository) FindByID(ctx context.Context, id string) (*model.BatchAssign, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.BatchAssign); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchAssign), args.Error(1)
}

func (m *MockBatchAssignRepository) List(ctx context.Context, shedReceiveID string, pq repository.PageQuery) (*repository.PageResult[model.BatchAssign], error) {
	args := m.Called(ctx, shedReceiveID, pq)
	if f, ok := args.Get(0).(func(context.Context, string, repository.PageQuery) *repository.PageResult[model.BatchAssign]); ok {
		return f(ctx, shedReceiveID, pq), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.BatchAssign]), args.Error(1)
}

func (m *MockBatchAssignRepository) Update(ctx context.Context, v *model.BatchAssign) (*model.BatchAssign, error) {
	args := m.Called(ctx, v)
	if f, ok := args.Get(0).(func(context.Context, *model.BatchAssign) *model.BatchAssign); ok {
		return f(ctx, v), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchAssign), args.Error(1)
}

func (m *MockBatchAssignRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBatchAssignRepository) SetApprovalStatus(ctx context.Context, id string, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockBatchAssignRepository) SumByShedReceive(ctx context.Context, shedReceiveID string, excludeID string) (model.HeadCount, error) {
	args := m.Called(ctx, shedReceiveID, excludeID)
	return args.Get(0).(model.HeadCount), args.Error(1)
}

func (m *MockBatchAssignRepository) Balance(ctx context.Context, id string) (*model.BatchBalance, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.BatchBalance); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchBalance), args.Error(1)
}

type MockBirdTransferRepository struct {
	mock.Mock
}

func (m *MockBirdTransferRepository) Create(ctx context.Context, v *model.BirdTransfer) (*model.BirdTransfer, error) {
	args := m.Called(ctx, v)
	if f, ok := args.Get(0).(func(context.Context, *model.BirdTransfer) *model.BirdTransfer); ok {
		return f(ctx, v), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BirdTransfer), args.Error(1)
}

func (m *MockBirdTransferRepository) FindByID(ctx context.Context, id string) (*model.BirdTransfer, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.BirdTransfer); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BirdTransfer), args.Error(1)
}

func (m *MockBirdTransferRepository) List(ctx context.Context, batchAssignID string, dr repository.DateRange, pq repository.PageQuery) (*repository.PageResult[model.BirdTransfer], error) {
	args := m.Called(ctx, batchAssignID, dr, pq)
	if f, ok := args.Get(0).(func(context.Context, string, repository.DateRange, repository.PageQuery) *repository.PageResult[model.BirdTransfer]); ok {
		return f(ctx, batchAssignID, dr, pq), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.BirdTransfer]), args.Error(1)
}

func (m *MockBirdTransferRepository) Update(ctx context.Context, v *model.BirdTransfer) (*model.BirdTransfer, error) {
	args := m.Called(ctx, v)
	if f, ok := args.Get(0).(func(context.Context, *model.BirdTransfer) *model.BirdTransfer); ok {
		return f(ctx, v), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BirdTransfer), args.Error(1)
}

func (m *MockBirdTransferRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBirdTransferRepository) SetApprovalStatus(ctx context.Context, id string, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
