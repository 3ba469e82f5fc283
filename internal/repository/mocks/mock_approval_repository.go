package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

type MockApprovalRepository struct {
	mock.Mock
}

func (m *MockApprovalRepository) CreateConfig(ctx context.Context, c *model.ApprovalMatrixConfig) (*model.ApprovalMatrixConfig, error) {
	args := m.Called(ctx, c)
	if f, ok := args.Get(0).(func(context.Context, *model.ApprovalMatrixConfig) *model.ApprovalMatrixConfig); ok {
		return f(ctx, c), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalMatrixConfig), args.Error(1)
}

func (m *MockApprovalRepository) UpdateConfig(ctx context.Context, c *model.ApprovalMatrixConfig) (*model.ApprovalMatrixConfig, error) {
	args := m.Called(ctx, c)
	if f, ok := args.Get(0).(func(context.Context, *model.ApprovalMatrixConfig) *model.ApprovalMatrixConfig); ok {
		return f(ctx, c), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalMatrixConfig), args.Error(1)
}

func (m *MockApprovalRepository) FindConfig(ctx context.Context, id string) (*model.ApprovalMatrixConfig, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.ApprovalMatrixConfig); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalMatrixConfig), args.Error(1)
}

func (m *MockApprovalRepository) FindActiveConfig(ctx context.Context, module string) (*model.ApprovalMatrixConfig, error) {
	args := m.Called(ctx, module)
	if f, ok := args.Get(0).(func(context.Context, string) *model.ApprovalMatrixConfig); ok {
		return f(ctx, module), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalMatrixConfig), args.Error(1)
}

func (m *MockApprovalRepository) ListConfigs(ctx context.Context, module string) ([]model.ApprovalMatrixConfig, error) {
	args := m.Called(ctx, module)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ApprovalMatrixConfig), args.Error(1)
}

func (m *MockApprovalRepository) DeleteConfig(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockApprovalRepository) CreateRequest(ctx context.Context, r *model.ApprovalRequest) (*model.ApprovalRequest, error) {
	args := m.Called(ctx, r)
	if f, ok := args.Get(0).(func(context.Context, *model.ApprovalRequest) *model.ApprovalRequest); ok {
		return f(ctx, r), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalRepository) FindRequest(ctx context.Context, id string) (*model.ApprovalRequest, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.ApprovalRequest); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalRepository) ListRequests(ctx context.Context, flt repository.ApprovalFilter, pq repository.PageQuery) (*repository.PageResult[model.ApprovalRequest], error) {
	args := m.Called(ctx, flt, pq)
	if f, ok := args.Get(0).(func(context.Context, repository.ApprovalFilter, repository.PageQuery) *repository.PageResult[model.ApprovalRequest]); ok {
		return f(ctx, flt, pq), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.ApprovalRequest]), args.Error(1)
}

func (m *MockApprovalRepository) ListPendingWithLayers(ctx context.Context) ([]model.ApprovalRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ApprovalRequest), args.Error(1)
}

// Decide runs fn against the request configured as the first return value and
// applies a non-nil decision to it, the way the Postgres implementation does.
func (m *MockApprovalRepository) Decide(ctx context.Context, requestID string, fn repository.DecideFunc) (*model.ApprovalRequest, error) {
	args := m.Called(ctx, requestID, fn)
	locked, _ := args.Get(0).(*model.ApprovalRequest)
	if locked == nil || args.Error(1) != nil {
		return nil, args.Error(1)
	}
	decision, err := fn(locked)
	if decision == nil {
		return nil, err
	}
	if decision.Action != nil {
		decision.Action.RequestID = locked.ID
		locked.Actions = append(locked.Actions, *decision.Action)
	}
	locked.Status = decision.Status
	locked.CompletedAt = decision.CompletedAt
	return locked, err
}

func (m *MockApprovalRepository) ExpireOverdue(ctx context.Context, now time.Time) ([]model.ApprovalRequest, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalRepository) CountPending(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
