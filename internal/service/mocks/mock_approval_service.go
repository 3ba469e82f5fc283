package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hatchops/internal/model"
	"hatchops/internal/service"
)

type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) Submit(ctx context.Context, module string, referenceID string, actor model.Actor) (*model.ApprovalRequest, error) {
	args := m.Called(ctx, module, referenceID, actor)
	if f, ok := args.Get(0).(func(context.Context, string, string, model.Actor) *model.ApprovalRequest); ok {
		return f(ctx, module, referenceID, actor), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalService) CreateConfig(ctx context.Context, in *model.ApprovalMatrixConfig) (*model.ApprovalMatrixConfig, error) {
	args := m.Called(ctx, in)
	if f, ok := args.Get(0).(func(context.Context, *model.ApprovalMatrixConfig) *model.ApprovalMatrixConfig); ok {
		return f(ctx, in), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalMatrixConfig), args.Error(1)
}

func (m *MockApprovalService) UpdateConfig(ctx context.Context, id string, in *model.ApprovalMatrixConfig) (*model.ApprovalMatrixConfig, error) {
	args := m.Called(ctx, id, in)
	if f, ok := args.Get(0).(func(context.Context, string, *model.ApprovalMatrixConfig) *model.ApprovalMatrixConfig); ok {
		return f(ctx, id, in), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalMatrixConfig), args.Error(1)
}

func (m *MockApprovalService) GetConfig(ctx context.Context, id string) (*model.ApprovalMatrixConfig, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.ApprovalMatrixConfig); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalMatrixConfig), args.Error(1)
}

func (m *MockApprovalService) ListConfigs(ctx context.Context, module string) ([]model.ApprovalMatrixConfig, error) {
	args := m.Called(ctx, module)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ApprovalMatrixConfig), args.Error(1)
}

func (m *MockApprovalService) DeleteConfig(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockApprovalService) List(ctx context.Context, status string, module string, limit int, offset int) (*service.ListResult[model.ApprovalRequest], error) {
	args := m.Called(ctx, status, module, limit, offset)
	if f, ok := args.Get(0).(func(context.Context, string, string, int, int) *service.ListResult[model.ApprovalRequest]); ok {
		return f(ctx, status, module, limit, offset), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.ApprovalRequest]), args.Error(1)
}

func (m *MockApprovalService) Inbox(ctx context.Context, actor model.Actor) ([]model.ApprovalRequest, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalService) Get(ctx context.Context, id string) (*model.ApprovalRequest, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.ApprovalRequest); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalService) Approve(ctx context.Context, id string, actor model.Actor, comment string) (*model.ApprovalRequest, error) {
	args := m.Called(ctx, id, actor, comment)
	if f, ok := args.Get(0).(func(context.Context, string, model.Actor, string) *model.ApprovalRequest); ok {
		return f(ctx, id, actor, comment), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalService) Reject(ctx context.Context, id string, actor model.Actor, comment string) (*model.ApprovalRequest, error) {
	args := m.Called(ctx, id, actor, comment)
	if f, ok := args.Get(0).(func(context.Context, string, model.Actor, string) *model.ApprovalRequest); ok {
		return f(ctx, id, actor, comment), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalService) ExpireOverdue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
