package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

type MockPsReceiveRepository struct {
	mock.Mock
}

func (m *MockPsReceiveRepository) Create(ctx context.Context, v *model.PsReceive) (*model.PsReceive, error) {
	args := m.Called(ctx, v)
	if f, ok := args.Get(0).(func(context.Context, *model.PsReceive) *model.PsReceive); ok {
		return f(ctx, v), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PsReceive), args.Error(1)
}

func (m *MockPsReceiveRepository) FindByID(ctx context.Context, id string) (*model.PsReceive, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.PsReceive); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PsReceive), args.Error(1)
}

func (m *MockPsReceiveRepository) List(ctx context.Context, dr repository.DateRange, pq repository.PageQuery) (*repository.PageResult[model.PsReceive], error) {
	args := m.Called(ctx, dr, pq)
	if f, ok := args.Get(0).(func(context.Context, repository.DateRange, repository.PageQuery) *repository.PageResult[model.PsReceive]); ok {
		return f(ctx, dr, pq), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.PsReceive]), args.Error(1)
}

func (m *MockPsReceiveRepository) Update(ctx context.Context, v *model.PsReceive) (*model.PsReceive, error) {
	args := m.Called(ctx, v)
	if f, ok := args.Get(0).(func(context.Context, *model.PsReceive) *model.PsReceive); ok {
		return f(ctx, v), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PsReceive), args.Error(1)
}

func (m *MockPsReceiveRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPsReceiveRepository) SetApprovalStatus(ctx context.Context, id string, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockFirmReceiveRepository struct {
	mock.Mock
}

func (m *MockFirmReceiveRepository) Create(ctx context.Context, v *model.FirmReceive) (*model.FirmReceive, error) {
	args := m.Called(ctx, v)
	if f, ok := args.Get(0).(func(context.Context, *model.FirmReceive) *model.FirmReceive); ok {
		return f(ctx, v), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FirmReceive), args.Error(1)
}

func (m *MockFirmReceiveRepository) FindByID(ctx context.Context, id string) (*model.FirmReceive, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.FirmReceive); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FirmReceive), args.Error(1)
}

func (m *MockFirmReceiveRepository) List(ctx context.Context, psReceiveID string, pq repository.PageQuery) (*repository.PageResult[model.FirmReceive], error) {
	args := m.Called(ctx, psReceiveID, pq)
	if f, ok := args.Get(0).(func(context.Context, string, repository.PageQuery) *repository.PageResult[model.FirmReceive]); ok {
		return f(ctx, psReceiveID, pq), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.FirmReceive]), args.Error(1)
}

func (m *MockFirmReceiveRepository) Update(ctx context.Context, v *model.FirmReceive) (*model.FirmReceive, error) {
	args := m.Called(ctx, v)
	if f, ok := args.Get(0).(func(context.Context, *model.FirmReceive) *model.FirmReceive); ok {
		return f(ctx, v), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FirmReceive), args.Error(1)
}

func (m *MockFirmReceiveRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFirmReceiveRepository) SetApprovalStatus(ctx context.Context, id string, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockFirmReceiveRepository) SumByPsReceive(ctx context.Context, psReceiveID string, excludeID string) (model.HeadCount, error) {
	args := m.Called(ctx, psReceiveID, excludeID)
	return args.Get(0).(model.HeadCount), args.Error(1)
}

type MockShedReceiveRepository struct {
	mock.Mock
}

func (m *MockShedReceiveRepository) Create(ctx context.Context, v *model.ShedReceive) (*model.ShedReceive, error) {
	args := m.Called(ctx, v)
	if f, ok := args.Get(0).(func(context.Context, *model.ShedReceive) *model.ShedReceive); ok {
		return f(ctx, v), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShedReceive), args.Error(1)
}

func (m *MockShedReceiveRepository) FindByID(ctx context.Context, id string) (*model.ShedReceive, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.ShedReceive); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShedReceive), args.Error(1)
}

func (m *MockShedReceiveRepository) List(ctx context.Context, firmReceiveID string, pq repository.PageQuery) (*repository.PageResult[model.ShedReceive], error) {
	args := m.Called(ctx, firmReceiveID, pq)
	if f, ok := args.Get(0).(func(context.Context, string, repository.PageQuery) *repository.PageResult[model.ShedReceive]); ok {
		return f(ctx, firmReceiveID, pq), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.ShedReceive]), args.Error(1)
}

func (m *MockShedReceiveRepository) Update(ctx context.Context, v *model.ShedReceive) (*model.ShedReceive, error) {
	args := m.Called(ctx, v)
	if f, ok := args.Get(0).(func(context.Context, *model.ShedReceive) *model.ShedReceive); ok {
		return f(ctx, v), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShedReceive), args.Error(1)
}

func (m *MockShedReceiveRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockShedReceiveRepository) SetApprovalStatus(ctx context.Context, id string, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockShedReceiveRepository) SumByFirmReceive(ctx context.Context, firmReceiveID string, excludeID string) (model.HeadCount, error) {
	args := m.Called(ctx, firmReceiveID, excludeID)
	return args.Get(0).(model.HeadCount), args.Error(1)
}
