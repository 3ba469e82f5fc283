package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"hatchops/internal/model"
	"hatchops/internal/service"
)

type MockPsReceiveService struct {
	mock.Mock
}

func (m *MockPsReceiveService) Create(ctx context.Context, in *model.PsReceive, actor model.Actor) (*model.PsReceive, error) {
	args := m.Called(ctx, in, actor)
	if f, ok := args.Get(0).(func(context.Context, *model.PsReceive, model.Actor) *model.PsReceive); ok {
		return f(ctx, in, actor), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PsReceive), args.Error(1)
}

func (m *MockPsReceiveService) Get(ctx context.Context, id string) (*model.PsReceive, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.PsReceive); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PsReceive), args.Error(1)
}

func (m *MockPsReceiveService) List(ctx context.Context, from time.Time, to time.Time, limit int, offset int) (*service.ListResult[model.PsReceive], error) {
	args := m.Called(ctx, from, to, limit, offset)
	if f, ok := args.Get(0).(func(context.Context, time.Time, time.Time, int, int) *service.ListResult[model.PsReceive]); ok {
		return f(ctx, from, to, limit, offset), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.PsReceive]), args.Error(1)
}

func (m *MockPsReceiveService) Update(ctx context.Context, id string, in *model.PsReceive, actor model.Actor) (*model.PsReceive, error) {
	args := m.Called(ctx, id, in, actor)
	if f, ok := args.Get(0).(func(context.Context, string, *model.PsReceive, model.Actor) *model.PsReceive); ok {
		return f(ctx, id, in, actor), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PsReceive), args.Error(1)
}

func (m *MockPsReceiveService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockFirmReceiveService struct {
	mock.Mock
}

func (m *MockFirmReceiveService) Create(ctx context.Context, in *model.FirmReceive, actor model.Actor) (*model.FirmReceive, error) {
	args := m.Called(ctx, in, actor)
	if f, ok := args.Get(0).(func(context.Context, *model.FirmReceive, model.Actor) *model.FirmReceive); ok {
		return f(ctx, in, actor), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FirmReceive), args.Error(1)
}

func (m *MockFirmReceiveService) Get(ctx context.Context, id string) (*model.FirmReceive, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.FirmReceive); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FirmReceive), args.Error(1)
}

func (m *MockFirmReceiveService) List(ctx context.Context, psReceiveID string, limit int, offset int) (*service.ListResult[model.FirmReceive], error) {
	args := m.Called(ctx, psReceiveID, limit, offset)
	if f, ok := args.Get(0).(func(context.Context, string, int, int) *service.ListResult[model.FirmReceive]); ok {
		return f(ctx, psReceiveID, limit, offset), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.FirmReceive]), args.Error(1)
}

func (m *MockFirmReceiveService) Update(ctx context.Context, id string, in *model.FirmReceive, actor model.Actor) (*model.FirmReceive, error) {
	args := m.Called(ctx, id, in, actor)
	if f, ok := args.Get(0).(func(context.Context, string, *model.FirmReceive, model.Actor) *model.FirmReceive); ok {
		return f(ctx, id, in, actor), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FirmReceive), args.Error(1)
}

func (m *MockFirmReceiveService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockShedReceiveService struct {
	mock.Mock
}

func (m *MockShedReceiveService) Create(ctx context.Context, in *model.ShedReceive, actor model.Actor) (*model.ShedReceive, error) {
	args := m.Called(ctx, in, actor)
	if f, ok := args.Get(0).(func(context.Context, *model.ShedReceive, model.Actor) *model.ShedReceive); ok {
		return f(ctx, in, actor), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShedReceive), args.Error(1)
}

func (m *MockShedReceiveService) Get(ctx context.Context, id string) (*model.ShedReceive, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.ShedReceive); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShedReceive), args.Error(1)
}

func (m *MockShedReceiveService) List(ctx context.Context, firmReceiveID string, limit int, offset int) (*service.ListResult[model.ShedReceive], error) {
	args := m.Called(ctx, firmReceiveID, limit, offset)
	if f, ok := args.Get(0).(func(context.Context, string, int, int) *service.ListResult[model.ShedReceive]); ok {
		return f(ctx, firmReceiveID, limit, offset), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.ShedReceive]), args.Error(1)
}

func (m *MockShedReceiveService) Update(ctx context.Context, id string, in *model.ShedReceive, actor model.Actor) (*model.ShedReceive, error) {
	args := m.Called(ctx, id, in, actor)
	if f, ok := args.Get(0).(func(context.Context, string, *model.ShedReceive, model.Actor) *model.ShedReceive); ok {
		return f(ctx, id, in, actor), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShedReceive), args.Error(1)
}

func (m *MockShedReceiveService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
