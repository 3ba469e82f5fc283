package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hatchops/internal/model"
	"hatchops/internal/service"
)

type MockCompanyService struct {
	mock.Mock
}

func (m *MockCompanyService) Create(ctx context.Context, in *model.Company) (*model.Company, error) {
	args := m.Called(ctx, in)
	if f, ok := args.Get(0).(func(context.Context, *model.Company) *model.Company); ok {
		return f(ctx, in), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockCompanyService) Get(ctx context.Context, id string) (*model.Company, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.Company); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockCompanyService) List(ctx context.Context, limit int, offset int) (*service.ListResult[model.Company], error) {
	args := m.Called(ctx, limit, offset)
	if f, ok := args.Get(0).(func(context.Context, int, int) *service.ListResult[model.Company]); ok {
		return f(ctx, limit, offset), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Company]), args.Error(1)
}

func (m *MockCompanyService) Update(ctx context.Context, id string, in *model.Company) (*model.Company, error) {
	args := m.Called(ctx, id, in)
	if f, ok := args.Get(0).(func(context.Context, string, *model.Company) *model.Company); ok {
		return f(ctx, id, in), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockCompanyService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockShedService struct {
	mock.Mock
}

func (m *MockShedService) Create(ctx context.Context, in *model.Shed) (*model.Shed, error) {
	args := m.Called(ctx, in)
	if f, ok := args.Get(0).(func(context.Context, *model.Shed) *model.Shed); ok {
		return f(ctx, in), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shed), args.Error(1)
}

func (m *MockShedService) Get(ctx context.Context, id string) (*model.Shed, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.Shed); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shed), args.Error(1)
}

func (m *MockShedService) List(ctx context.Context, companyID string, limit int, offset int) (*service.ListResult[model.Shed], error) {
	args := m.Called(ctx, companyID, limit, offset)
	if f, ok := args.Get(0).(func(context.Context, string, int, int) *service.ListResult[model.Shed]); ok {
		return f(ctx, companyID, limit, offset), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Shed]), args.Error(1)
}

func (m *MockShedService) Update(ctx context.Context, id string, in *model.Shed) (*model.Shed, error) {
	args := m.Called(ctx, id, in)
	if f, ok := args.Get(0).(func(context.Context, string, *model.Shed) *model.Shed); ok {
		return f(ctx, id, in), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shed), args.Error(1)
}

func (m *MockShedService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, in service.NewUser) (*model.User, error) {
	args := m.Called(ctx, in)
	if f, ok := args.Get(0).(func(context.Context, service.NewUser) *model.User); ok {
		return f(ctx, in), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func(context.Context, string) *model.User); ok {
		return f(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, limit int, offset int) (*service.ListResult[model.User], error) {
	args := m.Called(ctx, limit, offset)
	if f, ok := args.Get(0).(func(context.Context, int, int) *service.ListResult[model.User]); ok {
		return f(ctx, limit, offset), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.User]), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email string, password string) (*service.Token, error) {
	args := m.Called(ctx, email, password)
	if f, ok := args.Get(0).(func(context.Context, string, string) *service.Token); ok {
		return f(ctx, email, password), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Token), args.Error(1)
}

func (m *MockAuthService) ParseToken(token string) (*service.Claims, error) {
	args := m.Called(token)
	if f, ok := args.Get(0).(func(string) *service.Claims); ok {
		return f(token), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) BootstrapAdmin(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(bool), args.Error(1)
}
