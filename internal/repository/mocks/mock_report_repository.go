package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Dashboard(ctx context.Context, day time.Time) (*model.Dashboard, error) {
	args := m.Called(ctx, day)
	if f, ok := args.Get(0).(func(context.Context, time.Time) *model.Dashboard); ok {
		return f(ctx, day), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dashboard), args.Error(1)
}

func (m *MockReportRepository) PerformanceRows(ctx context.Context, batchAssignID string, dr repository.DateRange) ([]model.PerformanceRow, error) {
	args := m.Called(ctx, batchAssignID, dr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PerformanceRow), args.Error(1)
}
