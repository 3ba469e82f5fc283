package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"hatchops/internal/model"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Dashboard(ctx context.Context, day time.Time) (*model.Dashboard, error) {
	args := m.Called(ctx, day)
	if f, ok := args.Get(0).(func(context.Context, time.Time) *model.Dashboard); ok {
		return f(ctx, day), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dashboard), args.Error(1)
}

func (m *MockReportService) Performance(ctx context.Context, batchID string, from time.Time, to time.Time) (*model.BatchPerformance, error) {
	args := m.Called(ctx, batchID, from, to)
	if f, ok := args.Get(0).(func(context.Context, string, time.Time, time.Time) *model.BatchPerformance); ok {
		return f(ctx, batchID, from, to), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchPerformance), args.Error(1)
}

func (m *MockReportService) ExportPerformance(ctx context.Context, batchID string, from time.Time, to time.Time, actor model.Actor) (*model.ReportExport, error) {
	args := m.Called(ctx, batchID, from, to, actor)
	if f, ok := args.Get(0).(func(context.Context, string, time.Time, time.Time, model.Actor) *model.ReportExport); ok {
		return f(ctx, batchID, from, to, actor), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReportExport), args.Error(1)
}
