package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"hatchops/internal/config"
	"hatchops/internal/model"
	"hatchops/internal/service/mocks"
)

func testConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:            true,
		ApprovalExpirySpec: "*/15 * * * *",
		DailySummarySpec:   "0 20 * * *",
	}
}

func TestScheduler_StartRegistersJobs(t *testing.T) {
	s := NewScheduler(testConfig(), new(mocks.MockApprovalService), new(mocks.MockReportService), nil, nil)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Equal(t, 2, s.Jobs())
}

func TestScheduler_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	s := NewScheduler(cfg, new(mocks.MockApprovalService), new(mocks.MockReportService), time.UTC, nil)
	require.NoError(t, s.Start())

	assert.Equal(t, 0, s.Jobs())
}

func TestScheduler_InvalidSpec(t *testing.T) {
	cfg := testConfig()
	cfg.ApprovalExpirySpec = "every now and then"
	s := NewScheduler(cfg, new(mocks.MockApprovalService), nil, nil, nil)

	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule approval expiry")
}

func TestScheduler_ExpireApprovals(t *testing.T) {
	t.Run("logs expired count", func(t *testing.T) {
		approvals := new(mocks.MockApprovalService)
		approvals.On("ExpireOverdue", mock.Anything).Return(3, nil)

		core, logs := observer.New(zap.InfoLevel)
		s := NewScheduler(testConfig(), approvals, nil, nil, zap.New(core))
		s.expireApprovals()

		entries := logs.FilterMessage("approval_expiry").All()
		require.Len(t, entries, 1)
		assert.Equal(t, int64(3), entries[0].ContextMap()["expired"])
		approvals.AssertExpectations(t)
	})

	t.Run("nothing expired stays quiet", func(t *testing.T) {
		approvals := new(mocks.MockApprovalService)
		approvals.On("ExpireOverdue", mock.Anything).Return(0, nil)

		core, logs := observer.New(zap.InfoLevel)
		NewScheduler(testConfig(), approvals, nil, nil, zap.New(core)).expireApprovals()

		assert.Zero(t, logs.FilterMessage("approval_expiry").Len())
	})

	t.Run("failure is logged", func(t *testing.T) {
		approvals := new(mocks.MockApprovalService)
		approvals.On("ExpireOverdue", mock.Anything).Return(0, errors.New("db down"))

		core, logs := observer.New(zap.InfoLevel)
		NewScheduler(testConfig(), approvals, nil, nil, zap.New(core)).expireApprovals()

		assert.Equal(t, 1, logs.FilterMessage("approval_expiry_failed").Len())
	})
}

func TestScheduler_DailySummary(t *testing.T) {
	reports := new(mocks.MockReportService)
	reports.On("Dashboard", mock.Anything, time.Time{}).Return(&model.Dashboard{
		Date:             time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		LiveBirds:        model.NewHeadCount(800, 4200),
		MortalityToday:   model.NewHeadCount(2, 5),
		EggsToday:        3100,
		HatchingToday:    2890,
		PendingApprovals: 4,
	}, nil)

	core, logs := observer.New(zap.InfoLevel)
	NewScheduler(testConfig(), nil, reports, nil, zap.New(core)).dailySummary()

	entries := logs.FilterMessage("daily_summary").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "2026-03-10", fields["date"])
	assert.Equal(t, int64(5000), fields["live_birds"])
	assert.Equal(t, int64(7), fields["mortality_today"])
	assert.Equal(t, int64(4), fields["pending_approvals"])
}

func TestScheduler_DailySummaryFailure(t *testing.T) {
	reports := new(mocks.MockReportService)
	reports.On("Dashboard", mock.Anything, time.Time{}).Return(nil, errors.New("timeout"))

	core, logs := observer.New(zap.InfoLevel)
	NewScheduler(testConfig(), nil, reports, nil, zap.New(core)).dailySummary()

	assert.Equal(t, 1, logs.FilterMessage("daily_summary_failed").Len())
}
