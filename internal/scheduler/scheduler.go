package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"hatchops/internal/config"
	"hatchops/internal/service"
)

const jobTimeout = 2 * time.Minute

// Scheduler runs the background jobs: the approval expiry sweep and the
// end-of-day summary log.
type Scheduler struct {
	cron      *cron.Cron
	approvals service.ApprovalService
	reports   service.ReportService
	cfg       config.SchedulerConfig
	logger    *zap.Logger
}

// NewScheduler creates a scheduler whose cron runs in loc.
func NewScheduler(cfg config.SchedulerConfig, approvals service.ApprovalService, reports service.ReportService, loc *time.Location, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		approvals: approvals,
		reports:   reports,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers the jobs and starts the cron loop. It does nothing when
// the scheduler is disabled.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info("scheduler disabled")
		return nil
	}
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.ApprovalExpirySpec, s.expireApprovals); err != nil {
		return fmt.Errorf("schedule approval expiry %q: %w", s.cfg.ApprovalExpirySpec, err)
	}
	if s.reports != nil && s.cfg.DailySummarySpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.DailySummarySpec, s.dailySummary); err != nil {
			return fmt.Errorf("schedule daily summary %q: %w", s.cfg.DailySummarySpec, err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the cron loop. The returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping scheduler")
	return s.cron.Stop()
}

// Jobs reports how many jobs are registered.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) expireApprovals() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.approvals.ExpireOverdue(ctx)
	if err != nil {
		s.logger.Error("approval_expiry_failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("approval_expiry", zap.Int("expired", n))
	}
}

func (s *Scheduler) dailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	d, err := s.reports.Dashboard(ctx, time.Time{})
	if err != nil {
		s.logger.Error("daily_summary_failed", zap.Error(err))
		return
	}

	s.logger.Info("daily_summary",
		zap.String("date", d.Date.Format(time.DateOnly)),
		zap.Int("live_birds", d.LiveBirds.Total),
		zap.Int("mortality_today", d.MortalityToday.Total),
		zap.Int("eggs_today", d.EggsToday),
		zap.Int("hatching_eggs_today", d.HatchingToday),
		zap.Int("pending_approvals", d.PendingApprovals),
		zap.Int("vaccines_due_today", d.VaccinesDueToday),
	)
}
