package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hatchops/internal/export"
	"hatchops/internal/model"
	"hatchops/internal/repository"
	"hatchops/internal/storage"
)

// ExportURLTTL is how long a presigned export link stays valid.
const ExportURLTTL = 24 * time.Hour

// ReportService builds dashboards and batch performance reports.
type ReportService interface {
	// Dashboard returns the snapshot for day, or for today when day is zero.
	Dashboard(ctx context.Context, day time.Time) (*model.Dashboard, error)
	// Performance reports a batch between from and to. A zero from starts at
	// the assign date; a zero to ends today.
	Performance(ctx context.Context, batchID string, from, to time.Time) (*model.BatchPerformance, error)
	// ExportPerformance uploads the performance report as a workbook and returns a download link.
	ExportPerformance(ctx context.Context, batchID string, from, to time.Time, actor model.Actor) (*model.ReportExport, error)
}

type reportService struct {
	repo    repository.ReportRepository
	batches repository.BatchAssignRepository
	store   storage.Storage
	loc     *time.Location
	log     *zap.Logger
	clock
}

// NewReportService constructs a ReportService. loc decides what "today" is.
func NewReportService(repo repository.ReportRepository, batches repository.BatchAssignRepository, store storage.Storage, loc *time.Location, log *zap.Logger) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &reportService{repo: repo, batches: batches, store: store, loc: loc, log: log, clock: defaultClock()}
}

func (s *reportService) today() time.Time {
	return dateOnly(s.now().In(s.loc))
}

func (s *reportService) Dashboard(ctx context.Context, day time.Time) (*model.Dashboard, error) {
	if day.IsZero() {
		day = s.today()
	}
	d, err := s.repo.Dashboard(ctx, dateOnly(day))
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return d, nil
}

func (s *reportService) Performance(ctx context.Context, batchID string, from, to time.Time) (*model.BatchPerformance, error) {
	b, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		return nil, storeErr(err, "batch")
	}
	if from.IsZero() {
		from = b.AssignDate
	}
	if to.IsZero() {
		to = s.today()
	}
	from, to = dateOnly(from), dateOnly(to)
	if to.Before(from) {
		return nil, invalid("to", "must not be before from")
	}

	rows, err := s.repo.PerformanceRows(ctx, b.ID, repository.DateRange{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("performance rows: %w", err)
	}
	if rows == nil {
		rows = []model.PerformanceRow{}
	}
	p := &model.BatchPerformance{Batch: *b, From: from, To: to, Rows: rows}
	p.Summarize()
	return p, nil
}

func (s *reportService) ExportPerformance(ctx context.Context, batchID string, from, to time.Time, actor model.Actor) (*model.ReportExport, error) {
	p, err := s.Performance(ctx, batchID, from, to)
	if err != nil {
		return nil, err
	}
	buf, err := export.PerformanceWorkbook(p)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}

	key := storage.ExportKey(s.newID(), export.PerformanceFileName(p))
	info, err := s.store.Put(ctx, key, buf, storage.PutObjectOptions{
		Size:        int64(buf.Len()),
		ContentType: storage.XLSXContentType,
		Metadata: map[string]string{
			"batch-id":     p.Batch.ID,
			"generated-by": actor.UserID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	url, err := s.store.PresignGet(ctx, info.Key, ExportURLTTL)
	if err != nil {
		if delErr := s.store.Delete(ctx, info.Key); delErr != nil {
			return nil, fmt.Errorf("rollback delete failed: %w", errors.Join(err, delErr))
		}
		return nil, fmt.Errorf("presign export: %w", err)
	}

	s.log.Info("performance_exported",
		zap.String("batch_id", p.Batch.ID),
		zap.String("key", info.Key),
		zap.Int64("size", info.Size),
	)
	return &model.ReportExport{Key: info.Key, URL: url, ExpiresAt: s.now().Add(ExportURLTTL)}, nil
}
