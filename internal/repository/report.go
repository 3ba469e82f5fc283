package repository

import (
	"context"
	"time"

	"hatchops/internal/model"
)

// ReportRepository runs read-only aggregates across modules.
type ReportRepository interface {
	// Dashboard aggregates the snapshot for day.
	Dashboard(ctx context.Context, day time.Time) (*model.Dashboard, error)
	// PerformanceRows returns one row per day with activity for the batch within dr.
	PerformanceRows(ctx context.Context, batchAssignID string, dr DateRange) ([]model.PerformanceRow, error)
}
