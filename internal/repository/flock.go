package repository

import (
	"context"
	"time"

	"hatchops/internal/model"
)

// VaccineScheduleRepository persists schedules and their stages.
type VaccineScheduleRepository interface {
	// Create inserts the schedule and its stages in one transaction.
	Create(ctx context.Context, s *model.VaccineSchedule) (*model.VaccineSchedule, error)
	FindByID(ctx context.Context, id string) (*model.VaccineSchedule, error)
	List(ctx context.Context, batchAssignID string, pq PageQuery) (*PageResult[model.VaccineSchedule], error)
	// Update rewrites the schedule and replaces its stages in one transaction.
	Update(ctx context.Context, s *model.VaccineSchedule) (*model.VaccineSchedule, error)
	Delete(ctx context.Context, id string) error
	FindStage(ctx context.Context, scheduleID, stageID string) (*model.VaccineStage, error)
	// UpdateStageStatus moves a pending stage to status. It returns sql.ErrNoRows
	// when the stage does not exist or is no longer pending.
	UpdateStageStatus(ctx context.Context, stageID, status string, at time.Time, by, notes string) (*model.VaccineStage, error)
	// ListDue returns pending stages scheduled within dr.
	ListDue(ctx context.Context, dr DateRange) ([]model.DueStage, error)
}

// EggClassificationRepository persists egg gradings.
type EggClassificationRepository interface {
	Create(ctx context.Context, e *model.EggClassification) (*model.EggClassification, error)
	FindByID(ctx context.Context, id string) (*model.EggClassification, error)
	List(ctx context.Context, batchAssignID string, dr DateRange, pq PageQuery) (*PageResult[model.EggClassification], error)
	Update(ctx context.Context, e *model.EggClassification) (*model.EggClassification, error)
	Delete(ctx context.Context, id string) error
}

// DailyOperationRepository persists daily husbandry logs.
type DailyOperationRepository interface {
	Create(ctx context.Context, d *model.DailyOperation) (*model.DailyOperation, error)
	FindByID(ctx context.Context, id string) (*model.DailyOperation, error)
	List(ctx context.Context, batchAssignID string, dr DateRange, pq PageQuery) (*PageResult[model.DailyOperation], error)
	Update(ctx context.Context, d *model.DailyOperation) (*model.DailyOperation, error)
	Delete(ctx context.Context, id string) error
}
