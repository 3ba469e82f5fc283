package repository

import (
	"context"

	"hatchops/internal/model"
)

// PsReceiveRepository persists PS receives together with their chick-count and lab-transfer rows.
type PsReceiveRepository interface {
	// Create inserts the receive and its children in one transaction.
	Create(ctx context.Context, p *model.PsReceive) (*model.PsReceive, error)
	// FindByID loads the receive with its children.
	FindByID(ctx context.Context, id string) (*model.PsReceive, error)
	// List returns receives without children.
	List(ctx context.Context, dr DateRange, pq PageQuery) (*PageResult[model.PsReceive], error)
	// Update rewrites the receive and replaces its children in one transaction.
	Update(ctx context.Context, p *model.PsReceive) (*model.PsReceive, error)
	Delete(ctx context.Context, id string) error
	SetApprovalStatus(ctx context.Context, id, status string) error
}

// FirmReceiveRepository persists firm receives.
type FirmReceiveRepository interface {
	Create(ctx context.Context, f *model.FirmReceive) (*model.FirmReceive, error)
	FindByID(ctx context.Context, id string) (*model.FirmReceive, error)
	List(ctx context.Context, psReceiveID string, pq PageQuery) (*PageResult[model.FirmReceive], error)
	Update(ctx context.Context, f *model.FirmReceive) (*model.FirmReceive, error)
	Delete(ctx context.Context, id string) error
	SetApprovalStatus(ctx context.Context, id, status string) error
	// SumByPsReceive totals the firm receives of a PS receive, ignoring excludeID.
	SumByPsReceive(ctx context.Context, psReceiveID, excludeID string) (model.HeadCount, error)
}

// ShedReceiveRepository persists shed receives.
type ShedReceiveRepository interface {
	Create(ctx context.Context, s *model.ShedReceive) (*model.ShedReceive, error)
	FindByID(ctx context.Context, id string) (*model.ShedReceive, error)
	List(ctx context.Context, firmReceiveID string, pq PageQuery) (*PageResult[model.ShedReceive], error)
	Update(ctx context.Context, s *model.ShedReceive) (*model.ShedReceive, error)
	Delete(ctx context.Context, id string) error
	SetApprovalStatus(ctx context.Context, id, status string) error
	// SumByFirmReceive totals the shed receives of a firm receive, ignoring excludeID.
	SumByFirmReceive(ctx context.Context, firmReceiveID, excludeID string) (model.HeadCount, error)
}
