package repository

import (
	"context"

	"hatchops/internal/model"
)

// BatchAssignRepository persists batch assignments.
type BatchAssignRepository interface {
	Create(ctx context.Context, b *model.BatchAssign) (*model.BatchAssign, error)
	FindByID(ctx context.Context, id string) (*model.BatchAssign, error)
	List(ctx context.Context, shedReceiveID string, pq PageQuery) (*PageResult[model.BatchAssign], error)
	Update(ctx context.Context, b *model.BatchAssign) (*model.BatchAssign, error)
	Delete(ctx context.Context, id string) error
	SetApprovalStatus(ctx context.Context, id, status string) error
	// SumByShedReceive totals the batches of a shed receive, ignoring excludeID.
	SumByShedReceive(ctx context.Context, shedReceiveID, excludeID string) (model.HeadCount, error)
	// Balance aggregates mortality, culling and transfers of a batch. Live is computed.
	Balance(ctx context.Context, id string) (*model.BatchBalance, error)
}

// BirdTransferRepository persists bird transfers.
type BirdTransferRepository interface {
	Create(ctx context.Context, t *model.BirdTransfer) (*model.BirdTransfer, error)
	FindByID(ctx context.Context, id string) (*model.BirdTransfer, error)
	// List returns transfers out of (or into) the given batch; empty means all.
	List(ctx context.Context, batchAssignID string, dr DateRange, pq PageQuery) (*PageResult[model.BirdTransfer], error)
	Update(ctx context.Context, t *model.BirdTransfer) (*model.BirdTransfer, error)
	Delete(ctx context.Context, id string) error
	SetApprovalStatus(ctx context.Context, id, status string) error
}
