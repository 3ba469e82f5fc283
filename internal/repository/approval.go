package repository

import (
	"context"
	"time"

	"hatchops/internal/model"
)

// ApprovalFilter narrows approval request listings. Empty fields match everything.
type ApprovalFilter struct {
	Status string
	Module string
}

// DecideFunc inspects a locked request and returns the decision to persist.
type DecideFunc func(req *model.ApprovalRequest) (*model.ApprovalDecision, error)

// ApprovalRepository persists matrix configs, requests and actions.
type ApprovalRepository interface {
	// CreateConfig inserts a config with its layers in one transaction.
	CreateConfig(ctx context.Context, c *model.ApprovalMatrixConfig) (*model.ApprovalMatrixConfig, error)
	// UpdateConfig rewrites the config and upserts layers by layer order.
	// Layers missing from c are deactivated, never deleted, so recorded actions stay valid.
	UpdateConfig(ctx context.Context, c *model.ApprovalMatrixConfig) (*model.ApprovalMatrixConfig, error)
	FindConfig(ctx context.Context, id string) (*model.ApprovalMatrixConfig, error)
	// FindActiveConfig returns the active config of a module, or sql.ErrNoRows.
	FindActiveConfig(ctx context.Context, module string) (*model.ApprovalMatrixConfig, error)
	ListConfigs(ctx context.Context, module string) ([]model.ApprovalMatrixConfig, error)
	DeleteConfig(ctx context.Context, id string) error

	// CreateRequest inserts a pending request.
	CreateRequest(ctx context.Context, r *model.ApprovalRequest) (*model.ApprovalRequest, error)
	// FindRequest loads a request with its config layers and actions.
	FindRequest(ctx context.Context, id string) (*model.ApprovalRequest, error)
	ListRequests(ctx context.Context, f ApprovalFilter, pq PageQuery) (*PageResult[model.ApprovalRequest], error)
	// ListPendingWithLayers returns every pending request with layers and actions loaded.
	ListPendingWithLayers(ctx context.Context) ([]model.ApprovalRequest, error)
	// Decide locks the request row, loads layers and actions, and calls fn.
	// A non-nil decision is persisted (action insert, status update and, for a
	// final status, the referenced record's approval_status) and committed even
	// when fn also returns an error. A nil decision rolls back.
	Decide(ctx context.Context, requestID string, fn DecideFunc) (*model.ApprovalRequest, error)
	// ExpireOverdue flips pending requests past their expiry to expired,
	// propagates the status to the referenced records, and returns them.
	ExpireOverdue(ctx context.Context, now time.Time) ([]model.ApprovalRequest, error)
	CountPending(ctx context.Context) (int, error)
}
