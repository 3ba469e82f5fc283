package model

import "time"

// Modules governed by the approval matrix.
const (
	ModulePsReceive    = "ps_receive"
	ModuleFirmReceive  = "firm_receive"
	ModuleShedReceive  = "shed_receive"
	ModuleBatchAssign  = "batch_assign"
	ModuleBirdTransfer = "bird_transfer"
)

// ApprovalModules lists every module that can carry an approval matrix.
var ApprovalModules = []string{
	ModulePsReceive,
	ModuleFirmReceive,
	ModuleShedReceive,
	ModuleBatchAssign,
	ModuleBirdTransfer,
}

// Approval request statuses, also used as a record's approval_status.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
	ApprovalExpired  = "expired"
)

// Approval actions.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// ApprovalMatrixConfig is the ordered sign-off chain configured for one module.
type ApprovalMatrixConfig struct {
	ID           string                `json:"id"`
	Module       string                `json:"module"`
	Name         string                `json:"name"`
	IsActive     bool                  `json:"is_active"`
	TimeoutHours int                   `json:"timeout_hours"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Layers       []ApprovalMatrixLayer `json:"layers"`
}

// ApprovalMatrixLayer is one role-based sign-off step.
type ApprovalMatrixLayer struct {
	ID         string `json:"id"`
	ConfigID   string `json:"config_id"`
	LayerOrder int    `json:"layer_order"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	IsActive   bool   `json:"is_active"`
	IsRequired bool   `json:"is_required"`
}

// ApprovalRequest tracks sign-off of one record against a matrix config.
type ApprovalRequest struct {
	ID          string                `json:"id"`
	ConfigID    string                `json:"config_id"`
	Module      string                `json:"module"`
	ReferenceID string                `json:"reference_id"`
	Status      string                `json:"status"`
	RequestedBy *string               `json:"requested_by,omitempty"`
	ExpiresAt   *time.Time            `json:"expires_at,omitempty"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Layers      []ApprovalMatrixLayer `json:"layers,omitempty"`
	Actions     []ApprovalAction      `json:"actions,omitempty"`
	// CurrentLayer is the layer awaiting a decision; nil once the request is final.
	CurrentLayer *ApprovalMatrixLayer `json:"current_layer,omitempty"`
}

// ApprovalAction is an approve or reject decision on one layer.
type ApprovalAction struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	LayerID   string    `json:"layer_id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ApprovalDecision is what the approval workflow persists for one decision:
// the new action (if any) and the request's resulting status.
type ApprovalDecision struct {
	Action      *ApprovalAction
	Status      string
	CompletedAt *time.Time
}
