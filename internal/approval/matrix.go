// Package approval holds the approval-matrix state machine.
//
// A request moves pending -> approved | rejected | expired. The layer that may
// act next is the first active layer, by layer order, that has no approve
// action yet. A request is approved once every required active layer is
// approved and rejected as soon as any layer rejects.
package approval

import (
	"errors"
	"sort"
	"time"

	"hatchops/internal/model"
)

var (
	ErrNotPending    = errors.New("approval request is not pending")
	ErrExpired       = errors.New("approval request has expired")
	ErrNoActiveLayer = errors.New("approval request has no layer awaiting a decision")
	ErrRoleMismatch  = errors.New("caller role does not match the current approval layer")
	ErrInvalidAction = errors.New("action must be approve or reject")
)

// ActiveLayers returns the active layers sorted by layer order.
func ActiveLayers(layers []model.ApprovalMatrixLayer) []model.ApprovalMatrixLayer {
	out := make([]model.ApprovalMatrixLayer, 0, len(layers))
	for _, l := range layers {
		if l.IsActive {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LayerOrder < out[j].LayerOrder })
	return out
}

// ApprovedLayerIDs collects the layers that carry an approve action.
func ApprovedLayerIDs(actions []model.ApprovalAction) map[string]bool {
	ids := make(map[string]bool, len(actions))
	for _, a := range actions {
		if a.Action == model.ActionApprove {
			ids[a.LayerID] = true
		}
	}
	return ids
}

// CurrentLayer returns the layer awaiting a decision, or nil when none remains.
func CurrentLayer(layers []model.ApprovalMatrixLayer, actions []model.ApprovalAction) *model.ApprovalMatrixLayer {
	approved := ApprovedLayerIDs(actions)
	for _, l := range ActiveLayers(layers) {
		if !approved[l.ID] {
			layer := l
			return &layer
		}
	}
	return nil
}

// Complete reports whether every required active layer has been approved.
func Complete(layers []model.ApprovalMatrixLayer, actions []model.ApprovalAction) bool {
	approved := ApprovedLayerIDs(actions)
	for _, l := range ActiveLayers(layers) {
		if l.IsRequired && !approved[l.ID] {
			return false
		}
	}
	return true
}

// Overdue reports whether a pending request reached its expiry. A request is
// overdue from the instant ExpiresAt onward, matching the expiry sweep.
func Overdue(req *model.ApprovalRequest, now time.Time) bool {
	return req.Status == model.ApprovalPending && req.ExpiresAt != nil && !now.Before(*req.ExpiresAt)
}

// ExpiresAt computes the expiry of a request created at now, or nil without a timeout.
func ExpiresAt(timeoutHours int, now time.Time) *time.Time {
	if timeoutHours <= 0 {
		return nil
	}
	t := now.Add(time.Duration(timeoutHours) * time.Hour)
	return &t
}

// Decide validates an approve or reject by actor on req and returns the decision to persist.
//
// An overdue request yields an expiry decision together with ErrExpired so the
// caller can record the expiry before reporting the failure.
func Decide(req *model.ApprovalRequest, actor model.Actor, action, comment string, now time.Time, newID func() string) (*model.ApprovalDecision, error) {
	if action != model.ActionApprove && action != model.ActionReject {
		return nil, ErrInvalidAction
	}
	if req.Status != model.ApprovalPending {
		return nil, ErrNotPending
	}
	if Overdue(req, now) {
		return &model.ApprovalDecision{Status: model.ApprovalExpired, CompletedAt: &now}, ErrExpired
	}

	layer := CurrentLayer(req.Layers, req.Actions)
	if layer == nil {
		return nil, ErrNoActiveLayer
	}
	if !actor.IsAdmin() && actor.Role != layer.Role {
		return nil, ErrRoleMismatch
	}

	act := &model.ApprovalAction{
		ID:        newID(),
		RequestID: req.ID,
		LayerID:   layer.ID,
		UserID:    actor.UserID,
		Action:    action,
		Comment:   comment,
		CreatedAt: now,
	}
	decision := &model.ApprovalDecision{Action: act, Status: model.ApprovalPending}

	if action == model.ActionReject {
		decision.Status = model.ApprovalRejected
		decision.CompletedAt = &now
		return decision, nil
	}

	if Complete(req.Layers, append(append([]model.ApprovalAction{}, req.Actions...), *act)) {
		decision.Status = model.ApprovalApproved
		decision.CompletedAt = &now
	}
	return decision, nil
}
