// Package service holds the business rules of every module. Services validate
// input, enforce quantity invariants and translate repository errors into the
// sentinel errors below.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hatchops/internal/model"
	"hatchops/internal/repository"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrInvalidState   = errors.New("invalid state")
	ErrForbidden      = errors.New("forbidden")
	ErrUnauthorized   = errors.New("invalid credentials")
	ErrExpired        = errors.New("approval request expired")
	ErrInvalidInput   = errors.New("invalid input")
	ErrNoActiveMatrix = errors.New("no active approval matrix")
)

// ValidationError reports a rejected input field. It matches ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Pagination bounds.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListResult is the service-level DTO for a paginated listing.
type ListResult[T any] struct {
	Items []T `json:"data"`
	Total int `json:"total"`
}

func pageQuery(limit, offset int) repository.PageQuery {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return repository.PageQuery{Limit: limit, Offset: offset}
}

func listResult[T any](res *repository.PageResult[T]) *ListResult[T] {
	return &ListResult[T]{Items: res.Items, Total: res.Total}
}

// storeErr translates a repository error for the record named what.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case repository.IsNoRows(err):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case repository.IsUniqueViolation(err):
		return fmt.Errorf("%s already exists: %w", what, ErrConflict)
	case repository.IsForeignKeyViolation(err):
		return fmt.Errorf("%s is referenced by other records: %w", what, ErrConflict)
	case repository.IsCheckViolation(err):
		return invalid(what, "violates a data constraint")
	case errors.Is(err, repository.ErrOverdrawn):
		return invalid("quantity", "%v", err)
	case errors.Is(err, repository.ErrLiveDependents):
		return fmt.Errorf("%s: %v: %w", what, err, ErrInvalidState)
	}
	return err
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "is required")
	}
	return nil
}

func requiredDate(field string, t time.Time) error {
	if t.IsZero() {
		return invalid(field, "is required")
	}
	return nil
}

// headCount normalizes h and reports problems against field.
func headCount(field string, h model.HeadCount) (model.HeadCount, error) {
	n, err := h.Normalize()
	if err != nil {
		return h, invalid(field, "%s", err.Error())
	}
	return n, nil
}

// dateOnly drops the clock part of t, keeping its calendar date.
func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// clock supplies time and identifiers; tests replace it.
type clock struct {
	now   func() time.Time
	newID func() string
}

func defaultClock() clock {
	return clock{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Submitter starts the approval workflow of a newly written record.
type Submitter interface {
	Submit(ctx context.Context, module, referenceID string, actor model.Actor) (*model.ApprovalRequest, error)
}

type statusSetter func(ctx context.Context, id, status string) error

// submitForApproval opens an approval request for a record and returns the
// record's resulting approval_status. A module without an active matrix, or
// whose active layers are all optional, needs no sign-off, so its records are
// approved at once.
func submitForApproval(ctx context.Context, sub Submitter, module, id string, actor model.Actor, set statusSetter) (string, error) {
	req, err := sub.Submit(ctx, module, id, actor)
	switch {
	case errors.Is(err, ErrNoActiveMatrix):
	case err != nil:
		return "", err
	case req.Status != model.ApprovalApproved:
		return model.ApprovalPending, nil
	}
	if err := set(ctx, id, model.ApprovalApproved); err != nil {
		return "", err
	}
	return model.ApprovalApproved, nil
}

// ensureEditable refuses changes to records whose sign-off is complete.
func ensureEditable(what, status string) error {
	if status == model.ApprovalApproved {
		return fmt.Errorf("%s is approved and can no longer change: %w", what, ErrInvalidState)
	}
	return nil
}

// needsResubmit reports whether an edited record must go through sign-off again.
func needsResubmit(status string) bool {
	return status == model.ApprovalRejected || status == model.ApprovalExpired
}

// gate ties a record repository to the approval workflow of its module.
type gate struct {
	sub    Submitter
	module string
	set    statusSetter
	remove func(ctx context.Context, id string) error
}

// created submits a freshly inserted record. When submission fails the record
// is deleted again so no record exists without a way to approve it.
func (g gate) created(ctx context.Context, id string, actor model.Actor) (string, error) {
	status, err := submitForApproval(ctx, g.sub, g.module, id, actor, g.set)
	if err == nil {
		return status, nil
	}
	if delErr := g.remove(ctx, id); delErr != nil {
		return "", fmt.Errorf("rollback delete failed: %w", errors.Join(err, delErr))
	}
	return "", fmt.Errorf("submit for approval: %w", err)
}

// updated resubmits an edited record that had been rejected or expired. prev
// is restored when submission fails.
func (g gate) updated(ctx context.Context, id string, actor model.Actor, prev string) (string, error) {
	if !needsResubmit(prev) {
		return prev, nil
	}
	status, err := submitForApproval(ctx, g.sub, g.module, id, actor, g.set)
	if err == nil {
		return status, nil
	}
	if setErr := g.set(ctx, id, prev); setErr != nil {
		return "", fmt.Errorf("restore approval status failed: %w", errors.Join(err, setErr))
	}
	return "", fmt.Errorf("submit for approval: %w", err)
}

// editStatus is the approval_status a record is written with when edited.
func editStatus(prev string) string {
	if needsResubmit(prev) {
		return model.ApprovalPending
	}
	return prev
}

// live reports whether a referenced parent can still supply stock.
func live(status string) bool {
	return status != model.ApprovalRejected && status != model.ApprovalExpired
}
