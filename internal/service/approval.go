package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"hatchops/internal/approval"
	"hatchops/internal/model"
	"hatchops/internal/notify"
	"hatchops/internal/repository"
)

// ApprovalMetrics counts approval workflow outcomes.
type ApprovalMetrics struct {
	decisions *prometheus.CounterVec
}

// NewApprovalMetrics registers the approval counters on reg.
func NewApprovalMetrics(reg prometheus.Registerer) (*ApprovalMetrics, error) {
	m := &ApprovalMetrics{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hatchops_approval_events_total",
				Help: "Approval requests submitted, decided and expired, by module and outcome.",
			},
			[]string{"module", "outcome"},
		),
	}
	if err := reg.Register(m.decisions); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ApprovalMetrics) inc(module, outcome string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(module, outcome).Inc()
}

// ApprovalService configures approval matrices and drives requests through them.
type ApprovalService interface {
	Submitter

	CreateConfig(ctx context.Context, in *model.ApprovalMatrixConfig) (*model.ApprovalMatrixConfig, error)
	// UpdateConfig rewrites a config. Layers are matched by layer order; layers
	// left out are deactivated.
	UpdateConfig(ctx context.Context, id string, in *model.ApprovalMatrixConfig) (*model.ApprovalMatrixConfig, error)
	GetConfig(ctx context.Context, id string) (*model.ApprovalMatrixConfig, error)
	ListConfigs(ctx context.Context, module string) ([]model.ApprovalMatrixConfig, error)
	// DeleteConfig removes a config that no request refers to.
	DeleteConfig(ctx context.Context, id string) error

	List(ctx context.Context, status, module string, limit, offset int) (*ListResult[model.ApprovalRequest], error)
	// Inbox returns pending requests whose current layer the actor may act on.
	Inbox(ctx context.Context, actor model.Actor) ([]model.ApprovalRequest, error)
	Get(ctx context.Context, id string) (*model.ApprovalRequest, error)
	Approve(ctx context.Context, id string, actor model.Actor, comment string) (*model.ApprovalRequest, error)
	Reject(ctx context.Context, id string, actor model.Actor, comment string) (*model.ApprovalRequest, error)
	// ExpireOverdue expires every pending request past its deadline and returns how many.
	ExpireOverdue(ctx context.Context) (int, error)
}

type approvalService struct {
	repo     repository.ApprovalRepository
	notifier notify.Notifier
	metrics  *ApprovalMetrics
	log      *zap.Logger
	tracer   trace.Tracer
	clock
}

// NewApprovalService constructs an ApprovalService. notifier, metrics and log may be nil.
func NewApprovalService(repo repository.ApprovalRepository, notifier notify.Notifier, metrics *ApprovalMetrics, log *zap.Logger) ApprovalService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &approvalService{
		repo:     repo,
		notifier: notifier,
		metrics:  metrics,
		log:      log,
		tracer:   otel.Tracer("hatchops/service/approval"),
		clock:    defaultClock(),
	}
}

func validateConfig(c *model.ApprovalMatrixConfig) error {
	if !slices.Contains(model.ApprovalModules, c.Module) {
		return invalid("module", "must be one of %s", strings.Join(model.ApprovalModules, ", "))
	}
	if err := required("name", c.Name); err != nil {
		return err
	}
	if c.TimeoutHours < 0 {
		return invalid("timeout_hours", "must not be negative")
	}
	if len(c.Layers) == 0 {
		return invalid("layers", "at least one layer is required")
	}
	seen := make(map[int]bool, len(c.Layers))
	for i := range c.Layers {
		l := &c.Layers[i]
		field := fmt.Sprintf("layers[%d]", i)
		if l.LayerOrder <= 0 {
			return invalid(field+".layer_order", "must be positive")
		}
		if seen[l.LayerOrder] {
			return invalid(field+".layer_order", "duplicate layer order %d", l.LayerOrder)
		}
		seen[l.LayerOrder] = true
		if err := required(field+".role", l.Role); err != nil {
			return err
		}
		if strings.TrimSpace(l.Name) == "" {
			l.Name = l.Role
		}
	}
	return nil
}

func (s *approvalService) CreateConfig(ctx context.Context, in *model.ApprovalMatrixConfig) (*model.ApprovalMatrixConfig, error) {
	if err := validateConfig(in); err != nil {
		return nil, err
	}
	now := s.now()
	c := *in
	c.ID = s.newID()
	c.CreatedAt, c.UpdatedAt = now, now
	c.Layers = make([]model.ApprovalMatrixLayer, len(in.Layers))
	for i, l := range in.Layers {
		l.ID = s.newID()
		l.ConfigID = c.ID
		c.Layers[i] = l
	}

	out, err := s.repo.CreateConfig(ctx, &c)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("module %s already has an active approval matrix: %w", c.Module, ErrConflict)
		}
		return nil, storeErr(err, "approval matrix")
	}
	return out, nil
}

func (s *approvalService) UpdateConfig(ctx context.Context, id string, in *model.ApprovalMatrixConfig) (*model.ApprovalMatrixConfig, error) {
	if err := validateConfig(in); err != nil {
		return nil, err
	}
	cur, err := s.repo.FindConfig(ctx, id)
	if err != nil {
		return nil, storeErr(err, "approval matrix")
	}

	c := *in
	c.ID = cur.ID
	c.CreatedAt = cur.CreatedAt
	c.UpdatedAt = s.now()
	c.Layers = make([]model.ApprovalMatrixLayer, len(in.Layers))
	for i, l := range in.Layers {
		// The upsert keeps the stored id of an existing layer order.
		l.ID = s.newID()
		l.ConfigID = cur.ID
		c.Layers[i] = l
	}

	out, err := s.repo.UpdateConfig(ctx, &c)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("module %s already has an active approval matrix: %w", c.Module, ErrConflict)
		}
		return nil, storeErr(err, "approval matrix")
	}
	return out, nil
}

func (s *approvalService) GetConfig(ctx context.Context, id string) (*model.ApprovalMatrixConfig, error) {
	c, err := s.repo.FindConfig(ctx, id)
	if err != nil {
		return nil, storeErr(err, "approval matrix")
	}
	return c, nil
}

func (s *approvalService) ListConfigs(ctx context.Context, module string) ([]model.ApprovalMatrixConfig, error) {
	return s.repo.ListConfigs(ctx, module)
}

func (s *approvalService) DeleteConfig(ctx context.Context, id string) error {
	if err := s.repo.DeleteConfig(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return fmt.Errorf("approval matrix has requests; deactivate it instead: %w", ErrConflict)
		}
		return storeErr(err, "approval matrix")
	}
	return nil
}

func (s *approvalService) Submit(ctx context.Context, module, referenceID string, actor model.Actor) (*model.ApprovalRequest, error) {
	ctx, span := s.tracer.Start(ctx, "approval.Submit", trace.WithAttributes(
		attribute.String("approval.module", module),
		attribute.String("approval.reference_id", referenceID),
	))
	defer span.End()

	cfg, err := s.repo.FindActiveConfig(ctx, module)
	if repository.IsNoRows(err) {
		return nil, ErrNoActiveMatrix
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(approval.ActiveLayers(cfg.Layers)) == 0 {
		return nil, ErrNoActiveMatrix
	}

	now := s.now()
	req := &model.ApprovalRequest{
		ID:          s.newID(),
		ConfigID:    cfg.ID,
		Module:      module,
		ReferenceID: referenceID,
		Status:      model.ApprovalPending,
		ExpiresAt:   approval.ExpiresAt(cfg.TimeoutHours, now),
		CreatedAt:   now,
		UpdatedAt:   now,
		Layers:      cfg.Layers,
	}
	if actor.UserID != "" {
		by := actor.UserID
		req.RequestedBy = &by
	}
	// Only optional layers are active: the request is complete as filed.
	if approval.Complete(cfg.Layers, nil) {
		req.Status = model.ApprovalApproved
		req.ExpiresAt = nil
		req.CompletedAt = &now
	}

	out, err := s.repo.CreateRequest(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, storeErr(err, "approval request")
	}
	withCurrentLayer(out)
	span.SetAttributes(
		attribute.String("approval.request_id", out.ID),
		attribute.String("approval.status", out.Status),
	)

	s.metrics.inc(module, "submitted")
	if out.Status == model.ApprovalApproved {
		s.metrics.inc(module, model.ApprovalApproved)
		s.publish(ctx, notify.EventCompleted, out, actor.UserID)
		return out, nil
	}
	s.publish(ctx, notify.EventSubmitted, out, actor.UserID)
	return out, nil
}

func (s *approvalService) List(ctx context.Context, status, module string, limit, offset int) (*ListResult[model.ApprovalRequest], error) {
	res, err := s.repo.ListRequests(ctx, repository.ApprovalFilter{Status: status, Module: module}, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	for i := range res.Items {
		withCurrentLayer(&res.Items[i])
	}
	return listResult(res), nil
}

func (s *approvalService) Inbox(ctx context.Context, actor model.Actor) ([]model.ApprovalRequest, error) {
	pending, err := s.repo.ListPendingWithLayers(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]model.ApprovalRequest, 0, len(pending))
	for _, req := range pending {
		if approval.Overdue(&req, now) {
			continue
		}
		withCurrentLayer(&req)
		if req.CurrentLayer == nil {
			continue
		}
		if actor.IsAdmin() || req.CurrentLayer.Role == actor.Role {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *approvalService) Get(ctx context.Context, id string) (*model.ApprovalRequest, error) {
	req, err := s.repo.FindRequest(ctx, id)
	if err != nil {
		return nil, storeErr(err, "approval request")
	}
	withCurrentLayer(req)
	return req, nil
}

func (s *approvalService) Approve(ctx context.Context, id string, actor model.Actor, comment string) (*model.ApprovalRequest, error) {
	return s.decide(ctx, id, actor, model.ActionApprove, comment)
}

func (s *approvalService) Reject(ctx context.Context, id string, actor model.Actor, comment string) (*model.ApprovalRequest, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, invalid("comment", "is required when rejecting")
	}
	return s.decide(ctx, id, actor, model.ActionReject, comment)
}

func (s *approvalService) decide(ctx context.Context, id string, actor model.Actor, action, comment string) (*model.ApprovalRequest, error) {
	ctx, span := s.tracer.Start(ctx, "approval.Decide", trace.WithAttributes(
		attribute.String("approval.request_id", id),
		attribute.String("approval.action", action),
		attribute.String("approval.actor_role", actor.Role),
	))
	defer span.End()

	now := s.now()
	req, err := s.repo.Decide(ctx, id, func(locked *model.ApprovalRequest) (*model.ApprovalDecision, error) {
		return approval.Decide(locked, actor, action, strings.TrimSpace(comment), now, s.newID)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, approval.ErrExpired) && req != nil {
			s.metrics.inc(req.Module, model.ApprovalExpired)
			s.publish(ctx, notify.EventExpired, req, actor.UserID)
		}
		return nil, decisionErr(err)
	}

	withCurrentLayer(req)
	span.SetAttributes(attribute.String("approval.status", req.Status))
	s.metrics.inc(req.Module, action)
	s.log.Info("approval_decision",
		zap.String("request_id", req.ID),
		zap.String("module", req.Module),
		zap.String("action", action),
		zap.String("status", req.Status),
		zap.String("actor_id", actor.UserID),
	)

	event := notify.EventAdvanced
	if req.Status != model.ApprovalPending {
		event = notify.EventCompleted
		s.metrics.inc(req.Module, req.Status)
	}
	s.publish(ctx, event, req, actor.UserID)
	return req, nil
}

func decisionErr(err error) error {
	switch {
	case errors.Is(err, approval.ErrExpired):
		return ErrExpired
	case errors.Is(err, approval.ErrNotPending), errors.Is(err, approval.ErrNoActiveLayer):
		return fmt.Errorf("%s: %w", err.Error(), ErrInvalidState)
	case errors.Is(err, approval.ErrRoleMismatch):
		return fmt.Errorf("%s: %w", err.Error(), ErrForbidden)
	case errors.Is(err, approval.ErrInvalidAction):
		return invalid("action", "must be approve or reject")
	}
	return storeErr(err, "approval request")
}

func (s *approvalService) ExpireOverdue(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "approval.ExpireOverdue")
	defer span.End()

	expired, err := s.repo.ExpireOverdue(ctx, s.now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	for i := range expired {
		s.metrics.inc(expired[i].Module, model.ApprovalExpired)
		s.publish(ctx, notify.EventExpired, &expired[i], "")
	}
	span.SetAttributes(attribute.Int("approval.expired", len(expired)))
	return len(expired), nil
}

// withCurrentLayer fills CurrentLayer for a pending request.
func withCurrentLayer(req *model.ApprovalRequest) {
	req.CurrentLayer = nil
	if req.Status == model.ApprovalPending {
		req.CurrentLayer = approval.CurrentLayer(req.Layers, req.Actions)
	}
}

// publish sends an event and logs delivery failures without propagating them.
func (s *approvalService) publish(ctx context.Context, typ string, req *model.ApprovalRequest, actorID string) {
	e := notify.Event{
		Type:        typ,
		RequestID:   req.ID,
		Module:      req.Module,
		ReferenceID: req.ReferenceID,
		Status:      req.Status,
		ActorID:     actorID,
		OccurredAt:  s.now(),
	}
	if req.CurrentLayer != nil {
		e.NextRole = req.CurrentLayer.Role
	}
	if err := s.notifier.Notify(ctx, e); err != nil {
		s.log.Warn("approval_notify_failed",
			zap.String("event", typ),
			zap.String("request_id", req.ID),
			zap.Error(err),
		)
	}
}
