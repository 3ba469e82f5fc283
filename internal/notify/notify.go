// Package notify delivers approval workflow events to an external webhook.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"hatchops/internal/config"
)

// Event types.
const (
	EventSubmitted = "approval.submitted"
	EventAdvanced  = "approval.advanced"
	EventCompleted = "approval.completed"
	EventExpired   = "approval.expired"
)

// Event is the JSON body posted for every approval transition.
type Event struct {
	Type        string `json:"type"`
	RequestID   string `json:"request_id"`
	Module      string `json:"module"`
	ReferenceID string `json:"reference_id"`
	Status      string `json:"status"`
	ActorID     string `json:"actor_id,omitempty"`
	// NextRole is the role expected to act next, empty once the request is final.
	NextRole   string    `json:"next_role,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier publishes approval events.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

const retryCount = 2

func requestTimeout(cfg config.NotifyConfig) time.Duration {
	if cfg.TimeoutSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(cfg.TimeoutSec) * time.Second
}

// DeliveryTimeout bounds one event delivery including its retries.
func DeliveryTimeout(cfg config.NotifyConfig) time.Duration {
	return requestTimeout(cfg) * (retryCount + 1)
}

// Webhook is a resty-backed Notifier that POSTs events as JSON.
type Webhook struct {
	httpClient *resty.Client
	url        string
}

// New returns a Webhook for cfg, or Nop when no URL is configured.
func New(cfg config.NotifyConfig) Notifier {
	if cfg.WebhookURL == "" {
		return Nop{}
	}
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "hatchops-notifier").
		SetTimeout(requestTimeout(cfg)).
		SetRetryCount(retryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &Webhook{httpClient: client, url: cfg.WebhookURL}
}

func (w *Webhook) Notify(ctx context.Context, e Event) error {
	resp, err := w.httpClient.R().
		SetContext(ctx).
		SetBody(e).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("post approval event: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("approval webhook returned status %d", resp.StatusCode())
	}
	return nil
}
