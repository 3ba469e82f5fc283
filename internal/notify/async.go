package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"hatchops/internal/config"
)

var (
	ErrQueueFull = errors.New("notification queue is full")
	ErrClosed    = errors.New("notifier is closed")
)

const defaultQueueSize = 256

// Async hands events to a single background worker, so a slow or failing
// receiver never holds up the caller. Events are delivered in the order they
// were queued, each under its own timeout.
type Async struct {
	next    Notifier
	timeout time.Duration
	log     *zap.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

// NewAsync starts the delivery worker in front of next. Call Close to drain it.
func NewAsync(next Notifier, cfg config.NotifyConfig, log *zap.Logger) *Async {
	if log == nil {
		log = zap.NewNop()
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	a := &Async{
		next:    next,
		timeout: DeliveryTimeout(cfg),
		log:     log,
		queue:   make(chan Event, size),
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

// Notify queues e and returns at once. The caller's context is not used for
// delivery since it usually ends with the request that produced the event.
func (a *Async) Notify(_ context.Context, e Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.queue <- e:
		return nil
	default:
		return ErrQueueFull
	}
}

func (a *Async) run() {
	defer close(a.done)
	for e := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		err := a.next.Notify(ctx, e)
		cancel()
		if err != nil {
			a.log.Warn("approval_notify_failed",
				zap.String("event", e.Type),
				zap.String("request_id", e.RequestID),
				zap.Error(err),
			)
		}
	}
}

// Close stops accepting events and waits until the queued ones are delivered
// or ctx ends.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
