package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"hatchops/internal/config"
)

type recorder struct {
	mu        sync.Mutex
	got       []string
	deadlines []bool
	release   chan struct{}
	err       error
}

func (r *recorder) Notify(ctx context.Context, e Event) error {
	if r.release != nil {
		<-r.release
	}
	_, ok := ctx.Deadline()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, e.RequestID)
	r.deadlines = append(r.deadlines, ok)
	return r.err
}

func (r *recorder) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}

func TestAsync_DeliversInOrderAfterReturning(t *testing.T) {
	rec := &recorder{release: make(chan struct{})}
	a := NewAsync(rec, config.NotifyConfig{QueueSize: 8}, nil)

	for _, id := range []string{"req-1", "req-2", "req-3"} {
		require.NoError(t, a.Notify(context.Background(), Event{Type: EventAdvanced, RequestID: id}))
	}
	assert.Empty(t, rec.ids(), "Notify must not wait for the receiver")

	close(rec.release)
	require.NoError(t, a.Close(context.Background()))
	assert.Equal(t, []string{"req-1", "req-2", "req-3"}, rec.ids())
	assert.Equal(t, []bool{true, true, true}, rec.deadlines)
}

func TestAsync_CancelledCallerStillDelivers(t *testing.T) {
	rec := &recorder{}
	a := NewAsync(rec, config.NotifyConfig{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, a.Notify(ctx, Event{RequestID: "req-1"}))
	cancel()

	require.NoError(t, a.Close(context.Background()))
	assert.Equal(t, []string{"req-1"}, rec.ids())
}

func TestAsync_QueueFull(t *testing.T) {
	rec := &recorder{release: make(chan struct{})}
	a := NewAsync(rec, config.NotifyConfig{QueueSize: 1}, nil)

	// The worker takes the first event and blocks on it; the second fills the queue.
	require.NoError(t, a.Notify(context.Background(), Event{RequestID: "req-1"}))
	require.Eventually(t, func() bool { return len(a.queue) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, a.Notify(context.Background(), Event{RequestID: "req-2"}))

	assert.ErrorIs(t, a.Notify(context.Background(), Event{RequestID: "req-3"}), ErrQueueFull)

	close(rec.release)
	require.NoError(t, a.Close(context.Background()))
	assert.Equal(t, []string{"req-1", "req-2"}, rec.ids())
}

func TestAsync_ClosedRejectsEvents(t *testing.T) {
	a := NewAsync(Nop{}, config.NotifyConfig{}, nil)
	require.NoError(t, a.Close(context.Background()))
	require.NoError(t, a.Close(context.Background()), "closing twice is harmless")
	assert.ErrorIs(t, a.Notify(context.Background(), Event{}), ErrClosed)
}

func TestAsync_CloseHonoursContext(t *testing.T) {
	rec := &recorder{release: make(chan struct{})}
	defer close(rec.release)
	a := NewAsync(rec, config.NotifyConfig{}, nil)
	require.NoError(t, a.Notify(context.Background(), Event{RequestID: "req-1"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, a.Close(ctx), context.DeadlineExceeded)
}

func TestAsync_LogsDeliveryFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rec := &recorder{err: assert.AnError}
	a := NewAsync(rec, config.NotifyConfig{}, zap.New(core))

	require.NoError(t, a.Notify(context.Background(), Event{Type: EventCompleted, RequestID: "req-9"}))
	require.NoError(t, a.Close(context.Background()))

	entries := logs.FilterMessage("approval_notify_failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
}

func TestDeliveryTimeout(t *testing.T) {
	assert.Equal(t, 15*time.Second, DeliveryTimeout(config.NotifyConfig{}))
	assert.Equal(t, 6*time.Second, DeliveryTimeout(config.NotifyConfig{TimeoutSec: 2}))
}
