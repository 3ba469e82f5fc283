package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hatchops/internal/config"
)

func TestNew_NopWithoutURL(t *testing.T) {
	n := New(config.NotifyConfig{})
	assert.IsType(t, Nop{}, n)
	assert.NoError(t, n.Notify(context.Background(), Event{Type: EventSubmitted}))
}

func TestWebhook_Notify(t *testing.T) {
	var got Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	n := New(config.NotifyConfig{WebhookURL: srv.URL, TimeoutSec: 2})
	err := n.Notify(context.Background(), Event{
		Type: EventAdvanced, RequestID: "req-1", Module: "ps_receive", ReferenceID: "ps-1",
		Status: "pending", NextRole: "farm_manager", OccurredAt: at,
	})
	require.NoError(t, err)
	assert.Equal(t, "req-1", got.RequestID)
	assert.Equal(t, "farm_manager", got.NextRole)
	assert.True(t, at.Equal(got.OccurredAt))
}

func TestWebhook_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := New(config.NotifyConfig{WebhookURL: srv.URL}).Notify(context.Background(), Event{Type: EventCompleted})
	assert.ErrorContains(t, err, "status 400")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestWebhook_ServerErrorIsRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := New(config.NotifyConfig{WebhookURL: srv.URL}).Notify(context.Background(), Event{Type: EventExpired})
	assert.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}
