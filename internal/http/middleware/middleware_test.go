package middleware

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"hatchops/internal/model"
	"hatchops/internal/service"
	serviceMocks "hatchops/internal/service/mocks"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(RequestIDFrom(c))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})

	t.Run("should replace oversized request id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLen+1))

		resp, _ := app.Test(req)

		rid := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, rid)
		assert.LessOrEqual(t, len(rid), maxRequestIDLen)
	})
}

func newLoggedApp() (*fiber.App, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	app := fiber.New()

	app.Use(RequestID())
	app.Use(Logger(zap.New(core)))

	app.Get("/test", func(c *fiber.Ctx) error {
		RequestLogger(c).Info("inside_handler")
		return c.SendStatus(fiber.StatusAccepted)
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})
	return app, logs
}

// byMessage keeps the entries carrying msg.
func byMessage(entries []observer.LoggedEntry, msg string) []observer.LoggedEntry {
	var out []observer.LoggedEntry
	for _, e := range entries {
		if e.Message == msg {
			out = append(out, e)
		}
	}
	return out
}

func TestLogger(t *testing.T) {
	t.Run("logs request fields", func(t *testing.T) {
		app, logs := newLoggedApp()
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, "rid-1")
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

		all := logs.TakeAll()
		entries := byMessage(all, "http_request")
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "rid-1", fields["request_id"])
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, "/test", fields["path"])
		assert.Equal(t, int64(fiber.StatusAccepted), fields["status"])
		assert.Contains(t, fields, "latency")

		inner := byMessage(all, "inside_handler")
		require.Len(t, inner, 1)
		assert.Equal(t, "rid-1", inner[0].ContextMap()["request_id"])
		assert.Zero(t, logs.Len(), "taking the entries drains the observer")
	})

	t.Run("unhandled error logs as 500", func(t *testing.T) {
		app, logs := newLoggedApp()
		app.Test(httptest.NewRequest("GET", "/test", nil))
		logs.TakeAll()

		app.Test(httptest.NewRequest("GET", "/boom", nil))

		entries := byMessage(logs.TakeAll(), "http_request")
		require.Len(t, entries, 1)
		assert.Equal(t, zap.ErrorLevel, entries[0].Level)
		assert.Equal(t, int64(500), entries[0].ContextMap()["status"])
	})
}

func TestRequestLogger_WithoutMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/test", func(c *fiber.Ctx) error {
		assert.NotNil(t, RequestLogger(c))
		return c.SendStatus(fiber.StatusOK)
	})

	resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuth(t *testing.T) {
	tokens := new(serviceMocks.MockAuthService)
	tokens.On("ParseToken", "good").Return(&service.Claims{UserID: "u1", Role: "supervisor"}, nil)
	tokens.On("ParseToken", "bad").Return(nil, service.ErrUnauthorized)

	app := fiber.New()
	app.Use(Auth(tokens))
	app.Get("/me", func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		require.True(t, ok)
		return c.SendString(actor.UserID + ":" + actor.Role)
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "valid token", header: "Bearer good", status: fiber.StatusOK, body: "u1:supervisor"},
		{name: "scheme is case insensitive", header: "bearer good", status: fiber.StatusOK, body: "u1:supervisor"},
		{name: "missing header", status: fiber.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", status: fiber.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", status: fiber.StatusUnauthorized},
		{name: "rejected token", header: "Bearer bad", status: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.body != "" {
				buf := new(bytes.Buffer)
				buf.ReadFrom(resp.Body)
				assert.Equal(t, tt.body, buf.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	withActor := func(a *model.Actor) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if a != nil {
				c.Locals(ActorLocalKey, *a)
			}
			return c.Next()
		}
	}
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) }

	tests := []struct {
		name   string
		actor  *model.Actor
		status int
	}{
		{name: "admin allowed", actor: &model.Actor{UserID: "u1", Role: model.RoleAdmin}, status: fiber.StatusNoContent},
		{name: "other role forbidden", actor: &model.Actor{UserID: "u2", Role: "supervisor"}, status: fiber.StatusForbidden},
		{name: "anonymous unauthorized", status: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/admin", withActor(tt.actor), RequireRole(model.RoleAdmin), ok)

			resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
