package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hatchops/internal/http/middleware"
	"hatchops/internal/model"
	"hatchops/internal/service"
)

const testID = "6f1c2a8e-3b7d-4c55-9a61-2f0d8e4b7c10"

// withActor stands in for the auth middleware.
func withActor(a model.Actor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.ActorLocalKey, a)
		return c.Next()
	}
}

var supervisor = model.Actor{UserID: "user-1", Role: "supervisor"}

func jsonRequest(method, target string, body any) *http.Request {
	var r *strings.Reader
	switch v := body.(type) {
	case nil:
		r = strings.NewReader("")
	case string:
		r = strings.NewReader(v)
	default:
		b, _ := json.Marshal(v)
		r = strings.NewReader(string(b))
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return req
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLiveness(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", Liveness())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRespond(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		field  string
	}{
		{name: "validation", err: &service.ValidationError{Field: "chick_counts", Message: "at least one row is required"}, status: 400, code: "VALIDATION_ERROR", field: "chick_counts"},
		{name: "wrapped validation", err: fmt.Errorf("create: %w", &service.ValidationError{Field: "level", Message: "out of range"}), status: 400, code: "VALIDATION_ERROR", field: "level"},
		{name: "not found", err: fmt.Errorf("batch assign: %w", service.ErrNotFound), status: 404, code: "NOT_FOUND"},
		{name: "conflict", err: fmt.Errorf("shipment already exists: %w", service.ErrConflict), status: 409, code: "CONFLICT"},
		{name: "invalid state", err: service.ErrInvalidState, status: 409, code: "INVALID_STATE"},
		{name: "expired", err: service.ErrExpired, status: 409, code: "APPROVAL_EXPIRED"},
		{name: "forbidden", err: service.ErrForbidden, status: 403, code: "FORBIDDEN"},
		{name: "unauthorized", err: service.ErrUnauthorized, status: 401, code: "UNAUTHORIZED"},
		{name: "invalid id", err: errInvalidID, status: 400, code: "INVALID_ID"},
		{name: "internal", err: errors.New("pq: connection reset"), status: 500, code: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(middleware.RequestID())
			app.Get("/", func(c *fiber.Ctx) error { return respond(c, tt.err) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(middleware.RequestIDHeader, "rid-9")
			resp, _ := app.Test(req)

			assert.Equal(t, tt.status, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, "rid-9", body.RequestID)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.field, body.Error.Field)
			if tt.status == 500 {
				assert.Equal(t, "internal server error", body.Error.Message)
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/unauthorized", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
	})
	app.Get("/panic-ish", func(c *fiber.Ctx) error {
		return errors.New("unexpected")
	})

	t.Run("fiber error keeps message", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/unauthorized", nil))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
		assert.Equal(t, "invalid or expired token", body.Error.Message)
	})

	t.Run("plain error is internal", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/panic-ish", nil))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp).Error.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})
}
