package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LoggerLocalKey is the fiber locals key holding the request-scoped logger.
const LoggerLocalKey = "logger"

// Logger writes one structured line per request with request_id, method,
// path, status and latency in milliseconds. Handlers can fetch a logger
// already carrying the request_id through RequestLogger.
func Logger(base *zap.Logger) fiber.Handler {
	if base == nil {
		base = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqLog := base.With(zap.String("request_id", RequestIDFrom(c)))
		c.Locals(LoggerLocalKey, reqLog)

		err := c.Next()

		status := statusOf(c, err)
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		}
		if actor, ok := ActorFrom(c); ok {
			fields = append(fields, zap.String("user_id", actor.UserID))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			reqLog.Error("http_request", fields...)
		default:
			reqLog.Info("http_request", fields...)
		}

		return err
	}
}

// RequestLogger returns the logger stored by Logger, or a no-op logger.
func RequestLogger(c *fiber.Ctx) *zap.Logger {
	if l, ok := c.Locals(LoggerLocalKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// statusOf resolves the final status of a request. Errors returned down the
// chain have not reached the error handler yet, so their status is derived.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
