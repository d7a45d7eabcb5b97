package gateway

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDKey = "requestId"
	loggerKey    = "requestLogger"

	// HeaderRequestID is mirrored on every reply for log correlation.
	HeaderRequestID = "x-request-id"
)

// RequestID returns the tracing identity assigned to this request, or ""
// before the middleware has run.
func RequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// LoggerFrom returns the request-scoped logger. Falls back to the global
// logger so handlers can log unconditionally.
func LoggerFrom(c *fiber.Ctx) *zap.Logger {
	if lgr, ok := c.Locals(loggerKey).(*zap.Logger); ok {
		return lgr
	}
	return zap.L()
}

// NewRequestID assigns each request a 32-hex-char tracing identity, mirrors
// it on the reply header, and derives a child logger carrying it.
func NewRequestID(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")

		c.Locals(requestIDKey, id)
		c.Locals(loggerKey, logger.With(zap.String("request_id", id)))
		c.Set(HeaderRequestID, id)

		return c.Next()
	}
}

// NewRequestLogger logs every inbound request. Runs after NewRequestID so
// the entry carries the request id.
func NewRequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		LoggerFrom(c).Info("incoming request",
			zap.String("method", c.Method()),
			zap.String("url", c.OriginalURL()),
		)
		return c.Next()
	}
}
