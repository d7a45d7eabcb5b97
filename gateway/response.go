package gateway

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vGazzana/delivery-io/auth"
)

// ResponseMeta rides along with every success envelope.
type ResponseMeta struct {
	Timestamp   string  `json:"timestamp"`
	Environment string  `json:"environment"`
	TenantID    *string `json:"tenantId"`
}

// SuccessEnvelope is the uniform shape of every 2xx reply.
type SuccessEnvelope struct {
	RequestID string       `json:"requestId"`
	Success   bool         `json:"success"`
	Data      any          `json:"data"`
	Meta      ResponseMeta `json:"meta"`
}

// FailureEnvelope is the uniform shape of every error reply. No internal
// error text reaches the client; callers pass a fixed message per route.
type FailureEnvelope struct {
	RequestID string `json:"requestId"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
}

// Responder wraps handler payloads in the gateway envelope. Handlers never
// write raw bodies.
type Responder struct {
	environment string
	now         func() time.Time
}

// NewResponder creates a responder stamping the given deployment
// environment into the success meta.
func NewResponder(environment string) *Responder {
	return &Responder{
		environment: environment,
		now:         time.Now,
	}
}

// WithClock overrides the meta timestamp source.
func (r *Responder) WithClock(now func() time.Time) *Responder {
	if now != nil {
		r.now = now
	}
	return r
}

// Success writes the success envelope with status 200.
func (r *Responder) Success(c *fiber.Ctx, data any) error {
	return r.SuccessWithStatus(c, data, fiber.StatusOK)
}

// SuccessWithStatus writes the success envelope with an explicit status.
func (r *Responder) SuccessWithStatus(c *fiber.Ctx, data any, status int) error {
	var tenantID *string
	if claims, ok := auth.ClaimsFromFiber(c); ok && claims.TenantID != "" {
		tenantID = &claims.TenantID
	}

	return c.Status(status).JSON(SuccessEnvelope{
		RequestID: RequestID(c),
		Success:   true,
		Data:      data,
		Meta: ResponseMeta{
			Timestamp:   r.now().UTC().Format(time.RFC3339),
			Environment: r.environment,
			TenantID:    tenantID,
		},
	})
}

// Fail writes the failure envelope.
func (r *Responder) Fail(c *fiber.Ctx, message string, status int) error {
	return c.Status(status).JSON(FailureEnvelope{
		RequestID: RequestID(c),
		Success:   false,
		Message:   message,
	})
}
