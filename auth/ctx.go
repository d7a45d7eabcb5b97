package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// ClaimsContextKey is the fiber locals key under which the guard stores
// verified claims.
const ClaimsContextKey = "claims"

var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithClaimsContext sets the Claims in the given context
func WithClaimsContext(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// ClaimsFromContext extracts the Claims from the standard context
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*Claims)
	return raw, ok
}

// ClaimsFromFiber extracts the Claims the guard attached to the request.
func ClaimsFromFiber(c *fiber.Ctx) (*Claims, bool) {
	raw := c.Locals(ClaimsContextKey)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(*Claims)
	return claims, ok
}
