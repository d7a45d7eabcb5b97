package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Guard is the pre-handler gate for protected routes. It extracts a bearer
// token, verifies it against the access secret, and attaches the resulting
// claims to the request context, or short-circuits with a 401 before the
// handler runs.
//
// The guard reports a uniform failure to the caller regardless of whether
// the token was missing, invalid, expired, or malformed; the subkind is
// only logged.
type Guard struct {
	tokens  *TokenService
	logger  Logger
	onError func(c *fiber.Ctx, err error) error
}

// NewGuard returns a guard backed by the given token service.
func NewGuard(tokens *TokenService) *Guard {
	g := &Guard{
		tokens: tokens,
		logger: defLogger{},
	}
	g.onError = g.defaultErrHandler
	return g
}

func (g *Guard) WithLogger(logger Logger) *Guard {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// WithErrorHandler overrides how guard failures are written to the reply.
// The gateway uses this to route failures through its response envelope.
func (g *Guard) WithErrorHandler(handler func(c *fiber.Ctx, err error) error) *Guard {
	if handler != nil {
		g.onError = handler
	}
	return g
}

// RequireAuth returns the middleware enforcing the guard contract.
func (g *Guard) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			g.logger.Debug("guard rejected request without bearer token", "path", c.Path())
			return g.onError(c, ErrUnauthenticated)
		}

		claims, err := g.tokens.VerifyAccessToken(token)
		if err != nil {
			g.logger.Debug("guard rejected token", "path", c.Path(), "reason", TextCode(err))
			return g.onError(c, err)
		}

		c.Locals(ClaimsContextKey, claims)
		c.SetUserContext(WithClaimsContext(c.UserContext(), claims))

		return c.Next()
	}
}

// extractBearerToken pulls the token out of "Authorization: Bearer <t>".
func extractBearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// defaultErrHandler is the bare fallback used when no handler was
// installed with WithErrorHandler. It writes a minimal failure body; it
// does not know about any outer response envelope, so wiring that has one
// (request ids, meta) must install its own handler.
func (g *Guard) defaultErrHandler(c *fiber.Ctx, _ error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "Invalid token",
	})
}
