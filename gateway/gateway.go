package gateway

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/vGazzana/delivery-io/auth"
	"github.com/vGazzana/delivery-io/config"
)

// Gateway owns the fiber app and the auth wiring: request tracing and
// logging run first, then the lifecycle routes, with protected routes
// behind the guard.
type Gateway struct {
	app       *fiber.App
	cfg       *config.Config
	logger    *zap.Logger
	auther    *auth.Authenticator
	guard     *auth.Guard
	responder *Responder
	provider  auth.IdentityProvider
}

type Option func(*Gateway)

// WithIdentityProvider injects the credential-store collaborator. Defaults
// to the development static provider.
func WithIdentityProvider(provider auth.IdentityProvider) Option {
	return func(g *Gateway) {
		g.provider = provider
	}
}

// New builds the gateway from configuration. The signing secrets are read
// once here; nothing re-reads them per request.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		cfg:      cfg,
		logger:   logger,
		provider: auth.NewStaticIdentityProvider(),
	}

	for _, opt := range opts {
		opt(g)
	}

	authLogger := newAuthLogger(logger.Named("auth"))

	tokens := auth.NewTokenService([]byte(cfg.AccessSecret), []byte(cfg.RefreshSecret)).
		WithLogger(authLogger)
	cookies := auth.NewCookieManager(cfg.IsProduction())

	g.responder = NewResponder(cfg.Environment)
	g.auther = auth.NewAuthenticator(tokens, cookies, g.provider).WithLogger(authLogger)
	g.guard = auth.NewGuard(tokens).
		WithLogger(authLogger).
		WithErrorHandler(g.guardErrorHandler)

	g.app = fiber.New(fiber.Config{
		AppName:               "delivery-io gateway",
		DisableStartupMessage: true,
	})

	g.bootstrapPlugins()
	g.bootstrapRoutes()

	return g
}

// App exposes the underlying fiber app, mainly for tests.
func (g *Gateway) App() *fiber.App {
	return g.app
}

// Listen serves until the context is canceled, then shuts down gracefully.
func (g *Gateway) Listen(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", g.cfg.Host, g.cfg.Port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- g.app.Listen(addr)
	}()

	g.logger.Info("gateway listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		g.logger.Info("gateway shutting down")
		return g.app.Shutdown()
	}
}

func (g *Gateway) bootstrapPlugins() {
	g.logger.Info("registering gateway plugins")
	g.app.Use(NewRequestID(g.logger))
	g.app.Use(NewRequestLogger())
}

func (g *Gateway) bootstrapRoutes() {
	controller := NewAuthController(g.auther, g.guard, g.responder,
		WithControllerLogger(g.logger.Named("auth_controller")),
	)
	RegisterAuthRoutes(g.app, controller)
}

// guardErrorHandler maps guard failures onto the envelope. The two
// client-visible messages mirror the route contract: one for a missing
// token, one for everything else. Verification subkinds are never exposed.
func (g *Gateway) guardErrorHandler(c *fiber.Ctx, err error) error {
	if auth.TextCode(err) == auth.TextCodeUnauthenticated {
		return g.responder.Fail(c, "Token required", fiber.StatusUnauthorized)
	}
	return g.responder.Fail(c, "Invalid token", fiber.StatusUnauthorized)
}

// authLogger adapts zap to the auth package's key-value logger contract.
type authLogger struct {
	sugar *zap.SugaredLogger
}

func newAuthLogger(logger *zap.Logger) *authLogger {
	return &authLogger{sugar: logger.Sugar()}
}

func (l *authLogger) Debug(msg string, args ...any) { l.sugar.Debugw(msg, args...) }
func (l *authLogger) Info(msg string, args ...any)  { l.sugar.Infow(msg, args...) }
func (l *authLogger) Warn(msg string, args ...any)  { l.sugar.Warnw(msg, args...) }
func (l *authLogger) Error(msg string, args ...any) { l.sugar.Errorw(msg, args...) }
