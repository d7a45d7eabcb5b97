package gateway

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vGazzana/delivery-io/auth"
)

// AuthController exposes the token lifecycle over HTTP. Route handlers do
// payload binding and validation only; the flows live in the
// auth.Authenticator and every reply goes through the Responder.
type AuthController struct {
	Debug     bool
	Logger    *zap.Logger
	Auther    *auth.Authenticator
	Guard     *auth.Guard
	Responder *Responder
}

type AuthControllerOption func(*AuthController) *AuthController

func WithDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithControllerLogger(logger *zap.Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func NewAuthController(auther *auth.Authenticator, guard *auth.Guard, responder *Responder, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:    zap.L(),
		Auther:    auther,
		Guard:     guard,
		Responder: responder,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Guard == nil {
		panic("Missing Guard in auth controller...")
	}

	if c.Responder == nil {
		panic("Missing Responder in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the six lifecycle routes. /me and /status run
// the guard before their handlers.
func RegisterAuthRoutes(app fiber.Router, controller *AuthController) {
	protected := controller.Guard.RequireAuth()

	app.Post("/login", controller.LoginPost)
	app.Post("/register", controller.RegisterPost)
	app.Get("/me", protected, controller.Me)
	app.Post("/refresh", controller.RefreshPost)
	app.Post("/logout", controller.LogoutPost)
	app.Get("/status", protected, controller.Status)
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		LoggerFrom(c).Warn("login parse payload", zap.Error(err))
		return a.Responder.Fail(c, "Email and password are required", fiber.StatusBadRequest)
	}

	if err := payload.Validate(); err != nil {
		LoggerFrom(c).Warn("login validate payload", zap.Error(err))
		return a.Responder.Fail(c, "Email and password are required", fiber.StatusBadRequest)
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	identity, tokens, err := a.Auther.Login(c, payload.Email, payload.Password)
	if err != nil {
		LoggerFrom(c).Error("login error", zap.Error(err))
		return a.Responder.Fail(c, "Invalid credentials", fiber.StatusUnauthorized)
	}

	return a.Responder.Success(c, fiber.Map{
		"user":   identity,
		"tokens": tokens,
	})
}

// RegisterRequest payload
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
		validation.Field(
			&r.Name,
			validation.Required,
		),
	)
}

// RegisterPost accepts a new-identity request and returns an opaque
// marker. Registering is decoupled from login: no tokens or cookies are
// issued here.
func (a *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := c.BodyParser(payload); err != nil {
		LoggerFrom(c).Warn("register parse payload", zap.Error(err))
		return a.Responder.Fail(c, "Email, password and name are required", fiber.StatusBadRequest)
	}

	if err := payload.Validate(); err != nil {
		LoggerFrom(c).Warn("register validate payload", zap.Error(err))
		return a.Responder.Fail(c, "Email, password and name are required", fiber.StatusBadRequest)
	}

	return a.Responder.Success(c, fiber.Map{
		"userId": uuid.NewString(),
	})
}

// Me projects the guard-attached identity.
func (a *AuthController) Me(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromFiber(c)
	if !ok {
		return a.Responder.Fail(c, "Invalid token", fiber.StatusUnauthorized)
	}

	return a.Responder.Success(c, fiber.Map{
		"user": claims.Identity(),
	})
}

// RefreshRequest payload. The body token is a fallback; the session cookie
// takes precedence.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (a *AuthController) RefreshPost(c *fiber.Ctx) error {
	payload := new(RefreshRequest)

	// Body is optional: the token usually rides in the session cookie.
	if err := c.BodyParser(payload); err != nil && len(c.Body()) > 0 {
		LoggerFrom(c).Warn("refresh parse payload", zap.Error(err))
	}

	tokens, err := a.Auther.Refresh(c, payload.RefreshToken)
	if err != nil {
		if auth.TextCode(err) == auth.TextCodeMissingRefreshToken {
			return a.Responder.Fail(c, "Refresh token is required", fiber.StatusBadRequest)
		}
		LoggerFrom(c).Warn("refresh rejected", zap.String("reason", auth.TextCode(err)))
		return a.Responder.Fail(c, "Invalid refresh token", fiber.StatusUnauthorized)
	}

	return a.Responder.Success(c, fiber.Map{
		"tokens": tokens,
	})
}

func (a *AuthController) LogoutPost(c *fiber.Ctx) error {
	payload := new(RefreshRequest)

	if err := c.BodyParser(payload); err != nil && len(c.Body()) > 0 {
		LoggerFrom(c).Debug("logout parse payload", zap.Error(err))
	}

	a.Auther.Logout(c, payload.RefreshToken)

	return a.Responder.Success(c, fiber.Map{
		"message": "Logout successful",
	})
}

// Status reports the authenticated identity. The guard has already run, so
// reaching this handler implies authenticated:true.
func (a *AuthController) Status(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromFiber(c)
	if !ok {
		return a.Responder.Fail(c, "Invalid token", fiber.StatusUnauthorized)
	}

	return a.Responder.Success(c, fiber.Map{
		"authenticated": true,
		"user":          claims.Identity(),
	})
}
