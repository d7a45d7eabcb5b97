package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// Authenticator composes the token service, cookie manager, and identity
// provider into the four lifecycle operations. It holds no per-request
// state; everything a call needs travels in the tokens themselves.
type Authenticator struct {
	tokens   *TokenService
	cookies  *CookieManager
	provider IdentityProvider
	logger   Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(tokens *TokenService, cookies *CookieManager, provider IdentityProvider) *Authenticator {
	return &Authenticator{
		tokens:   tokens,
		cookies:  cookies,
		provider: provider,
		logger:   defLogger{},
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// TokenService exposes the codec, mainly so the guard and tests share one
// instance.
func (a *Authenticator) TokenService() *TokenService {
	return a.tokens
}

// Login resolves the credentials to an identity, mints a token pair, and
// attaches the session cookies to the reply.
func (a *Authenticator) Login(c *fiber.Ctx, email, password string) (*Identity, TokenPair, error) {
	identity, err := a.provider.VerifyIdentity(c.UserContext(), email, password)
	if err != nil {
		a.logger.Error("login verify identity error", "email", email, "error", err)
		return nil, TokenPair{}, errors.Wrap(err, ErrInvalidCredentials.Category, ErrInvalidCredentials.Message).
			WithTextCode(ErrInvalidCredentials.TextCode).
			WithCode(errors.CodeUnauthorized)
	}

	pair, err := a.tokens.GeneratePair(identity)
	if err != nil {
		a.logger.Error("login token generation error", "email", email, "error", err)
		return nil, TokenPair{}, err
	}

	a.cookies.Attach(c, pair)

	return identity, pair, nil
}

// Refresh reads the refresh token from the session cookie, falling back to
// the supplied body token, verifies it, and rotates the pair. The previous
// refresh token is not invalidated; it stays valid until its own expiry.
// Any verification failure clears the session cookies before surfacing.
func (a *Authenticator) Refresh(c *fiber.Ctx, bodyToken string) (TokenPair, error) {
	token := c.Cookies(RefreshTokenCookie)
	if token == "" {
		token = bodyToken
	}
	if token == "" {
		return TokenPair{}, ErrMissingRefreshToken
	}

	claims, err := a.tokens.VerifyRefreshToken(token)
	if err != nil {
		a.logger.Info("refresh token rejected", "reason", TextCode(err))
		a.cookies.Clear(c)
		return TokenPair{}, errors.Wrap(err, ErrInvalidRefreshToken.Category, ErrInvalidRefreshToken.Message).
			WithTextCode(ErrInvalidRefreshToken.TextCode).
			WithCode(errors.CodeUnauthorized)
	}

	pair, err := a.tokens.GeneratePair(claims.Identity())
	if err != nil {
		a.logger.Error("refresh token generation error", "error", err)
		return TokenPair{}, err
	}

	a.cookies.Attach(c, pair)

	return pair, nil
}

// Logout ends the session. A present token is verified best-effort so the
// failure can be logged, but the outcome is always the same: cookies
// cleared, no error. A client must never be blocked from ending its
// session by a garbage or already-expired token.
func (a *Authenticator) Logout(c *fiber.Ctx, bodyToken string) {
	token := c.Cookies(RefreshTokenCookie)
	if token == "" {
		token = bodyToken
	}

	if token != "" {
		if _, err := a.tokens.VerifyRefreshToken(token); err != nil {
			a.logger.Debug("logout with unverifiable refresh token", "reason", TextCode(err))
		}
	}

	a.cookies.Clear(c)
}
