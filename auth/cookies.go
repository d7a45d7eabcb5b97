package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Session cookie names on the wire.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookieManager maps a token pair to transport cookies and clears them
// symmetrically. It is a pure transport adapter: no verification or trust
// decisions happen here, and all cookie writes route through it.
//
// Clearing mirrors every attribute used at set time except value and
// max-age. A browser only removes a cookie when path, same-site, and the
// secure flag match the ones it was set with.
type CookieManager struct {
	secure bool
}

// NewCookieManager creates a cookie manager. secure controls the Secure
// attribute and is false only for local/development deployments.
func NewCookieManager(secure bool) *CookieManager {
	return &CookieManager{secure: secure}
}

// Attach sets both session cookies on the reply, overwriting any
// pre-existing cookies of the same name. Each cookie's lifetime mirrors its
// token's expiry.
func (m *CookieManager) Attach(c *fiber.Ctx, pair TokenPair) {
	m.set(c, AccessTokenCookie, pair.AccessToken, AccessTokenTTL)
	m.set(c, RefreshTokenCookie, pair.RefreshToken, RefreshTokenTTL)
}

// Clear expires both session cookies with attributes matching Attach.
func (m *CookieManager) Clear(c *fiber.Ctx) {
	m.del(c, AccessTokenCookie)
	m.del(c, RefreshTokenCookie)
}

func (m *CookieManager) set(c *fiber.Ctx, name, value string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		// Max-Age wins over Expires on the wire, so the cookie lifetime
		// is carried by MaxAge alone.
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (m *CookieManager) del(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
