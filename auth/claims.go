package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity payload embedded in both token classes. The
// refresh token carries the same four identity fields as the access token
// so a refresh cycle can rebuild the full claim set without consulting an
// identity store.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	TenantID string `json:"tenantId"`
	UserRole string `json:"role"`
}

// Role returns the claim's role as a typed UserRole.
func (c *Claims) Role() UserRole {
	return UserRole(c.UserRole)
}

// Expires returns the expiration time
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *Claims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Identity projects the claims back to the identity they were minted from,
// dropping the timestamp claims. Refresh uses this to derive the payload of
// the next token pair.
func (c *Claims) Identity() *Identity {
	return &Identity{
		UserID:   c.UserID,
		Email:    c.Email,
		TenantID: c.TenantID,
		Role:     c.Role(),
	}
}

// Validate checks the identity invariants: a subject and tenant must be
// present and the role must belong to the closed role set.
func (c *Claims) Validate() error {
	if c.UserID == 0 {
		return ErrClaimsIncomplete
	}
	if c.TenantID == "" {
		return ErrClaimsIncomplete
	}
	if _, ok := ParseRole(c.UserRole); !ok {
		return ErrInvalidRole
	}
	return nil
}

// Identity holds the authenticated subject's attributes as supplied by an
// external identity source. The gateway never looks these up itself.
type Identity struct {
	UserID   int64    `json:"userId"`
	Email    string   `json:"email"`
	TenantID string   `json:"tenantId"`
	Role     UserRole `json:"role"`
}

// Claims builds a token payload from the identity. Issued-at and expiry are
// stamped by the token service at signing time.
func (i *Identity) Claims() *Claims {
	return &Claims{
		UserID:   i.UserID,
		Email:    i.Email,
		TenantID: i.TenantID,
		UserRole: string(i.Role),
	}
}
