package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// IdentityProvider resolves credentials to an identity. The gateway treats
// the user record as an opaque external fact; a real deployment injects a
// provider backed by its credential store.
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, email, password string) (*Identity, error)
}

// StaticIdentityProvider synthesizes a fixed identity for whichever email
// logs in. It stands in for the credential-store collaborator during
// development; it performs no password verification.
type StaticIdentityProvider struct {
	UserID   int64
	TenantID string
	Role     UserRole
}

// NewStaticIdentityProvider returns a provider with the development
// defaults used by the original deployment.
func NewStaticIdentityProvider() *StaticIdentityProvider {
	return &StaticIdentityProvider{
		UserID:   1,
		TenantID: "tenant-uuid",
		Role:     RoleAdmin,
	}
}

func (p *StaticIdentityProvider) VerifyIdentity(_ context.Context, email, _ string) (*Identity, error) {
	return &Identity{
		UserID:   p.UserID,
		Email:    email,
		TenantID: p.TenantID,
		Role:     p.Role,
	}, nil
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(msg), args...)
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(msg), args...)
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(msg), args...)
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(msg), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
