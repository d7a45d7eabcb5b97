package auth

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeTokenInvalid        = "token_invalid"
	TextCodeTokenExpired        = "token_expired"
	TextCodeTokenMalformed      = "token_malformed"
	TextCodeTokenSigning        = "token_signing_failed"
	TextCodeUnauthenticated     = "unauthenticated"
	TextCodeInvalidCredentials  = "invalid_credentials"
	TextCodeInvalidRefreshToken = "invalid_refresh_token"
	TextCodeMissingRefreshToken = "missing_refresh_token"
	TextCodeInvalidRole         = "invalid_role"
	TextCodeClaimsIncomplete    = "claims_incomplete"
)

// ErrTokenInvalid is returned when a token fails signature verification,
// including tokens of one class verified against the other secret.
var ErrTokenInvalid = errors.New("invalid authentication token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a token is past its expiry.
var ErrTokenExpired = errors.New("authentication token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token cannot be decoded at all.
var ErrTokenMalformed = errors.New("malformed authentication token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenSigning is returned on cryptographic backend failure. It is not
// expected in normal operation and is never retried.
var ErrTokenSigning = errors.New("failed to sign token", errors.CategoryInternal).
	WithTextCode(TextCodeTokenSigning).
	WithCode(errors.CodeInternal)

// ErrUnauthenticated is returned by the guard when no bearer token is
// present on a protected route.
var ErrUnauthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidCredentials is returned when login cannot establish an identity.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidRefreshToken is returned when a refresh token fails
// verification for any reason. The session cookies are cleared as a side
// effect before this error reaches the client.
var ErrInvalidRefreshToken = errors.New("invalid refresh token", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidRefreshToken).
	WithCode(errors.CodeUnauthorized)

// ErrMissingRefreshToken is returned when neither the session cookie nor
// the request body carries a refresh token.
var ErrMissingRefreshToken = errors.New("refresh token is required", errors.CategoryValidation).
	WithTextCode(TextCodeMissingRefreshToken).
	WithCode(errors.CodeBadRequest)

// ErrInvalidRole rejects claims whose role is outside the closed role set.
var ErrInvalidRole = errors.New("invalid role", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidRole).
	WithCode(errors.CodeBadRequest)

// ErrClaimsIncomplete rejects claims with a missing subject or tenant.
var ErrClaimsIncomplete = errors.New("claims missing user or tenant", errors.CategoryValidation).
	WithTextCode(TextCodeClaimsIncomplete).
	WithCode(errors.CodeBadRequest)

// TextCode extracts the text code from a structured error, or "" when the
// error carries none.
func TextCode(err error) string {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode
	}
	return ""
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	return TextCode(err) == TextCodeTokenExpired
}

// IsMalformedError will check for undecodable tokens
func IsMalformedError(err error) bool {
	return TextCode(err) == TextCodeTokenMalformed
}
