package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// Token lifetimes are fixed by the session contract: access tokens are
// short-lived because they travel to untrusted contexts, refresh tokens
// live long enough to span a working week.
const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenPair is one access token and one refresh token issued together.
// They are never issued independently.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenService signs and verifies the two token classes. Each class has
// its own secret and lifetime; an access token can never pass refresh
// verification or vice versa. The secrets are set once at construction and
// never mutated, so a single instance is safe for concurrent use.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
	logger        Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(accessSecret, refreshSecret []byte) *TokenService {
	return &TokenService{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     AccessTokenTTL,
		refreshTTL:    RefreshTokenTTL,
		now:           time.Now,
		logger:        defLogger{},
	}
}

func (ts *TokenService) WithLogger(logger Logger) *TokenService {
	if logger != nil {
		ts.logger = logger
	}
	return ts
}

// WithClock overrides the time source used for issued-at stamping and
// expiry checks. Tests use this to cross expiry boundaries deterministically.
func (ts *TokenService) WithClock(now func() time.Time) *TokenService {
	if now != nil {
		ts.now = now
	}
	return ts
}

// WithLifetimes overrides the default token lifetimes.
func (ts *TokenService) WithLifetimes(access, refresh time.Duration) *TokenService {
	if access > 0 {
		ts.accessTTL = access
	}
	if refresh > 0 {
		ts.refreshTTL = refresh
	}
	return ts
}

// IssueAccessToken signs the full identity claims with the access secret,
// stamping issued-at and expiry.
func (ts *TokenService) IssueAccessToken(claims *Claims) (string, error) {
	return ts.issue(claims, ts.accessSecret, ts.accessTTL)
}

// IssueRefreshToken signs the refresh claim subset with the refresh
// secret. The subset still carries email and role so a refresh cycle can
// rebuild the full claim set.
func (ts *TokenService) IssueRefreshToken(claims *Claims) (string, error) {
	return ts.issue(claims, ts.refreshSecret, ts.refreshTTL)
}

// GeneratePair issues both tokens for the identity. Login and refresh
// always mint the pair together.
func (ts *TokenService) GeneratePair(identity *Identity) (TokenPair, error) {
	access, err := ts.IssueAccessToken(identity.Claims())
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := ts.IssueRefreshToken(identity.Claims())
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccessToken parses and validates a token against the access secret
// only, returning structured claims.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*Claims, error) {
	return ts.verify(tokenString, ts.accessSecret)
}

// VerifyRefreshToken parses and validates a token against the refresh
// secret only.
func (ts *TokenService) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return ts.verify(tokenString, ts.refreshSecret)
}

func (ts *TokenService) issue(claims *Claims, secret []byte, ttl time.Duration) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	if err := claims.Validate(); err != nil {
		return "", err
	}

	now := ts.now()
	claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, ErrTokenSigning.Category, ErrTokenSigning.Message).
			WithTextCode(ErrTokenSigning.TextCode).
			WithCode(errors.CodeInternal)
	}

	return signedString, nil
}

func (ts *TokenService) verify(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService verify encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(ts.now))

	if err != nil {
		// Signature mismatch wins over claim validation: a token signed
		// with the other class's secret must read as invalid, not expired.
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, errors.Wrap(err, ErrTokenInvalid.Category, ErrTokenInvalid.Message).
				WithTextCode(ErrTokenInvalid.TextCode).
				WithCode(errors.CodeUnauthorized)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService verify could not decode claims")
		return nil, ErrTokenMalformed
	}

	if err := claims.Validate(); err != nil {
		ts.logger.Error("TokenService verify rejected claims", "error", err)
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
