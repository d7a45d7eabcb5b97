package gateway_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vGazzana/delivery-io/auth"
	"github.com/vGazzana/delivery-io/config"
	"github.com/vGazzana/delivery-io/gateway"
)

const (
	testAccessSecret  = "access-secret-for-tests"
	testRefreshSecret = "refresh-secret-for-tests"
)

func newTestGateway() *gateway.Gateway {
	cfg := &config.Config{
		Host:          "127.0.0.1",
		Port:          0,
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		Environment:   config.EnvDevelopment,
	}
	return gateway.New(cfg, zap.NewNop())
}

// tokenService mirrors the gateway's codec so tests can mint and inspect
// tokens out of band.
func newTestTokenService() *auth.TokenService {
	return auth.NewTokenService([]byte(testAccessSecret), []byte(testRefreshSecret))
}

type envelope struct {
	RequestID string         `json:"requestId"`
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	Meta      *struct {
		Timestamp   string  `json:"timestamp"`
		Environment string  `json:"environment"`
		TenantID    *string `json:"tenantId"`
	} `json:"meta"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), "body: %s", body)
	return env
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginMissingFields(t *testing.T) {
	gw := newTestGateway()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty password", body: `{"email":"admin@delivery.io","password":""}`},
		{name: "missing email", body: `{"password":"secret"}`},
		{name: "empty body", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := gw.App().Test(jsonRequest(fiber.MethodPost, "/login", tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Empty(t, resp.Cookies(), "no cookies on validation failure")

			env := decodeEnvelope(t, resp)
			assert.False(t, env.Success)
			assert.Equal(t, "Email and password are required", env.Message)
			assert.NotEmpty(t, env.RequestID)
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	gw := newTestGateway()

	resp, err := gw.App().Test(jsonRequest(fiber.MethodPost, "/login",
		`{"email":"admin@delivery.io","password":"secret"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.True(t, env.Success)
	require.NotNil(t, env.Meta)
	assert.Equal(t, config.EnvDevelopment, env.Meta.Environment)

	user := env.Data["user"].(map[string]any)
	assert.Equal(t, "admin@delivery.io", user["email"])
	assert.Equal(t, "admin", user["role"])
	assert.Equal(t, "tenant-uuid", user["tenantId"])

	// Both returned tokens verify independently against their own secret.
	ts := newTestTokenService()
	tokens := env.Data["tokens"].(map[string]any)

	_, err = ts.VerifyAccessToken(tokens["accessToken"].(string))
	assert.NoError(t, err)
	_, err = ts.VerifyRefreshToken(tokens["refreshToken"].(string))
	assert.NoError(t, err)

	access := cookieByName(resp.Cookies(), auth.AccessTokenCookie)
	require.NotNil(t, access)
	assert.Equal(t, tokens["accessToken"].(string), access.Value)
	assert.True(t, access.HttpOnly)
	assert.False(t, access.Secure, "development deployment keeps cookies non-secure")

	refresh := cookieByName(resp.Cookies(), auth.RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, tokens["refreshToken"].(string), refresh.Value)
}

func TestRegister(t *testing.T) {
	gw := newTestGateway()

	t.Run("missing name", func(t *testing.T) {
		resp, err := gw.App().Test(jsonRequest(fiber.MethodPost, "/register",
			`{"email":"new@delivery.io","password":"secret"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		env := decodeEnvelope(t, resp)
		assert.Equal(t, "Email, password and name are required", env.Message)
	})

	t.Run("success issues no tokens", func(t *testing.T) {
		resp, err := gw.App().Test(jsonRequest(fiber.MethodPost, "/register",
			`{"email":"new@delivery.io","password":"secret","name":"New Courier"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.True(t, env.Success)
		assert.NotEmpty(t, env.Data["userId"])

		// Register and login are decoupled.
		assert.Empty(t, resp.Cookies())
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	gw := newTestGateway()

	for _, path := range []string{"/me", "/status"} {
		t.Run(path, func(t *testing.T) {
			resp, err := gw.App().Test(httptest.NewRequest(fiber.MethodGet, path, nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			env := decodeEnvelope(t, resp)
			assert.False(t, env.Success)
			assert.Equal(t, "Token required", env.Message)
		})
	}
}

func TestProtectedRoutesRejectBadToken(t *testing.T) {
	gw := newTestGateway()

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")

	resp, err := gw.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, "Invalid token", env.Message)
}

func TestMe(t *testing.T) {
	gw := newTestGateway()
	ts := newTestTokenService()

	token, err := ts.IssueAccessToken((&auth.Identity{
		UserID:   7,
		Email:    "courier@delivery.io",
		TenantID: "tenant-uuid",
		Role:     auth.RoleCourier,
	}).Claims())
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := gw.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	user := env.Data["user"].(map[string]any)
	assert.Equal(t, "courier@delivery.io", user["email"])
	assert.Equal(t, "courier", user["role"])

	// The envelope meta carries the authenticated tenant.
	require.NotNil(t, env.Meta)
	require.NotNil(t, env.Meta.TenantID)
	assert.Equal(t, "tenant-uuid", *env.Meta.TenantID)
}

func TestStatus(t *testing.T) {
	gw := newTestGateway()
	ts := newTestTokenService()

	token, err := ts.IssueAccessToken((&auth.Identity{
		UserID:   1,
		Email:    "admin@delivery.io",
		TenantID: "tenant-uuid",
		Role:     auth.RoleAdmin,
	}).Claims())
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/status", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := gw.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.Equal(t, true, env.Data["authenticated"])
	user := env.Data["user"].(map[string]any)
	assert.Equal(t, "admin@delivery.io", user["email"])
}

func TestRefreshFromCookie(t *testing.T) {
	gw := newTestGateway()
	ts := newTestTokenService()

	oldRefresh, err := ts.IssueRefreshToken((&auth.Identity{
		UserID:   1,
		Email:    "admin@delivery.io",
		TenantID: "tenant-uuid",
		Role:     auth.RoleAdmin,
	}).Claims())
	require.NoError(t, err)

	req := jsonRequest(fiber.MethodPost, "/refresh", `{}`)
	req.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookie, Value: oldRefresh})

	resp, err := gw.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	tokens := env.Data["tokens"].(map[string]any)

	newClaims, err := ts.VerifyAccessToken(tokens["accessToken"].(string))
	require.NoError(t, err)
	assert.Equal(t, "admin@delivery.io", newClaims.Email)
	assert.Equal(t, auth.RoleAdmin, newClaims.Role())

	// Rotated cookies ride on the reply.
	require.NotNil(t, cookieByName(resp.Cookies(), auth.AccessTokenCookie))
	require.NotNil(t, cookieByName(resp.Cookies(), auth.RefreshTokenCookie))

	// The old refresh token remains valid until its own expiry.
	_, err = ts.VerifyRefreshToken(oldRefresh)
	assert.NoError(t, err)
}

func TestRefreshFromBody(t *testing.T) {
	gw := newTestGateway()
	ts := newTestTokenService()

	refresh, err := ts.IssueRefreshToken((&auth.Identity{
		UserID:   1,
		Email:    "admin@delivery.io",
		TenantID: "tenant-uuid",
		Role:     auth.RoleAdmin,
	}).Claims())
	require.NoError(t, err)

	resp, err := gw.App().Test(jsonRequest(fiber.MethodPost, "/refresh",
		`{"refreshToken":"`+refresh+`"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRefreshMissingToken(t *testing.T) {
	gw := newTestGateway()

	resp, err := gw.App().Test(jsonRequest(fiber.MethodPost, "/refresh", `{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, "Refresh token is required", env.Message)
}

func TestRefreshInvalidTokenClearsCookies(t *testing.T) {
	gw := newTestGateway()

	req := jsonRequest(fiber.MethodPost, "/refresh", `{}`)
	req.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookie, Value: "tampered.token.value"})

	resp, err := gw.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.Equal(t, "Invalid refresh token", env.Message)

	for _, name := range []string{auth.AccessTokenCookie, auth.RefreshTokenCookie} {
		cookie := cookieByName(resp.Cookies(), name)
		require.NotNil(t, cookie, name)
		assert.Empty(t, cookie.Value)
		assert.True(t, cookie.Expires.Before(time.Now()))
	}
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	gw := newTestGateway()

	tests := []struct {
		name   string
		body   string
		cookie string
	}{
		{name: "no token at all", body: `{}`},
		{name: "garbage body token", body: `{"refreshToken":"garbage"}`},
		{name: "garbage cookie token", body: `{}`, cookie: "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(fiber.MethodPost, "/logout", tt.body)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookie, Value: tt.cookie})
			}

			resp, err := gw.App().Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, fiber.StatusOK, resp.StatusCode)

			env := decodeEnvelope(t, resp)
			assert.True(t, env.Success)
			assert.Equal(t, "Logout successful", env.Data["message"])

			for _, name := range []string{auth.AccessTokenCookie, auth.RefreshTokenCookie} {
				cookie := cookieByName(resp.Cookies(), name)
				require.NotNil(t, cookie, name)
				assert.Empty(t, cookie.Value)
			}
		})
	}
}
