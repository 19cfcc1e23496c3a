package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"storefront/internal/config"
	"storefront/internal/middleware"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func callWithAuth(cfg *config.Config, authz string, inner echo.HandlerFunc) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := middleware.AuthJWT(cfg)(inner)
	_ = h(c)
	return rec
}

func TestAuthJWT_ValidToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	token := signToken(t, "secret", jwt.MapClaims{
		"sub":  int64(5),
		"role": "USER",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	var gotUserID int64
	var gotRole string
	rec := callWithAuth(cfg, "Bearer "+token, func(c echo.Context) error {
		gotUserID, _ = c.Get(middleware.CtxUserIDKey).(int64)
		gotRole, _ = c.Get(middleware.CtxUserRoleKey).(string)
		return c.NoContent(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), gotUserID)
	assert.Equal(t, "USER", gotRole)
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	rec := callWithAuth(cfg, "", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub":  int64(5),
		"role": "USER",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	rec := callWithAuth(cfg, "Bearer "+token, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	token := signToken(t, "secret", jwt.MapClaims{
		"sub":  int64(5),
		"role": "USER",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})
	rec := callWithAuth(cfg, "Bearer "+token, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_NotBearer(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	rec := callWithAuth(cfg, "Basic abc", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoleGuard(t *testing.T) {
	e := echo.New()

	run := func(role interface{}) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set(middleware.CtxUserRoleKey, role)
		}
		h := middleware.AdminRoleGuard()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		_ = h(c)
		return rec
	}

	assert.Equal(t, http.StatusOK, run("ADMIN").Code)
	assert.Equal(t, http.StatusForbidden, run("USER").Code)
	assert.Equal(t, http.StatusUnauthorized, run(nil).Code)
}
