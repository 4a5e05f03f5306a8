package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vunguyen00/Netflix/pkg/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func whoAmI(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"customer": CustomerID(c), "admin": IsAdmin(c)})
}

func newAuthRouter(cfg *config.AuthConfig) *gin.Engine {
	r := gin.New()
	r.Use(Authenticate(cfg))
	r.GET("/me", whoAmI)
	r.GET("/admin", RequireAdmin(), whoAmI)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestParseToken(t *testing.T) {
	cfg := &config.AuthConfig{JWTSecret: "secret", Issuer: "netflix"}

	tok, err := IssueToken(cfg, "c1", RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(cfg, tok)
	require.NoError(t, err)
	assert.Equal(t, "c1", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)

	t.Run("expired", func(t *testing.T) {
		old, err := IssueToken(cfg, "c1", RoleCustomer, -time.Minute)
		require.NoError(t, err)
		_, err = ParseToken(cfg, old)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := IssueToken(&config.AuthConfig{JWTSecret: "secret", Issuer: "elsewhere"}, "c1", RoleCustomer, time.Hour)
		require.NoError(t, err)
		_, err = ParseToken(cfg, other)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no subject", func(t *testing.T) {
		anon, err := IssueToken(cfg, "", RoleCustomer, time.Hour)
		require.NoError(t, err)
		_, err = ParseToken(cfg, anon)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuthenticate(t *testing.T) {
	cfg := &config.AuthConfig{JWTSecret: "secret"}
	r := newAuthRouter(cfg)

	customer, err := IssueToken(cfg, "c1", "", time.Hour)
	require.NoError(t, err)
	admin, err := IssueToken(cfg, "ops", RoleAdmin, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{"missing", "/me", "", http.StatusUnauthorized, `"message":"Missing token"`},
		{"not bearer", "/me", "Basic abc", http.StatusUnauthorized, `"message":"Missing token"`},
		{"invalid", "/me", "Bearer nope", http.StatusUnauthorized, `"message":"Invalid token"`},
		{"customer", "/me", "Bearer " + customer, http.StatusOK, `"customer":"c1"`},
		{"lowercase scheme", "/me", "bearer " + customer, http.StatusOK, `"admin":false`},
		{"query token", "/me?token=" + customer, "", http.StatusOK, `"customer":"c1"`},
		{"customer on admin route", "/admin", "Bearer " + customer, http.StatusForbidden, `"code":403`},
		{"admin", "/admin", "Bearer " + admin, http.StatusOK, `"admin":true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestAuthenticateDevBypass(t *testing.T) {
	r := newAuthRouter(&config.AuthConfig{DevBypass: true})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Customer-ID", "c9")
	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"customer":"c9","admin":true}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"customer":"dev"`)
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 2})

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "clients are limited independently")
}

func TestRateLimiterForgetsIdleClients(t *testing.T) {
	rl := NewRateLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1})
	require.True(t, rl.Allow("idle"))

	rl.mu.Lock()
	rl.visitors["idle"].lastSeen = time.Now().Add(-2 * limiterIdle)
	rl.mu.Unlock()

	require.True(t, rl.Allow("fresh"))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "idle")
	assert.Contains(t, rl.visitors, "fresh")
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(CustomerIDKey, c.GetHeader("X-Test-Customer"))
		c.Next()
	})
	r.Use(RateLimit(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(customer string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Test-Customer", customer)
		return serve(r, req)
	}

	assert.Equal(t, http.StatusOK, get("c1").Code)

	w := get("c1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, get("c2").Code)
}

func TestRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(&config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1, Burst: 1}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get("X-Request-ID")
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w = serve(r, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-42", w.Body.String())
}

func TestRecoveryReturnsInternalError(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}
