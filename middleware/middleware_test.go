package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"story-cms/helper"
	"story-cms/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAuth struct {
	sessions map[string]*models.Session
}

func (s stubAuth) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	return nil, models.NewUnauthorizedError("Invalid email or password")
}

func (s stubAuth) Logout(ctx context.Context, session *models.Session) error { return nil }

func (s stubAuth) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	if session, ok := s.sessions[token]; ok {
		return session, nil
	}
	return nil, models.NewUnauthorizedError("Invalid or expired token")
}

func (s stubAuth) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return nil, models.NewNotFoundError("User", id)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) (*gin.Engine, *helper.HTTPHelper) {
	t.Helper()
	h := helper.NewHTTPHelper(zap.NewNop())
	auth := stubAuth{sessions: map[string]*models.Session{
		"writer-token": {UserID: "w1", Role: models.RoleWriter},
		"admin-token":  {UserID: "a1", Role: models.RoleAdmin},
	}}

	r := gin.New()
	protected := r.Group("/", AuthMiddleware(auth, h))
	protected.GET("/me", func(c *gin.Context) {
		fromGin := SessionFromContext(c)
		fromCtx := models.SessionFromContext(c.Request.Context())
		require.NotNil(t, fromGin)
		require.NotNil(t, fromCtx)
		c.String(http.StatusOK, fromCtx.UserID)
	})
	protected.GET("/admin", RequireRole(h, models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, h
}

func doRequest(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r, _ := newRouter(t)

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Basic abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/me", "nope")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid or expired token")
	})

	t.Run("valid token", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/me", "writer-token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "w1", w.Body.String())
	})
}

func TestRequireRole(t *testing.T) {
	r, _ := newRouter(t)

	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodGet, "/admin", "writer-token").Code)
	assert.Equal(t, http.StatusNoContent, doRequest(r, http.MethodGet, "/admin", "admin-token").Code)
}

func TestRequireRoleWithoutSession(t *testing.T) {
	h := helper.NewHTTPHelper(zap.NewNop())
	r := gin.New()
	r.GET("/admin", RequireRole(h, models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/admin", "").Code)
}

func TestRateLimit(t *testing.T) {
	h := helper.NewHTTPHelper(zap.NewNop())
	r := gin.New()
	r.POST("/submit", RateLimit(NewIPRateLimiter(2), h), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	assert.Equal(t, http.StatusCreated, doRequest(r, http.MethodPost, "/submit", "").Code)
	assert.Equal(t, http.StatusCreated, doRequest(r, http.MethodPost, "/submit", "").Code)

	w := doRequest(r, http.MethodPost, "/submit", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	h := helper.NewHTTPHelper(zap.NewNop())
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(nil))
	limiter := NewIPRateLimiter(5)
	r.POST("/submit", RateLimit(limiter, h), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	codes := make([]int, 0, 6)
	for i := 1; i <= 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.RemoteAddr = "203.0.113.7:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("1.1.1.%d", i))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{201, 201, 201, 201, 201, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 1, limiter.Len())
}

func TestIPRateLimiterEvictsIdleClients(t *testing.T) {
	l := NewIPRateLimiter(1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
	assert.Equal(t, 2, l.Len())

	now = now.Add(l.idleTTL + time.Second)
	assert.True(t, l.Allow("10.0.0.3"))
	assert.Equal(t, 1, l.Len())
}

func TestIPRateLimiterDisabled(t *testing.T) {
	l := NewIPRateLimiter(0)
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow("10.0.0.1"))
	}
}

func TestIPRateLimiterPerClient(t *testing.T) {
	l := NewIPRateLimiter(1)
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://blog.example.com"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://blog.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://blog.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doRequest(r, http.MethodGet, "/ping", "")
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}
