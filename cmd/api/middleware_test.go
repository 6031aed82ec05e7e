package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Olatundeadedeji/streamcati/internal/auth"
	"github.com/Olatundeadedeji/streamcati/internal/config"
	"github.com/Olatundeadedeji/streamcati/internal/handler"
	"github.com/Olatundeadedeji/streamcati/internal/metrics"
	"github.com/Olatundeadedeji/streamcati/pkg"
	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *application {
	t.Helper()
	gin.SetMode(gin.TestMode)
	crypto, err := pkg.NewCrypto("abcdef0123456789")
	require.NoError(t, err)

	tokens := auth.NewMaker("0123456789abcdef0123456789abcdef", time.Hour, crypto)
	reg := prometheus.NewRegistry()
	metrics.NewInterviewMetrics(reg).ObserveTransition("question")

	return &application{
		Logger: zap.NewNop(),
		Config: &config.Config{
			Env:     "test",
			Limiter: config.RateLimiterConfig{RPS: 1, Burst: 2, Enabled: true},
			CORS:    config.CORSConfig{TrustedOrigins: []string{"http://localhost:5173"}},
		},
		Tokens:   tokens,
		Registry: reg,
		Handler:  &handler.Handler{Logger: zap.NewNop(), Tokens: tokens},
		ready:    func(context.Context) error { return nil },
	}
}

func protectedRouter(app *application, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append([]gin.HandlerFunc{app.AuthMiddleware()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		claims := app.Handler.GetClaimsFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user": claims.Username, "bt": c.GetString(handler.BackendTokenKey)})
	})
	r.GET("/p", chain...)
	return r
}

func get(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	app := newTestApp(t)
	r := protectedRouter(app)

	token, _, err := app.Tokens.Issue(&model.User{ID: 3, Username: "ada", Role: model.UserRoleInterviewer}, "backend-xyz")
	require.NoError(t, err)

	w := get(r, "/p", map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"ada","bt":"backend-xyz"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(r, "/p", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/p", map[string]string{"Authorization": "Token " + token}).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/p", map[string]string{"Authorization": "Bearer nope"}).Code)
}

func TestRequireRole(t *testing.T) {
	app := newTestApp(t)
	r := protectedRouter(app, app.RequireRole(model.UserRoleAdmin))

	interviewer, _, err := app.Tokens.Issue(&model.User{ID: 3, Role: model.UserRoleInterviewer}, "")
	require.NoError(t, err)
	admin, _, err := app.Tokens.Issue(&model.User{ID: 1, Role: model.UserRoleAdmin}, "")
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, "/p", map[string]string{"Authorization": "Bearer " + interviewer}).Code)
	assert.Equal(t, http.StatusOK, get(r, "/p", map[string]string{"Authorization": "Bearer " + admin}).Code)
}

func TestIPLimiter(t *testing.T) {
	l := newIPLimiter(1, 2)
	now := time.Now()

	assert.True(t, l.allow("10.0.0.1", now))
	assert.True(t, l.allow("10.0.0.1", now))
	assert.False(t, l.allow("10.0.0.1", now), "burst exhausted")
	assert.True(t, l.allow("10.0.0.2", now), "other clients unaffected")
	assert.True(t, l.allow("10.0.0.1", now.Add(time.Second)), "refilled")

	l.sweep(now.Add(time.Minute))
	assert.Empty(t, l.clients)
}

func TestRateLimitMiddleware(t *testing.T) {
	app := newTestApp(t)
	r := gin.New()
	r.Use(app.RateLimit())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := []int{}
	for i := 0; i < 3; i++ {
		codes = append(codes, get(r, "/x", nil).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestCORS(t *testing.T) {
	app := newTestApp(t)
	r := gin.New()
	r.Use(app.CORS())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := get(r, "/x", map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = get(r, "/x", map[string]string{"Origin": "http://evil.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHealthzAndMetrics(t *testing.T) {
	app := newTestApp(t)
	r := app.routes()

	w := get(r, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(r, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "streamcati_interview_transitions_total")

	app.ready = func(context.Context) error { return errors.New("db down") }
	assert.Equal(t, http.StatusServiceUnavailable, get(r, "/healthz", nil).Code)
}
