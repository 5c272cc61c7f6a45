package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"contact-sms-relay/pkg/apperror"
	"contact-sms-relay/pkg/metrics"
	"contact-sms-relay/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLimiter struct {
	decision ratelimit.Decision
	err      error
	keys     []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (ratelimit.Decision, error) {
	s.keys = append(s.keys, key)
	return s.decision, s.err
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRateLimitMiddlewareDenied(t *testing.T) {
	limiter := &stubLimiter{decision: ratelimit.Decision{
		Allowed: false,
		Limit:   6,
		ResetAt: time.Now().Add(30 * time.Second),
	}}
	r := gin.New()
	r.Use(ErrorHandler(), RateLimitMiddleware(limiter, RateLimitOptions{Metrics: metrics.New(prometheus.NewRegistry())}))
	handlerCalled := false
	r.POST("/send-sms", func(c *gin.Context) { handlerCalled = true })

	w := serve(r, http.MethodPost, "/send-sms")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, handlerCalled)
	assert.Contains(t, []string{"29", "30"}, w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"success":false,"message":"Too many requests, please try again later."}`, w.Body.String())
	assert.Equal(t, []string{"192.0.2.1"}, limiter.keys)
}

func TestRateLimitMiddlewareFailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("redis down")}
	r := gin.New()
	r.Use(RateLimitMiddleware(limiter, RateLimitOptions{}))
	r.POST("/send-sms", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodPost, "/send-sms")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddlewareCustomKey(t *testing.T) {
	limiter := &stubLimiter{decision: ratelimit.Decision{Allowed: true, Limit: 6, Remaining: 5, ResetAt: time.Now()}}
	r := gin.New()
	r.Use(RateLimitMiddleware(limiter, RateLimitOptions{
		KeyFunc: func(c *gin.Context) string { return "fixed" },
	}))
	r.POST("/send-sms", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodPost, "/send-sms")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, []string{"fixed"}, limiter.keys)
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		c.Error(apperror.New(http.StatusBadRequest, "Name and phone are required.", nil))
	})
	r.GET("/detail", func(c *gin.Context) {
		c.Error(apperror.WithDetail(http.StatusInternalServerError, "Invalid phone number", nil))
	})
	r.GET("/unknown", func(c *gin.Context) {
		c.Error(errors.New("secret internals"))
	})

	w := serve(r, http.MethodGet, "/app")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Name and phone are required."}`, w.Body.String())

	w = serve(r, http.MethodGet, "/detail")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid phone number"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/unknown")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret internals")
}

func TestRequestIDRejectsOversizedHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("a", 200))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/")

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
