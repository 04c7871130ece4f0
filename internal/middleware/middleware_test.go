package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/config"
	"github.com/GoPolymarket/yieldgate/internal/model"
	"github.com/GoPolymarket/yieldgate/internal/pkg/apperrors"
	"github.com/GoPolymarket/yieldgate/internal/pkg/metrics"
	"github.com/GoPolymarket/yieldgate/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandlerRendersAppError(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(apperrors.NewInvalidRequest("invalid request body"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "INVALID_REQUEST", body["code"])
	assert.Equal(t, "invalid request body", body["error"])
}

func TestErrorHandlerWrapsUnknownErrors(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, w)["code"])
}

func TestRecoveryUsesRouteMessage(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(map[string]string{"/boom": "Failed to generate AI recommendations"}))
	r.GET("/boom", func(c *gin.Context) { panic("nil pointer") })
	r.GET("/other", func(c *gin.Context) { panic("nil pointer") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "Failed to generate AI recommendations", body["error"])
	assert.Equal(t, "nil pointer", body["details"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/other", nil))
	assert.Equal(t, defaultFailureMessage, decodeError(t, w)["error"])
}

func TestRateLimitPerIP(t *testing.T) {
	limiter := NewIPRateLimiter(config.RateLimitConfig{QPS: 1, Burst: 2})
	fixed := time.Now()
	limiter.now = func() time.Time { return fixed }

	r := gin.New()
	r.Use(ErrorHandler())
	r.POST("/gen", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/gen", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)
	limited := send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "RATE_LIMITED", decodeError(t, limited)["code"])
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code, "other clients keep their own budget")
}

func TestRateLimitDisabled(t *testing.T) {
	limiter := NewIPRateLimiter(config.RateLimitConfig{QPS: 0})
	r := gin.New()
	r.GET("/x", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestRateLimiterSweepsIdleClients(t *testing.T) {
	limiter := NewIPRateLimiter(config.RateLimitConfig{QPS: 1, Burst: 1})
	now := time.Now()
	limiter.now = func() time.Time { return now }

	limiter.get("a")
	now = now.Add(2 * limiterIdleTTL)
	limiter.get("b")

	assert.Len(t, limiter.limiters, 1)
	assert.Contains(t, limiter.limiters, "b")
}

type captureRepo struct {
	entries chan *model.AuditLog
}

func (r *captureRepo) Insert(_ context.Context, e *model.AuditLog) error {
	r.entries <- e
	return nil
}

func TestAuditMiddlewareRecordsRequest(t *testing.T) {
	repo := &captureRepo{entries: make(chan *model.AuditLog, 1)}
	auditSvc := service.NewAuditService(repo)

	r := gin.New()
	r.Use(AuditMiddleware(auditSvc))
	r.POST("/api/ai/generate-recommendations", func(c *gin.Context) {
		AddAuditContext(c, "wallet", "0xabc")
		AddAuditContext(c, "ai_source", "OpenAI GPT-3.5")
		AddAuditContext(c, "ignored", "x")
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/ai/generate-recommendations", nil))
	auditSvc.Close()

	require.Len(t, repo.entries, 1)
	entry := <-repo.entries
	assert.Equal(t, w.Header().Get("X-Request-ID"), entry.ID)
	assert.Equal(t, http.MethodPost, entry.Method)
	assert.Equal(t, http.StatusCreated, entry.StatusCode)
	assert.Equal(t, "0xabc", entry.Wallet)
	assert.Equal(t, "OpenAI GPT-3.5", entry.AISource)
}

func TestAuditMiddlewareKeepsValidRequestID(t *testing.T) {
	auditSvc := service.NewAuditService(nil)
	defer auditSvc.Close()

	r := gin.New()
	r.Use(AuditMiddleware(auditSvc))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	const id = "3f0e2a1c-7d4b-4b8e-9a55-0c1d2e3f4a5b"
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get("X-Request-ID"))
}

func TestMetricsMiddlewareLabelsByRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	ok := metrics.HTTPRequests.WithLabelValues("/items/:id", "2xx")
	missing := metrics.HTTPRequests.WithLabelValues("unmatched", "4xx")
	beforeOK, beforeMissing := testutil.ToFloat64(ok), testutil.ToFloat64(missing)

	for _, path := range []string{"/items/1", "/items/2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, beforeOK+2, testutil.ToFloat64(ok))
	assert.Equal(t, beforeMissing+1, testutil.ToFloat64(missing))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "1xx", statusClass(http.StatusSwitchingProtocols))
	assert.Equal(t, "4xx", statusClass(http.StatusTooManyRequests))
	assert.Equal(t, "5xx", statusClass(http.StatusBadGateway))
	assert.Equal(t, "other", statusClass(0))
}
