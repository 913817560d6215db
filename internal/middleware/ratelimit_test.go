package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(nil, limit))
	r.POST("/api/ai/generate", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/leaderboard", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func do(r *gin.Engine, method, path, ip string) int {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit_BlocksAfterBudget(t *testing.T) {
	r := newLimitedRouter(3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/ai/generate", "10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/api/ai/generate", "10.0.0.1"))
}

func TestRateLimit_IgnoresReads(t *testing.T) {
	r := newLimitedRouter(1)

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/ai/generate", "10.0.0.2"))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/leaderboard", "10.0.0.2"))
	}
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/api/ai/generate", "10.0.0.2"))
}

func TestRateLimit_PerIP(t *testing.T) {
	r := newLimitedRouter(1)

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/ai/generate", "10.0.0.3"))
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/api/ai/generate", "10.0.0.3"))
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/ai/generate", "10.0.0.4"))
}

func TestRateLimit_EvictsIdleClients(t *testing.T) {
	l := newLocalLimiter(5)
	t0 := time.Now()

	assert.True(t, l.allow("10.0.0.1", t0))
	assert.True(t, l.allow("10.0.0.2", t0.Add(rateLimitWindow+2*time.Second)))

	l.mu.Lock()
	_, stale := l.history["10.0.0.1"]
	_, fresh := l.history["10.0.0.2"]
	l.mu.Unlock()
	assert.False(t, stale, "idle client entries must be swept")
	assert.True(t, fresh)
}

func TestRateLimit_WindowSlides(t *testing.T) {
	l := newLocalLimiter(2)
	t0 := time.Now()

	assert.True(t, l.allow("10.0.0.9", t0))
	assert.True(t, l.allow("10.0.0.9", t0.Add(time.Second)))
	assert.False(t, l.allow("10.0.0.9", t0.Add(2*time.Second)))
	assert.True(t, l.allow("10.0.0.9", t0.Add(rateLimitWindow+3*time.Second)), "old stamps expire out of the window")
}

func TestRateLimit_Disabled(t *testing.T) {
	r := newLimitedRouter(0)

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/ai/generate", "10.0.0.5"))
	}
}
