package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(limiter gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(limiter)
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func hit(r *gin.Engine, remoteAddr string) int {
	req, _ := http.NewRequest("GET", "/ping", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	r := newLimitedRouter(rl.RateLimit())

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:5000"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1:5000"))
}

func TestRateLimitTracksClientIPsSeparately(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	r := newLimitedRouter(rl.RateLimit())

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:5000"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1:5001"))

	// IP lain punya bucket sendiri
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2:5000"))
}

func TestStrictRateLimiterBlocksSixthAttempt(t *testing.T) {
	r := newLimitedRouter(NewStrictRateLimiter())

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "10.0.0.9:5000"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.9:5000"))
}
