package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/codes", rl.Limit(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func doRequest(router *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodPost, "/codes", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	router := newLimitedRouter(NewRateLimiter(rate.Every(time.Minute), 3))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "10.0.0.1"))
}

func TestRateLimiterIsPerIP(t *testing.T) {
	router := newLimitedRouter(NewRateLimiter(rate.Every(time.Minute), 1))

	assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "10.0.0.1"))

	// A different client gets its own bucket.
	assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.2"))
}
