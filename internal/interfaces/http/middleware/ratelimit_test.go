package middleware

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	t.Run("allows up to the limit then blocks", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("10.0.0.1"), "request %d should pass", i+1)
		}
		assert.False(t, limiter.Allow("10.0.0.1"))
	})

	t.Run("tracks each client separately", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))

		assert.True(t, limiter.Allow("10.0.0.2"))
	})

	t.Run("window expiry refills the budget", func(t *testing.T) {
		limiter := NewRateLimiter(1, 50*time.Millisecond)

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))

		time.Sleep(60 * time.Millisecond)

		assert.True(t, limiter.Allow("10.0.0.1"))
	})

	t.Run("remaining reflects consumed budget", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		assert.Equal(t, 5, limiter.Remaining("10.0.0.1"))
		limiter.Allow("10.0.0.1")
		limiter.Allow("10.0.0.1")
		assert.Equal(t, 3, limiter.Remaining("10.0.0.1"))
	})

	t.Run("enforces the limit under concurrency", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)

		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0
		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("10.0.0.1") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	newLimitedRouter := func(limit int) *gin.Engine {
		router := gin.New()
		router.Use(RateLimit(NewRateLimiter(limit, time.Minute)))
		router.GET("/customers", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		return router
	}

	t.Run("passes requests within the limit and sets headers", func(t *testing.T) {
		router := newLimitedRouter(3)

		w := doRequest(router, "GET", "/customers", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("answers 429 once the limit is spent", func(t *testing.T) {
		router := newLimitedRouter(2)

		for i := 0; i < 2; i++ {
			assert.Equal(t, http.StatusOK, doRequest(router, "GET", "/customers", "").Code)
		}

		w := doRequest(router, "GET", "/customers", "")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	})
}
