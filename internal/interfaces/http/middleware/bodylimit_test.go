package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	newLimitedBodyRouter := func(maxBytes int64) *gin.Engine {
		router := gin.New()
		router.Use(BodyLimit(maxBytes))
		router.POST("/customers", func(c *gin.Context) {
			buf := make([]byte, 4096)
			if _, err := c.Request.Body.Read(buf); err != nil && err.Error() == "http: request body too large" {
				c.String(http.StatusRequestEntityTooLarge, "too large")
				return
			}
			c.String(http.StatusOK, "ok")
		})
		return router
	}

	t.Run("passes a small payload", func(t *testing.T) {
		router := newLimitedBodyRouter(1024)

		req := httptest.NewRequest("POST", "/customers", strings.NewReader(`{"email":"a@b.c"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects an oversized declared Content-Length", func(t *testing.T) {
		router := newLimitedBodyRouter(100)

		req := httptest.NewRequest("POST", "/customers", strings.NewReader(strings.Repeat("x", 200)))
		req.ContentLength = 200
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
	})

	t.Run("caps a streaming body without Content-Length", func(t *testing.T) {
		router := newLimitedBodyRouter(50)

		req := httptest.NewRequest("POST", "/customers", strings.NewReader(strings.Repeat("x", 200)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("leaves bodyless requests alone", func(t *testing.T) {
		router := gin.New()
		router.Use(BodyLimit(10))
		router.GET("/customers", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		w := doRequest(router, "GET", "/customers", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
