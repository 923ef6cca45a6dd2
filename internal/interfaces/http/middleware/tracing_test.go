package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

// newTracedRouter installs a recording tracer provider and returns a
// router carrying the tracing middleware plus the span recorder.
func newTracedRouter(t *testing.T, extra ...gin.HandlerFunc) (*gin.Engine, *tracetest.SpanRecorder) {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "credit-service"}))
	router.Use(extra...)
	return router, sr
}

// endedSpan returns the recorded server span for the given route pattern.
func endedSpan(t *testing.T, sr *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	t.Helper()

	for _, span := range sr.Ended() {
		if span.Name() == name {
			return span
		}
	}
	t.Fatalf("span %q not recorded", name)
	return nil
}

func TestTracingWithConfig(t *testing.T) {
	t.Run("disabled is a pass-through", func(t *testing.T) {
		router := gin.New()
		router.Use(TracingWithConfig(TracingConfig{Enabled: false}))
		router.GET("/customers", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"total": 0})
		})

		w := doRequest(router, "GET", "/customers", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("records a server span named after the route", func(t *testing.T) {
		router, sr := newTracedRouter(t)
		router.GET("/api/v1/customers/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"credit_score": 720})
		})

		w := doRequest(router, "GET", "/api/v1/customers/42", "")
		assert.Equal(t, http.StatusOK, w.Code)

		endedSpan(t, sr, "GET /api/v1/customers/:id")
	})

	t.Run("tags the span with the request ID", func(t *testing.T) {
		sr := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
		otel.SetTracerProvider(tp)
		t.Cleanup(func() {
			_ = tp.Shutdown(t.Context())
		})

		router := gin.New()
		router.Use(RequestID())
		router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "credit-service"}))
		router.GET("/api/v1/customers", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"customers": []string{}})
		})

		req := httptest.NewRequest("GET", "/api/v1/customers", nil)
		req.Header.Set("X-Request-ID", "req-lookup-7")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		span := endedSpan(t, sr, "GET /api/v1/customers")
		found := false
		for _, attr := range span.Attributes() {
			if attr.Key == "request_id" {
				assert.Equal(t, "req-lookup-7", attr.Value.AsString())
				found = true
			}
		}
		assert.True(t, found, "request_id attribute not set on span")
	})
}

func TestTracing_DefaultConfig(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})

	router := gin.New()
	router.Use(Tracing())
	router.GET("/customers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"total": 0})
	})

	w := doRequest(router, "GET", "/customers", "")
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, sr.Ended())
}

func TestSpanRequestID(t *testing.T) {
	newTestContext := func(headerID string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/customers", nil)
		if headerID != "" {
			c.Request.Header.Set("X-Request-ID", headerID)
		}
		return c
	}

	t.Run("prefers the middleware-set ID", func(t *testing.T) {
		c := newTestContext("header-id")
		c.Set("request_id", "middleware-id")

		assert.Equal(t, "middleware-id", spanRequestID(c))
	})

	t.Run("falls back to the header", func(t *testing.T) {
		c := newTestContext("header-id")

		assert.Equal(t, "header-id", spanRequestID(c))
	})

	t.Run("truncates an oversized header", func(t *testing.T) {
		c := newTestContext(strings.Repeat("x", 300))

		assert.Len(t, spanRequestID(c), MaxRequestIDLength)
	})
}

func TestSpanErrorMarker(t *testing.T) {
	serve := func(t *testing.T, status int) sdktrace.ReadOnlySpan {
		router, sr := newTracedRouter(t, SpanErrorMarker())
		router.GET("/api/v1/customers/:id", func(c *gin.Context) {
			c.JSON(status, gin.H{"status": status})
		})

		w := doRequest(router, "GET", "/api/v1/customers/1", "")
		assert.Equal(t, status, w.Code)
		return endedSpan(t, sr, "GET /api/v1/customers/:id")
	}

	t.Run("leaves 2xx spans alone", func(t *testing.T) {
		span := serve(t, http.StatusOK)
		assert.NotEqual(t, codes.Error, span.Status().Code)
	})

	t.Run("marks 400 as a client error", func(t *testing.T) {
		span := serve(t, http.StatusBadRequest)
		assert.Equal(t, codes.Error, span.Status().Code)
		assert.Equal(t, "Client Error", span.Status().Description)
	})

	t.Run("marks 404 as not found", func(t *testing.T) {
		span := serve(t, http.StatusNotFound)
		assert.Equal(t, codes.Error, span.Status().Code)
		assert.Equal(t, "Not Found", span.Status().Description)
	})

	t.Run("marks 500 as errored", func(t *testing.T) {
		// otelgin may set the status first, so only the code is asserted.
		span := serve(t, http.StatusInternalServerError)
		assert.Equal(t, codes.Error, span.Status().Code)
	})

	t.Run("tolerates a non-recording span", func(t *testing.T) {
		otel.SetTracerProvider(noop.NewTracerProvider())

		router := gin.New()
		router.Use(SpanErrorMarker())
		router.GET("/customers", func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
		})

		w := doRequest(router, "GET", "/customers", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()

	assert.Equal(t, "credit-service", cfg.ServiceName)
	assert.True(t, cfg.Enabled)
}
