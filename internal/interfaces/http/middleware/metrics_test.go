package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newMeteredRouter wires the metrics middleware onto a fresh router with
// a manual reader so tests can collect exactly what one request emitted.
func newMeteredRouter(t *testing.T) (*gin.Engine, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
	})

	router := gin.New()
	router.Use(HTTPMetricsWithMeter(mp.Meter("http.server"), true))
	return router, reader
}

func collectMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) *metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestHTTPMetrics_PassThrough(t *testing.T) {
	t.Run("disabled config", func(t *testing.T) {
		router := gin.New()
		router.Use(HTTPMetrics(HTTPMetricsConfig{Enabled: false}))
		router.GET("/customers", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"total": 0})
		})

		w := doRequest(router, "GET", "/customers", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("nil meter provider", func(t *testing.T) {
		router := gin.New()
		router.Use(HTTPMetrics(HTTPMetricsConfig{Enabled: true, MeterProvider: nil}))
		router.GET("/customers", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"total": 0})
		})

		w := doRequest(router, "GET", "/customers", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHTTPMetricsWithMeter_CountsRequests(t *testing.T) {
	router, reader := newMeteredRouter(t)
	router.GET("/api/v1/customers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"customers": []string{}})
	})

	for i := 0; i < 3; i++ {
		w := doRequest(router, "GET", "/api/v1/customers", "")
		assert.Equal(t, http.StatusOK, w.Code)
	}

	m := collectMetric(t, reader, "http_server_request_total")
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)
}

func TestHTTPMetricsWithMeter_SplitsByStatusCode(t *testing.T) {
	router, reader := newMeteredRouter(t)
	router.GET("/api/v1/customers/:id", func(c *gin.Context) {
		if c.Param("id") == "missing" {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"credit_score": 720})
	})

	for _, path := range []string{"/api/v1/customers/1", "/api/v1/customers/2", "/api/v1/customers/missing"} {
		doRequest(router, "GET", path, "")
	}

	m := collectMetric(t, reader, "http_server_request_total")
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	// One series per status code, three requests total.
	require.Len(t, sum.DataPoints, 2)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(3), total)
}

func TestHTTPMetricsWithMeter_RoutePatternLabel(t *testing.T) {
	router, reader := newMeteredRouter(t)
	router.GET("/api/v1/customers/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})

	for _, id := range []string{"1", "2", "abc", "xyz"} {
		w := doRequest(router, "GET", "/api/v1/customers/"+id, "")
		assert.Equal(t, http.StatusOK, w.Code)
	}

	m := collectMetric(t, reader, "http_server_request_total")
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	// All four IDs collapse into the one route pattern series.
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(4), sum.DataPoints[0].Value)

	found := false
	for _, attr := range sum.DataPoints[0].Attributes.ToSlice() {
		if string(attr.Key) == "http.route" {
			assert.Equal(t, "/api/v1/customers/:id", attr.Value.AsString())
			found = true
		}
	}
	assert.True(t, found, "http.route attribute not found")
}

func TestHTTPMetricsWithMeter_UnmatchedRouteLabel(t *testing.T) {
	router, reader := newMeteredRouter(t)

	w := doRequest(router, "GET", "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	m := collectMetric(t, reader, "http_server_request_total")
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)

	found := false
	for _, attr := range sum.DataPoints[0].Attributes.ToSlice() {
		if string(attr.Key) == "http.route" {
			assert.Equal(t, "unknown", attr.Value.AsString())
			found = true
		}
	}
	assert.True(t, found, "http.route attribute not found")
}

func TestHTTPMetricsWithMeter_RecordsDuration(t *testing.T) {
	router, reader := newMeteredRouter(t)
	router.GET("/api/v1/customers/:id/risk", func(c *gin.Context) {
		time.Sleep(50 * time.Millisecond)
		c.JSON(http.StatusOK, gin.H{"risk_level": "LOW"})
	})

	w := doRequest(router, "GET", "/api/v1/customers/1/risk", "")
	assert.Equal(t, http.StatusOK, w.Code)

	m := collectMetric(t, reader, "http_server_request_duration_seconds")
	require.NotNil(t, m)
	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Greater(t, hist.DataPoints[0].Sum, 0.05)
}

func TestHTTPMetricsWithMeter_RecordsBodySizes(t *testing.T) {
	router, reader := newMeteredRouter(t)
	router.POST("/api/v1/customers", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"id": "c-1", "email": "jane.doe@example.com"})
	})

	body := strings.NewReader(`{"email":"jane.doe@example.com","credit_score":720}`)
	req := httptest.NewRequest("POST", "/api/v1/customers", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	for _, name := range []string{"http_server_request_size_bytes", "http_server_response_size_bytes"} {
		m := collectMetric(t, reader, name)
		require.NotNil(t, m, "%s not found", name)
		hist, ok := m.Data.(metricdata.Histogram[float64])
		require.True(t, ok)
		require.Len(t, hist.DataPoints, 1)
		assert.Greater(t, hist.DataPoints[0].Sum, float64(0))
	}
}

func TestHTTPMetricsWithMeter_ActiveRequestsDrainToZero(t *testing.T) {
	router, reader := newMeteredRouter(t)
	router.GET("/api/v1/customers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"customers": []string{}})
	})

	doRequest(router, "GET", "/api/v1/customers", "")

	m := collectMetric(t, reader, "http_server_active_requests")
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	if len(sum.DataPoints) > 0 {
		assert.Equal(t, int64(0), sum.DataPoints[0].Value)
	}
}

func TestDefaultHTTPMetricsConfig(t *testing.T) {
	cfg := DefaultHTTPMetricsConfig()

	assert.Equal(t, "credit-service", cfg.ServiceName)
	assert.True(t, cfg.Enabled)
	assert.Nil(t, cfg.MeterProvider)
}
