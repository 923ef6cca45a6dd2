package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/creditcore/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func disabledTracerProvider(t *testing.T, ratio float64) *telemetry.TracerProvider {
	t.Helper()

	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     ratio,
		ServiceName:       "credit-service",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return tp
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp := disabledTracerProvider(t, 1.0)

	assert.False(t, tp.IsEnabled())

	// A no-op tracer still hands out usable spans.
	_, span := tp.Tracer("customer.service").Start(context.Background(), "CreateCustomer")
	span.End()

	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewTracerProvider_SamplingRatios(t *testing.T) {
	// Each ratio picks a different sampler; construction must succeed
	// for all of them.
	for _, ratio := range []float64{0.0, 0.5, 1.0} {
		tp := disabledTracerProvider(t, ratio)
		assert.NoError(t, tp.Shutdown(context.Background()))
	}
}

func TestTracerProvider_ShutdownWithCancelledContext(t *testing.T) {
	tp := disabledTracerProvider(t, 1.0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProvider_Enabled(t *testing.T) {
	// Needs a reachable OTLP collector, so only runs outside -short.
	if testing.Short() {
		t.Skip("requires an OTLP collector")
	}

	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "credit-service",
		Insecure:          true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.True(t, tp.IsEnabled())

	_, span := tp.Tracer("credit.test").Start(context.Background(), "VerifySalary")
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, tp.Shutdown(ctx))
}
