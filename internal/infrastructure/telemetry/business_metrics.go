// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the credit service.
// It tracks customer lifecycle activity, verification calls, and outbox health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	customerCreatedTotal    *Counter
	customerUpdatedTotal    *Counter
	customerDeletedTotal    *Counter
	creditScoreUpdatedTotal *Counter
	verificationTotal       *Counter

	// Distribution metrics
	riskScoreHistogram *Histogram

	// Gauge metrics (point-in-time values)
	outboxBacklog      *Gauge
	customerCountGauge *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data providers for periodic collection
	outboxProvider   OutboxMetricsProvider
	customerProvider CustomerMetricsProvider
}

// OutboxMetricsProvider provides outbox backlog data for periodic metrics
// collection. This interface allows the telemetry layer to observe the
// outbox table without depending on the event infrastructure directly.
type OutboxMetricsProvider interface {
	// GetBacklogByStatus returns the number of outbox entries per status
	GetBacklogByStatus(ctx context.Context) (map[string]int64, error)
}

// CustomerMetricsProvider provides customer data for periodic metrics collection.
type CustomerMetricsProvider interface {
	// GetCustomerCount returns the total number of customer profiles
	GetCustomerCount(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter            metric.Meter
	Logger           *zap.Logger
	CollectInterval  time.Duration // Default: 5 minutes
	OutboxProvider   OutboxMetricsProvider
	CustomerProvider CustomerMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:            cfg.Meter,
		logger:           logger,
		stopChan:         make(chan struct{}),
		outboxProvider:   cfg.OutboxProvider,
		customerProvider: cfg.CustomerProvider,
	}

	// Initialize counter metrics
	var err error

	// Customer lifecycle metrics
	bm.customerCreatedTotal, err = NewCounter(
		cfg.Meter,
		"credit_customer_created_total",
		"Total number of customer profiles created",
		"{customers}",
	)
	if err != nil {
		return nil, err
	}

	bm.customerUpdatedTotal, err = NewCounter(
		cfg.Meter,
		"credit_customer_updated_total",
		"Total number of customer profile updates",
		"{customers}",
	)
	if err != nil {
		return nil, err
	}

	bm.customerDeletedTotal, err = NewCounter(
		cfg.Meter,
		"credit_customer_deleted_total",
		"Total number of customer profiles deleted",
		"{customers}",
	)
	if err != nil {
		return nil, err
	}

	bm.creditScoreUpdatedTotal, err = NewCounter(
		cfg.Meter,
		"credit_score_updated_total",
		"Total number of credit score recalculations",
		"{updates}",
	)
	if err != nil {
		return nil, err
	}

	// Verification metrics
	bm.verificationTotal, err = NewCounter(
		cfg.Meter,
		"credit_verification_total",
		"Total number of salary certificate verification calls",
		"{calls}",
	)
	if err != nil {
		return nil, err
	}

	bm.riskScoreHistogram, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "credit_risk_score",
		Description: "Distribution of derived credit risk scores",
		Unit:        "1",
		Boundaries:  RiskScoreBuckets,
	})
	if err != nil {
		return nil, err
	}

	// Gauge metrics
	bm.outboxBacklog, err = NewGauge(
		cfg.Meter,
		"credit_outbox_backlog",
		"Current number of outbox entries per status",
		"{entries}",
	)
	if err != nil {
		return nil, err
	}

	bm.customerCountGauge, err = NewGauge(
		cfg.Meter,
		"credit_customer_count",
		"Current number of customer profiles",
		"{customers}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Customer Lifecycle Metrics
// =============================================================================

// RecordCustomerCreated records a customer creation event.
// This should be called from the application layer when a profile is created.
func (bm *BusinessMetrics) RecordCustomerCreated(ctx context.Context, riskRating string) {
	bm.customerCreatedTotal.Inc(ctx,
		AttrRiskRating.String(riskRating),
	)
}

// RecordCustomerUpdated records a customer profile update.
func (bm *BusinessMetrics) RecordCustomerUpdated(ctx context.Context, riskRating string) {
	bm.customerUpdatedTotal.Inc(ctx,
		AttrRiskRating.String(riskRating),
	)
}

// RecordCustomerDeleted records a customer profile deletion.
func (bm *BusinessMetrics) RecordCustomerDeleted(ctx context.Context) {
	bm.customerDeletedTotal.Inc(ctx)
}

// RecordCreditScoreUpdated records a credit score recalculation along with
// the derived risk score distribution.
func (bm *BusinessMetrics) RecordCreditScoreUpdated(ctx context.Context, riskRating string, riskScore float64) {
	bm.creditScoreUpdatedTotal.Inc(ctx,
		AttrRiskRating.String(riskRating),
	)
	bm.riskScoreHistogram.Record(ctx, riskScore,
		AttrRiskRating.String(riskRating),
	)
}

// =============================================================================
// Verification Metrics
// =============================================================================

// VerificationResult represents the outcome of a verification call for metrics labeling.
type VerificationResult string

const (
	VerificationResultSuccess VerificationResult = "success"
	VerificationResultFailed  VerificationResult = "failed"
	VerificationResultError   VerificationResult = "error"
)

// RecordVerification records a salary certificate verification call.
// This should be called when a provider enquiry completes.
func (bm *BusinessMetrics) RecordVerification(ctx context.Context, result VerificationResult) {
	bm.verificationTotal.Inc(ctx,
		AttrVerificationResult.String(string(result)),
	)
}

// =============================================================================
// Outbox Metrics
// =============================================================================

// RecordOutboxBacklog records the current number of outbox entries for a status.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOutboxBacklog(ctx context.Context, status string, count int64) {
	bm.outboxBacklog.Record(ctx, count,
		AttrOutboxStatus.String(status),
	)
}

// RecordCustomerCount records the total number of customer profiles.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordCustomerCount(ctx context.Context, count int64) {
	bm.customerCountGauge.Record(ctx, count)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects outbox and customer metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectGaugeMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectGaugeMetrics(ctx)
		}
	}
}

// collectGaugeMetrics collects outbox and customer gauge metrics.
func (bm *BusinessMetrics) collectGaugeMetrics(ctx context.Context) {
	if bm.outboxProvider == nil && bm.customerProvider == nil {
		bm.logger.Debug("No metrics providers configured, skipping gauge collection")
		return
	}

	if bm.outboxProvider != nil {
		backlog, err := bm.outboxProvider.GetBacklogByStatus(ctx)
		if err != nil {
			bm.logger.Warn("Failed to get outbox backlog for metrics collection", zap.Error(err))
		} else {
			for status, count := range backlog {
				bm.RecordOutboxBacklog(ctx, status, count)
			}
		}
	}

	if bm.customerProvider != nil {
		count, err := bm.customerProvider.GetCustomerCount(ctx)
		if err != nil {
			bm.logger.Warn("Failed to get customer count for metrics collection", zap.Error(err))
		} else {
			bm.RecordCustomerCount(ctx, count)
		}
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// =============================================================================
// Histogram Buckets
// =============================================================================

// RiskScoreBuckets are bucket boundaries for the derived risk score, which
// always falls in [0, 1].
var RiskScoreBuckets = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}
