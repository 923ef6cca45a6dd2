// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormOutboxMetricsProvider implements OutboxMetricsProvider using GORM.
// It queries the outbox_events table directly for aggregated counts.
type GormOutboxMetricsProvider struct {
	db *gorm.DB
}

// NewGormOutboxMetricsProvider creates a new GormOutboxMetricsProvider.
func NewGormOutboxMetricsProvider(db *gorm.DB) *GormOutboxMetricsProvider {
	return &GormOutboxMetricsProvider{db: db}
}

// GetBacklogByStatus returns the number of outbox entries per status.
func (p *GormOutboxMetricsProvider) GetBacklogByStatus(ctx context.Context) (map[string]int64, error) {
	type result struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("outbox_events").
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(results))
	for _, r := range results {
		m[r.Status] = r.Count
	}

	return m, nil
}

// GormCustomerMetricsProvider implements CustomerMetricsProvider using GORM.
type GormCustomerMetricsProvider struct {
	db *gorm.DB
}

// NewGormCustomerMetricsProvider creates a new GormCustomerMetricsProvider.
func NewGormCustomerMetricsProvider(db *gorm.DB) *GormCustomerMetricsProvider {
	return &GormCustomerMetricsProvider{db: db}
}

// GetCustomerCount returns the total number of customer profiles.
func (p *GormCustomerMetricsProvider) GetCustomerCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("customers").
		Count(&count).Error

	return count, err
}
