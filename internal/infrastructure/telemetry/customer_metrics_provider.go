// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormCustomerMetricsProvider implements CustomerMetricsProvider using GORM.
// It queries the customers table directly for aggregated metrics.
type GormCustomerMetricsProvider struct {
	db *gorm.DB
}

// NewGormCustomerMetricsProvider creates a new GormCustomerMetricsProvider.
func NewGormCustomerMetricsProvider(db *gorm.DB) *GormCustomerMetricsProvider {
	return &GormCustomerMetricsProvider{db: db}
}

// CountCustomers returns the total number of customers on file.
func (p *GormCustomerMetricsProvider) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("customers").
		Count(&count).Error

	return count, err
}

// TotalOutstandingCredit returns the sum of all customer credit balances in cents.
func (p *GormCustomerMetricsProvider) TotalOutstandingCredit(ctx context.Context) (int64, error) {
	var total int64
	err := p.db.WithContext(ctx).
		Table("customers").
		Select("COALESCE(SUM(credit_cents), 0)").
		Scan(&total).Error

	return total, err
}
