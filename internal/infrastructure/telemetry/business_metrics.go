// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the CRM system.
// It tracks customer lifecycle activity and credit movement.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	customerCreatedTotal   *Counter
	customerDeletedTotal   *Counter
	creditTransactionTotal *Counter
	creditAmountTotal      *Counter

	// Gauge metrics (point-in-time values)
	customerCount          *Gauge
	creditOutstandingCents *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	customerProvider CustomerMetricsProvider
}

// CustomerMetricsProvider provides customer data for periodic metrics
// collection. This interface allows the telemetry layer to query aggregate
// state without depending on the customer domain directly.
type CustomerMetricsProvider interface {
	// CountCustomers returns the total number of customers on file.
	CountCustomers(ctx context.Context) (int64, error)

	// TotalOutstandingCredit returns the sum of all customer credit balances in cents.
	TotalOutstandingCredit(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter            metric.Meter
	Logger           *zap.Logger
	CollectInterval  time.Duration // Default: 5 minutes
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
		customerProvider: cfg.CustomerProvider,
	}

	// Initialize counter metrics
	var err error

	// Customer lifecycle metrics
	bm.customerCreatedTotal, err = NewCounter(
		cfg.Meter,
		"crm_customer_created_total",
		"Total number of customers created",
		"{customers}",
	)
	if err != nil {
		return nil, err
	}

	bm.customerDeletedTotal, err = NewCounter(
		cfg.Meter,
		"crm_customer_deleted_total",
		"Total number of customers deleted",
		"{customers}",
	)
	if err != nil {
		return nil, err
	}

	// Credit movement metrics
	bm.creditTransactionTotal, err = NewCounter(
		cfg.Meter,
		"crm_credit_transaction_total",
		"Total number of credit transactions recorded",
		"{transactions}",
	)
	if err != nil {
		return nil, err
	}

	bm.creditAmountTotal, err = NewCounter(
		cfg.Meter,
		"crm_credit_amount_total",
		"Total absolute credit amount moved in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	// Gauge metrics
	bm.customerCount, err = NewGauge(
		cfg.Meter,
		"crm_customer_count",
		"Current number of customers on file",
		"{customers}",
	)
	if err != nil {
		return nil, err
	}

	bm.creditOutstandingCents, err = NewGauge(
		cfg.Meter,
		"crm_credit_outstanding_cents",
		"Sum of all customer credit balances in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Customer Metrics
// =============================================================================

// RecordCustomerCreated records a customer creation event.
// This should be called from the application layer when a customer is created.
func (bm *BusinessMetrics) RecordCustomerCreated(ctx context.Context) {
	bm.customerCreatedTotal.Inc(ctx)
}

// RecordCustomerDeleted records a customer deletion event.
func (bm *BusinessMetrics) RecordCustomerDeleted(ctx context.Context) {
	bm.customerDeletedTotal.Inc(ctx)
}

// =============================================================================
// Credit Metrics
// =============================================================================

// CreditDirection labels whether a credit transaction added or deducted funds.
type CreditDirection string

const (
	CreditDirectionAdd    CreditDirection = "add"
	CreditDirectionDeduct CreditDirection = "deduct"
)

// RecordCreditTransaction records a credit transaction and the absolute amount
// moved. The amount is converted to cents for the counter.
func (bm *BusinessMetrics) RecordCreditTransaction(ctx context.Context, amount decimal.Decimal) {
	direction := CreditDirectionAdd
	if amount.IsNegative() {
		direction = CreditDirectionDeduct
	}

	bm.creditTransactionTotal.Inc(ctx,
		AttrCreditDirection.String(string(direction)),
	)

	amountCents := amount.Abs().Mul(decimal.NewFromInt(100)).IntPart()
	bm.creditAmountTotal.Add(ctx, amountCents,
		AttrCreditDirection.String(string(direction)),
	)
}

// RecordCustomerCount records the current number of customers.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordCustomerCount(ctx context.Context, count int64) {
	bm.customerCount.Record(ctx, count)
}

// RecordOutstandingCredit records the current sum of all credit balances.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOutstandingCredit(ctx context.Context, cents int64) {
	bm.creditOutstandingCents.Record(ctx, cents)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects customer metrics every interval (default: 5 minutes).
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
	bm.collectCustomerMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectCustomerMetrics(ctx)
		}
	}
}

// collectCustomerMetrics collects customer gauge metrics.
func (bm *BusinessMetrics) collectCustomerMetrics(ctx context.Context) {
	if bm.customerProvider == nil {
		bm.logger.Debug("No customer provider configured, skipping customer metrics collection")
		return
	}

	count, err := bm.customerProvider.CountCustomers(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count customers for metrics collection", zap.Error(err))
	} else {
		bm.RecordCustomerCount(ctx, count)
	}

	outstanding, err := bm.customerProvider.TotalOutstandingCredit(ctx)
	if err != nil {
		bm.logger.Warn("Failed to sum outstanding credit for metrics collection", zap.Error(err))
	} else {
		bm.RecordOutstandingCredit(ctx, outstanding)
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
