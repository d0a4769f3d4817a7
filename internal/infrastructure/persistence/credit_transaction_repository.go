package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crmcore/backend/internal/domain/customer"
	"github.com/crmcore/backend/internal/domain/shared"
	"github.com/crmcore/backend/internal/infrastructure/persistence/models"
)

// GormCreditTransactionRepository implements CreditTransactionRepository using GORM
type GormCreditTransactionRepository struct {
	db *gorm.DB
}

// NewGormCreditTransactionRepository creates a new GormCreditTransactionRepository
func NewGormCreditTransactionRepository(db *gorm.DB) *GormCreditTransactionRepository {
	return &GormCreditTransactionRepository{db: db}
}

// Create inserts a new credit transaction
func (r *GormCreditTransactionRepository) Create(ctx context.Context, transaction *customer.CreditTransaction) error {
	model := models.CreditTransactionModelFromDomain(transaction)
	return r.db.WithContext(ctx).Create(model).Error
}

// CreateInTx inserts a transaction record inside an existing gorm transaction
func (r *GormCreditTransactionRepository) CreateInTx(ctx context.Context, txProvider interface{}, transaction *customer.CreditTransaction) error {
	tx, ok := txProvider.(*gorm.DB)
	if !ok {
		return fmt.Errorf("expected *gorm.DB transaction, got %T", txProvider)
	}
	model := models.CreditTransactionModelFromDomain(transaction)
	return tx.WithContext(ctx).Create(model).Error
}

// FindByCustomer finds transactions for a customer, newest first
func (r *GormCreditTransactionRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]*customer.CreditTransaction, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.CreditTransactionModel{}).
		Where("customer_id = ?", customerID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Model(&models.CreditTransactionModel{}).
		Where("customer_id = ?", customerID).
		Order("transaction_date DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var transactionModels []models.CreditTransactionModel
	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, 0, err
	}

	transactions := make([]*customer.CreditTransaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = transactionModels[i].ToDomain()
	}
	return transactions, total, nil
}

// SumByCustomer returns the net credit change for a customer
func (r *GormCreditTransactionRepository) SumByCustomer(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&models.CreditTransactionModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("customer_id = ?", customerID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Ensure GormCreditTransactionRepository implements CreditTransactionRepository
var _ customer.CreditTransactionRepository = (*GormCreditTransactionRepository)(nil)
