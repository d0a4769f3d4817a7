package customer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/crmcore/backend/internal/domain/shared"
)

// CreditTransaction is an immutable record of a credit balance change.
// Corrections are made with new transactions, never by editing old ones.
type CreditTransaction struct {
	shared.BaseEntity
	CustomerID      uuid.UUID
	Amount          decimal.Decimal // signed: positive for additions, negative for deductions
	BalanceBefore   decimal.Decimal
	BalanceAfter    decimal.Decimal
	Reference       string
	Remark          string
	TransactionDate time.Time
}

// NewCreditTransaction creates a credit transaction from the balances
// around a credit change
func NewCreditTransaction(customerID uuid.UUID, amount, balanceBefore, balanceAfter decimal.Decimal) (*CreditTransaction, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be zero")
	}
	if !balanceBefore.Add(amount).Equal(balanceAfter) {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Balances do not match the amount")
	}

	return &CreditTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		CustomerID:      customerID,
		Amount:          amount,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		TransactionDate: time.Now(),
	}, nil
}

// WithReference sets the reference code for the transaction
func (t *CreditTransaction) WithReference(reference string) *CreditTransaction {
	t.Reference = reference
	return t
}

// WithRemark sets the remark for the transaction
func (t *CreditTransaction) WithRemark(remark string) *CreditTransaction {
	t.Remark = remark
	return t
}

// IsIncrease returns true if this transaction increased the balance
func (t *CreditTransaction) IsIncrease() bool {
	return t.Amount.IsPositive()
}

// CreditTransactionRepository defines the interface for transaction persistence
type CreditTransactionRepository interface {
	// Create inserts a new transaction record
	Create(ctx context.Context, tx *CreditTransaction) error

	// CreateInTx inserts a transaction record inside an existing
	// transaction handle (a *gorm.DB)
	CreateInTx(ctx context.Context, txProvider interface{}, tx *CreditTransaction) error

	// FindByCustomer finds transactions for a customer, newest first
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]*CreditTransaction, int64, error)

	// SumByCustomer returns the net credit change for a customer
	SumByCustomer(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
}
