package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/crmcore/backend/internal/domain/customer"
)

// CustomerModel is the persistence model for the Customer aggregate.
// The credit balance is stored in minor units (cents) so no precision is
// lost on the way through the database.
type CustomerModel struct {
	AggregateModel
	FirstName   string `gorm:"type:varchar(100);not null"`
	LastName    string `gorm:"type:varchar(100);not null"`
	Email       string `gorm:"type:varchar(200);not null;uniqueIndex:idx_customers_email"`
	Phone       string `gorm:"type:varchar(50);index"`
	CreditCents int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer aggregate
func (m *CustomerModel) ToDomain() (*customer.Customer, error) {
	return customer.ReconstituteCustomer(customer.ReconstituteArgs{
		ID:          m.ID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Email:       m.Email,
		Phone:       m.Phone,
		CreditCents: m.CreditCents,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	})
}

// FromDomain populates the persistence model from a domain Customer aggregate
func (m *CustomerModel) FromDomain(c *customer.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Email = c.EmailAddress()
	m.Phone = c.PhoneNumber()
	m.CreditCents = c.Credit.Cents()
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer
func CustomerModelFromDomain(c *customer.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// CreditTransactionModel is the persistence model for credit transactions
type CreditTransactionModel struct {
	BaseModel
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_credit_tx_customer"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceBefore   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reference       string          `gorm:"type:varchar(100)"`
	Remark          string          `gorm:"type:text"`
	TransactionDate time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CreditTransactionModel) TableName() string {
	return "credit_transactions"
}

// ToDomain converts the persistence model to a domain CreditTransaction
func (m *CreditTransactionModel) ToDomain() *customer.CreditTransaction {
	return &customer.CreditTransaction{
		BaseEntity:      m.BaseModel.ToDomain(),
		CustomerID:      m.CustomerID,
		Amount:          m.Amount,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		Reference:       m.Reference,
		Remark:          m.Remark,
		TransactionDate: m.TransactionDate,
	}
}

// CreditTransactionModelFromDomain creates a persistence model from a domain transaction
func CreditTransactionModelFromDomain(tx *customer.CreditTransaction) *CreditTransactionModel {
	m := &CreditTransactionModel{}
	m.FromDomainBaseEntity(tx.BaseEntity)
	m.CustomerID = tx.CustomerID
	m.Amount = tx.Amount
	m.BalanceBefore = tx.BalanceBefore
	m.BalanceAfter = tx.BalanceAfter
	m.Reference = tx.Reference
	m.Remark = tx.Remark
	m.TransactionDate = tx.TransactionDate
	return m
}
