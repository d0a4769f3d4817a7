package customer

import (
	"time"

	"github.com/google/uuid"

	"github.com/crmcore/backend/internal/domain/customer"
	"github.com/crmcore/backend/internal/domain/shared"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	ID        string   `json:"id" binding:"omitempty,uuid4"`
	FirstName string   `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string   `json:"last_name" binding:"required,min=1,max=100"`
	Email     string   `json:"email" binding:"required,max=200"`
	Phone     string   `json:"phone" binding:"omitempty,max=20"`
	Credit    *float64 `json:"credit"`
}

// UpdateCustomerRequest represents a request to update a customer.
// The update replaces the customer's details wholesale; an empty phone
// clears the stored number.
type UpdateCustomerRequest struct {
	FirstName string   `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string   `json:"last_name" binding:"required,min=1,max=100"`
	Email     string   `json:"email" binding:"required,max=200"`
	Phone     string   `json:"phone" binding:"omitempty,max=20"`
	Credit    *float64 `json:"credit"`
}

// AddCreditRequest represents a request to add credit to a customer
type AddCreditRequest struct {
	Amount    float64 `json:"amount" binding:"required"`
	Reference string  `json:"reference" binding:"omitempty,max=100"`
	Remark    string  `json:"remark" binding:"omitempty,max=500"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Credit    float64   `json:"credit"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search    string `form:"search"`
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Email     string `form:"email"`
	Phone     string `form:"phone"`
	HasCredit *bool  `form:"has_credit"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by" binding:"omitempty,oneof=credit created_at updated_at first_name last_name email"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// toDomainFilter converts the list filter to a domain filter
func (f CustomerListFilter) toDomainFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	filter.Search = f.Search

	if f.FirstName != "" {
		filter.Filters["first_name"] = f.FirstName
	}
	if f.LastName != "" {
		filter.Filters["last_name"] = f.LastName
	}
	if f.Email != "" {
		filter.Filters["email"] = f.Email
	}
	if f.Phone != "" {
		filter.Filters["phone"] = f.Phone
	}
	if f.HasCredit != nil {
		filter.Filters["has_credit"] = *f.HasCredit
	}

	return filter
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
		Email:     c.EmailAddress(),
		Phone:     c.PhoneNumber(),
		Credit:    c.AvailableCredit(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}

// ToCustomerResponses converts a slice of domain Customers
func ToCustomerResponses(customers []*customer.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		responses[i] = ToCustomerResponse(c)
	}
	return responses
}

// =============================================================================
// Credit transaction DTOs
// =============================================================================

// CreditTransactionResponse represents a credit transaction in API responses
type CreditTransactionResponse struct {
	ID              uuid.UUID `json:"id"`
	CustomerID      uuid.UUID `json:"customer_id"`
	Amount          float64   `json:"amount"`
	BalanceBefore   float64   `json:"balance_before"`
	BalanceAfter    float64   `json:"balance_after"`
	Reference       string    `json:"reference,omitempty"`
	Remark          string    `json:"remark,omitempty"`
	TransactionDate time.Time `json:"transaction_date"`
}

// CreditTransactionListFilter represents filter options for transaction history
type CreditTransactionListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToCreditTransactionResponse converts a domain CreditTransaction
func ToCreditTransactionResponse(t *customer.CreditTransaction) CreditTransactionResponse {
	return CreditTransactionResponse{
		ID:              t.ID,
		CustomerID:      t.CustomerID,
		Amount:          t.Amount.InexactFloat64(),
		BalanceBefore:   t.BalanceBefore.InexactFloat64(),
		BalanceAfter:    t.BalanceAfter.InexactFloat64(),
		Reference:       t.Reference,
		Remark:          t.Remark,
		TransactionDate: t.TransactionDate,
	}
}

// ToCreditTransactionResponses converts a slice of domain CreditTransactions
func ToCreditTransactionResponses(transactions []*customer.CreditTransaction) []CreditTransactionResponse {
	responses := make([]CreditTransactionResponse, len(transactions))
	for i, t := range transactions {
		responses[i] = ToCreditTransactionResponse(t)
	}
	return responses
}
