package customer

import (
	"context"

	"github.com/google/uuid"

	"github.com/crmcore/backend/internal/domain/customer"
	"github.com/crmcore/backend/internal/domain/shared"
	"github.com/crmcore/backend/internal/domain/shared/valueobject"
)

// AddCreditResult holds the outcome of a credit change
type AddCreditResult struct {
	Customer    CustomerResponse          `json:"customer"`
	Transaction CreditTransactionResponse `json:"transaction"`
}

// CreditSummaryResponse holds the aggregate credit movement for a customer
type CreditSummaryResponse struct {
	CustomerID uuid.UUID `json:"customer_id"`
	NetChange  float64   `json:"net_change"`
	Balance    float64   `json:"balance"`
}

// CreditTransactionService handles credit balance changes and their history
type CreditTransactionService struct {
	customerRepo customer.CustomerRepository
	creditTxRepo customer.CreditTransactionRepository
	transactor   shared.Transactor
}

// NewCreditTransactionService creates a new credit transaction service
func NewCreditTransactionService(
	customerRepo customer.CustomerRepository,
	creditTxRepo customer.CreditTransactionRepository,
	transactor shared.Transactor,
) *CreditTransactionService {
	return &CreditTransactionService{
		customerRepo: customerRepo,
		creditTxRepo: creditTxRepo,
		transactor:   transactor,
	}
}

// AddCredit adds to (or, with a negative amount, deducts from) a customer's
// credit balance and records a transaction for the change. The balance is
// never allowed to fall below zero.
//
// The balance update and the transaction record commit or roll back
// together. The recorded amount is the cent-rounded delta that was
// actually applied, so a sub-cent request amount still yields a
// consistent before + amount = after row.
func (s *CreditTransactionService) AddCredit(ctx context.Context, customerID uuid.UUID, req AddCreditRequest) (*AddCreditResult, error) {
	if req.Amount == 0 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be zero")
	}

	c, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	amount, err := valueobject.NewCredit(req.Amount)
	if err != nil {
		return nil, err
	}

	balanceBefore := c.Credit.Amount()

	c.AddCredit(amount)
	if err := c.ValidateCredit(); err != nil {
		return nil, err
	}

	balanceAfter := c.Credit.Amount()
	applied := balanceAfter.Sub(balanceBefore)

	transaction, err := customer.NewCreditTransaction(c.ID, applied, balanceBefore, balanceAfter)
	if err != nil {
		return nil, err
	}
	transaction.WithReference(req.Reference).WithRemark(req.Remark)

	err = s.transactor.InTransaction(ctx, func(txProvider interface{}) error {
		if err := s.customerRepo.SaveWithLockInTx(ctx, txProvider, c); err != nil {
			return err
		}
		return s.creditTxRepo.CreateInTx(ctx, txProvider, transaction)
	})
	if err != nil {
		return nil, err
	}

	return &AddCreditResult{
		Customer:    ToCustomerResponse(c),
		Transaction: ToCreditTransactionResponse(transaction),
	}, nil
}

// ListByCustomer retrieves a customer's credit transaction history, newest first
func (s *CreditTransactionService) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter CreditTransactionListFilter) (*shared.Paginated[CreditTransactionResponse], error) {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, err
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	transactions, total, err := s.creditTxRepo.FindByCustomer(ctx, customerID, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToCreditTransactionResponses(transactions), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// GetCreditSummary returns the net credit movement and current balance
func (s *CreditTransactionService) GetCreditSummary(ctx context.Context, customerID uuid.UUID) (*CreditSummaryResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	netChange, err := s.creditTxRepo.SumByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &CreditSummaryResponse{
		CustomerID: customerID,
		NetChange:  netChange.InexactFloat64(),
		Balance:    c.AvailableCredit(),
	}, nil
}
