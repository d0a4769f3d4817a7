package customer

import (
	"context"

	"github.com/google/uuid"

	"github.com/crmcore/backend/internal/domain/customer"
	"github.com/crmcore/backend/internal/domain/shared"
)

// CustomerService handles customer use cases
type CustomerService struct {
	customerRepo customer.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo customer.CustomerRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
	}
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customerRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
	}

	c, err := customer.NewCustomer(customer.NewCustomerArgs{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Credit:    req.Credit,
	})
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(c)
	return &response, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(c)
	return &response, nil
}

// ListCustomers retrieves customers matching the filter
func (s *CustomerService) ListCustomers(ctx context.Context, filter CustomerListFilter) (*shared.Paginated[CustomerResponse], error) {
	domainFilter := filter.toDomainFilter()

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToCustomerResponses(customers), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// UpdateCustomer replaces a customer's details
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != c.EmailAddress() {
		exists, err := s.customerRepo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
		}
	}

	if err := c.Update(customer.UpdateArgs{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Credit:    req.Credit,
	}); err != nil {
		return nil, err
	}

	if err := s.customerRepo.SaveWithLock(ctx, c); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(c)
	return &response, nil
}

// DeleteCustomer removes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	c.MarkDeleted()

	return s.customerRepo.Delete(ctx, c)
}
