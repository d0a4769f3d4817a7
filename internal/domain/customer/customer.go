package customer

import (
	"time"

	"github.com/google/uuid"

	"github.com/crmcore/backend/internal/domain/shared"
	"github.com/crmcore/backend/internal/domain/shared/valueobject"
)

// Customer represents a customer with a prepaid credit balance.
// It is the aggregate root for all customer operations.
type Customer struct {
	shared.BaseAggregateRoot
	FirstName string `gorm:"type:varchar(100);not null"`
	LastName  string `gorm:"type:varchar(100);not null"`
	Email     valueobject.Email
	Phone     valueobject.Phone
	Credit    valueobject.Credit
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomerArgs holds the input for creating a customer
type NewCustomerArgs struct {
	ID        string // optional, must be a valid v4 UUID when supplied
	FirstName string
	LastName  string
	Email     string
	Phone     string   // optional
	Credit    *float64 // optional, defaults to zero
}

// NewCustomer creates a new customer and records a CustomerCreated event
func NewCustomer(args NewCustomerArgs) (*Customer, error) {
	if err := validateName(args.FirstName, "First name"); err != nil {
		return nil, err
	}
	if err := validateName(args.LastName, "Last name"); err != nil {
		return nil, err
	}

	email, err := valueobject.NewEmail(args.Email)
	if err != nil {
		return nil, err
	}

	var phone valueobject.Phone
	if args.Phone != "" {
		phone, err = valueobject.NewPhone(args.Phone)
		if err != nil {
			return nil, err
		}
	}

	credit := valueobject.ZeroCredit()
	if args.Credit != nil {
		credit, err = valueobject.NewCredit(*args.Credit)
		if err != nil {
			return nil, err
		}
	}

	root := shared.NewBaseAggregateRoot()
	if args.ID != "" {
		id, err := valueobject.ParseID(args.ID)
		if err != nil {
			return nil, err
		}
		root.ID = id
	}

	customer := &Customer{
		BaseAggregateRoot: root,
		FirstName:         args.FirstName,
		LastName:          args.LastName,
		Email:             email,
		Phone:             phone,
		Credit:            credit,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// ReconstituteArgs holds persisted customer state.
// Credit is supplied in minor units (cents) as stored.
type ReconstituteArgs struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	CreditCents int64
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReconstituteCustomer rebuilds a customer from persistence.
// No domain event is recorded.
func ReconstituteCustomer(args ReconstituteArgs) (*Customer, error) {
	email, err := valueobject.NewEmail(args.Email)
	if err != nil {
		return nil, err
	}

	var phone valueobject.Phone
	if args.Phone != "" {
		phone, err = valueobject.NewPhone(args.Phone)
		if err != nil {
			return nil, err
		}
	}

	return &Customer{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        args.ID,
				CreatedAt: args.CreatedAt,
				UpdatedAt: args.UpdatedAt,
			},
			Version: args.Version,
		},
		FirstName: args.FirstName,
		LastName:  args.LastName,
		Email:     email,
		Phone:     phone,
		Credit:    valueobject.NewCreditFromCents(args.CreditCents),
	}, nil
}

// UpdateArgs holds the input for updating a customer
type UpdateArgs struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string   // empty clears the phone number
	Credit    *float64 // optional, replaces the balance when set
}

// Update replaces the customer's details and records a CustomerUpdated event
func (c *Customer) Update(args UpdateArgs) error {
	if err := validateName(args.FirstName, "First name"); err != nil {
		return err
	}
	if err := validateName(args.LastName, "Last name"); err != nil {
		return err
	}

	email, err := valueobject.NewEmail(args.Email)
	if err != nil {
		return err
	}

	var phone valueobject.Phone
	if args.Phone != "" {
		phone, err = valueobject.NewPhone(args.Phone)
		if err != nil {
			return err
		}
	}

	if args.Credit != nil {
		credit, err := valueobject.NewCredit(*args.Credit)
		if err != nil {
			return err
		}
		c.Credit = credit
	}

	c.FirstName = args.FirstName
	c.LastName = args.LastName
	c.Email = email
	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// AddCredit adds the amount to the balance and records a CreditAdded event.
// Negative amounts are allowed; ValidateCredit guards the resulting balance.
func (c *Customer) AddCredit(amount valueobject.Credit) {
	c.Credit = c.Credit.Add(amount)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCreditAddedEvent(c, amount))
}

// ValidateCredit returns CREDIT_NON_POSITIVE when the balance is below zero
func (c *Customer) ValidateCredit() error {
	if c.Credit.IsNegative() {
		return ErrCreditNonPositive
	}
	return nil
}

// MarkDeleted records a CustomerDeleted event.
// Removing the row is the repository's responsibility.
func (c *Customer) MarkDeleted() {
	c.AddDomainEvent(NewCustomerDeletedEvent(c))
}

// FullName returns the customer's display name
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// EmailAddress returns the customer's email address string
func (c *Customer) EmailAddress() string {
	return c.Email.Address()
}

// PhoneNumber returns the phone number string, empty when unset
func (c *Customer) PhoneNumber() string {
	return c.Phone.Number()
}

// AvailableCredit returns the balance in currency units
func (c *Customer) AvailableCredit() float64 {
	return c.Credit.Float64()
}

// HasCredit returns true when the balance is zero or above
func (c *Customer) HasCredit() bool {
	return c.Credit.IsPositive()
}

// ErrCreditNonPositive is returned when an operation would leave the balance negative
var ErrCreditNonPositive = shared.NewDomainError("CREDIT_NON_POSITIVE", "Customer credit cannot fall below zero")

func validateName(name, field string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", field+" cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", field+" cannot exceed 100 characters")
	}
	return nil
}
