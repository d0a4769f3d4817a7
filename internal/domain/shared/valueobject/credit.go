package valueobject

import (
	"database/sql/driver"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/crmcore/backend/internal/domain/shared"
)

// ErrInvalidCredit is returned when a credit amount is not a finite number
var ErrInvalidCredit = shared.NewDomainError("INVALID_CREDIT", "Credit amount must be a finite number")

var centsPerUnit = decimal.NewFromInt(100)

// Credit is a value object representing a customer credit balance in
// whole currency units. Arithmetic is carried out at cent precision so
// that float inputs like 10.5 and 20.7 sum to exactly 31.2.
// It is immutable - all operations return new Credit instances.
type Credit struct {
	amount decimal.Decimal
}

// NewCredit creates a Credit from a float64 unit amount.
// NaN and infinities are rejected with INVALID_CREDIT.
func NewCredit(amount float64) (Credit, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Credit{}, ErrInvalidCredit
	}
	return Credit{amount: decimal.NewFromFloat(amount)}, nil
}

// NewCreditFromDecimal creates a Credit from a decimal unit amount
func NewCreditFromDecimal(amount decimal.Decimal) Credit {
	return Credit{amount: amount}
}

// NewCreditFromCents creates a Credit from a minor-unit (cent) amount
func NewCreditFromCents(cents int64) Credit {
	return Credit{amount: decimal.NewFromInt(cents).Div(centsPerUnit)}
}

// ZeroCredit returns a zero-value Credit
func ZeroCredit() Credit {
	return Credit{amount: decimal.Zero}
}

// toCents converts the unit amount to whole cents, rounding half up
func (c Credit) toCents() decimal.Decimal {
	return c.amount.Mul(centsPerUnit).Round(0)
}

// Add returns a new Credit holding the sum of both balances.
// The operands are summed at cent scale and the sum rounded to whole
// cents once, so sub-cent amounts round on the total rather than per
// operand and repeated additions never accumulate binary floating
// point error.
func (c Credit) Add(other Credit) Credit {
	cents := c.amount.Mul(centsPerUnit).
		Add(other.amount.Mul(centsPerUnit)).
		Round(0)
	return Credit{amount: cents.Div(centsPerUnit)}
}

// Cents returns the balance in minor units, rounded half up
func (c Credit) Cents() int64 {
	return c.toCents().IntPart()
}

// Amount returns the decimal unit amount
func (c Credit) Amount() decimal.Decimal {
	return c.amount
}

// Float64 returns the unit amount as a float64 (may lose precision)
func (c Credit) Float64() float64 {
	f, _ := c.amount.Float64()
	return f
}

// IsZero returns true if the balance is zero
func (c Credit) IsZero() bool {
	return c.amount.IsZero()
}

// IsPositive returns true if the balance is zero or above.
// A customer with a zero balance still counts as having credit.
func (c Credit) IsPositive() bool {
	return !c.amount.IsNegative()
}

// IsNegative returns true if the balance is below zero
func (c Credit) IsNegative() bool {
	return c.amount.IsNegative()
}

// Equals returns true if both balances are numerically equal
func (c Credit) Equals(other Credit) bool {
	return c.amount.Equal(other.amount)
}

// String returns the balance with two decimal places
func (c Credit) String() string {
	return c.amount.StringFixed(2)
}

// MarshalJSON implements json.Marshaler, emitting the unit amount as a number
func (c Credit) MarshalJSON() ([]byte, error) {
	return []byte(c.amount.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Credit) UnmarshalJSON(data []byte) error {
	amount, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid credit amount: %w", err)
	}
	c.amount = amount
	return nil
}

// Value implements driver.Valuer for database storage
func (c Credit) Value() (driver.Value, error) {
	return c.amount.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (c *Credit) Scan(value any) error {
	if value == nil {
		c.amount = decimal.Zero
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Credit", value)
	}

	amount, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	c.amount = amount
	return nil
}
