package valueobject

import (
	"regexp"
	"strings"

	"github.com/crmcore/backend/internal/domain/shared"
)

// ErrInvalidPhone is returned when a phone number fails validation
var ErrInvalidPhone = shared.NewDomainError("INVALID_PHONE", "Invalid phone number")

// Digits, spaces, hyphens, parentheses and a leading plus; 7 to 20 characters.
var phonePattern = regexp.MustCompile(`^[+0-9\s\-()]{7,20}$`)

// Phone is a validated phone number value object.
// The zero value means "no phone number".
type Phone struct {
	value string
}

// NewPhone creates a Phone, rejecting malformed numbers with INVALID_PHONE
func NewPhone(value string) (Phone, error) {
	value = strings.TrimSpace(value)
	if !phonePattern.MatchString(value) {
		return Phone{}, ErrInvalidPhone
	}
	return Phone{value: value}, nil
}

// Number returns the phone number string, empty when unset
func (p Phone) Number() string {
	return p.value
}

// IsZero returns true when no number is set
func (p Phone) IsZero() bool {
	return p.value == ""
}

// Equals compares two phone numbers
func (p Phone) Equals(other Phone) bool {
	return p.value == other.value
}

// String returns the phone number string
func (p Phone) String() string {
	return p.value
}
