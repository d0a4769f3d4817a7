package valueobject

import (
	"regexp"
	"strings"

	"github.com/crmcore/backend/internal/domain/shared"
)

// ErrInvalidEmail is returned when an email address fails validation
var ErrInvalidEmail = shared.NewDomainError("INVALID_EMAIL", "Invalid email address")

var emailPattern = regexp.MustCompile(`^[\w\-.]+@([\w\-]+\.)+[\w\-]{2,4}$`)

// Email is a validated email address value object
type Email struct {
	value string
}

// NewEmail creates an Email, rejecting malformed addresses with
// INVALID_EMAIL. The address must match exactly as given; surrounding
// whitespace is the caller's problem, not silently stripped.
func NewEmail(value string) (Email, error) {
	if !emailPattern.MatchString(value) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: value}, nil
}

// Address returns the email address string
func (e Email) Address() string {
	return e.value
}

// IsZero returns true when no address is set
func (e Email) IsZero() bool {
	return e.value == ""
}

// Equals compares two email addresses case-insensitively
func (e Email) Equals(other Email) bool {
	return strings.EqualFold(e.value, other.value)
}

// String returns the email address string
func (e Email) String() string {
	return e.value
}
