package valueobject

import (
	"github.com/google/uuid"

	"github.com/crmcore/backend/internal/domain/shared"
)

// ErrInvalidID is returned when an identifier is not a valid v4 UUID
var ErrInvalidID = shared.NewDomainError("INVALID_INPUT", "Identifier must be a valid v4 UUID")

// NewID generates a new random v4 UUID
func NewID() uuid.UUID {
	return uuid.New()
}

// ParseID parses an identifier string, accepting only v4 UUIDs
func ParseID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil || id.Version() != 4 {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

// IsValidID reports whether the string is a valid v4 UUID
func IsValidID(value string) bool {
	_, err := ParseID(value)
	return err == nil
}
