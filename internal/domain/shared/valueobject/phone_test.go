package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhone(t *testing.T) {
	t.Run("accepts valid numbers", func(t *testing.T) {
		valid := []string{
			"1234567",
			"+34 600 123 456",
			"(555) 123-4567",
			"+1-202-555-0143",
		}
		for _, number := range valid {
			p, err := NewPhone(number)
			require.NoError(t, err, number)
			assert.Equal(t, number, p.Number())
		}
	})

	t.Run("rejects malformed numbers", func(t *testing.T) {
		invalid := []string{
			"",
			"123456",                // below minimum length
			"123456789012345678901", // above maximum length
			"555-ABCD",
			"phone",
		}
		for _, number := range invalid {
			_, err := NewPhone(number)
			assert.ErrorIs(t, err, ErrInvalidPhone, number)
		}
	})
}

func TestPhone_IsZero(t *testing.T) {
	var p Phone
	assert.True(t, p.IsZero())

	p, _ = NewPhone("1234567")
	assert.False(t, p.IsZero())
}
