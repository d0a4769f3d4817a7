package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	t.Run("accepts valid addresses", func(t *testing.T) {
		valid := []string{
			"user@example.com",
			"first.last@example.co",
			"user-name@sub.example.org",
			"user_99@example.info",
		}
		for _, addr := range valid {
			e, err := NewEmail(addr)
			require.NoError(t, err, addr)
			assert.Equal(t, addr, e.Address())
		}
	})

	t.Run("rejects malformed addresses", func(t *testing.T) {
		invalid := []string{
			"",
			"plainaddress",
			"@example.com",
			"user@",
			"user@example",
			"user@example.toolong",
			"user name@example.com",
		}
		for _, addr := range invalid {
			_, err := NewEmail(addr)
			assert.ErrorIs(t, err, ErrInvalidEmail, addr)
		}
	})

	t.Run("rejects surrounding whitespace", func(t *testing.T) {
		padded := []string{
			" user@example.com",
			"user@example.com ",
			"  user@example.com  ",
			"\tuser@example.com\n",
		}
		for _, addr := range padded {
			_, err := NewEmail(addr)
			assert.ErrorIs(t, err, ErrInvalidEmail, "%q", addr)
		}
	})
}

func TestEmail_Equals(t *testing.T) {
	a, _ := NewEmail("User@Example.com")
	b, _ := NewEmail("user@example.com")
	assert.True(t, a.Equals(b))
}
