package customer

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmcore/backend/internal/domain/shared/valueobject"
)

func validArgs() NewCustomerArgs {
	return NewCustomerArgs{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+44 20 7946 0958",
	}
}

func mustCredit(t *testing.T, amount float64) valueobject.Credit {
	t.Helper()
	c, err := valueobject.NewCredit(amount)
	require.NoError(t, err)
	return c
}

func TestNewCustomer(t *testing.T) {
	t.Run("creates customer with generated id", func(t *testing.T) {
		c, err := NewCustomer(validArgs())
		require.NoError(t, err)

		assert.Equal(t, uuid.Version(4), c.ID.Version())
		assert.Equal(t, "Ada Lovelace", c.FullName())
		assert.Equal(t, "ada@example.com", c.EmailAddress())
		assert.Equal(t, "+44 20 7946 0958", c.PhoneNumber())
		assert.Equal(t, 0.0, c.AvailableCredit())
		assert.Equal(t, 1, c.GetVersion())
	})

	t.Run("honors supplied id", func(t *testing.T) {
		id := uuid.New().String()
		args := validArgs()
		args.ID = id

		c, err := NewCustomer(args)
		require.NoError(t, err)
		assert.Equal(t, id, c.ID.String())
	})

	t.Run("rejects invalid supplied id", func(t *testing.T) {
		args := validArgs()
		args.ID = "not-a-uuid"

		_, err := NewCustomer(args)
		assert.ErrorIs(t, err, valueobject.ErrInvalidID)
	})

	t.Run("accepts initial credit", func(t *testing.T) {
		credit := 50.25
		args := validArgs()
		args.Credit = &credit

		c, err := NewCustomer(args)
		require.NoError(t, err)
		assert.Equal(t, 50.25, c.AvailableCredit())
	})

	t.Run("rejects non-finite credit", func(t *testing.T) {
		credit := math.NaN()
		args := validArgs()
		args.Credit = &credit

		_, err := NewCustomer(args)
		assert.ErrorIs(t, err, valueobject.ErrInvalidCredit)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		args := validArgs()
		args.Email = "not-an-email"

		_, err := NewCustomer(args)
		assert.ErrorIs(t, err, valueobject.ErrInvalidEmail)
	})

	t.Run("rejects invalid phone", func(t *testing.T) {
		args := validArgs()
		args.Phone = "abc"

		_, err := NewCustomer(args)
		assert.ErrorIs(t, err, valueobject.ErrInvalidPhone)
	})

	t.Run("phone is optional", func(t *testing.T) {
		args := validArgs()
		args.Phone = ""

		c, err := NewCustomer(args)
		require.NoError(t, err)
		assert.Empty(t, c.PhoneNumber())
	})

	t.Run("rejects empty names", func(t *testing.T) {
		args := validArgs()
		args.FirstName = ""
		_, err := NewCustomer(args)
		assert.Error(t, err)

		args = validArgs()
		args.LastName = ""
		_, err = NewCustomer(args)
		assert.Error(t, err)
	})

	t.Run("records exactly one created event", func(t *testing.T) {
		c, err := NewCustomer(validArgs())
		require.NoError(t, err)

		events := c.PullDomainEvents()
		require.Len(t, events, 1)

		created, ok := events[0].(*CustomerCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, c.ID, created.CustomerID)
		assert.Equal(t, "ada@example.com", created.Email)
		assert.Equal(t, AggregateTypeCustomer, created.AggregateType())
	})
}

func TestCustomer_PullDomainEvents(t *testing.T) {
	c, err := NewCustomer(validArgs())
	require.NoError(t, err)

	first := c.PullDomainEvents()
	assert.Len(t, first, 1)

	second := c.PullDomainEvents()
	assert.Empty(t, second, "events must be drained exactly once")
}

func TestReconstituteCustomer(t *testing.T) {
	t.Run("restores state without events", func(t *testing.T) {
		id := uuid.New()
		created := time.Now().Add(-time.Hour)

		c, err := ReconstituteCustomer(ReconstituteArgs{
			ID:          id,
			FirstName:   "Grace",
			LastName:    "Hopper",
			Email:       "grace@example.com",
			CreditCents: 3120,
			Version:     3,
			CreatedAt:   created,
			UpdatedAt:   created,
		})
		require.NoError(t, err)

		assert.Equal(t, id, c.ID)
		assert.Equal(t, 31.2, c.AvailableCredit())
		assert.Equal(t, 3, c.GetVersion())
		assert.Empty(t, c.PullDomainEvents())
	})
}

func TestCustomer_Update(t *testing.T) {
	c, err := NewCustomer(validArgs())
	require.NoError(t, err)
	c.PullDomainEvents()

	err = c.Update(UpdateArgs{
		FirstName: "Augusta",
		LastName:  "King",
		Email:     "augusta@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "Augusta King", c.FullName())
	assert.Equal(t, "augusta@example.com", c.EmailAddress())
	assert.Empty(t, c.PhoneNumber())
	assert.Equal(t, 2, c.GetVersion())

	events := c.PullDomainEvents()
	require.Len(t, events, 1)
	updated, ok := events[0].(*CustomerUpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, "augusta@example.com", updated.Email)
}

func TestCustomer_AddCredit(t *testing.T) {
	t.Run("sums at cent precision", func(t *testing.T) {
		credit := 10.5
		args := validArgs()
		args.Credit = &credit

		c, err := NewCustomer(args)
		require.NoError(t, err)
		c.PullDomainEvents()

		c.AddCredit(mustCredit(t, 20.7))
		assert.Equal(t, 31.2, c.AvailableCredit())
		assert.Equal(t, 2, c.GetVersion())
	})

	t.Run("event carries amount and new total", func(t *testing.T) {
		c, err := NewCustomer(validArgs())
		require.NoError(t, err)
		c.PullDomainEvents()

		c.AddCredit(mustCredit(t, 25))

		events := c.PullDomainEvents()
		require.Len(t, events, 1)
		added, ok := events[0].(*CreditAddedEvent)
		require.True(t, ok)
		assert.Equal(t, 25.0, added.Amount)
		assert.Equal(t, 25.0, added.NewTotalCredit)
	})

	t.Run("successive additions order by new total", func(t *testing.T) {
		c, err := NewCustomer(validArgs())
		require.NoError(t, err)
		c.PullDomainEvents()

		c.AddCredit(mustCredit(t, 10))
		c.AddCredit(mustCredit(t, 5))

		events := c.PullDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, 10.0, events[0].(*CreditAddedEvent).NewTotalCredit)
		assert.Equal(t, 15.0, events[1].(*CreditAddedEvent).NewTotalCredit)
	})

	t.Run("allows negative amounts", func(t *testing.T) {
		credit := 20.0
		args := validArgs()
		args.Credit = &credit

		c, err := NewCustomer(args)
		require.NoError(t, err)

		c.AddCredit(mustCredit(t, -5))
		assert.Equal(t, 15.0, c.AvailableCredit())
		assert.NoError(t, c.ValidateCredit())
	})
}

func TestCustomer_ValidateCredit(t *testing.T) {
	c, err := NewCustomer(validArgs())
	require.NoError(t, err)

	c.AddCredit(mustCredit(t, -1))
	assert.ErrorIs(t, c.ValidateCredit(), ErrCreditNonPositive)
}

func TestCustomer_MarkDeleted(t *testing.T) {
	c, err := NewCustomer(validArgs())
	require.NoError(t, err)
	c.PullDomainEvents()

	c.MarkDeleted()

	events := c.PullDomainEvents()
	require.Len(t, events, 1)
	deleted, ok := events[0].(*CustomerDeletedEvent)
	require.True(t, ok)
	assert.Equal(t, c.ID, deleted.CustomerID)
}

func TestCustomer_HasCredit(t *testing.T) {
	c, err := NewCustomer(validArgs())
	require.NoError(t, err)

	// zero balance still counts as having credit
	assert.True(t, c.HasCredit())

	c.AddCredit(mustCredit(t, -1))
	assert.False(t, c.HasCredit())
}
