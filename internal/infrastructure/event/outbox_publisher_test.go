package event

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crmcore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// publisherFixture wires an OutboxPublisher against a sqlmock-backed gorm
// connection so insert SQL can be asserted without a live database.
func publisherFixture(t *testing.T) (*OutboxPublisher, *gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       conn,
		DriverName: "postgres",
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	serializer := NewEventSerializer()
	serializer.Register("customer.created", &testEvent{})
	return NewOutboxPublisher(serializer), db, mock
}

func expectOutboxInsert(mock sqlmock.Sqlmock, events ...shared.DomainEvent) {
	rows := sqlmock.NewRows([]string{"created_at", "updated_at"})
	for _, ev := range events {
		rows.AddRow(ev.OccurredAt(), ev.OccurredAt())
	}
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "outbox_events"`)).WillReturnRows(rows)
}

func TestOutboxPublisher_PublishWithTx(t *testing.T) {
	publisher, db, mock := publisherFixture(t)

	t.Run("single event", func(t *testing.T) {
		event := newTestEvent("customer.created")

		mock.ExpectBegin()
		expectOutboxInsert(mock, event)
		mock.ExpectCommit()

		err := db.Transaction(func(tx *gorm.DB) error {
			return publisher.PublishWithTx(context.Background(), tx, event)
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("batch inserts all entries in one statement", func(t *testing.T) {
		events := []shared.DomainEvent{
			newTestEvent("customer.created"),
			newTestEvent("customer.created"),
			newTestEvent("customer.created"),
		}

		mock.ExpectBegin()
		expectOutboxInsert(mock, events...)
		mock.ExpectCommit()

		err := db.Transaction(func(tx *gorm.DB) error {
			return publisher.PublishWithTx(context.Background(), tx, events...)
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no events touches nothing", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := db.Transaction(func(tx *gorm.DB) error {
			return publisher.PublishWithTx(context.Background(), tx)
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// A failing transaction must roll the outbox rows back with everything else.
func TestOutboxPublisher_PublishWithTx_RollsBackWithTransaction(t *testing.T) {
	publisher, db, mock := publisherFixture(t)
	event := newTestEvent("customer.created")

	mock.ExpectBegin()
	expectOutboxInsert(mock, event)
	mock.ExpectRollback()

	businessErr := errors.New("credit update rejected")
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := publisher.PublishWithTx(context.Background(), tx, event); err != nil {
			return err
		}
		return businessErr
	})

	require.ErrorIs(t, err, businessErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
