package event

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crmcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var outboxColumns = []string{
	"id", "event_id", "event_type", "aggregate_id",
	"aggregate_type", "payload", "status", "retry_count", "max_retries",
	"last_error", "next_retry_at", "processed_at", "created_at", "updated_at",
}

func outboxRepoFixture(t *testing.T) (*GormOutboxRepository, sqlmock.Sqlmock) {
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

	return NewGormOutboxRepository(db), mock
}

func TestGormOutboxRepository_Save(t *testing.T) {
	t.Run("inserts entry", func(t *testing.T) {
		repo, mock := outboxRepoFixture(t)
		entry := shared.NewOutboxEntry(newTestEvent("customer.created"), []byte(`{"name":"Acme"}`))

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "outbox_events"`)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(entry.CreatedAt, entry.UpdatedAt))
		mock.ExpectCommit()

		require.NoError(t, repo.Save(context.Background(), entry))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing to save skips the round trip", func(t *testing.T) {
		repo, mock := outboxRepoFixture(t)

		require.NoError(t, repo.Save(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOutboxRepository_FindPending(t *testing.T) {
	repo, mock := outboxRepoFixture(t)

	entryID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows(outboxColumns).AddRow(
		entryID, uuid.New(), "customer.created", uuid.New(),
		"Customer", []byte(`{}`), "PENDING", 0, 5,
		"", nil, nil, now, now,
	)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "outbox_events" WHERE status = $1 ORDER BY created_at ASC LIMIT $2`)).
		WithArgs(shared.OutboxStatusPending, 10).
		WillReturnRows(rows)

	entries, err := repo.FindPending(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entryID, entries[0].ID)
	assert.Equal(t, "customer.created", entries[0].EventType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_FindRetryable(t *testing.T) {
	repo, mock := outboxRepoFixture(t)

	cutoff := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "outbox_events" WHERE status = $1 AND next_retry_at <= $2 ORDER BY next_retry_at ASC LIMIT $3`)).
		WithArgs(shared.OutboxStatusFailed, cutoff, 10).
		WillReturnRows(sqlmock.NewRows(outboxColumns))

	entries, err := repo.FindRetryable(context.Background(), cutoff, 10)

	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_Update(t *testing.T) {
	repo, mock := outboxRepoFixture(t)

	entry := shared.NewOutboxEntry(newTestEvent("customer.credit_updated"), []byte(`{}`))
	entry.MarkSent()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "outbox_events"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_DeleteOlderThan(t *testing.T) {
	repo, mock := outboxRepoFixture(t)

	cutoff := time.Now().Add(-7 * 24 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "outbox_events" WHERE status = $1 AND processed_at < $2`)).
		WithArgs(shared.OutboxStatusSent, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	deleted, err := repo.DeleteOlderThan(context.Background(), cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(5), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_WithTx(t *testing.T) {
	repo, _ := outboxRepoFixture(t)

	txRepo := repo.WithTx(repo.db)

	require.NotNil(t, txRepo)
	assert.NotSame(t, repo, txRepo)
}
