package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/registry"
)

var sessionDocColumns = []string{"session_id", "url", "hostname", "start_time", "updated_at", "events"}

// newMockStore backs a MySqlStore with a mocked connection so the generated
// SQL can be asserted without a live database
func newMockStore(t *testing.T) (*MySqlStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return &MySqlStore{db: db}, mock
}

func TestMySqlStoreSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("append locks the row before rewriting the event log", func(t *testing.T) {
		store, mock := newMockStore(t)

		// The read must take a row lock; without it two concurrent
		// appends read the same prior list and the second write
		// replaces the first event
		rows := sqlmock.NewRows(sessionDocColumns).
			AddRow("sess-1", "https://example.com", "example.com", time.Now(), time.Now(),
				[]byte(`[{"type":"console","level":"log","text":"hi"}]`))

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .* FROM `live_sessions` WHERE session_id = .* FOR UPDATE").
			WillReturnRows(rows)
		mock.ExpectExec("UPDATE `live_sessions` SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.AppendSessionEvent(ctx, "sess-1", registry.Event{
			Type: registry.EventNetwork,
			URL:  "https://example.com/api/a",
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("append to unknown session fails", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .* FROM `live_sessions`").
			WillReturnRows(sqlmock.NewRows(sessionDocColumns))
		mock.ExpectRollback()

		err := store.AppendSessionEvent(ctx, "missing", registry.Event{Type: registry.EventError})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first contact insert tolerates a concurrent duplicate", func(t *testing.T) {
		store, mock := newMockStore(t)

		// A single conflict-resolving insert; the loser of a
		// concurrent first contact must not see an error
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `live_sessions` .* ON DUPLICATE KEY UPDATE").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := store.UpsertSessionDoc(ctx, "sess-1", "https://example.com", "example.com")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
