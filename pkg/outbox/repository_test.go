package outbox

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gaslink/gaslink-backend/pkg/db/models"
	"github.com/gaslink/gaslink-backend/pkg/enums"
)

func setupOutboxTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`
	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS outbox_events`).Error)
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedOutboxEvent(t *testing.T, db *gorm.DB, attemptCount int, createdAt time.Time) *models.OutboxEvent {
	t.Helper()

	event := &models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventRequestCreated,
		AggregateType: enums.AggregateServiceRequest,
		AggregateID:   uuid.New(),
		Payload:       []byte(`{}`),
		CreatedAt:     createdAt,
		AttemptCount:  attemptCount,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

// A head-of-line block of rows past the retry budget must not occupy the fetch
// window: newer events still have to come through on the next poll.
func TestFetchUnpublishedExcludesExhaustedRows(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedOutboxEvent(t, db, 10, base.Add(time.Duration(i)*time.Minute))
	}
	fresh := seedOutboxEvent(t, db, 0, base.Add(30*time.Minute))

	rows, err := repo.FetchUnpublished(5, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, fresh.ID, rows[0].ID)
}

func TestFetchUnpublishedWithoutCapReturnsAllRows(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)

	base := time.Now().Add(-time.Hour)
	seedOutboxEvent(t, db, 10, base)
	seedOutboxEvent(t, db, 0, base.Add(time.Minute))

	rows, err := repo.FetchUnpublished(10, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestMarkFailedMovesRowOutOfFetchWindow(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)

	event := seedOutboxEvent(t, db, 2, time.Now().Add(-time.Minute))

	require.NoError(t, repo.MarkFailed(event.ID, assert.AnError))

	rows, err := repo.FetchUnpublished(10, 3)
	require.NoError(t, err)
	assert.Empty(t, rows)

	var stored models.OutboxEvent
	require.NoError(t, db.First(&stored, "id = ?", event.ID).Error)
	assert.Equal(t, 3, stored.AttemptCount)
	require.NotNil(t, stored.LastError)
}

func TestMarkPublishedRemovesRowFromWindow(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)

	event := seedOutboxEvent(t, db, 0, time.Now().Add(-time.Minute))

	require.NoError(t, repo.MarkPublished(event.ID))

	rows, err := repo.FetchUnpublished(10, 3)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
