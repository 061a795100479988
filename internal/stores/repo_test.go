package stores

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gaslink/gaslink-backend/pkg/db/models"
)

func setupStoresTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS stores (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  address TEXT NOT NULL,
  road_address TEXT,
  lat REAL,
  lng REAL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS stores`).Error)
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedStore(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, createdAt time.Time) *models.Store {
	t.Helper()

	store := &models.Store{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Address:   "서울시 강남구 테헤란로 1",
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(store).Error)
	return store
}

func TestFindByIDReturnsStore(t *testing.T) {
	db := setupStoresTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedStore(t, db, uuid.New(), "한빛가스", time.Now())

	found, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
	assert.Equal(t, "한빛가스", found.Name)
}

func TestFindByUserOrdersOldestFirst(t *testing.T) {
	db := setupStoresTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Now().Add(-time.Hour)
	first := seedStore(t, db, userID, "본점", base)
	second := seedStore(t, db, userID, "지점", base.Add(time.Minute))
	seedStore(t, db, uuid.New(), "남의가게", base)

	found, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, first.ID, found[0].ID)
	assert.Equal(t, second.ID, found[1].ID)
}

func TestSearchPaginatesNewestFirst(t *testing.T) {
	db := setupStoresTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		seedStore(t, db, uuid.New(), "가게", base.Add(time.Duration(i)*time.Minute))
	}

	page, next, err := repo.Search(ctx, SearchParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, next)
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt))

	rest, last, err := repo.Search(ctx, SearchParams{Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Nil(t, last)
}
