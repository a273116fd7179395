// File: internal/profile/repository_test.go
package profile

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"readrocket_backend/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Profile{}))
	return db
}

func testProfile(uid, appID string) *Profile {
	now := time.Now().UTC()
	return &Profile{
		UserID:             uid,
		Email:              uid + "@example.com",
		AppID:              appID,
		UserName:           uid,
		FirstName:          "Test",
		LastName:           "User",
		Provider:           "email",
		Credits:            3,
		SubscriptionStatus: "free",
		Preferences:        JSONMap{"modification_mode": "suggestion"},
		CreatedAt:          now,
		UpdatedAt:          now,
		LastActiveAt:       now,
	}
}

func TestRepositoryCreateAndGet(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()

	p := testProfile("uid1", "readrocket")
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.Get(ctx, "uid1")
	require.NoError(t, err)
	assert.Equal(t, "uid1@example.com", got.Email)
	assert.Equal(t, "readrocket", got.AppID)
	assert.Equal(t, JSONMap{"modification_mode": "suggestion"}, got.Preferences)
}

func TestRepositoryCreateConflict(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testProfile("uid1", "readrocket")))

	err := repo.Create(ctx, testProfile("uid1", "readrocket"))
	assert.True(t, errors.Is(err, common.ErrConflict))
}

func TestRepositoryGetMissing(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))

	_, err := repo.Get(context.Background(), "ghost")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestRepositoryUpdateMergesOnlyGivenFields(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()

	p := testProfile("uid1", "readrocket")
	require.NoError(t, repo.Create(ctx, p))

	err := repo.Update(ctx, "uid1", map[string]interface{}{
		"preferences": JSONMap{"theme": "dark"},
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "uid1")
	require.NoError(t, err)
	assert.Equal(t, JSONMap{"theme": "dark"}, got.Preferences)
	// Untouched fields survive the merge.
	assert.Equal(t, "readrocket", got.AppID)
	assert.Equal(t, 3, got.Credits)
	assert.Equal(t, "free", got.SubscriptionStatus)
	assert.True(t, got.UpdatedAt.After(p.UpdatedAt) || got.UpdatedAt.Equal(p.UpdatedAt))
}

func TestRepositoryUpdateMissing(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))

	err := repo.Update(context.Background(), "ghost", map[string]interface{}{
		"preferences": JSONMap{"theme": "dark"},
	})
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestRepositoryListByApp(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, repo.Create(ctx, testProfile(fmt.Sprintf("rr-%d", i), "readrocket")))
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Create(ctx, testProfile(fmt.Sprintf("lx-%d", i), "lexirocket")))
	}

	t.Run("filters by app", func(t *testing.T) {
		got, err := repo.ListByApp(ctx, "lexirocket", 100)
		require.NoError(t, err)
		assert.Len(t, got, 4)
		for _, p := range got {
			assert.Equal(t, "lexirocket", p.AppID)
		}
	})

	t.Run("honors the limit", func(t *testing.T) {
		got, err := repo.ListByApp(ctx, "readrocket", 5)
		require.NoError(t, err)
		assert.Len(t, got, 5)
	})

	t.Run("unknown app yields empty result", func(t *testing.T) {
		got, err := repo.ListByApp(ctx, "ghost_app", 100)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
