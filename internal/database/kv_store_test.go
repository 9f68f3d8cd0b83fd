package database

import (
	"context"
	"marksentry/internal/config"
	"marksentry/internal/service"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := InitDB(config.DBConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	return db
}

func TestKVStoreGetMissing(t *testing.T) {
	store := NewKVStore(setupTestDB(t))

	value, found, err := store.Get(context.Background(), "nothing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
}

func TestKVStoreSetOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore(setupTestDB(t))

	require.NoError(t, store.Set(ctx, "visitCount", "1"))
	require.NoError(t, store.Set(ctx, "visitCount", "2"))

	value, found, err := store.Get(ctx, "visitCount")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "2", value)
}

func TestKVStoreBacksVisitCounter(t *testing.T) {
	ctx := context.Background()
	counter := service.NewVisitCounter(NewKVStore(setupTestDB(t)))

	for _, visitor := range []string{"a", "b", "a", "c", "b"} {
		_, _, err := counter.RecordVisit(ctx, visitor)
		require.NoError(t, err)
	}

	count, err := counter.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestInitDBUnknownDriver(t *testing.T) {
	_, err := InitDB(config.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}
