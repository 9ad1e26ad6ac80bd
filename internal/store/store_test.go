package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clarkhq/clark-server/internal/db"
	"github.com/clarkhq/clark-server/internal/store"
)

func setupGormStore(t *testing.T) *store.GormStore {
	t.Helper()
	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(&db.Document{}))
	return store.NewGormStore(database)
}

func setupRedisStore(t *testing.T) *store.RedisStore {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return store.NewRedisStoreWithClient(client)
}

// Both backends must behave identically for the engine's purposes.
func stores(t *testing.T) map[string]store.DocumentStore {
	return map[string]store.DocumentStore{
		"gorm":  setupGormStore(t),
		"redis": setupRedisStore(t),
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "pool:custom")
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestPutReplacesWholeDocument(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "pool:custom", []byte(`[{"id":"a"}]`)))
			require.NoError(t, s.Put(ctx, "pool:custom", []byte(`[{"id":"b"}]`)))

			body, err := s.Get(ctx, "pool:custom")
			require.NoError(t, err)
			// last writer wins, no merging
			assert.Equal(t, `[{"id":"b"}]`, string(body))
		})
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "profile:self:u1", []byte(`{}`)))
			require.NoError(t, s.Delete(ctx, "profile:self:u1"))
			require.NoError(t, s.Delete(ctx, "profile:self:u1"))

			_, err := s.Get(ctx, "profile:self:u1")
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestKeysAreIsolated(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, store.ConversationKey("a_b"), []byte(`[1]`)))
			require.NoError(t, s.Put(ctx, store.ConversationKey("a_c"), []byte(`[2]`)))

			body, err := s.Get(ctx, store.ConversationKey("a_b"))
			require.NoError(t, err)
			assert.Equal(t, `[1]`, string(body))
		})
	}
}
