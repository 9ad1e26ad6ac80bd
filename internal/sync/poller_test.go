package sync_test

import (
	"context"
	"fmt"
	stdsync "sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clarkhq/clark-server/internal/cache"
	"github.com/clarkhq/clark-server/internal/chat"
	"github.com/clarkhq/clark-server/internal/config"
	"github.com/clarkhq/clark-server/internal/db"
	"github.com/clarkhq/clark-server/internal/match"
	"github.com/clarkhq/clark-server/internal/profile"
	"github.com/clarkhq/clark-server/internal/store"
	enginesync "github.com/clarkhq/clark-server/internal/sync"
)

const pollInterval = 10 * time.Millisecond

func setupChatStore(t *testing.T) *chat.Store {
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
	return chat.NewStore(store.NewGormStore(database))
}

func mustMsg(t *testing.T, sender, text string) chat.Message {
	t.Helper()
	m, err := chat.NewMessage(sender, text)
	require.NoError(t, err)
	return m
}

func TestPollerFirstTickIsImmediate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticked := make(chan struct{}, 1)
	p := enginesync.NewPoller(time.Hour, func(context.Context) {
		select {
		case ticked <- struct{}{}:
		default:
		}
	})
	p.Start(ctx)

	select {
	case <-ticked:
	case <-time.After(time.Second):
		t.Fatal("expected an immediate first tick")
	}
}

func TestPollerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var mu stdsync.Mutex
	ticks := 0
	p := enginesync.NewPoller(pollInterval, func(context.Context) {
		mu.Lock()
		ticks++
		mu.Unlock()
	})
	done := p.Start(ctx)

	time.Sleep(5 * pollInterval)
	cancel()
	<-done

	mu.Lock()
	after := ticks
	mu.Unlock()

	time.Sleep(5 * pollInterval)
	mu.Lock()
	assert.Equal(t, after, ticks, "no ticks may fire after cancellation")
	mu.Unlock()
}

// U sends "hi"; E's poller must surface a one-message list within one
// poll interval.
func TestConversationPollerDeliversOtherPartysMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chats := setupChatStore(t)
	pairKey := match.PairKey("u", "e")

	var mu stdsync.Mutex
	var seen []chat.Message
	poller := enginesync.NewConversationPoller(chats, pairKey, func(msgs []chat.Message) {
		mu.Lock()
		seen = msgs
		mu.Unlock()
	})
	poller.Start(ctx, pollInterval)

	_, err := chats.Append(ctx, pairKey, mustMsg(t, "u", "hi"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1
	}, time.Second, pollInterval/2)

	mu.Lock()
	assert.Equal(t, "u", seen[0].SenderID)
	assert.Equal(t, "hi", seen[0].Text)
	mu.Unlock()
}

func TestConversationPollerKeepsLocalOnSameLength(t *testing.T) {
	ctx := context.Background()

	chats := setupChatStore(t)
	pairKey := match.PairKey("u", "e")

	_, err := chats.Append(ctx, pairKey, mustMsg(t, "u", "stored"))
	require.NoError(t, err)

	poller := enginesync.NewConversationPoller(chats, pairKey, nil)
	// optimistic local state with the same length as the store
	optimistic := mustMsg(t, "u", "optimistic")
	poller.Seed([]chat.Message{optimistic})

	poller.Tick(ctx)

	local := poller.Messages()
	require.Len(t, local, 1)
	assert.Equal(t, "optimistic", local[0].Text, "same-length reconciliation must not clobber local state")
}

func TestConversationPollerReplacesOnLengthChange(t *testing.T) {
	ctx := context.Background()

	chats := setupChatStore(t)
	pairKey := match.PairKey("u", "e")

	poller := enginesync.NewConversationPoller(chats, pairKey, nil)
	poller.Tick(ctx)
	assert.Empty(t, poller.Messages())

	_, err := chats.Append(ctx, pairKey, mustMsg(t, "e", "one"))
	require.NoError(t, err)
	_, err = chats.Append(ctx, pairKey, mustMsg(t, "e", "two"))
	require.NoError(t, err)

	poller.Tick(ctx)
	local := poller.Messages()
	require.Len(t, local, 2)
	assert.Equal(t, "one", local[0].Text)
	assert.Equal(t, "two", local[1].Text)
}

func TestActivityPollerCountsAndCaches(t *testing.T) {
	ctx := context.Background()

	chats := setupChatStore(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	redisCache := cache.NewRedisCache(cfg)

	e := profile.Profile{ID: "e", Name: "Elena"}
	pairKey := match.PairKey("u", "e")
	matches := func() []match.Match {
		return []match.Match{{ID: pairKey, OtherID: e.ID, Profile: e}}
	}

	_, err = chats.Append(ctx, pairKey, mustMsg(t, "e", "hello"))
	require.NoError(t, err)
	_, err = chats.Append(ctx, pairKey, mustMsg(t, "u", "hey"))
	require.NoError(t, err)

	var mu stdsync.Mutex
	var published map[string]int
	poller := enginesync.NewActivityPoller(chats, redisCache, matches, func(counts map[string]int) {
		mu.Lock()
		published = counts
		mu.Unlock()
	})
	poller.Tick(ctx)

	mu.Lock()
	require.NotNil(t, published)
	assert.Equal(t, 2, published[pairKey])
	mu.Unlock()

	cached, found, err := redisCache.GetActivityCount(ctx, pairKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(2), cached)
}
