package engine_test

import (
	"context"
	"fmt"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clarkhq/clark-server/internal/chat"
	"github.com/clarkhq/clark-server/internal/config"
	"github.com/clarkhq/clark-server/internal/db"
	"github.com/clarkhq/clark-server/internal/engine"
	"github.com/clarkhq/clark-server/internal/errors"
	"github.com/clarkhq/clark-server/internal/match"
	"github.com/clarkhq/clark-server/internal/profile"
	"github.com/clarkhq/clark-server/internal/store"
)

func setupShared(t *testing.T) (store.DocumentStore, *config.Config) {
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

	cfg := config.New()
	cfg.Sync.MessageInterval = 10 * time.Millisecond
	cfg.Sync.ActivityInterval = 10 * time.Millisecond
	return store.NewGormStore(database), cfg
}

func draft(name string) profile.Draft {
	return profile.Draft{
		Name:      name,
		Age:       26,
		Bio:       "hello",
		Interests: []string{"Coffee"},
		Photos:    []string{"https://example.com/p.jpg"},
		Location:  "Testville",
	}
}

func TestCreateProfileValidatesDraft(t *testing.T) {
	docs, cfg := setupShared(t)
	s := engine.NewSession(docs, cfg)

	bad := draft("Uma")
	bad.Photos = nil
	_, err := s.CreateProfile(context.Background(), bad)
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestSendMessageRequiresViewerAndText(t *testing.T) {
	ctx := context.Background()
	docs, cfg := setupShared(t)
	s := engine.NewSession(docs, cfg)

	_, err := s.SendMessage(ctx, "a_b", "hello")
	assert.ErrorIs(t, err, errors.ErrValidation, "no viewer bound")

	_, err = s.CreateProfile(ctx, draft("Uma"))
	require.NoError(t, err)
	_, err = s.SendMessage(ctx, "a_b", "   ")
	assert.ErrorIs(t, err, errors.ErrValidation, "blank text")
}

// Full two-party flow over one shared store: mutual like, then a message
// from U arrives in E's polled view within the poll bound.
func TestTwoSessionsConverseViaPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	docs, cfg := setupShared(t)

	sessionU := engine.NewSession(docs, cfg)
	u, err := sessionU.CreateProfile(ctx, draft("Uma"))
	require.NoError(t, err)

	sessionE := engine.NewSession(docs, cfg)
	e, err := sessionE.CreateProfile(ctx, draft("Eve"))
	require.NoError(t, err)

	// U likes E first; not mutual yet
	mutual, err := sessionU.Like(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, mutual)

	// E's next pool refresh surfaces U's like; liking back is then an
	// instant match on E's side
	require.NoError(t, sessionE.Refresh(ctx))
	mutual, err = sessionE.Like(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, mutual)

	pairKey := match.PairKey(u.ID, e.ID)
	matches := sessionE.Matches()
	require.Len(t, matches, 1)
	assert.Equal(t, pairKey, matches[0].ID)

	// E opens the chat view and starts polling
	var mu stdsync.Mutex
	var seen []chat.Message
	sessionE.OpenConversation(ctx, pairKey, func(msgs []chat.Message) {
		mu.Lock()
		seen = msgs
		mu.Unlock()
	})

	// U sends "hi"
	sent, err := sessionU.SendMessage(ctx, pairKey, "hi")
	require.NoError(t, err)
	require.Len(t, sent, 1)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, u.ID, seen[0].SenderID)
	assert.Equal(t, "hi", seen[0].Text)
	mu.Unlock()
}

func TestActivityCountsReachSubscriber(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	docs, cfg := setupShared(t)

	sessionU := engine.NewSession(docs, cfg)
	u, err := sessionU.CreateProfile(ctx, draft("Uma"))
	require.NoError(t, err)

	sessionE := engine.NewSession(docs, cfg)
	e, err := sessionE.CreateProfile(ctx, draft("Eve"))
	require.NoError(t, err)

	_, err = sessionU.Like(ctx, e.ID)
	require.NoError(t, err)
	_, err = sessionE.Like(ctx, u.ID)
	require.NoError(t, err)
	require.NoError(t, sessionU.Refresh(ctx))

	pairKey := match.PairKey(u.ID, e.ID)
	_, err = sessionU.SendMessage(ctx, pairKey, "one")
	require.NoError(t, err)
	_, err = sessionU.SendMessage(ctx, pairKey, "two")
	require.NoError(t, err)

	var mu stdsync.Mutex
	counts := map[string]int{}
	sessionU.StartActivity(ctx, func(m map[string]int) {
		mu.Lock()
		counts = m
		mu.Unlock()
	})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return counts[pairKey] == 2
	}, time.Second, 5*time.Millisecond)
}

func TestResumePicksUpPersistedLikes(t *testing.T) {
	ctx := context.Background()
	docs, cfg := setupShared(t)

	s1 := engine.NewSession(docs, cfg)
	u, err := s1.CreateProfile(ctx, draft("Uma"))
	require.NoError(t, err)
	_, err = s1.Like(ctx, "1")
	require.NoError(t, err)

	// new process, same store
	s2 := engine.NewSession(docs, cfg)
	resumed, err := s2.Resume(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, resumed.LikedIds)

	// discovery excludes the liked seed and the viewer
	for _, p := range s2.Discover() {
		assert.NotEqual(t, "1", p.ID)
		assert.NotEqual(t, u.ID, p.ID)
	}
}
