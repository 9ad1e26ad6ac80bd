package chat_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clarkhq/clark-server/internal/chat"
	"github.com/clarkhq/clark-server/internal/db"
	"github.com/clarkhq/clark-server/internal/errors"
	"github.com/clarkhq/clark-server/internal/store"
)

func setupChat(t *testing.T) (*chat.Store, store.DocumentStore) {
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
	docs := store.NewGormStore(database)
	return chat.NewStore(docs), docs
}

func TestReadMissingConversationIsEmpty(t *testing.T) {
	ctx := context.Background()
	s, _ := setupChat(t)

	msgs, err := s.Read(ctx, "a_b")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestAppendKeepsSendOrderAndUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := setupChat(t)

	const n = 10
	for i := 0; i < n; i++ {
		msg, err := chat.NewMessage("u1", fmt.Sprintf("message %d", i))
		require.NoError(t, err)
		_, err = s.Append(ctx, "a_b", msg)
		require.NoError(t, err)
	}

	msgs, err := s.Read(ctx, "a_b")
	require.NoError(t, err)
	require.Len(t, msgs, n)

	ids := make(map[string]struct{}, n)
	for i, m := range msgs {
		assert.Equal(t, fmt.Sprintf("message %d", i), m.Text)
		_, dup := ids[m.ID]
		assert.False(t, dup, "duplicate message id %s", m.ID)
		ids[m.ID] = struct{}{}
	}
}

func TestAppendReturnsNewList(t *testing.T) {
	ctx := context.Background()
	s, _ := setupChat(t)

	msg, err := chat.NewMessage("u1", "hi")
	require.NoError(t, err)
	msgs, err := s.Append(ctx, "a_b", msg)
	require.NoError(t, err)

	require.Len(t, msgs, 1)
	assert.Equal(t, "u1", msgs[0].SenderID)
	assert.Equal(t, "hi", msgs[0].Text)
}

func TestTimestampsRehydrate(t *testing.T) {
	ctx := context.Background()
	s, _ := setupChat(t)

	msg, err := chat.NewMessage("u1", "hi")
	require.NoError(t, err)
	_, err = s.Append(ctx, "a_b", msg)
	require.NoError(t, err)

	msgs, err := s.Read(ctx, "a_b")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.WithinDuration(t, msg.Timestamp, msgs[0].Timestamp, time.Second)
	assert.False(t, msgs[0].Timestamp.IsZero())
}

func TestCorruptConversationDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	s, docs := setupChat(t)

	require.NoError(t, docs.Put(ctx, store.ConversationKey("a_b"), []byte(`[{"id":`)))

	msgs, err := s.Read(ctx, "a_b")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	// the next append starts the conversation over
	msg, err := chat.NewMessage("u1", "fresh start")
	require.NoError(t, err)
	out, err := s.Append(ctx, "a_b", msg)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestNewMessageValidation(t *testing.T) {
	_, err := chat.NewMessage("u1", "   ")
	assert.ErrorIs(t, err, errors.ErrValidation)

	_, err = chat.NewMessage("", "hello")
	assert.ErrorIs(t, err, errors.ErrValidation)

	msg, err := chat.NewMessage("u1", "  padded  ")
	require.NoError(t, err)
	assert.Equal(t, "padded", msg.Text)
}

func TestMessageIDsAreMonotonicish(t *testing.T) {
	a := chat.NewMessageID()
	b := chat.NewMessageID()
	assert.NotEqual(t, a, b)
	// ULIDs sort by creation time
	assert.Less(t, a, b)
}
