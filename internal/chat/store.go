package chat

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"

	"github.com/clarkhq/clark-server/internal/logger"
	"github.com/clarkhq/clark-server/internal/store"
)

// Store persists conversations: one document per pair key, holding the
// ordered message list. Both participants write the same document; neither
// owns it exclusively.
type Store struct {
	docs store.DocumentStore
}

// NewStore creates a conversation store over the given document store.
func NewStore(docs store.DocumentStore) *Store {
	return &Store{docs: docs}
}

// Read returns the conversation for the pair key, empty when the key is
// absent. A malformed document degrades to empty rather than erroring.
func (s *Store) Read(ctx context.Context, pairKey string) ([]Message, error) {
	body, err := s.docs.Get(ctx, store.ConversationKey(pairKey))
	if goerrors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read conversation %s: %w", pairKey, err)
	}

	var msgs []Message
	if err := json.Unmarshal(body, &msgs); err != nil {
		logger.Warn("conversation document is malformed, treating as empty", "pair_key", pairKey, "err", err)
		return nil, nil
	}
	return msgs, nil
}

// Append reads the full message list, appends msg, and writes the whole
// list back, returning the new list.
//
// This is a read-modify-write whole-document replace. Two participants
// writing within the same poll window can race: if the first write lands
// between the second writer's read and write, the second write silently
// drops the first message. Last writer wins. Acceptable for the documented
// best-effort SLA; a compare-and-swap or append-only log would be the
// upgrade path if true multi-writer correctness is ever required.
func (s *Store) Append(ctx context.Context, pairKey string, msg Message) ([]Message, error) {
	msgs, err := s.Read(ctx, pairKey)
	if err != nil {
		return nil, err
	}
	msgs = append(msgs, msg)

	body, err := json.Marshal(msgs)
	if err != nil {
		return nil, fmt.Errorf("marshal conversation %s: %w", pairKey, err)
	}
	if err := s.docs.Put(ctx, store.ConversationKey(pairKey), body); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Count returns the conversation length without decoding timestamps for
// callers that only need the advisory activity number.
func (s *Store) Count(ctx context.Context, pairKey string) (int, error) {
	msgs, err := s.Read(ctx, pairKey)
	if err != nil {
		return 0, err
	}
	return len(msgs), nil
}
