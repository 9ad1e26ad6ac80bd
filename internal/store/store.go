// Package store provides the shared key->document persistence the matching
// and conversation engine runs on. Both parties of a conversation read and
// write the same documents; each write replaces the whole document body.
package store

import (
	"context"

	"github.com/clarkhq/clark-server/internal/errors"
)

// Document keys used by the engine.
const (
	KeySelfPrefix         = "profile:self:"
	KeyCustomPool         = "pool:custom"
	KeyConversationPrefix = "conversations:"
)

// ErrNotFound is returned by Get when no document exists under the key.
var ErrNotFound = errors.ErrNotFound

// DocumentStore is a durable key->document store with whole-document
// replace semantics. Implementations must be safe for use from multiple
// processes pointed at the same backing storage; they do not provide any
// read-modify-write atomicity beyond single Get/Put calls.
type DocumentStore interface {
	// Get returns the raw document body, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the document under key with body.
	Put(ctx context.Context, key string, body []byte) error

	// Delete removes the document. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// SelfKey returns the document key for a viewer's own profile.
func SelfKey(profileID string) string { return KeySelfPrefix + profileID }

// ConversationKey returns the document key for a pair's message list.
func ConversationKey(pairKey string) string { return KeyConversationPrefix + pairKey }
