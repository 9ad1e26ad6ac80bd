package db

import (
	"time"
)

// Document is a single named JSON document in the shared store.
//
// The engine keeps three logical documents:
//   - profile:self:<id>       the viewer's own profile
//   - pool:custom             non-seed community profiles
//   - conversations:<pairkey> message list for one pair
//
// Writes replace the whole body. There is no partial update at this layer;
// the consistency consequences are documented on ConversationStore.Append.
type Document struct {
	Key       string    `gorm:"primaryKey;size:191"`
	Body      []byte    `gorm:"type:blob"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
