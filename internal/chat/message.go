package chat

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/clarkhq/clark-server/internal/errors"
)

// Message is one immutable chat message. Timestamps round-trip through the
// stored JSON as RFC 3339 and re-hydrate into time.Time on read.
type Message struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessageID mints a message id: a ULID, so ids are time-ordered and
// collision-safe even for back-to-back sends from the same sender. The
// store never deduplicates; uniqueness is the producer's responsibility.
func NewMessageID() string {
	return "msg_" + ulid.Make().String()
}

// NewMessage validates and builds a message from raw input. Text is
// trimmed; empty text is rejected here, before it can reach the store.
func NewMessage(senderID, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, errors.Validation("message text must not be empty")
	}
	if senderID == "" {
		return Message{}, errors.Validation("message sender must be set")
	}
	return Message{
		ID:        NewMessageID(),
		SenderID:  senderID,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}, nil
}
