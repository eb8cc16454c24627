package presence

import (
	"chat-core/contract"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultTypingTTL is how long a typing lease survives without a refresh.
const DefaultTypingTTL = 5 * time.Second

// TypingCoordinator holds one short-lived lease per (conversation, user).
// A client that stops refreshing is treated as not-typing once the lease
// expires, which handles crashes and disconnects without a stop signal.
type TypingCoordinator struct {
	store contract.ILeaseStore
	ttl   time.Duration
}

func NewTypingCoordinator(store contract.ILeaseStore, ttl time.Duration) *TypingCoordinator {
	if ttl <= 0 {
		ttl = DefaultTypingTTL
	}
	return &TypingCoordinator{store: store, ttl: ttl}
}

// StartTyping sets the lease, overwriting any existing one so refresh
// signals extend the deadline.
func (c *TypingCoordinator) StartTyping(userID, conversationID uuid.UUID) error {
	return c.store.Put(typingKey(conversationID, userID), c.ttl)
}

// StopTyping drops the lease immediately instead of waiting for expiry.
func (c *TypingCoordinator) StopTyping(userID, conversationID uuid.UUID) error {
	return c.store.Delete(typingKey(conversationID, userID))
}

func (c *TypingCoordinator) IsTyping(userID, conversationID uuid.UUID) (bool, error) {
	return c.store.Exists(typingKey(conversationID, userID))
}

// ActiveCount reports how many typing leases are currently live across
// all conversations.
func (c *TypingCoordinator) ActiveCount() (int, error) {
	keys, err := c.store.Keys("typing:")
	return len(keys), err
}

func typingKey(conversationID, userID uuid.UUID) string {
	return fmt.Sprintf("typing:%s:%s", conversationID, userID)
}
