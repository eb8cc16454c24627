// Package projection builds read-only views from observed events.
// It never emits events and never touches the repositories.
package projection

import (
	"chat-core/domain/event"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TimelineEntry is one message as seen by the projection.
type TimelineEntry struct {
	MessageID uuid.UUID
	SenderID  uuid.UUID
	Content   string
	SentAt    time.Time
}

// Timeline keeps a per-conversation, arrival-ordered list of sent messages.
// It is an EventSink and safe for concurrent use.
type Timeline struct {
	mu       sync.RWMutex
	messages map[uuid.UUID][]TimelineEntry
}

func NewTimeline() *Timeline {
	return &Timeline{messages: make(map[uuid.UUID][]TimelineEntry)}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	sent, ok := e.(event.MessageSent)
	if !ok {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages[sent.ConversationID] = append(t.messages[sent.ConversationID], TimelineEntry{
		MessageID: sent.MessageID,
		SenderID:  sent.SenderID,
		Content:   sent.Content,
		SentAt:    sent.SentAt,
	})
	return nil
}

// Entries returns a copy of the conversation timeline.
func (t *Timeline) Entries(conversationID uuid.UUID) []TimelineEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]TimelineEntry(nil), t.messages[conversationID]...)
}
