package projection

import (
	"chat-core/domain/event"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func sentEvent(conversationID uuid.UUID, content string) event.MessageSent {
	return event.MessageSent{
		Header:         event.NewHeader(event.MessageSentKind),
		MessageID:      uuid.New(),
		ConversationID: conversationID,
		SenderID:       uuid.New(),
		Content:        content,
		MessageType:    "TEXT",
		SentAt:         time.Now().UTC(),
	}
}

func TestTimeline_AppendsInArrivalOrder(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	ctx := context.Background()
	conversationID := uuid.New()

	req.NoError(timeline.Consume(ctx, sentEvent(conversationID, "first")))
	req.NoError(timeline.Consume(ctx, sentEvent(conversationID, "second")))
	req.NoError(timeline.Consume(ctx, sentEvent(uuid.New(), "elsewhere")))

	entries := timeline.Entries(conversationID)
	req.Len(entries, 2)
	req.Equal("first", entries[0].Content)
	req.Equal("second", entries[1].Content)
}

func TestTimeline_IgnoresOtherEventKinds(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	conversationID := uuid.New()

	err := timeline.Consume(context.Background(), event.MessageRead{
		Header:         event.NewHeader(event.MessageReadKind),
		MessageID:      uuid.New(),
		ConversationID: conversationID,
		ReaderID:       uuid.New(),
		ReadAt:         time.Now().UTC(),
	})

	req.NoError(err)
	req.Empty(timeline.Entries(conversationID))
}

func TestTimeline_EntriesReturnsCopy(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	conversationID := uuid.New()
	req.NoError(timeline.Consume(context.Background(), sentEvent(conversationID, "original")))

	entries := timeline.Entries(conversationID)
	entries[0].Content = "tampered"

	req.Equal("original", timeline.Entries(conversationID)[0].Content)
}

func TestTimeline_ConcurrentConsume(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	conversationID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = timeline.Consume(context.Background(), sentEvent(conversationID, "hello"))
		}()
	}
	wg.Wait()

	req.Len(timeline.Entries(conversationID), 20)
}
