package sink

import (
	"chat-core/domain/event"
	"chat-core/search"
	"context"
)

// SearchSink indexes each sent message so history becomes searchable.
// Edits are not re-indexed; the index reflects the content as sent.
type SearchSink struct {
	index search.IMessageIndex
}

func NewSearchSink(index search.IMessageIndex) SearchSink {
	return SearchSink{index: index}
}

func (s SearchSink) Consume(_ context.Context, e event.DomainEvent) error {
	sent, ok := e.(event.MessageSent)
	if !ok {
		return nil
	}
	return s.index.Index(search.Entry{
		MessageID:      sent.MessageID,
		ConversationID: sent.ConversationID,
		Content:        sent.Content,
	})
}
