package search

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *BlugeIndex {
	t.Helper()
	index, err := NewBlugeIndex(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	return index
}

func TestBlugeIndex_SearchWithinConversation(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	ctx := context.Background()
	conversationID := uuid.New()

	matching := uuid.New()
	req.NoError(index.Index(Entry{MessageID: matching, ConversationID: conversationID, Content: "the deployment failed again"}))
	req.NoError(index.Index(Entry{MessageID: uuid.New(), ConversationID: conversationID, Content: "lunch at noon?"}))

	ids, err := index.Search(ctx, conversationID, "deployment", 10)

	req.NoError(err)
	req.Equal([]uuid.UUID{matching}, ids)
}

func TestBlugeIndex_ScopedToConversation(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	ctx := context.Background()
	conv1 := uuid.New()
	conv2 := uuid.New()

	inConv1 := uuid.New()
	req.NoError(index.Index(Entry{MessageID: inConv1, ConversationID: conv1, Content: "deployment news"}))
	req.NoError(index.Index(Entry{MessageID: uuid.New(), ConversationID: conv2, Content: "deployment news"}))

	ids, err := index.Search(ctx, conv1, "deployment", 10)

	req.NoError(err)
	req.Equal([]uuid.UUID{inConv1}, ids)
}

func TestBlugeIndex_NoMatch(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	conversationID := uuid.New()
	req.NoError(index.Index(Entry{MessageID: uuid.New(), ConversationID: conversationID, Content: "hello world"}))

	ids, err := index.Search(context.Background(), conversationID, "absent", 10)

	req.NoError(err)
	req.Empty(ids)
}

func TestBlugeIndex_ReindexSameMessage(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	ctx := context.Background()
	conversationID := uuid.New()
	messageID := uuid.New()

	req.NoError(index.Index(Entry{MessageID: messageID, ConversationID: conversationID, Content: "first version"}))
	req.NoError(index.Index(Entry{MessageID: messageID, ConversationID: conversationID, Content: "edited version"}))

	// The old content no longer matches, the new one does, with no duplicate
	ids, err := index.Search(ctx, conversationID, "first", 10)
	req.NoError(err)
	req.Empty(ids)

	ids, err = index.Search(ctx, conversationID, "edited", 10)
	req.NoError(err)
	req.Equal([]uuid.UUID{messageID}, ids)
}
