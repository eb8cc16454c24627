//go:generate go run go.uber.org/mock/mockgen -source=index.go -destination=../mocks/mock_message_index.go -package=mocks
// Package search maintains a full-text index over sent messages.
package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/abadojack/whatlanggo"
	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

// Entry is the indexable view of a message.
type Entry struct {
	MessageID      uuid.UUID
	ConversationID uuid.UUID
	Content        string
}

type IMessageIndex interface {
	Index(entry Entry) error
	Search(ctx context.Context, conversationID uuid.UUID, terms string, limit int) ([]uuid.UUID, error)
	Close() error
}

// BlugeIndex indexes message content with a detected-language keyword so
// future per-language analyzers can filter without re-detection.
type BlugeIndex struct {
	mu     sync.Mutex
	writer *bluge.Writer
}

func NewBlugeIndex(path string) (*BlugeIndex, error) {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	return &BlugeIndex{writer: writer}, nil
}

func (i *BlugeIndex) Index(entry Entry) error {
	info := whatlanggo.Detect(entry.Content)

	doc := bluge.NewDocument(entry.MessageID.String())
	doc.AddField(bluge.NewKeywordField("conversation_id", entry.ConversationID.String()))
	doc.AddField(bluge.NewTextField("content", entry.Content).StoreValue())
	doc.AddField(bluge.NewKeywordField("lang", whatlanggo.LangToString(info.Lang)))

	i.mu.Lock()
	defer i.mu.Unlock()
	return i.writer.Update(doc.ID(), doc)
}

// Search returns the ids of the best-matching messages of one conversation.
func (i *BlugeIndex) Search(ctx context.Context, conversationID uuid.UUID, terms string, limit int) ([]uuid.UUID, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(conversationID.String()).SetField("conversation_id")).
		AddMust(bluge.NewMatchQuery(terms).SetField("content"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				if id, parseErr := uuid.Parse(string(value)); parseErr == nil {
					ids = append(ids, id)
				}
			}
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (i *BlugeIndex) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.writer.Close()
}
