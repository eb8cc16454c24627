//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"chat-core/domain"
	"chat-core/errors"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IConversationRepository interface {
	Save(conversation *domain.Conversation) error
	FindByID(id uuid.UUID) (*domain.Conversation, error)
	Delete(id uuid.UUID) error
}

type ConversationRepository struct {
	db *badger.DB
}

func NewConversationRepository(db *badger.DB) IConversationRepository {
	return &ConversationRepository{db: db}
}

// ConversationRecord is the persisted shape of a conversation.
type ConversationRecord struct {
	ID            uuid.UUID               `json:"id"`
	Type          domain.ConversationType `json:"type"`
	Participants  []uuid.UUID             `json:"participants"`
	CreatedAt     time.Time               `json:"created_at"`
	LastMessageAt *time.Time              `json:"last_message_at,omitempty"`
}

func (r *ConversationRepository) Save(conversation *domain.Conversation) error {
	record := ConversationRecord{
		ID:            conversation.ID(),
		Type:          conversation.Type(),
		Participants:  conversation.Participants(),
		CreatedAt:     conversation.CreatedAt(),
		LastMessageAt: conversation.LastMessageAt(),
	}
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(conversationKey(record.ID), value)
	})
}

func (r *ConversationRepository) FindByID(id uuid.UUID) (*domain.Conversation, error) {
	var record ConversationRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(conversationKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return domain.RestoreConversation(record.ID, record.Type, record.Participants,
		record.CreatedAt, record.LastMessageAt), nil
}

func (r *ConversationRepository) Delete(id uuid.UUID) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(conversationKey(id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrConversationNotFound
	}
	return err
}

func conversationKey(id uuid.UUID) []byte {
	return []byte("conv:" + id.String())
}
