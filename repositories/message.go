//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"chat-core/domain"
	"chat-core/errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	Save(message *domain.Message) error
	FindByID(id uuid.UUID) (*domain.Message, error)
	FindByConversation(conversationID uuid.UUID, page, size int) (Page[*domain.Message], error)
	Delete(id uuid.UUID) error
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) IMessageRepository {
	return &MessageRepository{db: db, log: log}
}

// AttachmentRecord is the persisted shape of an attachment.
type AttachmentRecord struct {
	ID         uuid.UUID `json:"id"`
	MessageID  uuid.UUID `json:"message_id"`
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	StorageURL string    `json:"storage_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// MessageRecord is the persisted shape of a message.
type MessageRecord struct {
	ID             uuid.UUID            `json:"id"`
	ConversationID uuid.UUID            `json:"conversation_id"`
	SenderID       uuid.UUID            `json:"sender_id"`
	Content        string               `json:"content"`
	Type           domain.MessageType   `json:"type"`
	Status         domain.MessageStatus `json:"status"`
	Attachments    []AttachmentRecord   `json:"attachments,omitempty"`
	SentAt         time.Time            `json:"sent_at"`
	DeliveredAt    *time.Time           `json:"delivered_at,omitempty"`
	ReadAt         *time.Time           `json:"read_at,omitempty"`
	Edited         bool                 `json:"edited"`
	EditedAt       *time.Time           `json:"edited_at,omitempty"`
	Deleted        bool                 `json:"deleted"`
	DeletedAt      *time.Time           `json:"deleted_at,omitempty"`
}

// Save persists a message in BadgerDB.
// The primary key is "msg:{conversation_id}:{timestamp_padded}:{message_id}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using the message id as a collision disconnector if
//     two messages arrive at the same nanosecond.
//
// A secondary index "msgix:{message_id}" points to the primary key for point
// lookups. The primary key is stable across updates because sentAt is immutable.
func (r *MessageRepository) Save(message *domain.Message) error {
	record := toMessageRecord(message)
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	key := messageKey(record)
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, value); err != nil {
			return err
		}
		return txn.Set(indexKey(record.ID), key)
	})
}

func (r *MessageRepository) FindByID(id uuid.UUID) (*domain.Message, error) {
	var record MessageRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(indexKey(id))
		if err != nil {
			return err
		}
		var primary []byte
		if err := item.Value(func(val []byte) error {
			primary = append([]byte(nil), val...)
			return nil
		}); err != nil {
			return err
		}
		item, err = txn.Get(primary)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromMessageRecord(record), nil
}

// FindByConversation returns one zero-based page of the conversation history,
// ordered by sentAt descending. Thanks to the padded timestamp in the key a
// reverse prefix scan yields newest-first without sorting in memory.
// Soft-deleted messages are skipped and excluded from totals.
func (r *MessageRepository) FindByConversation(conversationID uuid.UUID, page, size int) (Page[*domain.Message], error) {
	if page < 0 || size <= 0 {
		return Page[*domain.Message]{}, errors.NewValidationError("page", "page must be >= 0 and size > 0")
	}

	var records []MessageRecord
	total := 0
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("msg:%s:", conversationID))
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible key of the prefix, then walk back.
		seekKey := append(append([]byte(nil), prefix...), []byte("9999999999999999999")...)
		skip := page * size

		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			var record MessageRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			if record.Deleted {
				continue
			}
			if total >= skip && len(records) < size {
				records = append(records, record)
			}
			total++
		}
		return nil
	})
	if err != nil {
		return Page[*domain.Message]{}, err
	}

	messages := lo.Map(records, func(record MessageRecord, _ int) *domain.Message {
		return fromMessageRecord(record)
	})
	return NewPage(messages, page, size, total), nil
}

// Delete soft-deletes: the record stays on disk with deleted/deletedAt set
// and disappears from history scans.
func (r *MessageRepository) Delete(id uuid.UUID) error {
	message, err := r.FindByID(id)
	if err != nil {
		return err
	}
	message.Delete()
	r.log.Debug("Message soft-deleted", "message_id", id)
	return r.Save(message)
}

func messageKey(record MessageRecord) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s",
		record.ConversationID,
		record.SentAt.UnixNano(),
		record.ID,
	))
}

func indexKey(id uuid.UUID) []byte {
	return []byte("msgix:" + id.String())
}

func toMessageRecord(m *domain.Message) MessageRecord {
	return MessageRecord{
		ID:             m.ID(),
		ConversationID: m.ConversationID(),
		SenderID:       m.SenderID(),
		Content:        m.Content(),
		Type:           m.Type(),
		Status:         m.Status(),
		Attachments: lo.Map(m.Attachments(), func(a domain.Attachment, _ int) AttachmentRecord {
			return AttachmentRecord{
				ID:         a.ID,
				MessageID:  a.MessageID,
				FileName:   a.FileName,
				FileType:   a.FileType,
				FileSize:   a.FileSize,
				StorageURL: a.StorageURL,
				UploadedAt: a.UploadedAt,
			}
		}),
		SentAt:      m.SentAt(),
		DeliveredAt: m.DeliveredAt(),
		ReadAt:      m.ReadAt(),
		Edited:      m.Edited(),
		EditedAt:    m.EditedAt(),
		Deleted:     m.Deleted(),
		DeletedAt:   m.DeletedAt(),
	}
}

func fromMessageRecord(record MessageRecord) *domain.Message {
	attachments := lo.Map(record.Attachments, func(a AttachmentRecord, _ int) domain.Attachment {
		return domain.Attachment{
			ID:         a.ID,
			MessageID:  a.MessageID,
			FileName:   a.FileName,
			FileType:   a.FileType,
			FileSize:   a.FileSize,
			StorageURL: a.StorageURL,
			UploadedAt: a.UploadedAt,
		}
	})
	return domain.RestoreMessage(record.ID, record.ConversationID, record.SenderID,
		record.Content, record.Type, record.Status, attachments,
		record.SentAt, record.DeliveredAt, record.ReadAt,
		record.Edited, record.EditedAt, record.Deleted, record.DeletedAt)
}
