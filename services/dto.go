package services

import (
	"chat-core/domain"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// DTOs are the projections returned to callers; they never expose live
// aggregate state.

type ConversationDTO struct {
	ID            uuid.UUID               `json:"id"`
	Type          domain.ConversationType `json:"type"`
	Participants  []uuid.UUID             `json:"participants"`
	CreatedAt     time.Time               `json:"created_at"`
	LastMessageAt *time.Time              `json:"last_message_at,omitempty"`
}

type AttachmentDTO struct {
	ID         uuid.UUID `json:"id"`
	MessageID  uuid.UUID `json:"message_id"`
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	StorageURL string    `json:"storage_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type MessageDTO struct {
	ID             uuid.UUID            `json:"id"`
	ConversationID uuid.UUID            `json:"conversation_id"`
	SenderID       uuid.UUID            `json:"sender_id"`
	Content        string               `json:"content"`
	Type           domain.MessageType   `json:"type"`
	Status         domain.MessageStatus `json:"status"`
	Attachments    []AttachmentDTO      `json:"attachments,omitempty"`
	SentAt         time.Time            `json:"sent_at"`
	DeliveredAt    *time.Time           `json:"delivered_at,omitempty"`
	ReadAt         *time.Time           `json:"read_at,omitempty"`
	Edited         bool                 `json:"edited"`
	EditedAt       *time.Time           `json:"edited_at,omitempty"`
}

func toConversationDTO(c *domain.Conversation) ConversationDTO {
	return ConversationDTO{
		ID:            c.ID(),
		Type:          c.Type(),
		Participants:  c.Participants(),
		CreatedAt:     c.CreatedAt(),
		LastMessageAt: c.LastMessageAt(),
	}
}

func toMessageDTO(m *domain.Message) MessageDTO {
	return MessageDTO{
		ID:             m.ID(),
		ConversationID: m.ConversationID(),
		SenderID:       m.SenderID(),
		Content:        m.Content(),
		Type:           m.Type(),
		Status:         m.Status(),
		Attachments: lo.Map(m.Attachments(), func(a domain.Attachment, _ int) AttachmentDTO {
			return AttachmentDTO{
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
	}
}
