package domain

import (
	"chat-core/errors"
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	Text  MessageType = "TEXT"
	Image MessageType = "IMAGE"
	File  MessageType = "FILE"
	Audio MessageType = "AUDIO"
	Video MessageType = "VIDEO"
)

type MessageStatus string

// Delivery status only moves forward: SENT -> DELIVERED -> READ.
const (
	Sent      MessageStatus = "SENT"
	Delivered MessageStatus = "DELIVERED"
	Read      MessageStatus = "READ"
)

// Message is the delivery-status state machine of the core.
// Edits and attachments never touch the status.
type Message struct {
	id             uuid.UUID
	conversationID uuid.UUID
	senderID       uuid.UUID
	content        string
	mtype          MessageType
	status         MessageStatus
	attachments    []Attachment
	sentAt         time.Time
	deliveredAt    *time.Time
	readAt         *time.Time
	edited         bool
	editedAt       *time.Time
	deleted        bool
	deletedAt      *time.Time
}

func NewMessage(conversationID, senderID uuid.UUID, content string, mtype MessageType) (*Message, error) {
	if content == "" {
		return nil, errors.NewValidationError("content", "content cannot be empty")
	}
	switch mtype {
	case Text, Image, File, Audio, Video:
	default:
		return nil, errors.NewValidationError("type", "unknown message type")
	}
	return &Message{
		id:             uuid.New(),
		conversationID: conversationID,
		senderID:       senderID,
		content:        content,
		mtype:          mtype,
		status:         Sent,
		sentAt:         time.Now().UTC(),
	}, nil
}

// RestoreMessage rehydrates a message from persistence without validation.
func RestoreMessage(id, conversationID, senderID uuid.UUID, content string,
	mtype MessageType, status MessageStatus, attachments []Attachment,
	sentAt time.Time, deliveredAt, readAt *time.Time,
	edited bool, editedAt *time.Time, deleted bool, deletedAt *time.Time) *Message {
	return &Message{
		id:             id,
		conversationID: conversationID,
		senderID:       senderID,
		content:        content,
		mtype:          mtype,
		status:         status,
		attachments:    append([]Attachment(nil), attachments...),
		sentAt:         sentAt,
		deliveredAt:    deliveredAt,
		readAt:         readAt,
		edited:         edited,
		editedAt:       editedAt,
		deleted:        deleted,
		deletedAt:      deletedAt,
	}
}

func (m *Message) ID() uuid.UUID             { return m.id }
func (m *Message) ConversationID() uuid.UUID { return m.conversationID }
func (m *Message) SenderID() uuid.UUID       { return m.senderID }
func (m *Message) Content() string           { return m.content }
func (m *Message) Type() MessageType         { return m.mtype }
func (m *Message) Status() MessageStatus     { return m.status }
func (m *Message) SentAt() time.Time         { return m.sentAt }
func (m *Message) DeliveredAt() *time.Time   { return copyTime(m.deliveredAt) }
func (m *Message) ReadAt() *time.Time        { return copyTime(m.readAt) }
func (m *Message) Edited() bool              { return m.edited }
func (m *Message) EditedAt() *time.Time      { return copyTime(m.editedAt) }
func (m *Message) Deleted() bool             { return m.deleted }
func (m *Message) DeletedAt() *time.Time     { return copyTime(m.deletedAt) }

// Attachments returns a copy, never the owned collection.
func (m *Message) Attachments() []Attachment {
	return append([]Attachment(nil), m.attachments...)
}

// MarkAsDelivered is a no-op once the message is DELIVERED or READ.
func (m *Message) MarkAsDelivered() {
	if m.status != Sent {
		return
	}
	now := time.Now().UTC()
	m.status = Delivered
	m.deliveredAt = &now
}

// MarkAsRead compresses SENT -> READ in one hop: a client that reads
// immediately acknowledges delivery implicitly, so deliveredAt is set to
// readAt when no separate delivery acknowledgment happened.
func (m *Message) MarkAsRead() {
	if m.status == Read {
		return
	}
	now := time.Now().UTC()
	m.status = Read
	m.readAt = &now
	if m.deliveredAt == nil {
		m.deliveredAt = &now
	}
}

// EditContent replaces the content regardless of delivery status.
func (m *Message) EditContent(newContent string) error {
	if newContent == "" {
		return errors.NewValidationError("content", "content cannot be empty")
	}
	now := time.Now().UTC()
	m.content = newContent
	m.edited = true
	m.editedAt = &now
	return nil
}

// AddAttachment appends to the owned collection. Attachments created for
// another message are rejected.
func (m *Message) AddAttachment(a Attachment) error {
	if a.ID == uuid.Nil {
		return errors.NewValidationError("attachment", "attachment cannot be empty")
	}
	if a.MessageID != m.id {
		return errors.NewValidationError("attachment", "attachment belongs to a different message")
	}
	m.attachments = append(m.attachments, a)
	return nil
}

// Delete flags the message as deleted; the record itself is kept.
func (m *Message) Delete() {
	if m.deleted {
		return
	}
	now := time.Now().UTC()
	m.deleted = true
	m.deletedAt = &now
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
