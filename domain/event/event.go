// Package event defines the closed set of message lifecycle events.
// Events are immutable facts; they are emitted after the source-of-truth
// record is persisted, never before.
package event

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	MessageSentKind      Kind = "MessageSent"
	MessageDeliveredKind Kind = "MessageDelivered"
	MessageReadKind      Kind = "MessageRead"
)

// Header is shared by every event kind.
type Header struct {
	EventID    uuid.UUID
	OccurredAt time.Time
	Kind       Kind
}

func NewHeader(kind Kind) Header {
	return Header{
		EventID:    uuid.New(),
		OccurredAt: time.Now().UTC(),
		Kind:       kind,
	}
}

// DomainEvent is the closed variant over the three lifecycle kinds.
// PartitionKey is the broker routing key: the conversation id for every
// kind, so all lifecycle events of one conversation share an ordered stream.
type DomainEvent interface {
	EventHeader() Header
	PartitionKey() string
}

type MessageSent struct {
	Header
	MessageID      uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
	MessageType    string
	SentAt         time.Time
}

func (e MessageSent) EventHeader() Header  { return e.Header }
func (e MessageSent) PartitionKey() string { return e.ConversationID.String() }

type MessageDelivered struct {
	Header
	MessageID      uuid.UUID
	ConversationID uuid.UUID
	RecipientID    uuid.UUID
	DeliveredAt    time.Time
}

func (e MessageDelivered) EventHeader() Header  { return e.Header }
func (e MessageDelivered) PartitionKey() string { return e.ConversationID.String() }

type MessageRead struct {
	Header
	MessageID      uuid.UUID
	ConversationID uuid.UUID
	ReaderID       uuid.UUID
	ReadAt         time.Time
}

func (e MessageRead) EventHeader() Header  { return e.Header }
func (e MessageRead) PartitionKey() string { return e.ConversationID.String() }
