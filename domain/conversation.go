// Package domain contains the aggregates of the messaging core.
// Invariants are enforced here and nowhere else; no storage, transport
// or UI logic should be added to this package.
package domain

import (
	"chat-core/errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

type ConversationType string

const (
	OneToOne ConversationType = "ONE_TO_ONE"
	Group    ConversationType = "GROUP"
)

// Conversation owns its participant set. Messages reference a conversation
// by id only.
type Conversation struct {
	id            uuid.UUID
	ctype         ConversationType
	participants  map[uuid.UUID]struct{}
	createdAt     time.Time
	lastMessageAt *time.Time
}

// NewConversation creates a conversation and validates the participant set:
// never empty, and exactly 2 for one-to-one.
func NewConversation(ctype ConversationType, participants []uuid.UUID) (*Conversation, error) {
	set := make(map[uuid.UUID]struct{}, len(participants))
	for _, p := range participants {
		set[p] = struct{}{}
	}
	if len(set) == 0 {
		return nil, errors.NewValidationError("participants", "conversation must have at least one participant")
	}
	if ctype == OneToOne && len(set) != 2 {
		return nil, errors.NewValidationError("participants", "one-to-one conversation must have exactly 2 participants")
	}
	if ctype != OneToOne && ctype != Group {
		return nil, errors.NewValidationError("type", "unknown conversation type")
	}
	return &Conversation{
		id:           uuid.New(),
		ctype:        ctype,
		participants: set,
		createdAt:    time.Now().UTC(),
	}, nil
}

// RestoreConversation rehydrates a conversation from persistence.
// Invariants were checked at creation time and are not re-validated.
func RestoreConversation(id uuid.UUID, ctype ConversationType, participants []uuid.UUID,
	createdAt time.Time, lastMessageAt *time.Time) *Conversation {
	set := make(map[uuid.UUID]struct{}, len(participants))
	for _, p := range participants {
		set[p] = struct{}{}
	}
	return &Conversation{
		id:            id,
		ctype:         ctype,
		participants:  set,
		createdAt:     createdAt,
		lastMessageAt: lastMessageAt,
	}
}

func (c *Conversation) ID() uuid.UUID          { return c.id }
func (c *Conversation) Type() ConversationType { return c.ctype }
func (c *Conversation) CreatedAt() time.Time   { return c.createdAt }

// LastMessageAt is nil until the first message is sent.
func (c *Conversation) LastMessageAt() *time.Time {
	if c.lastMessageAt == nil {
		return nil
	}
	t := *c.lastMessageAt
	return &t
}

// Participants returns a sorted copy, never the internal set.
func (c *Conversation) Participants() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(c.participants))
	for p := range c.participants {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	_, ok := c.participants[userID]
	return ok
}

// AddParticipant is idempotent for groups and illegal on one-to-one.
func (c *Conversation) AddParticipant(userID uuid.UUID) error {
	if c.ctype == OneToOne {
		return errors.ErrOneToOneImmutable
	}
	c.participants[userID] = struct{}{}
	return nil
}

func (c *Conversation) RemoveParticipant(userID uuid.UUID) error {
	if c.ctype == OneToOne {
		return errors.ErrOneToOneImmutable
	}
	delete(c.participants, userID)
	return nil
}

// UpdateLastMessageTime is called exactly once per successful send.
func (c *Conversation) UpdateLastMessageTime() {
	now := time.Now().UTC()
	c.lastMessageAt = &now
}
