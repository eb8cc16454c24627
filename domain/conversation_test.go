package domain

import (
	"chat-core/errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewConversation(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	clara := uuid.New()

	t.Run("should create a one-to-one conversation with exactly 2 participants", func(t *testing.T) {
		req := require.New(t)

		conversation, err := NewConversation(OneToOne, []uuid.UUID{alice, bob})

		req.NoError(err)
		req.NotEqual(uuid.Nil, conversation.ID())
		req.Equal(OneToOne, conversation.Type())
		req.Len(conversation.Participants(), 2)
		req.True(conversation.HasParticipant(alice))
		req.True(conversation.HasParticipant(bob))
		req.Nil(conversation.LastMessageAt())
	})

	t.Run("should create a group conversation with any positive member count", func(t *testing.T) {
		req := require.New(t)

		conversation, err := NewConversation(Group, []uuid.UUID{alice, bob, clara})

		req.NoError(err)
		req.Len(conversation.Participants(), 3)
	})

	t.Run("should reject an empty participant list", func(t *testing.T) {
		req := require.New(t)

		_, err := NewConversation(Group, nil)

		req.Error(err)
		req.True(errors.IsValidation(err))
	})

	t.Run("should reject a one-to-one conversation without exactly 2 participants", func(t *testing.T) {
		req := require.New(t)

		_, err := NewConversation(OneToOne, []uuid.UUID{alice})
		req.True(errors.IsValidation(err))

		_, err = NewConversation(OneToOne, []uuid.UUID{alice, bob, clara})
		req.True(errors.IsValidation(err))
	})

	t.Run("should deduplicate participants before validating", func(t *testing.T) {
		req := require.New(t)

		// Alice twice collapses to one participant, so the pair rule fails
		_, err := NewConversation(OneToOne, []uuid.UUID{alice, alice})

		req.True(errors.IsValidation(err))
	})

	t.Run("should reject an unknown conversation type", func(t *testing.T) {
		req := require.New(t)

		_, err := NewConversation("BROADCAST", []uuid.UUID{alice, bob})

		req.True(errors.IsValidation(err))
	})
}

func TestConversation_Participants(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()

	t.Run("should add and remove participants on a group", func(t *testing.T) {
		req := require.New(t)
		conversation, err := NewConversation(Group, []uuid.UUID{alice})
		req.NoError(err)

		req.NoError(conversation.AddParticipant(bob))
		req.True(conversation.HasParticipant(bob))

		// Adding twice is idempotent
		req.NoError(conversation.AddParticipant(bob))
		req.Len(conversation.Participants(), 2)

		req.NoError(conversation.RemoveParticipant(bob))
		req.False(conversation.HasParticipant(bob))
	})

	t.Run("should refuse membership changes on a one-to-one", func(t *testing.T) {
		req := require.New(t)
		conversation, err := NewConversation(OneToOne, []uuid.UUID{alice, bob})
		req.NoError(err)

		req.ErrorIs(conversation.AddParticipant(uuid.New()), errors.ErrOneToOneImmutable)
		req.ErrorIs(conversation.RemoveParticipant(bob), errors.ErrOneToOneImmutable)
		req.Len(conversation.Participants(), 2)
	})

	t.Run("should return a copy so callers cannot mutate the set", func(t *testing.T) {
		req := require.New(t)
		conversation, err := NewConversation(Group, []uuid.UUID{alice, bob})
		req.NoError(err)

		participants := conversation.Participants()
		participants[0] = uuid.New()

		req.True(conversation.HasParticipant(alice))
		req.True(conversation.HasParticipant(bob))
	})
}

func TestConversation_UpdateLastMessageTime(t *testing.T) {
	req := require.New(t)
	conversation, err := NewConversation(Group, []uuid.UUID{uuid.New()})
	req.NoError(err)
	req.Nil(conversation.LastMessageAt())

	conversation.UpdateLastMessageTime()
	first := conversation.LastMessageAt()
	req.NotNil(first)

	conversation.UpdateLastMessageTime()
	second := conversation.LastMessageAt()
	req.NotNil(second)
	req.False(second.Before(*first))
}
