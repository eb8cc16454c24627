package e2e

import (
	"chat-core/domain"
	"chat-core/services"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type testMessagingSuite struct {
	BaseSuite
}

func TestMessagingSuite(t *testing.T) {
	suite.Run(t, &testMessagingSuite{})
}

// TestOneToOneExchange walks the nominal lifecycle of a direct message:
// conversation setup, presence and typing, send with moderation, read
// receipt, history, and the async read models fed by the publisher.
func (s *testMessagingSuite) TestOneToOneExchange() {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	var conversation services.ConversationDTO
	var message services.MessageDTO

	s.Step("Step 0: Alice opens a conversation with Bob")
	s.Run("Step 0", func() {
		var err error
		conversation, err = s.Chat.CreateConversation(ctx, services.CreateConversationCommand{
			Type:         domain.OneToOne,
			Participants: []uuid.UUID{alice, bob},
		})
		s.Require().NoError(err)
		s.Require().Len(conversation.Participants, 2)
		s.Require().Nil(conversation.LastMessageAt)
	})

	s.Step("Step 1: Alice comes online and starts typing")
	s.Run("Step 1", func() {
		s.Require().NoError(s.Tracker.SetOnline(alice))
		online, err := s.Tracker.IsOnline(alice)
		s.Require().NoError(err)
		s.Require().True(online)

		s.Require().NoError(s.Typing.StartTyping(alice, conversation.ID))
		typing, err := s.Typing.IsTyping(alice, conversation.ID)
		s.Require().NoError(err)
		s.Require().True(typing)
	})

	s.Step("Step 2: Alice sends a message, the censored word is masked")
	s.Run("Step 2", func() {
		var err error
		message, err = s.Chat.SendMessage(ctx, services.SendMessageCommand{
			ConversationID: conversation.ID,
			SenderID:       alice,
			Content:        "Hi Bob, watch out for the badger",
			Type:           domain.Text,
		})
		s.Require().NoError(err)
		s.Require().Equal(domain.Sent, message.Status)
		s.Require().Equal("Hi Bob, watch out for the ******", message.Content)
		s.Require().NoError(s.Typing.StopTyping(alice, conversation.ID))
	})

	s.Step("Step 3: Bob reads it, delivery is compressed into the read ack")
	s.Run("Step 3", func() {
		s.Require().NoError(s.Chat.MarkMessageAsRead(ctx, message.ID, bob))

		stored, err := s.Messages.FindByID(message.ID)
		s.Require().NoError(err)
		s.Require().Equal(domain.Read, stored.Status())
		s.Require().NotNil(stored.DeliveredAt())
		s.Require().NotNil(stored.ReadAt())
		s.Require().Equal(*stored.ReadAt(), *stored.DeliveredAt())
		s.Require().False(stored.SentAt().After(*stored.ReadAt()))
	})

	s.Step("Step 4: the history page shows the single exchanged message")
	s.Run("Step 4", func() {
		page, err := s.Chat.LoadHistory(ctx, services.LoadHistoryCommand{
			ConversationID: conversation.ID,
			CallerID:       bob,
			Page:           0,
			Size:           20,
		})
		s.Require().NoError(err)
		s.Require().Equal(1, page.TotalElements)
		s.Require().Len(page.Items, 1)
		s.Require().Equal(message.ID, page.Items[0].ID)
	})

	s.Step("Step 5: the async read models catch up")
	s.Run("Step 5", func() {
		// The publisher fans out on its own goroutine, poll until the
		// sinks observed the send
		s.Eventually(func() bool {
			entries := s.Timeline.Entries(conversation.ID)
			return len(entries) == 1 && entries[0].MessageID == message.ID
		}, 2*time.Second, 20*time.Millisecond)

		s.Eventually(func() bool {
			hits, err := s.Chat.SearchMessages(ctx, services.SearchMessagesCommand{
				ConversationID: conversation.ID,
				CallerID:       alice,
				Terms:          "Bob",
				Limit:          10,
			})
			return err == nil && len(hits) == 1 && hits[0].ID == message.ID
		}, 2*time.Second, 20*time.Millisecond)
	})

	s.Step("Step 6: Alice signs off")
	s.Run("Step 6", func() {
		s.Require().NoError(s.Tracker.SetOffline(alice))
		online, err := s.Tracker.IsOnline(alice)
		s.Require().NoError(err)
		s.Require().False(online)
	})
}

// TestOutsiderIsRejected checks the authorization wall end to end: a
// user outside the conversation can neither post nor read history.
func (s *testMessagingSuite) TestOutsiderIsRejected() {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()
	mallory := uuid.New()

	conversation, err := s.Chat.CreateConversation(ctx, services.CreateConversationCommand{
		Type:         domain.OneToOne,
		Participants: []uuid.UUID{alice, bob},
	})
	s.Require().NoError(err)

	_, err = s.Chat.SendMessage(ctx, services.SendMessageCommand{
		ConversationID: conversation.ID,
		SenderID:       mallory,
		Content:        "let me in",
		Type:           domain.Text,
	})
	s.Require().Error(err)

	_, err = s.Chat.LoadHistory(ctx, services.LoadHistoryCommand{
		ConversationID: conversation.ID,
		CallerID:       mallory,
		Page:           0,
		Size:           20,
	})
	s.Require().Error(err)

	// One-to-one membership is frozen, even for insiders
	err = s.Chat.AddParticipant(ctx, conversation.ID, alice, mallory)
	s.Require().Error(err)
}
