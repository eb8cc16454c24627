package e2e

import (
	"chat-core/events"
	"chat-core/moderation"
	"chat-core/presence"
	"chat-core/projection"
	"chat-core/repositories"
	"chat-core/search"
	"chat-core/services"
	"chat-core/sink"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

// BaseSuite wires the full in-process stack the way cmd/server does:
// real badger, real bluge, real moderator, async publisher with its sinks.
type BaseSuite struct {
	suite.Suite
	Config Config

	Chat     services.IChatService
	Tracker  *presence.Tracker
	Typing   *presence.TypingCoordinator
	Timeline *projection.Timeline
	Messages repositories.IMessageRepository

	cancel context.CancelFunc
	db     *badger.DB
	index  *search.BlugeIndex
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

// SetupTest builds a fresh stack on throwaway storage for every test.
func (s *BaseSuite) SetupTest() {
	log := slog.Default()

	db, err := badger.Open(badger.DefaultOptions(s.T().TempDir()).WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	s.db = db

	index, err := search.NewBlugeIndex(s.T().TempDir())
	s.Require().NoError(err)
	s.index = index

	moderator, err := moderation.NewModerator([]string{"badger"}, '*')
	s.Require().NoError(err)

	conversations := repositories.NewConversationRepository(db)
	s.Messages = repositories.NewMessageRepository(db, log)
	leases := repositories.NewLeaseStore(db)
	s.Tracker = presence.NewTracker(leases)
	s.Typing = presence.NewTypingCoordinator(leases, presence.DefaultTypingTTL)
	s.Timeline = projection.NewTimeline()

	publisher := events.NewPublisher(log, s.Config.EventBuffer).Add(
		sink.NewBrokerSink(log),
		sink.NewSearchSink(index),
		s.Timeline,
	)
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go func() { _ = publisher.Run(ctx) }()

	s.Chat = services.NewChatService(conversations, s.Messages, publisher, moderator, index)
}

func (s *BaseSuite) TearDownTest() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.index != nil {
		s.Require().NoError(s.index.Close())
	}
	if s.db != nil {
		s.Require().NoError(s.db.Close())
	}
}

// Step prints a colorized scenario header in the test log.
func (s *BaseSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}
