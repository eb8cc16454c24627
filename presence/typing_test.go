package presence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestTypingCoordinator_StartStop(t *testing.T) {
	req := require.New(t)
	coordinator := NewTypingCoordinator(NewMemoryLeaseStore(newManualClock()), DefaultTypingTTL)
	alice := uuid.New()
	conversation := uuid.New()

	typing, err := coordinator.IsTyping(alice, conversation)
	req.NoError(err)
	req.False(typing)

	req.NoError(coordinator.StartTyping(alice, conversation))
	typing, err = coordinator.IsTyping(alice, conversation)
	req.NoError(err)
	req.True(typing)

	req.NoError(coordinator.StopTyping(alice, conversation))
	typing, err = coordinator.IsTyping(alice, conversation)
	req.NoError(err)
	req.False(typing)
}

func TestTypingCoordinator_LeaseExpires(t *testing.T) {
	req := require.New(t)
	clock := newManualClock()
	coordinator := NewTypingCoordinator(NewMemoryLeaseStore(clock), 5*time.Second)
	alice := uuid.New()
	conversation := uuid.New()

	req.NoError(coordinator.StartTyping(alice, conversation))

	clock.Advance(4 * time.Second)
	typing, err := coordinator.IsTyping(alice, conversation)
	req.NoError(err)
	req.True(typing)

	clock.Advance(2 * time.Second)
	typing, err = coordinator.IsTyping(alice, conversation)
	req.NoError(err)
	req.False(typing)
}

func TestTypingCoordinator_RefreshExtendsLease(t *testing.T) {
	req := require.New(t)
	clock := newManualClock()
	coordinator := NewTypingCoordinator(NewMemoryLeaseStore(clock), 5*time.Second)
	alice := uuid.New()
	conversation := uuid.New()

	req.NoError(coordinator.StartTyping(alice, conversation))
	clock.Advance(4 * time.Second)

	// Refresh restarts the 5s window
	req.NoError(coordinator.StartTyping(alice, conversation))
	clock.Advance(4 * time.Second)

	typing, err := coordinator.IsTyping(alice, conversation)
	req.NoError(err)
	req.True(typing)
}

func TestTypingCoordinator_ScopedPerConversationAndUser(t *testing.T) {
	req := require.New(t)
	coordinator := NewTypingCoordinator(NewMemoryLeaseStore(newManualClock()), DefaultTypingTTL)
	alice := uuid.New()
	bob := uuid.New()
	conv1 := uuid.New()
	conv2 := uuid.New()

	req.NoError(coordinator.StartTyping(alice, conv1))

	typing, err := coordinator.IsTyping(alice, conv2)
	req.NoError(err)
	req.False(typing)

	typing, err = coordinator.IsTyping(bob, conv1)
	req.NoError(err)
	req.False(typing)
}

func TestTypingCoordinator_ActiveCount(t *testing.T) {
	req := require.New(t)
	clock := newManualClock()
	store := NewMemoryLeaseStore(clock)
	coordinator := NewTypingCoordinator(store, 5*time.Second)
	conversation := uuid.New()

	count, err := coordinator.ActiveCount()
	req.NoError(err)
	req.Zero(count)

	req.NoError(coordinator.StartTyping(uuid.New(), conversation))
	req.NoError(coordinator.StartTyping(uuid.New(), conversation))

	// An online presence key must not inflate the typing count
	req.NoError(NewTracker(store).SetOnline(uuid.New()))

	count, err = coordinator.ActiveCount()
	req.NoError(err)
	req.Equal(2, count)

	clock.Advance(6 * time.Second)
	count, err = coordinator.ActiveCount()
	req.NoError(err)
	req.Zero(count)
}

func TestTypingCoordinator_DefaultTTLFallback(t *testing.T) {
	req := require.New(t)
	clock := newManualClock()
	// A non-positive ttl falls back to the default
	coordinator := NewTypingCoordinator(NewMemoryLeaseStore(clock), 0)
	alice := uuid.New()
	conversation := uuid.New()

	req.NoError(coordinator.StartTyping(alice, conversation))
	clock.Advance(DefaultTypingTTL + time.Second)

	typing, err := coordinator.IsTyping(alice, conversation)
	req.NoError(err)
	req.False(typing)
}
