package presence

import (
	"chat-core/contract"
	"strings"
	"sync"
	"time"
)

// MemoryLeaseStore is an in-process contract.ILeaseStore. The clock is
// injected so tests can advance time instead of sleeping through TTLs.
type MemoryLeaseStore struct {
	mu    sync.Mutex
	clock contract.Clock
	// zero deadline means the key never expires
	deadlines map[string]time.Time
}

func NewMemoryLeaseStore(clock contract.Clock) *MemoryLeaseStore {
	if clock == nil {
		clock = contract.SystemClock{}
	}
	return &MemoryLeaseStore{clock: clock, deadlines: make(map[string]time.Time)}
}

func (s *MemoryLeaseStore) Put(key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ttl > 0 {
		s.deadlines[key] = s.clock.Now().Add(ttl)
	} else {
		s.deadlines[key] = time.Time{}
	}
	return nil
}

func (s *MemoryLeaseStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.deadlines, key)
	return nil
}

func (s *MemoryLeaseStore) Exists(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deadline, ok := s.deadlines[key]
	if !ok {
		return false, nil
	}
	if s.expired(deadline) {
		delete(s.deadlines, key)
		return false, nil
	}
	return true, nil
}

func (s *MemoryLeaseStore) Keys(prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for key, deadline := range s.deadlines {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if s.expired(deadline) {
			delete(s.deadlines, key)
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *MemoryLeaseStore) expired(deadline time.Time) bool {
	return !deadline.IsZero() && !s.clock.Now().Before(deadline)
}
