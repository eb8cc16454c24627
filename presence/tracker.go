// Package presence coordinates online/offline membership and typing leases
// over an ephemeral key store. Both operate independently of message flow.
package presence

import (
	"chat-core/contract"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const onlinePrefix = "presence:online:"

// Tracker collapses all of a user's sessions into one boolean flag: a user
// is online if any session toggled them online. Records carry no TTL, so a
// stale flag from an ungraceful disconnect stays until an explicit offline.
type Tracker struct {
	store contract.ILeaseStore
}

func NewTracker(store contract.ILeaseStore) *Tracker {
	return &Tracker{store: store}
}

func (t *Tracker) SetOnline(userID uuid.UUID) error {
	return t.store.Put(onlineKey(userID), 0)
}

func (t *Tracker) SetOffline(userID uuid.UUID) error {
	return t.store.Delete(onlineKey(userID))
}

func (t *Tracker) IsOnline(userID uuid.UUID) (bool, error) {
	return t.store.Exists(onlineKey(userID))
}

// OnlineUsers snapshots the full online set.
func (t *Tracker) OnlineUsers() ([]uuid.UUID, error) {
	keys, err := t.store.Keys(onlinePrefix)
	if err != nil {
		return nil, err
	}
	return lo.FilterMap(keys, func(key string, _ int) (uuid.UUID, bool) {
		id, err := uuid.Parse(strings.TrimPrefix(key, onlinePrefix))
		return id, err == nil
	}), nil
}

func onlineKey(userID uuid.UUID) string {
	return onlinePrefix + userID.String()
}
