package repositories

import (
	"time"

	"github.com/dgraph-io/badger/v4"
)

// LeaseStore implements contract.ILeaseStore on BadgerDB. Expiry rides on
// badger's native entry TTL, so a lease vanishes without any sweeper goroutine.
type LeaseStore struct {
	db *badger.DB
}

func NewLeaseStore(db *badger.DB) *LeaseStore {
	return &LeaseStore{db: db}
}

// Put writes the key, overwriting any existing lease. A ttl <= 0 stores the
// key without expiry (presence records work this way).
func (s *LeaseStore) Put(key string, ttl time.Duration) error {
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), []byte{1})
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

func (s *LeaseStore) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (s *LeaseStore) Exists(key string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *LeaseStore) Keys(prefix string) ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			keys = append(keys, string(it.Item().Key()))
		}
		return nil
	})
	return keys, err
}
