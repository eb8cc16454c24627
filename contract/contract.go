//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-core/domain/event"
	"context"
	"reflect"
	"time"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging and supervision, avoiding the need for manual naming
// in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink consumes message lifecycle events fanned out by the publisher.
// Sink errors are logged by the fanout worker and never reach the use case
// that produced the event.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// ILeaseStore is the ephemeral key store behind presence and typing state.
// A ttl <= 0 stores the key without expiry. Absence of a key, whether by
// expiry or deletion, carries the same meaning for callers.
type ILeaseStore interface {
	Put(key string, ttl time.Duration) error
	Delete(key string) error
	Exists(key string) (bool, error)
	Keys(prefix string) ([]string, error)
}

// Clock abstracts wall time so lease expiry can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
