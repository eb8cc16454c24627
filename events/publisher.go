//go:generate go run go.uber.org/mock/mockgen -source=publisher.go -destination=../mocks/mock_event_publisher.go -package=mocks
// Package events carries lifecycle events from the use cases to the
// registered sinks.
//
// Publication is fire-and-forget: the originating use case never waits for
// a sink, a full buffer drops the event with a log line, and a sink failure
// never rolls back the already-persisted domain state. Any at-least-once
// guarantee would need an outbox on top of this.
package events

import (
	"chat-core/contract"
	"chat-core/domain/event"
	"context"
	"log/slog"
)

type IEventPublisher interface {
	Publish(e event.DomainEvent)
}

// Publisher buffers events and fans them out to sinks from a single worker
// goroutine, preserving per-partition-key order within the process.
type Publisher struct {
	log    *slog.Logger
	queue  chan event.DomainEvent
	sinks  []contract.EventSink
	onDrop func()
}

func NewPublisher(log *slog.Logger, bufferSize int) *Publisher {
	return &Publisher{
		log:   log,
		queue: make(chan event.DomainEvent, bufferSize),
	}
}

func (p *Publisher) Add(sinks ...contract.EventSink) *Publisher {
	p.sinks = append(p.sinks, sinks...)
	return p
}

// OnDrop registers a callback invoked once per dropped event, so the
// owner can feed a dropped-events counter.
func (p *Publisher) OnDrop(fn func()) *Publisher {
	p.onDrop = fn
	return p
}

// Publish never blocks the caller. When the buffer is full the event is
// dropped and logged; the source-of-truth record has already been persisted.
func (p *Publisher) Publish(e event.DomainEvent) {
	select {
	case p.queue <- e:
	default:
		header := e.EventHeader()
		p.log.Warn("Event buffer full, dropping event",
			"kind", header.Kind, "event_id", header.EventID)
		if p.onDrop != nil {
			p.onDrop()
		}
	}
}

// Run drains the queue until the context is canceled. It implements
// contract.Worker so the supervisor restarts it after a panic.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case e := <-p.queue:
			p.fanout(ctx, e)
		case <-ctx.Done():
			return nil
		}
	}
}

// fanout delivers one event to every sink. Errors are logged, not retried.
func (p *Publisher) fanout(ctx context.Context, e event.DomainEvent) {
	for _, sink := range p.sinks {
		if err := sink.Consume(ctx, e); err != nil {
			header := e.EventHeader()
			p.log.Error("Sink failed to consume event",
				"kind", header.Kind, "event_id", header.EventID, "error", err)
		}
	}
}
