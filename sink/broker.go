// Package sink holds the event consumers wired behind the publisher.
package sink

import (
	"chat-core/domain/event"
	"context"
	"log/slog"
)

// MessageEventsTopic is the single outbound topic carrying all three
// lifecycle kinds.
const MessageEventsTopic = "message-events"

// BrokerSink is the outbound edge of the core. The broker client itself is
// out of scope, so this sink emits the exact record a broker adapter would
// send: topic, partition key and payload, as structured log fields.
type BrokerSink struct {
	log *slog.Logger
}

func NewBrokerSink(log *slog.Logger) BrokerSink {
	return BrokerSink{log: log}
}

func (b BrokerSink) Consume(_ context.Context, e event.DomainEvent) error {
	header := e.EventHeader()
	b.log.Info("Outbound event",
		"topic", MessageEventsTopic,
		"key", e.PartitionKey(),
		"kind", header.Kind,
		"event_id", header.EventID,
		"occurred_at", header.OccurredAt,
	)
	return nil
}
