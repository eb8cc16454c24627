package sink

import (
	"chat-core/domain/event"
	"chat-core/observability"
	"context"
)

// MetricsSink feeds the lifecycle counters.
type MetricsSink struct {
	metrics *observability.MessageMetrics
}

func NewMetricsSink(metrics *observability.MessageMetrics) MetricsSink {
	return MetricsSink{metrics: metrics}
}

func (s MetricsSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch e.(type) {
	case event.MessageSent:
		s.metrics.IncrSent()
	case event.MessageDelivered:
		s.metrics.IncrDelivered()
	case event.MessageRead:
		s.metrics.IncrRead()
	}
	return nil
}
