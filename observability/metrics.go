// Package observability collects runtime telemetry for the messaging core.
package observability

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"
)

// MetricsSnapshot aggregates the counters for logging or a debug endpoint.
type MetricsSnapshot struct {
	MessagesSent      uint64 `json:"messages_sent"`
	MessagesDelivered uint64 `json:"messages_delivered"`
	MessagesRead      uint64 `json:"messages_read"`
	EventsDropped     uint64 `json:"events_dropped"`
	AllocMemMb        uint64 `json:"alloc_mem_mb"`
	NumGC             uint32 `json:"num_gc"`
}

// MessageMetrics tracks message lifecycle counters with atomics; no locking
// on the hot path.
type MessageMetrics struct {
	log       *slog.Logger
	sent      uint64
	delivered uint64
	read      uint64
	dropped   uint64
}

func NewMessageMetrics(log *slog.Logger) *MessageMetrics {
	return &MessageMetrics{log: log}
}

func (m *MessageMetrics) IncrSent()      { atomic.AddUint64(&m.sent, 1) }
func (m *MessageMetrics) IncrDelivered() { atomic.AddUint64(&m.delivered, 1) }
func (m *MessageMetrics) IncrRead()      { atomic.AddUint64(&m.read, 1) }
func (m *MessageMetrics) IncrDropped()   { atomic.AddUint64(&m.dropped, 1) }

func (m *MessageMetrics) Snapshot() MetricsSnapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return MetricsSnapshot{
		MessagesSent:      atomic.LoadUint64(&m.sent),
		MessagesDelivered: atomic.LoadUint64(&m.delivered),
		MessagesRead:      atomic.LoadUint64(&m.read),
		EventsDropped:     atomic.LoadUint64(&m.dropped),
		AllocMemMb:        ms.Alloc / 1024 / 1024,
		NumGC:             ms.NumGC,
	}
}

// MetricsListener periodically logs a snapshot. Implements contract.Worker.
type MetricsListener struct {
	log      *slog.Logger
	metrics  *MessageMetrics
	interval time.Duration
}

func NewMetricsListener(log *slog.Logger, metrics *MessageMetrics, interval time.Duration) *MetricsListener {
	return &MetricsListener{log: log, metrics: metrics, interval: interval}
}

func (l *MetricsListener) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snapshot := l.metrics.Snapshot()
			l.log.Info("Message metrics",
				"sent", snapshot.MessagesSent,
				"delivered", snapshot.MessagesDelivered,
				"read", snapshot.MessagesRead,
				"dropped", snapshot.EventsDropped,
				"mem_mb", snapshot.AllocMemMb,
				"num_gc", snapshot.NumGC,
			)
		}
	}
}
