package streams

import (
	"sync"

	"download-analytics/internal/events"
	"download-analytics/internal/shared/loggers"
)

// RealtimePublisher broadcasts per-batch summaries to current subscribers.
// Delivery is fire-and-forget: a subscriber whose buffer is full misses the
// event (logged and counted, never retried), and no publish outcome ever
// affects persistence.
//
//go:generate mockgen -source=realtime_publisher.go -destination=./mocks/realtime_publisher_mock.go -package=mocks
type RealtimePublisher interface {
	Publish(event *events.BatchProcessedEvent)
	Subscribe(id string) <-chan *events.BatchProcessedEvent
	Unsubscribe(id string)
}

type hub struct {
	mu          sync.RWMutex
	subscribers map[string]chan *events.BatchProcessedEvent
	buffer      int
	logger      loggers.Logger
}

// NewHub creates a RealtimePublisher whose subscribers each get a channel
// buffered to buffer events.
func NewHub(buffer int, logger loggers.Logger) RealtimePublisher {
	return &hub{
		subscribers: make(map[string]chan *events.BatchProcessedEvent),
		buffer:      buffer,
		logger:      logger,
	}
}

// Subscribe registers a subscriber and returns its event channel. An
// existing subscription under the same id is replaced and its channel
// closed.
func (h *hub) Subscribe(id string) <-chan *events.BatchProcessedEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, exists := h.subscribers[id]; exists {
		close(old)
	}
	ch := make(chan *events.BatchProcessedEvent, h.buffer)
	h.subscribers[id] = ch
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (h *hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, exists := h.subscribers[id]; exists {
		close(ch)
		delete(h.subscribers, id)
	}
}

// Publish offers the event to every subscriber without blocking.
func (h *hub) Publish(event *events.BatchProcessedEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subscribers {
		select {
		case ch <- event:
			metricEventPublishedTotal.WithLabelValues(streamBatchProcessed).Inc()
		default:
			metricEventDroppedTotal.WithLabelValues(streamBatchProcessed).Inc()
			h.logger.Warn().
				Str("subscriber_id", id).
				Msg("subscriber buffer full, event dropped")
		}
	}
}
