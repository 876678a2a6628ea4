package http

import (
	"log/slog"
	"sync"

	"github.com/aretw0/recipe-decider/internal/logging"
	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/aretw0/recipe-decider/pkg/metrics"
	"github.com/aretw0/recipe-decider/pkg/protocol"
)

// DefaultStreamBuffer is the per-subscriber queue length.
const DefaultStreamBuffer = 10

// StreamManager handles active SSE connections and implements ports.EventPublisher.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan string]string // channel -> client label
	logger      *slog.Logger
	metrics     *metrics.Server
}

// NewStreamManager creates an empty manager.
func NewStreamManager(logger *slog.Logger, m *metrics.Server) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[chan string]string),
		logger:      logger,
		metrics:     m,
	}
}

// Subscribe registers a client. The returned cancel func closes the channel.
func (sm *StreamManager) Subscribe(client string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, DefaultStreamBuffer)
	sm.subscribers[ch] = client
	sm.metrics.SubscriberJoined()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
			sm.metrics.SubscriberLeft()
		})
	}
}

// Len returns the number of connected clients.
func (sm *StreamManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast sends msg to every subscriber, dropping it for slow clients.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.logger.Debug("StreamManager: Broadcasting", "subscribers", len(sm.subscribers), "payload_size", len(msg))

	for ch, client := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Slow client: it will catch up on its next reconciling read.
			sm.logger.Warn("SSE: Client buffer full, dropping message", "client", client)
		}
	}
}

// Publish encodes ev in its wire form and broadcasts it.
func (sm *StreamManager) Publish(ev domain.Event) {
	data, err := protocol.EncodePush(ev)
	if err != nil {
		sm.logger.Error("failed to encode push event", "kind", ev.Kind(), "error", err)
		return
	}
	sm.Broadcast(string(data))
}
