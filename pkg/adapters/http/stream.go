package http

import (
	"log/slog"
	"sync"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/google/uuid"
)

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]chan *domain.StateDiff
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]chan *domain.StateDiff),
		logger:      logger,
	}
}

// Subscribe registers a new stream and returns its ID, channel and cancel function.
func (sm *StreamManager) Subscribe() (string, <-chan *domain.StateDiff, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan *domain.StateDiff, 10)
	sm.subscribers[id] = ch

	return id, ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[id]; ok {
			delete(sm.subscribers, id)
			close(ch)
		}
	}
}

// Broadcast sends a diff to every stream without blocking.
func (sm *StreamManager) Broadcast(diff *domain.StateDiff) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for id, ch := range sm.subscribers {
		select {
		case ch <- diff:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "stream_id", id)
		}
	}
}

// CloseAll ends every open stream. Handlers waiting on a stream return.
func (sm *StreamManager) CloseAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for id, ch := range sm.subscribers {
		delete(sm.subscribers, id)
		close(ch)
	}
}

// Len returns the number of open streams.
func (sm *StreamManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}
