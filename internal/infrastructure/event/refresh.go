package event

import (
	"context"
	"sync"
	"time"

	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RefreshEventName is the SSE event name browsers listen for
const RefreshEventName = "batch.updated"

const clientBufferSize = 16

// RefreshMessage tells connected clients that batch views are stale
type RefreshMessage struct {
	Event       string    `json:"event"`
	Cause       string    `json:"cause"`
	AggregateID uuid.UUID `json:"aggregateId"`
	At          time.Time `json:"at"`
}

// RefreshBroadcaster fans inventory events out to stream subscribers.
// Slow subscribers miss messages rather than blocking publishers.
type RefreshBroadcaster struct {
	mu      sync.RWMutex
	clients map[string]chan RefreshMessage
	logger  *zap.Logger
}

// NewRefreshBroadcaster creates a broadcaster with no subscribers
func NewRefreshBroadcaster(logger *zap.Logger) *RefreshBroadcaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefreshBroadcaster{
		clients: make(map[string]chan RefreshMessage),
		logger:  logger,
	}
}

// EventTypes implements shared.EventHandler
func (b *RefreshBroadcaster) EventTypes() []string {
	return inventory.RefreshEventTypes()
}

// Handle implements shared.EventHandler
func (b *RefreshBroadcaster) Handle(_ context.Context, ev shared.DomainEvent) error {
	b.Broadcast(RefreshMessage{
		Event:       RefreshEventName,
		Cause:       ev.EventType(),
		AggregateID: ev.AggregateID(),
		At:          ev.OccurredAt(),
	})
	return nil
}

// Broadcast sends msg to every subscriber without blocking
func (b *RefreshBroadcaster) Broadcast(msg RefreshMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.clients {
		select {
		case ch <- msg:
		default:
			b.logger.Warn("Client channel full, dropping message", zap.String("client_id", id))
		}
	}
}

// Subscribe registers a new client. The returned cancel func must be called
// once; it unregisters the client and closes its channel.
func (b *RefreshBroadcaster) Subscribe() (string, <-chan RefreshMessage, func()) {
	id := uuid.NewString()
	ch := make(chan RefreshMessage, clientBufferSize)

	b.mu.Lock()
	b.clients[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return id, ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.clients, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// ClientCount returns the number of connected subscribers
func (b *RefreshBroadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

var _ shared.EventHandler = (*RefreshBroadcaster)(nil)
