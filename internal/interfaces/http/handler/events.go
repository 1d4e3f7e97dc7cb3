package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ecofoods/backend/internal/infrastructure/event"
	"github.com/ecofoods/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SSEMessage is one frame written to an event stream
type SSEMessage struct {
	Event string
	Data  string
	ID    string
}

// EventStreamHandler streams inventory refresh notifications over SSE
type EventStreamHandler struct {
	BaseHandler
	broadcaster *event.RefreshBroadcaster
	logger      *zap.Logger
	heartbeat   time.Duration
	maxClients  int
}

// EventStreamOption is a functional option for configuring the handler
type EventStreamOption func(*EventStreamHandler)

// WithStreamLogger sets the logger for the handler
func WithStreamLogger(logger *zap.Logger) EventStreamOption {
	return func(h *EventStreamHandler) {
		h.logger = logger
	}
}

// WithStreamHeartbeat sets the heartbeat interval
func WithStreamHeartbeat(interval time.Duration) EventStreamOption {
	return func(h *EventStreamHandler) {
		h.heartbeat = interval
	}
}

// WithStreamMaxClients caps concurrent subscribers; 0 means unlimited
func WithStreamMaxClients(max int) EventStreamOption {
	return func(h *EventStreamHandler) {
		h.maxClients = max
	}
}

// NewEventStreamHandler creates a new SSE handler fed by broadcaster
func NewEventStreamHandler(broadcaster *event.RefreshBroadcaster, opts ...EventStreamOption) *EventStreamHandler {
	h := &EventStreamHandler{
		broadcaster: broadcaster,
		logger:      zap.NewNop(),
		heartbeat:   30 * time.Second,
		maxClients:  1000,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Stream handles GET /events/stream. Every committed batch or production
// request change arrives as a "batch.updated" event; clients refetch.
func (h *EventStreamHandler) Stream(c *gin.Context) {
	if h.maxClients > 0 && h.broadcaster.ClientCount() >= h.maxClients {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeMaxConnections, "Maximum number of event stream connections reached")
		return
	}

	// The server write timeout would otherwise cut the stream
	rc := http.NewResponseController(c.Writer)
	_ = rc.SetWriteDeadline(time.Time{})

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	clientID, messages, cancel := h.broadcaster.Subscribe()
	defer cancel()

	h.logger.Info("Event stream client connected", zap.String("client_id", clientID))

	h.sendEvent(c.Writer, SSEMessage{
		Event: "connected",
		Data:  fmt.Sprintf(`{"clientId":"%s","timestamp":%d}`, clientID, time.Now().Unix()),
	})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	reqCtx := c.Request.Context()
	for {
		select {
		case <-reqCtx.Done():
			h.logger.Info("Event stream client disconnected", zap.String("client_id", clientID))
			return
		case <-ticker.C:
			h.sendEvent(c.Writer, SSEMessage{
				Event: "heartbeat",
				Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
			})
			c.Writer.Flush()
		case msg, ok := <-messages:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				h.logger.Error("Failed to marshal refresh message", zap.Error(err))
				continue
			}
			h.sendEvent(c.Writer, SSEMessage{
				Event: msg.Event,
				Data:  string(data),
				ID:    fmt.Sprintf("%d", msg.At.UnixNano()),
			})
			c.Writer.Flush()
		}
	}
}

// sendEvent writes an SSE frame
func (h *EventStreamHandler) sendEvent(w io.Writer, msg SSEMessage) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(w, "id: %s\n", msg.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}
