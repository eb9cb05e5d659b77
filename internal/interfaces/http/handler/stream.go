package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hotel/backend/internal/infrastructure/logger"
	"github.com/hotel/backend/internal/infrastructure/store"
	"github.com/hotel/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsReadLimit  = 4096
	defaultBeat  = 30 * time.Second
	sseEventSnap = "snapshot"
)

// StreamableCollections are the collections clients may subscribe to
var StreamableCollections = []string{
	store.CollectionInventory,
	store.CollectionPurchaseOrders,
	store.CollectionSuppliers,
	store.CollectionMenu,
	store.CollectionBudgets,
	store.CollectionActivityLogs,
}

// Subscriber delivers collection snapshots
type Subscriber interface {
	Subscribe(ctx context.Context, collection string, fn func(store.Snapshot)) (store.Subscription, error)
}

// SSEMessage is one server-sent event
type SSEMessage struct {
	Event string `json:"event"`
	Data  string `json:"data"`
	ID    string `json:"id,omitempty"`
}

// SnapshotMessage is the payload pushed to stream clients on every change
type SnapshotMessage struct {
	Collection string                     `json:"collection"`
	Documents  map[string]json.RawMessage `json:"documents"`
	Error      string                     `json:"error,omitempty"`
	Sequence   uint64                     `json:"sequence"`
	Timestamp  int64                      `json:"timestamp"`
}

// StreamHandler pushes live collection snapshots over SSE and WebSocket
type StreamHandler struct {
	BaseHandler
	subscriber Subscriber
	upgrader   websocket.Upgrader
	heartbeat  time.Duration
	clients    atomic.Int64
	done       chan struct{}
	closeOnce  sync.Once
}

// StreamOption configures a StreamHandler
type StreamOption func(*StreamHandler)

// WithStreamHeartbeat sets the keep-alive interval
func WithStreamHeartbeat(interval time.Duration) StreamOption {
	return func(h *StreamHandler) {
		if interval > 0 {
			h.heartbeat = interval
		}
	}
}

// WithAllowedOrigins restricts WebSocket upgrades to the given origins.
// "*" allows any origin. Requests without an Origin header are accepted.
func WithAllowedOrigins(origins []string) StreamOption {
	return func(h *StreamHandler) {
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(origins, "*") || slices.Contains(origins, origin)
		}
	}
}

// NewStreamHandler creates a new StreamHandler
func NewStreamHandler(subscriber Subscriber, opts ...StreamOption) *StreamHandler {
	h := &StreamHandler{
		subscriber: subscriber,
		heartbeat:  defaultBeat,
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ClientCount returns the number of connected stream clients
func (h *StreamHandler) ClientCount() int {
	return int(h.clients.Load())
}

// Close ends every open stream. WebSocket clients receive a going-away
// close frame.
func (h *StreamHandler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// SSE godoc
// @Summary      Subscribe to a collection via Server-Sent Events
// @Description  Sends the full collection on connect and after every change, plus periodic heartbeats.
// @Description  The access token may be passed as ?access_token= when headers cannot be set.
// @Tags         stream
// @Produce      text/event-stream
// @Param        collection path string true "Collection" Enums(inventory, purchaseOrders, suppliers, menu, budgets, activityLogs)
// @Success      200 {string} string "SSE stream"
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stream/{collection} [get]
func (h *StreamHandler) SSE(c *gin.Context) {
	collection, ok := h.collection(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	snapshots := make(chan store.Snapshot, 1)
	sub, err := h.subscriber.Subscribe(ctx, collection, latestOnly(snapshots))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer sub.Close()

	h.clients.Add(1)
	defer h.clients.Add(-1)
	log := logger.GetGinLogger(c).With(zap.String("collection", collection))
	log.Info("SSE client connected")

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	// the server write timeout would otherwise cut the stream
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})
	c.Status(http.StatusOK)

	writeSSE(c.Writer, SSEMessage{
		Event: "connected",
		Data:  fmt.Sprintf(`{"collection":%q,"timestamp":%d}`, collection, time.Now().Unix()),
	})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	var seq uint64
	for {
		select {
		case <-ctx.Done():
			log.Info("SSE client disconnected")
			return
		case <-h.done:
			return
		case <-ticker.C:
			writeSSE(c.Writer, SSEMessage{
				Event: "heartbeat",
				Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
			})
			c.Writer.Flush()
		case snap := <-snapshots:
			seq++
			data, err := json.Marshal(toSnapshotMessage(snap, seq))
			if err != nil {
				log.Error("Failed to marshal snapshot", zap.Error(err))
				continue
			}
			writeSSE(c.Writer, SSEMessage{Event: sseEventSnap, Data: string(data), ID: fmt.Sprint(seq)})
			c.Writer.Flush()
		}
	}
}

// WebSocket godoc
// @Summary      Subscribe to a collection via WebSocket
// @Description  Pushes a JSON snapshot message on connect and after every change. Incoming messages are ignored.
// @Tags         stream
// @Param        collection path string true "Collection" Enums(inventory, purchaseOrders, suppliers, menu, budgets, activityLogs)
// @Success      101 {string} string "Switching Protocols"
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ws/{collection} [get]
func (h *StreamHandler) WebSocket(c *gin.Context) {
	collection, ok := h.collection(c)
	if !ok {
		return
	}
	log := logger.GetGinLogger(c).With(zap.String("collection", collection))

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots := make(chan store.Snapshot, 1)
	sub, err := h.subscriber.Subscribe(ctx, collection, latestOnly(snapshots))
	if err != nil {
		log.Error("Failed to subscribe", zap.Error(err))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscribe failed"),
			time.Now().Add(wsWriteWait))
		return
	}
	defer sub.Close()

	h.clients.Add(1)
	defer h.clients.Add(-1)
	log.Info("WebSocket client connected")

	go h.readPump(conn, cancel, log)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	var seq uint64
	for {
		select {
		case <-ctx.Done():
			log.Info("WebSocket client disconnected")
			return
		case <-h.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(wsWriteWait))
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case snap := <-snapshots:
			seq++
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(toSnapshotMessage(snap, seq)); err != nil {
				log.Debug("WebSocket write failed", zap.Error(err))
				return
			}
		}
	}
}

// readPump drains client frames so control messages are processed and
// cancels the stream once the peer goes away
func (h *StreamHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc, log *zap.Logger) {
	defer cancel()
	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait + h.heartbeat))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait + h.heartbeat))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("WebSocket closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}

func (h *StreamHandler) collection(c *gin.Context) (string, bool) {
	collection := c.Param("collection")
	if !slices.Contains(StreamableCollections, collection) {
		h.Error(c, dto.ErrCodeNotFound, "Collection "+collection+" cannot be streamed")
		return "", false
	}
	return collection, true
}

// latestOnly hands snapshots to a one-slot channel, replacing any snapshot
// the consumer has not picked up yet
func latestOnly(ch chan store.Snapshot) func(store.Snapshot) {
	return func(s store.Snapshot) {
		for {
			select {
			case ch <- s:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}
}

func toSnapshotMessage(s store.Snapshot, seq uint64) SnapshotMessage {
	msg := SnapshotMessage{
		Collection: s.Collection,
		Documents:  s.Documents,
		Sequence:   seq,
		Timestamp:  time.Now().Unix(),
	}
	if msg.Documents == nil {
		msg.Documents = map[string]json.RawMessage{}
	}
	if s.Err != nil {
		msg.Error = s.Err.Error()
	}
	return msg
}

// writeSSE writes one event in text/event-stream framing
func writeSSE(w io.Writer, msg SSEMessage) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(w, "id: %s\n", msg.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}
