package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"tech-hub-backend/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// ErrHubClosed is returned by Publish after Close.
var ErrHubClosed = errors.New("live: hub closed")

// Hub fans new feedback out to every connected websocket viewer. There is no
// replay: viewers only see events published while they are connected, and a
// viewer whose buffer is full misses the event.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger

	mu      sync.RWMutex
	viewers map[*viewer]struct{}
	closed  bool
}

type viewer struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func (v *viewer) close() {
	v.closeOnce.Do(func() { close(v.send) })
}

// NewHub returns a hub accepting websocket upgrades from allowedOrigins.
// An empty list or "*" accepts any origin.
func NewHub(logger *zap.Logger, allowedOrigins []string) *Hub {
	h := &Hub{
		logger:  logger,
		viewers: make(map[*viewer]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	anyOrigin := len(allowed) == 0
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			anyOrigin = true
		}
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		if anyOrigin {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// ServeHTTP upgrades the request and keeps the viewer registered until the
// connection drops or the hub closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	v := &viewer{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	if !h.add(v) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}
	h.logger.Info("viewer connected", zap.String("viewer_id", v.id), zap.Int("viewers", h.Count()))

	go h.writeLoop(v)
	h.readLoop(v)

	h.remove(v)
	h.logger.Info("viewer disconnected", zap.String("viewer_id", v.id), zap.Int("viewers", h.Count()))
}

// Publish queues the feedback for every connected viewer without waiting for
// delivery.
func (h *Hub) Publish(ctx context.Context, feedback models.Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := json.Marshal(Event{Type: EventNewFeedback, Data: feedback})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return ErrHubClosed
	}

	dropped := 0
	for v := range h.viewers {
		select {
		case v.send <- msg:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("live update dropped for slow viewers",
			zap.String("feedback_id", feedback.ID.Hex()),
			zap.Int("dropped", dropped))
	}
	return nil
}

// Count reports the number of connected viewers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

// Close disconnects every viewer and rejects further connections and events.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for v := range h.viewers {
		v.close()
		delete(h.viewers, v)
	}
}

func (h *Hub) add(v *viewer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.viewers[v] = struct{}{}
	return true
}

func (h *Hub) remove(v *viewer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.viewers[v]; ok {
		delete(h.viewers, v)
	}
	v.close()
}

// readLoop discards inbound frames; it exists to process control frames and
// to notice when the peer goes away.
func (h *Hub) readLoop(v *viewer) {
	v.conn.SetReadLimit(maxMessageSize)
	_ = v.conn.SetReadDeadline(time.Now().Add(pongWait))
	v.conn.SetPongHandler(func(string) error {
		return v.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("viewer read failed", zap.String("viewer_id", v.id), zap.Error(err))
			}
			return
		}
	}
}

// writeLoop is the only writer on v.conn.
func (h *Hub) writeLoop(v *viewer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		v.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-v.send:
			_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = v.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := v.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debug("viewer write failed", zap.String("viewer_id", v.id), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := v.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
