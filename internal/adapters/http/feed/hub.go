// Package feed pushes applied league mutations to WebSocket subscribers.
package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/okian/dynasty/internal/domain/types"
	"github.com/okian/dynasty/pkg/logger"
	"github.com/okian/dynasty/pkg/metrics"
)

const (
	defaultBuffer = 64
	// broadcastBacklog is how many events may wait for the hub loop.
	broadcastBacklog = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The feed is read-only; any origin may watch.
	CheckOrigin: func(*http.Request) bool { return true },
}

type message struct {
	kind string
	data []byte
}

// Hub maintains the set of subscribers and fans events out to them.
type Hub struct {
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan message
	done       chan struct{}
	count      atomic.Int64

	buffer int
	logger logger.Logger
}

// NewHub creates a hub. Run must be started before subscribers are served.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan message, broadcastBacklog),
		done:       make(chan struct{}),
		buffer:     defaultBuffer,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run owns the subscriber set until ctx is done. On return every subscriber
// has been told to close. Run must be called once.
func (h *Hub) Run(ctx context.Context) error {
	defer func() {
		close(h.done)
		for c := range h.clients {
			delete(h.clients, c)
			close(c.send)
		}
		h.setCount()
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info(ctx, "feed hub stopping", logger.Int("clients", len(h.clients)))
			return nil

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.setCount()
			h.logger.Debug(ctx, "feed client connected", logger.String("client", c.id), logger.Int("clients", len(h.clients)))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.setCount()
				h.logger.Debug(ctx, "feed client disconnected", logger.String("client", c.id), logger.Int("clients", len(h.clients)))
			}

		case m := <-h.broadcast:
			h.fanOut(ctx, m)
		}
	}
}

// Clients returns the number of connected subscribers.
func (h *Hub) Clients() int { return int(h.count.Load()) }

func (h *Hub) setCount() {
	h.count.Store(int64(len(h.clients)))
	metrics.UpdateFeedClients(len(h.clients))
}

func (h *Hub) fanOut(ctx context.Context, m message) {
	metrics.RecordFeedBroadcast(m.kind)
	for c := range h.clients {
		select {
		case c.send <- m.data:
		default:
			// Too far behind; drop the subscriber rather than the writer.
			delete(h.clients, c)
			close(c.send)
			metrics.RecordFeedDropped()
			h.logger.Warn(ctx, "slow feed client dropped", logger.String("client", c.id))
		}
	}
	h.setCount()
}

// Publish queues ev for every subscriber. It never blocks: when the hub is
// stopped or its backlog is full the event is discarded.
func (h *Hub) Publish(ctx context.Context, ev types.FeedEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error(ctx, "feed event encode failed", logger.String("type", ev.Type), logger.Error(err))
		return
	}
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.broadcast <- message{kind: ev.Type, data: data}:
	default:
		metrics.RecordFeedDropped()
		h.logger.Warn(ctx, "feed backlog full, event discarded", logger.String("type", ev.Type))
	}
}

// ServeWS upgrades the request and subscribes the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "feed upgrade failed", logger.Error(err))
		return
	}

	c := &client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, h.buffer),
	}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed stopped"), deadline())
		_ = conn.Close()
		return
	case <-r.Context().Done():
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}
