package websocket

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
	sendBuffer = 16
)

// Hub fans roster events out to every connected client. All client
// bookkeeping happens on the Run goroutine; Publish never blocks the
// request path.
type Hub struct {
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	events     chan RosterEvent
	log        zerolog.Logger
}

type client struct {
	conn *websocket.Conn
	send chan RosterEvent
}

// NewHub creates a Hub. Call Run in a goroutine before serving connections.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		events:     make(chan RosterEvent, 64),
		log:        log.With().Str("component", "ws_hub").Logger(),
	}
}

// Run owns the client set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	h.log.Info().Msg("Hub started")
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				_ = c.conn.Close()
			}
			h.log.Info().Msg("Hub stopped")
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.log.Debug().Int("clients", len(h.clients)).Msg("Client connected")
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.log.Debug().Int("clients", len(h.clients)).Msg("Client disconnected")
		case evt := <-h.events:
			for c := range h.clients {
				select {
				case c.send <- evt:
				default:
					// Slow client: drop it rather than stall the roster.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Publish queues an event for broadcast. Drops the event if the hub is
// saturated; clients resynchronize on the next list fetch.
func (h *Hub) Publish(evt RosterEvent) {
	select {
	case h.events <- evt:
	default:
		h.log.Warn().Str("event", string(evt.Event)).Msg("Event queue full, dropped")
	}
}

// ServeConn registers an upgraded connection with the hub and pumps events
// to it until the peer goes away. Blocks until the connection closes.
func (h *Hub) ServeConn(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan RosterEvent, sendBuffer)}
	h.register <- c

	// Reader: we never expect client messages, but reading is required to
	// process pong frames and detect closure.
	go func() {
		defer func() { h.unregister <- c }()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case evt, ok := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
