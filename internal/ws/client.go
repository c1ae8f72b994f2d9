// internal/ws/client.go
//
// WebSocket transport for room sessions.
//
// Each connection gets a UUID, a buffered outbound queue drained by a
// dedicated write pump, and a token-bucket limiter on inbound frames. The
// read pump hands every frame to the session Handler and reports the
// disconnect when the socket closes or the handler panics.

package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second // must be below pongWait
	maxMessageSize = 8 << 10
	sendQueue      = 256
)

// Handler receives decoded connection activity.
type Handler interface {
	Handle(p session.Peer, raw []byte)
	Disconnect(p session.Peer)
}

// Options configures Serve.
type Options struct {
	AllowedOrigin string  // "*" or empty accepts any origin
	RatePerSec    float64 // inbound frames per second
	Burst         int
}

// Client is one WebSocket connection. It implements session.Peer.
type Client struct {
	id      string
	conn    *websocket.Conn
	limiter *rate.Limiter

	mu     sync.Mutex // guards send and closed
	send   chan []byte
	closed bool
}

func newClient(conn *websocket.Conn, opts Options) *Client {
	limit := rate.Inf
	if opts.RatePerSec > 0 {
		limit = rate.Limit(opts.RatePerSec)
	}
	return &Client{
		id:      uuid.NewString(),
		conn:    conn,
		limiter: rate.NewLimiter(limit, max(1, opts.Burst)),
		send:    make(chan []byte, sendQueue),
	}
}

func (c *Client) ID() string { return c.id }

// Send queues an event without blocking. A client whose queue is full is
// too slow to keep up and gets disconnected.
func (c *Client) Send(event string, payload any) {
	data, err := session.Encode(event, payload)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("encode event")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Warn().Str("conn", c.id).Str("event", event).Msg("send queue full, dropping connection")
		c.closed = true
		close(c.send)
	}
}

// shutdown closes the outbound queue; the write pump then closes the socket.
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump forwards inbound frames to h until the socket fails.
func (c *Client) readPump(h Handler) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("conn", c.id).Msg("read pump panic")
		}
		h.Disconnect(c)
		c.shutdown()
		c.conn.Close()
		log.Debug().Str("conn", c.id).Msg("connection closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("conn", c.id).Msg("unexpected close")
			}
			return
		}
		if !c.limiter.Allow() {
			log.Debug().Str("conn", c.id).Msg("rate limited, frame dropped")
			continue
		}
		h.Handle(c, msg)
	}
}

// writePump drains the send queue and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Debug().Err(err).Str("conn", c.id).Msg("write failed")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Serve upgrades requests to WebSocket connections driven by h.
func Serve(h Handler, opts Options) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(opts.AllowedOrigin),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Debug().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
			return
		}
		c := newClient(conn, opts)
		log.Debug().Str("conn", c.id).Str("remote", r.RemoteAddr).Msg("connection opened")

		go c.writePump()
		go c.readPump(h)
	}
}

// checkOrigin accepts requests without an Origin header (non-browser
// clients) and browsers from allowed.
func checkOrigin(allowed string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		if allowed == "" || allowed == "*" {
			return true
		}
		origin := r.Header.Get("Origin")
		return origin == "" || origin == allowed
	}
}
