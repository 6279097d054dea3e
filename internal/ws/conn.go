package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

type Conn struct {
	id     string // stable connection id, used for broadcast exclusion
	userID string
	name   string

	ws       *websocket.Conn
	out      chan []byte
	teardown sync.Once
}

// Accept upgrades HTTP to websocket (allow all origins)
func Accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
}

// NewConn wraps a WS connection for one joined user
func NewConn(ws *websocket.Conn, userID, name string) *Conn {
	return &Conn{
		id:     uuid.NewString(),
		userID: userID,
		name:   name,
		ws:     ws,
		out:    make(chan []byte, 256),
	}
}

// ID returns the generated connection id
func (c *Conn) ID() string { return c.id }

// Participant projects the connection's user info for presence payloads
func (c *Conn) Participant() Participant {
	return Participant{ID: c.userID, Name: c.name}
}

// Send queues an outbound frame without blocking
// Returns false if the buffer is full and the frame was dropped
func (c *Conn) Send(b []byte) bool {
	select {
	case c.out <- b:
		return true
	default: // slow peer, drop instead of stalling the room
		return false
	}
}

// Read blocks until it receives a text message
// Returns false if connection is closed
func (c *Conn) Read(ctx context.Context) ([]byte, bool) {
	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			return nil, false
		}
		if typ == websocket.MessageText {
			return data, true
		}
	}
}

// WriteLoop sends outbound messages + periodic pings
// Exits when ctx is cancelled
func (c *Conn) WriteLoop(ctx context.Context) {
	t := time.NewTicker(20 * time.Second)
	defer t.Stop()

	for {
		select {
		case b := <-c.out:
			_ = c.ws.Write(ctx, websocket.MessageText, b)
		case <-t.C:
			_ = c.ws.Ping(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Close closes the WS connection normally
func (c *Conn) Close() error {
	if c.ws == nil {
		return nil
	}
	return c.ws.Close(websocket.StatusNormalClosure, "bye")
}
