package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client wraps one websocket connection with a serialized writer.
// Evaluations finish on their own goroutines, so concurrent sends on the
// same connection must be guarded.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
	hook func(Frame)
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

// SetSendHook replaces the websocket sender (used in tests).
func (c *Client) SetSendHook(fn func(Frame)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

func (c *Client) Send(frame Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(frame)
		return
	}
	if c.conn == nil {
		return
	}
	_ = c.conn.WriteJSON(frame)
}
