package chat

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// ConnLike is the slice of the websocket connection the relay needs.
// Tests supply fakes.
type ConnLike interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(int, []byte) error
	Close() error
}

// Client is one live websocket connection. Identity is the user the
// connection claims to be; it may be empty for connections that never
// registered presence.
type Client struct {
	ID       string
	Identity string
	Conn     ConnLike
	Send     chan []byte

	closeMu sync.RWMutex
	closed  bool
}

func NewClient(identity string, conn ConnLike) *Client {
	return &Client{
		ID:       uuid.NewString(),
		Identity: identity,
		Conn:     conn,
		Send:     make(chan []byte, 16),
	}
}

// enqueue hands data to the write pump without blocking. Frames for a
// client whose buffer is full are dropped; a closed client swallows them.
func (c *Client) enqueue(data []byte) {
	c.closeMu.RLock()
	defer c.closeMu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// CloseSend stops the write pump and makes further enqueues no-ops. Safe
// to call more than once and concurrently with enqueue.
func (c *Client) CloseSend() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// ReadPump reads frames until the connection drops and dispatches each one
// to the hub. Malformed frames are skipped.
func (c *Client) ReadPump(h *Hub) {
	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}
		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}
		h.Dispatch(c, frame)
	}
}

func (c *Client) WritePump() {
	for data := range c.Send {
		_ = c.Conn.WriteMessage(websocket.TextMessage, data)
	}
}
