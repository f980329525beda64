package handlers

import (
	"github.com/gofiber/contrib/websocket"

	"studenthub/internal/chat"
)

type ChatHandlers struct {
	hub *chat.Hub
}

func NewChatHandlers(hub *chat.Hub) *ChatHandlers {
	return &ChatHandlers{hub: hub}
}

// Register GET /api/ws/chat?user=<identity>
// The identity query parameter binds this connection in the presence
// table; without it the connection is served but never addressed.
func (h *ChatHandlers) Register(c *websocket.Conn) {
	client := chat.NewClient(c.Query("user"), c)
	h.hub.Connect(client)
	defer h.hub.Disconnect(client)
	go client.WritePump()
	client.ReadPump(h.hub)
}
