package chat

import "encoding/json"

// Client-invoked events.
const (
	EventCreateChat         = "CreateChat"
	EventSendMessage        = "SendMessage"
	EventRequestChatList    = "RequestChatList"
	EventRequestChatHistory = "RequestChatHistory"
)

// Server-pushed events.
const (
	EventReceiveSuccess    = "ReceiveSuccess"
	EventReceiveError      = "ReceiveError"
	EventUpdateChatList    = "UpdateChatList"
	EventUpdateChatHistory = "UpdateChatHistory"
	EventReceiveMessage    = "ReceiveMessage"
)

// Frame is the envelope for every websocket message in both directions.
type Frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type CreateChatPayload struct {
	ChatType     string   `json:"chat_type"`
	Participants []string `json:"participants"`
	Creator      string   `json:"creator"`
}

type SendMessagePayload struct {
	ChatID uint   `json:"chat_id"`
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

type RequestChatListPayload struct {
	Requester string `json:"requester"`
}

type RequestChatHistoryPayload struct {
	ChatID    uint   `json:"chat_id"`
	Requester string `json:"requester"`
}

// ChatSummary is one entry of an UpdateChatList push.
type ChatSummary struct {
	ID       uint   `json:"id"`
	ChatType string `json:"chat_type"`
}

// HistoryMessage is one entry of an UpdateChatHistory push. Timestamp uses
// the same human-readable form as live delivery.
type HistoryMessage struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// LiveMessage is the payload of a ReceiveMessage fan-out.
type LiveMessage struct {
	ChatID    uint   `json:"chat_id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}
