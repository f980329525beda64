package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"studenthub/internal/store"
)

// TimestampLayout is the human-readable form used for both live delivery
// and history, so the two render identically on the receiving side.
const TimestampLayout = "1/2/2006 3:04 PM"

// RoleInstructor is the only role allowed to create chats.
const RoleInstructor = "instructor"

// Typed operation failures. The dispatch layer maps these to
// ReceiveError events; they never cross a connection boundary as faults.
var (
	ErrNotAuthorized = errors.New("only instructors can create chats")
	ErrUnknownUser   = errors.New("user not found")
)

// Directory is the durable collaborator behind the relay: it resolves
// identities and owns chats, memberships and messages.
type Directory interface {
	GetUserByEmail(email string) (*store.User, error)
	CreateChat(creatorID uint, chatType string, participantIDs []uint) (uint, error)
	AddMessage(chatID, senderID uint, text string) (*store.Message, error)
	GetUserChats(userID uint) ([]store.Chat, error)
	GetChatHistory(chatID uint) ([]store.HistoryEntry, error)
	GetChatMembers(chatID uint) ([]string, error)
}

// Hub is the presence & relay engine. Each connection's read pump calls
// into it concurrently; the presence table is the only shared state.
type Hub struct {
	presence *PresenceTable
	store    Directory
	log      *slog.Logger
}

func NewHub(store Directory, log *slog.Logger) *Hub {
	return &Hub{
		presence: NewPresenceTable(),
		store:    store,
		log:      log,
	}
}

// Connect registers the client's identity in the presence table.
// Connections without an identity stay usable but unaddressable.
func (h *Hub) Connect(c *Client) {
	if c.Identity == "" {
		return
	}
	h.presence.Bind(c.Identity, c)
	h.log.Info("client connected", "identity", c.Identity, "client_id", c.ID)
}

// Disconnect drops the client's presence entry (stale-safe) and stops its
// write pump.
func (h *Hub) Disconnect(c *Client) {
	h.presence.Unbind(c)
	c.CloseSend()
	if c.Identity != "" {
		h.log.Info("client disconnected", "identity", c.Identity, "client_id", c.ID)
	}
}

// Dispatch routes one inbound frame to its operation. It runs on the
// connection's read pump, so a slow store call delays only this client.
func (h *Hub) Dispatch(c *Client, frame Frame) {
	switch frame.Event {
	case EventCreateChat:
		var p CreateChatPayload
		if err := json.Unmarshal(frame.Payload, &p); err != nil {
			h.sendError(c, "Invalid CreateChat payload.")
			return
		}
		h.CreateChat(c, p)
	case EventSendMessage:
		var p SendMessagePayload
		if err := json.Unmarshal(frame.Payload, &p); err != nil {
			h.sendError(c, "Invalid SendMessage payload.")
			return
		}
		h.SendMessage(c, p)
	case EventRequestChatList:
		var p RequestChatListPayload
		if err := json.Unmarshal(frame.Payload, &p); err != nil {
			h.sendError(c, "Invalid RequestChatList payload.")
			return
		}
		h.RequestChatList(p.Requester)
	case EventRequestChatHistory:
		var p RequestChatHistoryPayload
		if err := json.Unmarshal(frame.Payload, &p); err != nil {
			h.sendError(c, "Invalid RequestChatHistory payload.")
			return
		}
		h.RequestChatHistory(c, p)
	default:
		h.sendError(c, "Unknown event: "+frame.Event)
	}
}

// CreateChat maps the create operation onto the wire: a typed failure
// becomes a ReceiveError to the caller; success becomes a ReceiveSuccess
// plus a refreshed chat list for every member with a live connection.
func (h *Hub) CreateChat(c *Client, p CreateChatPayload) {
	chatID, err := h.createChat(p)
	if err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			h.sendError(c, "Only instructors can create chats.")
			return
		}
		h.sendError(c, "Error creating chat: "+err.Error())
		return
	}
	h.sendEvent(c, EventReceiveSuccess, fmt.Sprintf("Chat %d created successfully.", chatID))

	// Members learn about the new chat through a list push, not polling.
	for _, email := range append(p.Participants, p.Creator) {
		h.RequestChatList(email)
	}
}

// createChat resolves and authorizes the creator, resolves the members
// and performs the durable create. Unknown participants are dropped
// rather than failing the whole creation; an instructor should not be
// blocked by one bad participant name.
func (h *Hub) createChat(p CreateChatPayload) (uint, error) {
	creator, err := h.store.GetUserByEmail(p.Creator)
	if errors.Is(err, store.ErrUserNotFound) {
		return 0, ErrNotAuthorized
	}
	if err != nil {
		return 0, err
	}
	if creator.Role != RoleInstructor {
		return 0, ErrNotAuthorized
	}

	var participantIDs []uint
	for _, email := range p.Participants {
		participant, err := h.store.GetUserByEmail(email)
		if errors.Is(err, store.ErrUserNotFound) {
			h.log.Warn("dropping unknown chat participant", "email", email)
			continue
		}
		if err != nil {
			return 0, err
		}
		participantIDs = append(participantIDs, participant.ID)
	}

	return h.store.CreateChat(creator.ID, p.ChatType, participantIDs)
}

// SendMessage maps the send operation onto the wire: failures go back to
// the sender only; success fans the live message out to every member with
// a live connection. Absent members are skipped silently and catch up via
// history.
func (h *Hub) SendMessage(c *Client, p SendMessagePayload) {
	live, members, err := h.sendMessage(p)
	if err != nil {
		if errors.Is(err, ErrUnknownUser) {
			h.sendError(c, "User not found.")
			return
		}
		h.sendError(c, "Error sending message: "+err.Error())
		return
	}

	for _, email := range members {
		if member, ok := h.presence.Lookup(email); ok {
			h.sendEvent(member, EventReceiveMessage, live)
		}
	}
}

// sendMessage persists the message and returns the fan-out payload plus
// the member set. The timestamp comes from the persisted row, so fan-out
// and history agree.
func (h *Hub) sendMessage(p SendMessagePayload) (LiveMessage, []string, error) {
	sender, err := h.store.GetUserByEmail(p.Sender)
	if errors.Is(err, store.ErrUserNotFound) {
		return LiveMessage{}, nil, ErrUnknownUser
	}
	if err != nil {
		return LiveMessage{}, nil, err
	}

	msg, err := h.store.AddMessage(p.ChatID, sender.ID, p.Text)
	if err != nil {
		return LiveMessage{}, nil, err
	}

	members, err := h.store.GetChatMembers(p.ChatID)
	if err != nil {
		return LiveMessage{}, nil, err
	}

	live := LiveMessage{
		ChatID:    p.ChatID,
		Sender:    p.Sender,
		Text:      p.Text,
		Timestamp: msg.Timestamp.Format(TimestampLayout),
	}
	return live, members, nil
}

// RequestChatList pushes the identity's chat list to its live connection,
// if it has one. Unresolvable identities are a silent no-op so creation
// can call this speculatively for every member.
func (h *Hub) RequestChatList(email string) {
	list, err := h.chatList(email)
	if errors.Is(err, ErrUnknownUser) {
		return
	}
	if err != nil {
		h.pushError(email, "Error loading chats: "+err.Error())
		return
	}
	if c, ok := h.presence.Lookup(email); ok {
		h.sendEvent(c, EventUpdateChatList, list)
	}
}

func (h *Hub) chatList(email string) ([]ChatSummary, error) {
	user, err := h.store.GetUserByEmail(email)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}

	chats, err := h.store.GetUserChats(user.ID)
	if err != nil {
		return nil, err
	}
	return lo.Map(chats, func(ch store.Chat, _ int) ChatSummary {
		return ChatSummary{ID: ch.ID, ChatType: ch.ChatType}
	}), nil
}

// RequestChatHistory pushes the chat's full ordered history back to the
// requesting connection only, never broadcast.
func (h *Hub) RequestChatHistory(c *Client, p RequestChatHistoryPayload) {
	history, err := h.chatHistory(p)
	if errors.Is(err, ErrUnknownUser) {
		return
	}
	if err != nil {
		h.sendError(c, "Error loading chat history: "+err.Error())
		return
	}
	h.sendEvent(c, EventUpdateChatHistory, history)
}

func (h *Hub) chatHistory(p RequestChatHistoryPayload) ([]HistoryMessage, error) {
	if _, err := h.store.GetUserByEmail(p.Requester); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}

	entries, err := h.store.GetChatHistory(p.ChatID)
	if err != nil {
		return nil, err
	}
	return lo.Map(entries, func(e store.HistoryEntry, _ int) HistoryMessage {
		return HistoryMessage{
			Sender:    e.SenderEmail,
			Text:      e.Text,
			Timestamp: e.Timestamp.Format(TimestampLayout),
		}
	}), nil
}

func (h *Hub) sendEvent(c *Client, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("failed to marshal event payload", "event", event, "err", err)
		return
	}
	frame, err := json.Marshal(Frame{Event: event, Payload: data})
	if err != nil {
		h.log.Error("failed to marshal frame", "event", event, "err", err)
		return
	}
	c.enqueue(frame)
}

func (h *Hub) sendError(c *Client, msg string) {
	h.sendEvent(c, EventReceiveError, msg)
}

// pushError reports a failure to an identity's live connection, when
// there is one to report to.
func (h *Hub) pushError(email, msg string) {
	if c, ok := h.presence.Lookup(email); ok {
		h.sendError(c, msg)
	}
}
