package store

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// ErrUserNotFound is returned when an email resolves to no user.
var ErrUserNotFound = errors.New("user not found")

// ChatRepository is the durable side of the relay: users, chats,
// memberships and messages.
type ChatRepository struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewChatRepository(db *gorm.DB, log *slog.Logger) *ChatRepository {
	return &ChatRepository{db: db, log: log}
}

func (r *ChatRepository) GetUserByEmail(email string) (*User, error) {
	var user User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user %q: %w", email, err)
	}
	return &user, nil
}

// CreateChat creates a chat and its member rows in one transaction. The
// creator is always added as a member with IsCreator set.
func (r *ChatRepository) CreateChat(creatorID uint, chatType string, participantIDs []uint) (uint, error) {
	chat := Chat{CreatorID: creatorID, ChatType: chatType, CreatedAt: time.Now()}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&chat).Error; err != nil {
			return err
		}
		now := time.Now()
		members := []ChatMember{{ChatID: chat.ID, UserID: creatorID, IsCreator: true, JoinedAt: now}}
		for _, pid := range participantIDs {
			if pid == creatorID {
				continue
			}
			members = append(members, ChatMember{ChatID: chat.ID, UserID: pid, JoinedAt: now})
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create chat: %w", err)
	}

	r.log.Info("chat created", "chat_id", chat.ID, "type", chatType, "members", len(participantIDs)+1)
	return chat.ID, nil
}

// AddMessage appends a message to a chat. The timestamp is assigned here
// and is authoritative for ordering.
func (r *ChatRepository) AddMessage(chatID, senderID uint, text string) (*Message, error) {
	msg := Message{ChatID: chatID, SenderID: senderID, Text: text, Timestamp: time.Now()}
	if err := r.db.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to add message: %w", err)
	}
	return &msg, nil
}

func (r *ChatRepository) GetUserChats(userID uint) ([]Chat, error) {
	var chats []Chat
	err := r.db.
		Distinct("chats.*").
		Joins("INNER JOIN chat_members ON chat_members.chat_id = chats.id").
		Where("chat_members.user_id = ?", userID).
		Find(&chats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chats for user %d: %w", userID, err)
	}
	return chats, nil
}

// GetChatHistory returns the chat's messages joined with sender emails,
// ordered by timestamp then insertion order.
func (r *ChatRepository) GetChatHistory(chatID uint) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := r.db.Model(&Message{}).
		Select("users.email AS sender_email, messages.text, messages.timestamp").
		Joins("INNER JOIN users ON users.id = messages.sender_id").
		Where("messages.chat_id = ?", chatID).
		Order("messages.timestamp ASC, messages.id ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for chat %d: %w", chatID, err)
	}
	return entries, nil
}

// GetChatMembers returns the emails of every member of the chat.
func (r *ChatRepository) GetChatMembers(chatID uint) ([]string, error) {
	var emails []string
	err := r.db.Model(&ChatMember{}).
		Joins("INNER JOIN users ON users.id = chat_members.user_id").
		Where("chat_members.chat_id = ?", chatID).
		Pluck("users.email", &emails).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members for chat %d: %w", chatID, err)
	}
	return emails, nil
}
