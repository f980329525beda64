package store

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUsers(t *testing.T, db *gorm.DB) (prof, a, b User) {
	t.Helper()
	prof = User{Name: "Prof", Email: "prof@x.edu", Role: "instructor"}
	a = User{Name: "A", Email: "a@x.edu", Role: "user"}
	b = User{Name: "B", Email: "b@x.edu", Role: "user"}
	require.NoError(t, db.Create(&prof).Error)
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)
	return prof, a, b
}

func Test_GetUserByEmail(t *testing.T) {
	req := require.New(t)
	db := setupTestDB(t)
	repo := NewChatRepository(db, testLogger())
	seedUsers(t, db)

	user, err := repo.GetUserByEmail("prof@x.edu")
	req.NoError(err)
	req.Equal("instructor", user.Role)

	_, err = repo.GetUserByEmail("ghost@x.edu")
	req.ErrorIs(err, ErrUserNotFound)
}

func Test_CreateChat_Adds_Creator_As_Member(t *testing.T) {
	req := require.New(t)
	db := setupTestDB(t)
	repo := NewChatRepository(db, testLogger())
	prof, a, b := seedUsers(t, db)

	chatID, err := repo.CreateChat(prof.ID, "group", []uint{a.ID, b.ID})
	req.NoError(err)
	req.NotZero(chatID)

	members, err := repo.GetChatMembers(chatID)
	req.NoError(err)
	req.ElementsMatch([]string{"prof@x.edu", "a@x.edu", "b@x.edu"}, members)

	var creatorRow ChatMember
	req.NoError(db.First(&creatorRow, "chat_id = ? AND user_id = ?", chatID, prof.ID).Error)
	req.True(creatorRow.IsCreator)
}

func Test_CreateChat_Deduplicates_Creator(t *testing.T) {
	req := require.New(t)
	db := setupTestDB(t)
	repo := NewChatRepository(db, testLogger())
	prof, a, _ := seedUsers(t, db)

	chatID, err := repo.CreateChat(prof.ID, "group", []uint{prof.ID, a.ID})
	req.NoError(err)

	members, err := repo.GetChatMembers(chatID)
	req.NoError(err)
	req.ElementsMatch([]string{"prof@x.edu", "a@x.edu"}, members)
}

func Test_GetUserChats_Only_Lists_Memberships(t *testing.T) {
	req := require.New(t)
	db := setupTestDB(t)
	repo := NewChatRepository(db, testLogger())
	prof, a, b := seedUsers(t, db)

	first, err := repo.CreateChat(prof.ID, "group", []uint{a.ID})
	req.NoError(err)
	second, err := repo.CreateChat(prof.ID, "single", []uint{b.ID})
	req.NoError(err)

	chats, err := repo.GetUserChats(a.ID)
	req.NoError(err)
	req.Len(chats, 1)
	req.Equal(first, chats[0].ID)

	chats, err = repo.GetUserChats(prof.ID)
	req.NoError(err)
	req.Len(chats, 2)
	_ = second
}

func Test_History_Preserves_Send_Order(t *testing.T) {
	req := require.New(t)
	db := setupTestDB(t)
	repo := NewChatRepository(db, testLogger())
	prof, a, _ := seedUsers(t, db)

	chatID, err := repo.CreateChat(prof.ID, "single", []uint{a.ID})
	req.NoError(err)

	texts := []string{"one", "two", "three", "four", "five"}
	for _, text := range texts {
		_, err := repo.AddMessage(chatID, prof.ID, text)
		req.NoError(err)
	}

	history, err := repo.GetChatHistory(chatID)
	req.NoError(err)
	req.Len(history, len(texts))
	for i, entry := range history {
		req.Equal(texts[i], entry.Text)
		req.Equal("prof@x.edu", entry.SenderEmail)
		req.False(entry.Timestamp.IsZero())
	}
}

func Test_History_Is_Per_Chat(t *testing.T) {
	req := require.New(t)
	db := setupTestDB(t)
	repo := NewChatRepository(db, testLogger())
	prof, a, b := seedUsers(t, db)

	first, err := repo.CreateChat(prof.ID, "single", []uint{a.ID})
	req.NoError(err)
	second, err := repo.CreateChat(prof.ID, "single", []uint{b.ID})
	req.NoError(err)

	_, err = repo.AddMessage(first, prof.ID, "for a")
	req.NoError(err)
	_, err = repo.AddMessage(second, prof.ID, "for b")
	req.NoError(err)

	history, err := repo.GetChatHistory(first)
	req.NoError(err)
	req.Len(history, 1)
	req.Equal("for a", history[0].Text)
}
