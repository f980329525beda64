package store

import "time"

type User struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"size:100" json:"name"`
	Email string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Role  string `gorm:"size:20;not null;default:user" json:"role"`
}

func (User) TableName() string { return "users" }

type Chat struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatorID uint      `gorm:"not null" json:"creator_id"`
	ChatType  string    `gorm:"size:20;not null" json:"chat_type"`
	CreatedAt time.Time `json:"created_at"`
}

func (Chat) TableName() string { return "chats" }

type ChatMember struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ChatID    uint      `gorm:"not null;index" json:"chat_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	IsCreator bool      `gorm:"not null;default:false" json:"is_creator"`
	JoinedAt  time.Time `json:"joined_at"`
}

func (ChatMember) TableName() string { return "chat_members" }

type Message struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ChatID    uint      `gorm:"not null;index" json:"chat_id"`
	SenderID  uint      `gorm:"not null" json:"sender_id"`
	Text      string    `gorm:"size:2000;not null" json:"text"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

func (Message) TableName() string { return "messages" }

// HistoryEntry is a message joined with its sender's email, as returned
// by GetChatHistory.
type HistoryEntry struct {
	SenderEmail string
	Text        string
	Timestamp   time.Time
}

type Student struct {
	ID          uint      `gorm:"primarykey" json:"student_id"`
	FirstName   string    `gorm:"size:50;not null" json:"first_name"`
	LastName    string    `gorm:"size:50;not null" json:"last_name"`
	Email       string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Gender      string    `gorm:"size:10;not null" json:"gender"`
	Major       string    `gorm:"size:50" json:"major,omitempty"`
	CreatedDate time.Time `json:"created_date"`
	ImageURL    string    `gorm:"size:255" json:"image_url,omitempty"`
}

func (Student) TableName() string { return "students" }

type Department struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
}

func (Department) TableName() string { return "departments" }

type Employee struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	DepartmentID uint      `gorm:"not null;index" json:"department_id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Position     string    `gorm:"size:100" json:"position"`
	Salary       float64   `json:"salary"`
	HireDate     time.Time `gorm:"index" json:"hire_date"`
}

func (Employee) TableName() string { return "employees" }
