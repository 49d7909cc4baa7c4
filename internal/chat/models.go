package chat

import "time"

type SessionStatus string

const (
	SessionWaiting SessionStatus = "waiting"
	SessionActive  SessionStatus = "active"
	SessionClosed  SessionStatus = "closed"
)

type SenderType string

const (
	SenderCustomer SenderType = "customer"
	SenderAgent    SenderType = "agent"
	SenderSystem   SenderType = "system"
)

type AgentStatus string

const (
	AgentOnline  AgentStatus = "online"
	AgentAway    AgentStatus = "away"
	AgentOffline AgentStatus = "offline"
)

func (s AgentStatus) Valid() bool {
	return s == AgentOnline || s == AgentAway || s == AgentOffline
}

type Session struct {
	ID            uint64        `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionID     string        `gorm:"type:varchar(26);uniqueIndex;not null" json:"session_id"`
	UserID        uint64        `gorm:"index;not null" json:"-"`
	CustomerName  string        `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerEmail string        `gorm:"type:varchar(320)" json:"-"`
	AgentID       *uint64       `gorm:"index" json:"agent_id,omitempty"`
	Status        SessionStatus `gorm:"type:varchar(16);index;not null" json:"status"`
	Topic         string        `gorm:"type:varchar(255);not null" json:"topic"`
	StartedAt     time.Time     `gorm:"not null" json:"started_at"`
	ClosedAt      *time.Time    `json:"closed_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (Session) TableName() string { return "chat_sessions" }

type Message struct {
	ID            uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID     string     `gorm:"type:varchar(26);not null;index" json:"session_id"`
	SenderID      uint64     `gorm:"not null" json:"sender_id"`
	SenderType    SenderType `gorm:"type:varchar(16);not null" json:"sender_type"`
	Message       string     `gorm:"type:text;not null" json:"message"`
	AttachmentURL string     `gorm:"type:varchar(1024)" json:"attachment_url,omitempty"`
	IsRead        bool       `gorm:"not null" json:"is_read"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (Message) TableName() string { return "chat_messages" }

// Agent capacity invariant: 0 <= CurrentChats <= MaxChats.
type Agent struct {
	ID           uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint64      `gorm:"uniqueIndex;not null" json:"user_id"`
	Name         string      `gorm:"type:varchar(255);not null" json:"name"`
	Email        string      `gorm:"type:varchar(320)" json:"email"`
	Status       AgentStatus `gorm:"type:varchar(16);index;not null" json:"status"`
	MaxChats     int         `gorm:"not null" json:"max_chats"`
	CurrentChats int         `gorm:"not null" json:"current_chats"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (Agent) TableName() string { return "support_agents" }
