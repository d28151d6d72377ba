package models

import (
	"time"
)

// Conversation represents a direct-message thread between two users.
// PairMin/PairMax keep the pair unordered-unique, the same scheme as
// Connection.
type Conversation struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement;column:id"`
	PairMin            int64     `gorm:"not null;uniqueIndex:cheer_conversations_ux1;column:pair_min"`
	PairMax            int64     `gorm:"not null;uniqueIndex:cheer_conversations_ux1;column:pair_max"`
	LastMessagePreview string    `gorm:"type:varchar(140);not null;default:'';column:last_message_preview"`
	LastMessageAt      time.Time `gorm:"not null;column:last_message_at"`
	CreatedAt          time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Conversation
func (Conversation) TableName() string {
	return "cheer_conversations"
}

// Includes reports whether the user participates in the conversation
func (c *Conversation) Includes(userID int64) bool {
	return c.PairMin == userID || c.PairMax == userID
}

// Message represents a single direct message
type Message struct {
	ID             int64     `gorm:"primaryKey;autoIncrement;column:id"`
	ConversationID int64     `gorm:"not null;index;column:conversation_id"`
	SenderID       int64     `gorm:"not null;column:sender_id"`
	RecipientID    int64     `gorm:"not null;column:recipient_id"`
	Body           string    `gorm:"type:text;not null;column:body"`
	CreatedAt      time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Conversation *Conversation `gorm:"foreignKey:ConversationID;references:ID"`
	Sender       *User         `gorm:"foreignKey:SenderID;references:ID"`
}

// TableName specifies the table name for Message
func (Message) TableName() string {
	return "cheer_messages"
}
