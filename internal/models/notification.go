package models

import (
	"database/sql"
	"time"
)

// Notification represents a durable notification row
type Notification struct {
	ID          int64         `gorm:"primaryKey;autoIncrement;column:id"`
	RecipientID int64         `gorm:"not null;index;column:recipient_id"`
	Type        int16         `gorm:"type:smallint;not null;column:type_id"`
	Message     string        `gorm:"type:varchar(255);not null;column:message"`
	ActorID     sql.NullInt64 `gorm:"column:actor_id"`
	RelatedID   sql.NullInt64 `gorm:"column:related_id"`
	RelatedType int16         `gorm:"type:smallint;not null;default:0;column:related_type"`
	IsRead      bool          `gorm:"not null;default:false;column:is_read"`
	CreatedAt   time.Time     `gorm:"not null;column:created_at"`

	// Relationships
	Recipient *User `gorm:"foreignKey:RecipientID;references:ID"`
	Actor     *User `gorm:"foreignKey:ActorID;references:ID"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "cheer_notifications"
}

// Notification type constants
const (
	NotifyTypePostLiked          int16 = 1
	NotifyTypeCommentLiked       int16 = 2
	NotifyTypePostCommented      int16 = 3
	NotifyTypeCommentReplied     int16 = 4
	NotifyTypeConnectionRequest  int16 = 5
	NotifyTypeConnectionAccepted int16 = 6
	NotifyTypeMessageReceived    int16 = 7
	NotifyTypePostReposted       int16 = 8
	NotifyTypeTeamInvite         int16 = 9
)

// Related entity type constants; a closed set so link generation stays
// exhaustive-checkable
const (
	RelatedNone         int16 = 0
	RelatedPost         int16 = 1
	RelatedComment      int16 = 2
	RelatedConnection   int16 = 3
	RelatedConversation int16 = 4
	RelatedTeam         int16 = 5
)
