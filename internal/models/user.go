package models

import (
	"time"
)

// User represents a registered member
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Handle       string    `gorm:"type:varchar(32);not null;uniqueIndex:cheer_users_ux1;column:handle"`
	DisplayName  string    `gorm:"type:varchar(64);not null;column:display_name"`
	PasswordHash string    `gorm:"type:varchar(128);not null;column:password_hash"`
	Visibility   int16     `gorm:"type:smallint;not null;default:0;column:visibility"`
	CreatedAt    time.Time `gorm:"not null;column:created_at"`

	// Notification preference flags, one per notification type
	NotifyOnLike               bool `gorm:"not null;default:true;column:notify_on_like"`
	NotifyOnComment            bool `gorm:"not null;default:true;column:notify_on_comment"`
	NotifyOnReply              bool `gorm:"not null;default:true;column:notify_on_reply"`
	NotifyOnConnectionRequest  bool `gorm:"not null;default:true;column:notify_on_connection_request"`
	NotifyOnConnectionAccepted bool `gorm:"not null;default:true;column:notify_on_connection_accepted"`
	NotifyOnMessage            bool `gorm:"not null;default:true;column:notify_on_message"`
	NotifyOnRepost             bool `gorm:"not null;default:true;column:notify_on_repost"`
	NotifyOnTeamInvite         bool `gorm:"not null;default:true;column:notify_on_team_invite"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "cheer_users"
}

// Profile visibility constants
const (
	VisibilityPublic      int16 = 0
	VisibilityConnections int16 = 1
)

// AllowsNotification reports whether the user's preference flag for the
// given notification type is enabled. Unknown types are allowed so new
// types default to delivered.
func (u *User) AllowsNotification(typeID int16) bool {
	switch typeID {
	case NotifyTypePostLiked, NotifyTypeCommentLiked:
		return u.NotifyOnLike
	case NotifyTypePostCommented:
		return u.NotifyOnComment
	case NotifyTypeCommentReplied:
		return u.NotifyOnReply
	case NotifyTypeConnectionRequest:
		return u.NotifyOnConnectionRequest
	case NotifyTypeConnectionAccepted:
		return u.NotifyOnConnectionAccepted
	case NotifyTypeMessageReceived:
		return u.NotifyOnMessage
	case NotifyTypePostReposted:
		return u.NotifyOnRepost
	case NotifyTypeTeamInvite:
		return u.NotifyOnTeamInvite
	}
	return true
}
