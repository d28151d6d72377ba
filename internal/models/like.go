package models

import (
	"time"
)

// Like represents a user's like on a post. Existence is the only state;
// the (user, post) pair is unique.
type Like struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64     `gorm:"not null;uniqueIndex:cheer_likes_ux1;column:user_id"`
	PostID    int64     `gorm:"not null;uniqueIndex:cheer_likes_ux1;index;column:post_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID"`
	Post *Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Like
func (Like) TableName() string {
	return "cheer_likes"
}

// CommentLike represents a user's like on a comment
type CommentLike struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64     `gorm:"not null;uniqueIndex:cheer_comment_likes_ux1;column:user_id"`
	CommentID int64     `gorm:"not null;uniqueIndex:cheer_comment_likes_ux1;index;column:comment_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	User    *User    `gorm:"foreignKey:UserID;references:ID"`
	Comment *Comment `gorm:"foreignKey:CommentID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for CommentLike
func (CommentLike) TableName() string {
	return "cheer_comment_likes"
}
