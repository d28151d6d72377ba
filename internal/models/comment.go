package models

import (
	"database/sql"
	"time"
)

// Comment represents a comment on a post. A row with ParentID set is a
// reply and must reference a top-level row; nesting never goes deeper.
type Comment struct {
	ID        int64         `gorm:"primaryKey;autoIncrement;column:id"`
	PostID    int64         `gorm:"not null;index;column:post_id"`
	AuthorID  int64         `gorm:"not null;index;column:author_id"`
	ParentID  sql.NullInt64 `gorm:"index;column:parent_id"`
	Content   string        `gorm:"type:text;not null;column:content"`
	CreatedAt time.Time     `gorm:"not null;column:created_at"`
	UpdatedAt time.Time     `gorm:"not null;column:updated_at"`

	// Relationships
	Post    *Post     `gorm:"foreignKey:PostID;references:ID"`
	Author  *User     `gorm:"foreignKey:AuthorID;references:ID"`
	Parent  *Comment  `gorm:"foreignKey:ParentID;references:ID"`
	Replies []Comment `gorm:"foreignKey:ParentID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "cheer_comments"
}

// IsReply reports whether the comment is a single-level reply
func (c *Comment) IsReply() bool {
	return c.ParentID.Valid
}

// IsEdited is derived, not stored
func (c *Comment) IsEdited() bool {
	return c.UpdatedAt.After(c.CreatedAt)
}
