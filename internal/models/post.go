package models

import (
	"database/sql"
	"time"
)

// Post represents a post, published as a user or as a team. A row with
// OriginalPostID set is a repost wrapper; the original is always a
// non-repost row. The composite unique index keeps a user to one repost
// per original; plain posts are exempt because original_post_id is NULL.
type Post struct {
	ID             int64         `gorm:"primaryKey;autoIncrement;column:id"`
	AuthorID       int64         `gorm:"not null;index;uniqueIndex:cheer_posts_ux_repost;column:author_id"`
	TeamID         sql.NullInt64 `gorm:"index;column:team_id"`
	OriginalPostID sql.NullInt64 `gorm:"uniqueIndex:cheer_posts_ux_repost;column:original_post_id"`
	Content        string        `gorm:"type:text;not null;column:content"`
	Media          []string      `gorm:"type:text;serializer:json;column:media"`
	CreatedAt      time.Time     `gorm:"not null;column:created_at"`

	// Relationships
	Author   *User `gorm:"foreignKey:AuthorID;references:ID"`
	Original *Post `gorm:"foreignKey:OriginalPostID;references:ID"`
	Team     *Team `gorm:"foreignKey:TeamID;references:ID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "cheer_posts"
}

// IsRepost reports whether the row is a repost wrapper
func (p *Post) IsRepost() bool {
	return p.OriginalPostID.Valid
}
