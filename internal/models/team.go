package models

import (
	"time"
)

// Team represents a cheer team; membership and admin hierarchy live
// outside the engagement core
type Team struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Name      string    `gorm:"type:varchar(64);not null;column:name"`
	Slug      string    `gorm:"type:varchar(64);not null;uniqueIndex:cheer_teams_ux1;column:slug"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Team
func (Team) TableName() string {
	return "cheer_teams"
}

// TeamFollow grants feed visibility into a team's posts without membership
type TeamFollow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64     `gorm:"not null;uniqueIndex:cheer_team_follows_ux1;column:user_id"`
	TeamID    int64     `gorm:"not null;uniqueIndex:cheer_team_follows_ux1;index;column:team_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID"`
	Team *Team `gorm:"foreignKey:TeamID;references:ID"`
}

// TableName specifies the table name for TeamFollow
func (TeamFollow) TableName() string {
	return "cheer_team_follows"
}
