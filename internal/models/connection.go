package models

import (
	"time"
)

// Connection represents a connection between two users. PairMin/PairMax
// hold the user ids in ascending order so the unique index enforces at
// most one row per unordered pair, whichever side initiated.
type Connection struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	RequesterID int64     `gorm:"not null;index;column:requester_id"`
	AddresseeID int64     `gorm:"not null;index;column:addressee_id"`
	PairMin     int64     `gorm:"not null;uniqueIndex:cheer_connections_ux1;column:pair_min"`
	PairMax     int64     `gorm:"not null;uniqueIndex:cheer_connections_ux1;column:pair_max"`
	Status      int16     `gorm:"type:smallint;not null;default:0;column:status"`
	CreatedAt   time.Time `gorm:"not null;column:created_at"`
	UpdatedAt   time.Time `gorm:"not null;column:updated_at"`

	// Relationships
	Requester *User `gorm:"foreignKey:RequesterID;references:ID"`
	Addressee *User `gorm:"foreignKey:AddresseeID;references:ID"`
}

// TableName specifies the table name for Connection
func (Connection) TableName() string {
	return "cheer_connections"
}

// Connection status constants
const (
	ConnectionPending  int16 = 0
	ConnectionAccepted int16 = 1
	ConnectionRejected int16 = 2
)

// NormalizePair returns the unordered pair in ascending order
func NormalizePair(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}
