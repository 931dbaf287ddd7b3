package model

import (
	"time"
)

// Share represents the database model for share submissions.
// Rows are append-only history.
type Share struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	MinerSessionID uint64    `gorm:"not null;index"`
	Timestamp      time.Time `gorm:"not null"`
	Weight         float64   `gorm:"not null;default:1"`

	// Define relationships
	MinerSession MinerSession `gorm:"foreignKey:MinerSessionID;references:ID"`
}

// TableName specifies the table name for Share
func (Share) TableName() string {
	return "shares"
}
