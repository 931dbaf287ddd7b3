package model

import (
	"time"
)

// MinerSession represents the database model for miner sessions
type MinerSession struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"not null;index"`
	StartedAt time.Time `gorm:"not null"`
	LastSeen  time.Time `gorm:"not null;index"`
	Active    bool      `gorm:"not null;default:true;index"`
	Shares    int64     `gorm:"not null;default:0"`

	// Define relationships
	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for MinerSession
func (MinerSession) TableName() string {
	return "miner_sessions"
}
