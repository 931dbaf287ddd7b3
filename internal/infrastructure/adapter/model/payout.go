package model

import (
	"time"
)

// Payout represents the database model for payout receipts.
// Rows are append-only history.
type Payout struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"not null;index"`
	Amount    float64   `gorm:"not null"`
	Timestamp time.Time `gorm:"not null"`
	TxID      string    `gorm:"size:64"`

	// Define relationships
	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Payout
func (Payout) TableName() string {
	return "payouts"
}
