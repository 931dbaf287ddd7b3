package model

import (
	"time"
)

// PoolLock represents a named advisory lock used to serialize epoch
// operations such as payout runs
type PoolLock struct {
	Name      string    `gorm:"primaryKey;size:64"`
	LockedAt  time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"` // Standard GORM timestamp
	UpdatedAt time.Time `gorm:"not null"` // Standard GORM timestamp
}

// TableName specifies the table name for PoolLock
func (PoolLock) TableName() string {
	return "pool_locks"
}
