package model

// Wallet represents the database model for wallets
type Wallet struct {
	ID      uint64  `gorm:"primaryKey;autoIncrement"`
	UserID  uint64  `gorm:"uniqueIndex;not null"`
	Address string  `gorm:"uniqueIndex;not null;size:64"`
	Balance float64 `gorm:"not null;default:0"`

	// Define relationships
	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Wallet
func (Wallet) TableName() string {
	return "wallets"
}
