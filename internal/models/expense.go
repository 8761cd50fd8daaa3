package models

import "time"

// Expense represents a categorized spending record. Amount is in cents.
// Date is a plain calendar date (midnight UTC); only expenses dated
// today count toward the budget ledger at write time.
type Expense struct {
	Base
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	CategoryID  uint      `gorm:"not null" json:"category_id"`
	Amount      int64     `gorm:"type:bigint;not null" json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `gorm:"not null" json:"date"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
