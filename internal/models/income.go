package models

import "time"

// IncomeSource represents a named origin of income for a user, e.g. a
// salary or a side business. Financial goals may reference one as the
// funding source for recurring transfers.
type IncomeSource struct {
	Base
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	SourceName string `gorm:"size:100;not null" json:"source_name"`

	Incomes []Income `gorm:"foreignKey:SourceID" json:"incomes,omitempty"`
}

// Income represents a single income record. Amount is in cents and is
// drawn down by recurring transfers into goals.
type Income struct {
	Base
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	SourceID    uint      `gorm:"not null" json:"source_id"`
	Amount      int64     `gorm:"type:bigint;not null" json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `gorm:"not null" json:"date"`

	Source IncomeSource `gorm:"foreignKey:SourceID" json:"source,omitempty"`
}
