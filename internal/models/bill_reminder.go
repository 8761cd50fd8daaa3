package models

import "time"

// BillInterval is how often a bill recurs
type BillInterval string

const (
	BillIntervalWeekly    BillInterval = "weekly"
	BillIntervalMonthly   BillInterval = "monthly"
	BillIntervalQuarterly BillInterval = "quarterly"
	BillIntervalYearly    BillInterval = "yearly"
	BillIntervalOneTime   BillInterval = "one_time"
)

// BillCategory classifies a bill
type BillCategory string

const (
	BillCategoryElectricity  BillCategory = "electricity"
	BillCategoryWater        BillCategory = "water"
	BillCategoryInternet     BillCategory = "internet"
	BillCategorySubscription BillCategory = "subscription"
	BillCategoryOther        BillCategory = "other"
)

// BillReminder represents a bill due on a date. When a recurring bill is
// marked paid a fresh unpaid instance is spawned with the next due date;
// the paid instance is kept as history. ReminderTime is days before the
// due date to remind.
type BillReminder struct {
	Base
	UserID            uint         `gorm:"not null;index" json:"user_id"`
	BillName          string       `gorm:"size:100;not null" json:"bill_name"`
	Amount            int64        `gorm:"type:bigint;not null" json:"amount"`
	Category          BillCategory `gorm:"size:50;not null" json:"category"`
	DueDate           time.Time    `gorm:"not null" json:"due_date"`
	RecurringInterval BillInterval `gorm:"size:20;not null;default:monthly" json:"recurring_interval"`
	ReminderTime      int          `gorm:"not null" json:"reminder_time"`
	IsPaid            bool         `gorm:"default:false" json:"is_paid"`
	PaymentDate       *time.Time   `json:"payment_date,omitempty"`
}
