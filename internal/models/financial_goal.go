package models

import "time"

// GoalRecurrence controls how often the transfer scheduler funds a goal
type GoalRecurrence string

const (
	GoalRecurrenceDaily   GoalRecurrence = "daily"
	GoalRecurrenceWeekly  GoalRecurrence = "weekly"
	GoalRecurrenceMonthly GoalRecurrence = "monthly"
	GoalRecurrenceNone    GoalRecurrence = "none"
)

// FinancialGoal represents a savings goal. CurrentAmount accrues through
// manual contributions and scheduler-driven transfers; AllocatedAmount
// is the per-day transfer rate (cents) scaled by the recurrence.
type FinancialGoal struct {
	Base
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	Description     string         `json:"description"`
	TargetAmount    int64          `gorm:"type:bigint;not null;default:0" json:"target_amount"`
	CurrentAmount   int64          `gorm:"type:bigint;not null;default:0" json:"current_amount"`
	AllocatedAmount int64          `gorm:"type:bigint;not null;default:0" json:"allocated_amount"`
	TargetDate      time.Time      `gorm:"not null" json:"target_date"`
	Recurrence      GoalRecurrence `gorm:"size:10;not null;default:none" json:"recurrence"`
	IncomeSourceID  *uint          `json:"income_source_id,omitempty"`

	IncomeSource  *IncomeSource      `gorm:"foreignKey:IncomeSourceID" json:"income_source,omitempty"`
	Contributions []GoalContribution `gorm:"foreignKey:GoalID" json:"contributions,omitempty"`
}

// GoalContribution is an immutable, append-only record of funds moved
// into a goal, whether manual or scheduler-driven.
type GoalContribution struct {
	Base
	GoalID uint      `gorm:"not null;index" json:"goal_id"`
	UserID uint      `gorm:"not null" json:"user_id"`
	Amount int64     `gorm:"type:bigint;not null" json:"amount"`
	Date   time.Time `gorm:"not null" json:"date"`
}
