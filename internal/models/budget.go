package models

import "time"

// BudgetPeriod is the window after which a budget's running totals reset
type BudgetPeriod string

const (
	BudgetPeriodDaily   BudgetPeriod = "daily"
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
)

// Budget holds a user's running income/expense totals for the current
// period. All monetary fields are in cents. TotalIncome and
// TotalExpenses reflect the user's records dated within the current
// period since LastResetDate.
type Budget struct {
	Base
	UserID        uint         `gorm:"not null;index" json:"user_id"`
	Name          string       `gorm:"size:100;not null" json:"name"`
	Description   string       `json:"description"`
	Period        BudgetPeriod `gorm:"size:10;not null" json:"period"`
	BudgetLimit   int64        `gorm:"type:bigint;not null;default:0" json:"budget_limit"`
	TotalIncome   int64        `gorm:"type:bigint;not null;default:0" json:"total_income"`
	TotalExpenses int64        `gorm:"type:bigint;not null;default:0" json:"total_expenses"`
	LastResetDate time.Time    `gorm:"not null" json:"last_reset_date"`
}

// Balance returns income minus expenses for the current period.
func (b *Budget) Balance() int64 {
	return b.TotalIncome - b.TotalExpenses
}

// IsOverBudget reports whether period expenses exceed the limit.
func (b *Budget) IsOverBudget() bool {
	return b.TotalExpenses > b.BudgetLimit
}
