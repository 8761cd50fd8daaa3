package models

// GoalsCategoryName is the reserved per-user category that mirrored
// goal-contribution expenses are filed under. It is created on demand.
const GoalsCategoryName = "Goals"

// Category represents an expense category
type Category struct {
	Base
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Name   string `gorm:"size:255;not null" json:"name"`

	Expenses []Expense `gorm:"foreignKey:CategoryID" json:"expenses,omitempty"`
}
