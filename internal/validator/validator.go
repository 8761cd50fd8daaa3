// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
		_ = v.RegisterValidation("goal_recurrence", validateGoalRecurrence)
		_ = v.RegisterValidation("bill_interval", validateBillInterval)
		_ = v.RegisterValidation("bill_category", validateBillCategory)
	}
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "daily", "weekly", "monthly":
		return true
	}
	return false
}

func validateGoalRecurrence(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "daily", "weekly", "monthly", "none":
		return true
	}
	return false
}

func validateBillInterval(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "weekly", "monthly", "quarterly", "yearly", "one_time":
		return true
	}
	return false
}

func validateBillCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "electricity", "water", "internet", "subscription", "other":
		return true
	}
	return false
}
