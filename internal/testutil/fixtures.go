package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBudget creates a daily budget with a $100.00 limit and
// zeroed totals reset today.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint) *models.Budget {
	t.Helper()
	return CreateTestBudgetWithPeriod(t, db, userID, models.BudgetPeriodDaily)
}

// CreateTestBudgetWithPeriod creates a budget with the given period.
func CreateTestBudgetWithPeriod(t *testing.T, db *gorm.DB, userID uint, period models.BudgetPeriod) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Budget %d", nextID()),
		Period:        period,
		BudgetLimit:   10000, // $100.00
		LastResetDate: time.Now().UTC().Truncate(24 * time.Hour),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestIncomeSource creates an income source.
func CreateTestIncomeSource(t *testing.T, db *gorm.DB, userID uint) *models.IncomeSource {
	t.Helper()

	source := &models.IncomeSource{
		UserID:     userID,
		SourceName: fmt.Sprintf("Test Source %d", nextID()),
	}
	if err := db.Create(source).Error; err != nil {
		t.Fatalf("failed to create test income source: %v", err)
	}
	return source
}

// CreateTestIncome creates an income record dated today (in cents).
func CreateTestIncome(t *testing.T, db *gorm.DB, userID, sourceID uint, amount int64) *models.Income {
	t.Helper()

	income := &models.Income{
		UserID:   userID,
		SourceID: sourceID,
		Amount:   amount,
		Date:     time.Now().UTC().Truncate(24 * time.Hour),
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}

// CreateTestGoal creates a recurring goal funded from the given source.
// Target $1000.00, nothing saved, $1.00/day allocation, daily recurrence.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint, sourceID *uint) *models.FinancialGoal {
	t.Helper()

	goal := &models.FinancialGoal{
		UserID:          userID,
		Name:            fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:    100000, // $1000.00
		CurrentAmount:   0,
		AllocatedAmount: 100, // $1.00 per day
		TargetDate:      time.Now().AddDate(1, 0, 0),
		Recurrence:      models.GoalRecurrenceDaily,
		IncomeSourceID:  sourceID,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestBill creates an unpaid monthly bill due in a week.
func CreateTestBill(t *testing.T, db *gorm.DB, userID uint) *models.BillReminder {
	t.Helper()

	bill := &models.BillReminder{
		UserID:            userID,
		BillName:          fmt.Sprintf("Test Bill %d", nextID()),
		Amount:            5000, // $50.00
		Category:          models.BillCategoryElectricity,
		DueDate:           time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 7),
		RecurringInterval: models.BillIntervalMonthly,
		ReminderTime:      3,
	}
	if err := db.Create(bill).Error; err != nil {
		t.Fatalf("failed to create test bill: %v", err)
	}
	return bill
}
