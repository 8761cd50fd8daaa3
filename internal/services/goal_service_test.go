package services

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func newTestGoalService(db *gorm.DB) GoalServicer {
	ledger := NewLedgerService(db)
	categories := NewCategoryService(db)
	return NewGoalService(db, ledger, categories)
}

func TestCreateGoal(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestGoalService(db)
		user := testutil.CreateTestUser(t, db)
		source := testutil.CreateTestIncomeSource(t, db, user.ID)

		goal, err := svc.CreateGoal(user.ID, "Emergency fund", "", 100000, 0, 500,
			time.Now().AddDate(1, 0, 0), models.GoalRecurrenceWeekly, &source.ID)
		testutil.AssertNoError(t, err)

		if goal.ID == 0 {
			t.Fatal("expected non-zero goal ID")
		}
		if goal.Recurrence != models.GoalRecurrenceWeekly {
			t.Errorf("expected weekly recurrence, got %s", goal.Recurrence)
		}
	})

	t.Run("target_below_saved", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestGoalService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGoal(user.ID, "Backwards", "", 1000, 5000, 0,
			time.Now().AddDate(1, 0, 0), models.GoalRecurrenceNone, nil)
		testutil.AssertAppError(t, err, "TARGET_BELOW_SAVED")
	})

	t.Run("past_target_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestGoalService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGoal(user.ID, "Too late", "", 1000, 0, 0,
			time.Now().AddDate(0, 0, -1), models.GoalRecurrenceNone, nil)
		testutil.AssertAppError(t, err, "INVALID_TARGET_DATE")
	})

	t.Run("negative_allocation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestGoalService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGoal(user.ID, "Negative", "", 1000, 0, -100,
			time.Now().AddDate(1, 0, 0), models.GoalRecurrenceDaily, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_income_source", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestGoalService(db)
		user := testutil.CreateTestUser(t, db)

		missing := uint(9999)
		_, err := svc.CreateGoal(user.ID, "Orphan", "", 1000, 0, 100,
			time.Now().AddDate(1, 0, 0), models.GoalRecurrenceDaily, &missing)
		testutil.AssertAppError(t, err, "INCOME_SOURCE_NOT_FOUND")
	})

	t.Run("other_users_income_source", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestGoalService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		source := testutil.CreateTestIncomeSource(t, db, other.ID)

		_, err := svc.CreateGoal(user.ID, "Stolen", "", 1000, 0, 100,
			time.Now().AddDate(1, 0, 0), models.GoalRecurrenceDaily, &source.ID)
		testutil.AssertAppError(t, err, "INCOME_SOURCE_NOT_FOUND")
	})
}

func TestContribute(t *testing.T) {
	t.Run("records_full_trail", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestGoalService(db)
		ledger := NewLedgerService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestBudget(t, db, user.ID)
		goal := testutil.CreateTestGoal(t, db, user.ID, nil)

		result, err := svc.Contribute(user.ID, goal.ID, 2500)
		testutil.AssertNoError(t, err)

		if result.Goal.CurrentAmount != 2500 {
			t.Errorf("expected current amount 2500, got %d", result.Goal.CurrentAmount)
		}
		if result.Contribution == nil || result.Contribution.Amount != 2500 {
			t.Fatal("expected a contribution record for 2500")
		}

		var contributions int64
		if err := db.Model(&models.GoalContribution{}).Where("goal_id = ?", goal.ID).Count(&contributions).Error; err != nil {
			t.Fatalf("failed to count contributions: %v", err)
		}
		if contributions != 1 {
			t.Errorf("expected exactly one contribution record, got %d", contributions)
		}

		// Mirrored expense lands in the Goals category.
		var expense models.Expense
		if err := db.Where("user_id = ?", user.ID).First(&expense).Error; err != nil {
			t.Fatalf("expected a mirrored expense: %v", err)
		}
		if expense.Amount != 2500 {
			t.Errorf("expected expense amount 2500, got %d", expense.Amount)
		}
		if want := fmt.Sprintf("Contribution to %s", goal.Name); expense.Description != want {
			t.Errorf("expected description %q, got %q", want, expense.Description)
		}
		var category models.Category
		if err := db.First(&category, expense.CategoryID).Error; err != nil {
			t.Fatalf("failed to load expense category: %v", err)
		}
		if category.Name != models.GoalsCategoryName {
			t.Errorf("expected expense in %q category, got %q", models.GoalsCategoryName, category.Name)
		}

		// And the ledger saw it.
		snapshot, err := ledger.GetBudgetSnapshot(user.ID)
		testutil.AssertNoError(t, err)
		if snapshot.TotalExpenses != 2500 {
			t.Errorf("expected ledger expenses 2500, got %d", snapshot.TotalExpenses)
		}
	})

	t.Run("reuses_goals_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestGoalService(db)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, nil)

		_, err := svc.Contribute(user.ID, goal.ID, 100)
		testutil.AssertNoError(t, err)
		_, err = svc.Contribute(user.ID, goal.ID, 200)
		testutil.AssertNoError(t, err)

		var categories int64
		if err := db.Model(&models.Category{}).
			Where("user_id = ? AND name = ?", user.ID, models.GoalsCategoryName).
			Count(&categories).Error; err != nil {
			t.Fatalf("failed to count categories: %v", err)
		}
		if categories != 1 {
			t.Errorf("expected one Goals category, got %d", categories)
		}
	})

	t.Run("zero_amount_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestGoalService(db)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, nil)

		_, err := svc.Contribute(user.ID, goal.ID, 0)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
		assertGoalUntouched(t, db, goal.ID)
	})

	t.Run("negative_amount_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestGoalService(db)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, nil)

		_, err := svc.Contribute(user.ID, goal.ID, -500)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
		assertGoalUntouched(t, db, goal.ID)
	})

	t.Run("goal_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestGoalService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Contribute(user.ID, 9999, 100)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})

	t.Run("other_users_goal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestGoalService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, other.ID, nil)

		_, err := svc.Contribute(user.ID, goal.ID, 100)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
		assertGoalUntouched(t, db, goal.ID)
	})

	t.Run("no_budget_still_records", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestGoalService(db)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, nil)

		result, err := svc.Contribute(user.ID, goal.ID, 700)
		testutil.AssertNoError(t, err)
		if result.Goal.CurrentAmount != 700 {
			t.Errorf("expected current amount 700, got %d", result.Goal.CurrentAmount)
		}
		if result.Expense == nil {
			t.Error("expected a mirrored expense even without a budget")
		}
	})
}

// assertGoalUntouched verifies a failed contribution left no trace.
func assertGoalUntouched(t *testing.T, db *gorm.DB, goalID uint) {
	t.Helper()

	var goal models.FinancialGoal
	if err := db.First(&goal, goalID).Error; err != nil {
		t.Fatalf("failed to reload goal: %v", err)
	}
	if goal.CurrentAmount != 0 {
		t.Errorf("expected current amount untouched, got %d", goal.CurrentAmount)
	}

	var contributions int64
	if err := db.Model(&models.GoalContribution{}).Where("goal_id = ?", goalID).Count(&contributions).Error; err != nil {
		t.Fatalf("failed to count contributions: %v", err)
	}
	if contributions != 0 {
		t.Errorf("expected no contribution records, got %d", contributions)
	}
}

func TestGetGoalContributions(t *testing.T) {
	t.Run("lists_newest_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestGoalService(db)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, nil)

		for _, amount := range []int64{100, 200, 300} {
			_, err := svc.Contribute(user.ID, goal.ID, amount)
			testutil.AssertNoError(t, err)
		}

		page, err := svc.GetGoalContributions(user.ID, goal.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 3 {
			t.Errorf("expected 3 contributions, got %d", page.TotalItems)
		}
	})

	t.Run("goal_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestGoalService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetGoalContributions(user.ID, 9999, pagination.PageRequest{})
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}

func TestDeleteGoal(t *testing.T) {
	t.Run("keeps_contribution_history", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestGoalService(db)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, nil)

		_, err := svc.Contribute(user.ID, goal.ID, 100)
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.DeleteGoal(user.ID, goal.ID))

		_, err = svc.GetGoalByID(user.ID, goal.ID)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")

		var contributions int64
		if err := db.Model(&models.GoalContribution{}).Where("goal_id = ?", goal.ID).Count(&contributions).Error; err != nil {
			t.Fatalf("failed to count contributions: %v", err)
		}
		if contributions != 1 {
			t.Errorf("expected contribution history retained, got %d records", contributions)
		}
	})
}
