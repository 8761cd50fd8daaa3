package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// goalService handles savings-goal business logic.
type goalService struct {
	db              *gorm.DB
	ledgerService   LedgerServicer
	categoryService CategoryServicer
	now             func() time.Time
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB, ledgerService LedgerServicer, categoryService CategoryServicer) GoalServicer {
	return &goalService{
		db:              db,
		ledgerService:   ledgerService,
		categoryService: categoryService,
		now:             time.Now,
	}
}

// CreateGoal creates a new savings goal. Target/allocation constraints
// are enforced here only; accrual past the target is not blocked later.
func (s *goalService) CreateGoal(
	userID uint,
	name, description string,
	targetAmount, currentAmount, allocatedAmount int64,
	targetDate time.Time,
	recurrence models.GoalRecurrence,
	incomeSourceID *uint,
) (*models.FinancialGoal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if currentAmount < 0 || allocatedAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amounts cannot be negative")
	}
	if targetAmount < currentAmount {
		return nil, apperrors.ErrTargetBelowSaved
	}
	if dateOnly(targetDate).Before(dateOnly(s.now())) {
		return nil, apperrors.ErrInvalidTargetDate
	}

	if incomeSourceID != nil {
		var source models.IncomeSource
		if err := s.db.Where("id = ? AND user_id = ?", *incomeSourceID, userID).First(&source).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrIncomeSourceNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	goal := &models.FinancialGoal{
		UserID:          userID,
		Name:            name,
		Description:     description,
		TargetAmount:    targetAmount,
		CurrentAmount:   currentAmount,
		AllocatedAmount: allocatedAmount,
		TargetDate:      dateOnly(targetDate),
		Recurrence:      recurrence,
		IncomeSourceID:  incomeSourceID,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// GetUserGoals returns a paginated list of the user's goals.
func (s *goalService) GetUserGoals(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.FinancialGoal], error) {
	page.Defaults()

	base := s.db.Model(&models.FinancialGoal{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.FinancialGoal
	if err := base.Scopes(pagination.Paginate(page)).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID returns a goal by ID if it belongs to the user.
func (s *goalService) GetGoalByID(userID, goalID uint) (*models.FinancialGoal, error) {
	var goal models.FinancialGoal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// DeleteGoal soft-deletes a goal. Contribution history is retained.
func (s *goalService) DeleteGoal(userID, goalID uint) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Contribute moves funds into a goal. The goal increment, contribution
// record, mirrored expense, and ledger update commit or roll back
// together; a partial contribution can never become visible.
func (s *goalService) Contribute(userID, goalID uint, amount int64) (*ContributionResult, error) {
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	unlock := entityLocks.Lock(goalKey(goalID))
	defer unlock()

	var result *ContributionResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var goal models.FinancialGoal
		if err := tx.
			Where("id = ? AND user_id = ?", goalID, userID).
			First(&goal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrGoalNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		contribution, expense, err := s.ApplyContribution(tx, &goal, amount, s.now())
		if err != nil {
			return err
		}

		result = &ContributionResult{
			Goal:         &goal,
			Contribution: contribution,
			Expense:      expense,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyContribution performs the contribution core on an open
// transaction. The caller must already hold the goal's entity lock.
// Manual contributions and scheduler transfers both land here, so both
// leave the same paper trail.
func (s *goalService) ApplyContribution(tx *gorm.DB, goal *models.FinancialGoal, amount int64, now time.Time) (*models.GoalContribution, *models.Expense, error) {
	goal.CurrentAmount += amount
	if err := tx.Model(goal).Update("current_amount", goal.CurrentAmount).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	contribution := &models.GoalContribution{
		GoalID: goal.ID,
		UserID: goal.UserID,
		Amount: amount,
		Date:   now,
	}
	if err := tx.Create(contribution).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	category, err := s.categoryService.GetOrCreate(tx, goal.UserID, models.GoalsCategoryName)
	if err != nil {
		return nil, nil, err
	}

	expense := &models.Expense{
		UserID:      goal.UserID,
		CategoryID:  category.ID,
		Amount:      amount,
		Description: fmt.Sprintf("Contribution to %s", goal.Name),
		Date:        dateOnly(now),
	}
	if err := tx.Create(expense).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.ledgerService.ApplyExpense(tx, goal.UserID, amount, expense.Date); err != nil {
		return nil, nil, err
	}

	return contribution, expense, nil
}

// GetGoalContributions returns the contribution history for a goal.
func (s *goalService) GetGoalContributions(userID, goalID uint, page pagination.PageRequest) (*pagination.PageResponse[models.GoalContribution], error) {
	if _, err := s.GetGoalByID(userID, goalID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.GoalContribution{}).Where("goal_id = ?", goalID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var contributions []models.GoalContribution
	if err := base.Scopes(pagination.Ordered(page, "date DESC")).Find(&contributions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(contributions, page.Page, page.PageSize, totalItems)
	return &result, nil
}
