package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// ledgerService keeps a user's Budget totals consistent with their
// income and expense records.
type ledgerService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB) LedgerServicer {
	return &ledgerService{db: db, now: time.Now}
}

// CreateBudget creates the user's budget with zeroed totals.
func (s *ledgerService) CreateBudget(userID uint, name, description string, limit int64, period models.BudgetPeriod) (*models.Budget, error) {
	if limit < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget limit cannot be negative")
	}

	budget := &models.Budget{
		UserID:        userID,
		Name:          name,
		Description:   description,
		Period:        period,
		BudgetLimit:   limit,
		LastResetDate: dateOnly(s.now()),
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// UpdateBudget updates the limit and/or period of an existing budget.
func (s *ledgerService) UpdateBudget(userID, budgetID uint, limit *int64, period *models.BudgetPeriod) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := make(map[string]interface{})
	if limit != nil {
		if *limit < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget limit cannot be negative")
		}
		updates["budget_limit"] = *limit
	}
	if period != nil {
		updates["period"] = *period
	}

	if len(updates) > 0 {
		if err := s.db.Model(&budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return &budget, nil
}

// GetBudgetSnapshot returns the user's current ledger state. Reading is
// what triggers the lazy period reset, so a stale budget is rolled over
// before it is reported.
func (s *ledgerService) GetBudgetSnapshot(userID uint) (*BudgetSnapshot, error) {
	unlock := entityLocks.Lock(budgetKey(userID))
	defer unlock()

	var snapshot *BudgetSnapshot
	err := s.db.Transaction(func(tx *gorm.DB) error {
		budget, err := s.findBudget(tx, userID)
		if err != nil {
			return err
		}
		if budget == nil {
			return apperrors.ErrBudgetNotFound
		}
		if err := s.ensureCurrentPeriod(tx, budget); err != nil {
			return err
		}
		snapshot = &BudgetSnapshot{
			BudgetID:      budget.ID,
			Period:        budget.Period,
			BudgetLimit:   budget.BudgetLimit,
			TotalIncome:   budget.TotalIncome,
			TotalExpenses: budget.TotalExpenses,
			Balance:       budget.Balance(),
			IsOverBudget:  budget.IsOverBudget(),
			LastResetDate: budget.LastResetDate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// ApplyIncome adds an income amount to the period total. Only records
// dated today move the ledger; no budget means no-op, never an error.
func (s *ledgerService) ApplyIncome(tx *gorm.DB, userID uint, amount int64, date time.Time) error {
	return s.adjust(tx, userID, date, func(b *models.Budget) {
		b.TotalIncome += amount
	})
}

// ApplyExpense adds an expense amount to the period total.
func (s *ledgerService) ApplyExpense(tx *gorm.DB, userID uint, amount int64, date time.Time) error {
	return s.adjust(tx, userID, date, func(b *models.Budget) {
		b.TotalExpenses += amount
	})
}

// ReverseIncome backs an income amount out of the period total, e.g.
// when a record dated today is deleted.
func (s *ledgerService) ReverseIncome(tx *gorm.DB, userID uint, amount int64, date time.Time) error {
	return s.adjust(tx, userID, date, func(b *models.Budget) {
		b.TotalIncome -= amount
		if b.TotalIncome < 0 {
			b.TotalIncome = 0
		}
	})
}

// ReverseExpense backs an expense amount out of the period total.
func (s *ledgerService) ReverseExpense(tx *gorm.DB, userID uint, amount int64, date time.Time) error {
	return s.adjust(tx, userID, date, func(b *models.Budget) {
		b.TotalExpenses -= amount
		if b.TotalExpenses < 0 {
			b.TotalExpenses = 0
		}
	})
}

// adjust locks the user's budget, rolls the period over if stale, and
// applies the mutation when the record is dated today.
func (s *ledgerService) adjust(tx *gorm.DB, userID uint, date time.Time, mutate func(*models.Budget)) error {
	unlock := entityLocks.Lock(budgetKey(userID))
	defer unlock()

	budget, err := s.findBudget(tx, userID)
	if err != nil {
		return err
	}
	if budget == nil {
		// No budget for this user: the primary record still exists,
		// the ledger just doesn't track it.
		return nil
	}

	if err := s.ensureCurrentPeriod(tx, budget); err != nil {
		return err
	}

	if !sameDay(date, s.now()) {
		return nil
	}

	mutate(budget)
	if err := tx.Model(budget).Updates(map[string]interface{}{
		"total_income":   budget.TotalIncome,
		"total_expenses": budget.TotalExpenses,
	}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// findBudget fetches the user's budget. Returns nil without error when
// the user has no budget.
func (s *ledgerService) findBudget(tx *gorm.DB, userID uint) (*models.Budget, error) {
	var budget models.Budget
	err := tx.Where("user_id = ?", userID).First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// ensureCurrentPeriod zeroes the totals when the budget's last reset
// predates the current period window and stamps the reset date with
// today. Called at the start of every ledger operation.
func (s *ledgerService) ensureCurrentPeriod(tx *gorm.DB, budget *models.Budget) error {
	today := s.now()
	start := periodStart(budget.Period, today)
	if !dateOnly(budget.LastResetDate).Before(start) {
		return nil
	}

	budget.TotalIncome = 0
	budget.TotalExpenses = 0
	budget.LastResetDate = dateOnly(today)
	if err := tx.Model(budget).Updates(map[string]interface{}{
		"total_income":    0,
		"total_expenses":  0,
		"last_reset_date": budget.LastResetDate,
	}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
