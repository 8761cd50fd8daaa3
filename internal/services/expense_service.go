package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// expenseService handles expense records, keeping the ledger's expense
// total in step with every create, update, and delete.
type expenseService struct {
	db              *gorm.DB
	ledgerService   LedgerServicer
	categoryService CategoryServicer
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, ledgerService LedgerServicer, categoryService CategoryServicer) ExpenseServicer {
	return &expenseService{
		db:              db,
		ledgerService:   ledgerService,
		categoryService: categoryService,
	}
}

// CreateExpense records an expense and applies it to the ledger.
func (s *expenseService) CreateExpense(userID, categoryID uint, amount int64, description string, date time.Time) (*models.Expense, error) {
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	if _, err := s.categoryService.GetCategoryByID(userID, categoryID); err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = time.Now()
	}

	expense := &models.Expense{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: description,
		Date:        dateOnly(date),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.ledgerService.ApplyExpense(tx, userID, amount, expense.Date)
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// GetUserExpenses retrieves a paginated list of the user's expenses,
// optionally filtered by category.
func (s *expenseService) GetUserExpenses(userID uint, page pagination.PageRequest, categoryID *uint) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	if categoryID != nil {
		base = base.Where("category_id = ?", *categoryID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Scopes(pagination.Ordered(page, "date DESC")).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID retrieves an expense by ID for a specific user
func (s *expenseService) GetExpenseByID(userID, expenseID uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense updates an expense's amount and/or description. An
// amount change reverses the old ledger effect and applies the new one.
func (s *expenseService) UpdateExpense(userID, expenseID uint, amount *int64, description string) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	if amount != nil && *amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := make(map[string]interface{})
		if description != "" {
			updates["description"] = description
		}
		if amount != nil && *amount != expense.Amount {
			if err := s.ledgerService.ReverseExpense(tx, userID, expense.Amount, expense.Date); err != nil {
				return err
			}
			if err := s.ledgerService.ApplyExpense(tx, userID, *amount, expense.Date); err != nil {
				return err
			}
			updates["amount"] = *amount
			expense.Amount = *amount
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(expense).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// DeleteExpense removes an expense record and reverses its ledger effect.
func (s *expenseService) DeleteExpense(userID, expenseID uint) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.ledgerService.ReverseExpense(tx, userID, expense.Amount, expense.Date)
	})
}
