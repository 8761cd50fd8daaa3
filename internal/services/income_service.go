package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// incomeService handles income sources and income records. Creates and
// deletes are forwarded into the ledger so the budget totals stay
// consistent with the primary records.
type incomeService struct {
	db            *gorm.DB
	ledgerService LedgerServicer
}

// NewIncomeService creates a new IncomeServicer.
func NewIncomeService(db *gorm.DB, ledgerService LedgerServicer) IncomeServicer {
	return &incomeService{db: db, ledgerService: ledgerService}
}

// CreateSource creates a new income source for the user.
func (s *incomeService) CreateSource(userID uint, sourceName string) (*models.IncomeSource, error) {
	if sourceName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "source name is required")
	}

	source := &models.IncomeSource{
		UserID:     userID,
		SourceName: sourceName,
	}
	if err := s.db.Create(source).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return source, nil
}

// GetUserSources retrieves a paginated list of the user's income sources.
func (s *incomeService) GetUserSources(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.IncomeSource], error) {
	page.Defaults()

	base := s.db.Model(&models.IncomeSource{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var sources []models.IncomeSource
	if err := base.Scopes(pagination.Paginate(page)).Find(&sources).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(sources, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// CreateIncome records an income and applies it to the ledger. The
// record and the ledger update commit together.
func (s *incomeService) CreateIncome(userID, sourceID uint, amount int64, description string, date time.Time) (*models.Income, error) {
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	var source models.IncomeSource
	if err := s.db.Where("id = ? AND user_id = ?", sourceID, userID).First(&source).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeSourceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if date.IsZero() {
		date = time.Now()
	}

	income := &models.Income{
		UserID:      userID,
		SourceID:    sourceID,
		Amount:      amount,
		Description: description,
		Date:        dateOnly(date),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(income).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.ledgerService.ApplyIncome(tx, userID, amount, income.Date)
	})
	if err != nil {
		return nil, err
	}
	return income, nil
}

// GetUserIncomes retrieves a paginated list of the user's income records.
func (s *incomeService) GetUserIncomes(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error) {
	page.Defaults()

	base := s.db.Model(&models.Income{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var incomes []models.Income
	if err := base.Scopes(pagination.Ordered(page, "date DESC")).Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(incomes, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteIncome removes an income record and reverses its ledger effect.
func (s *incomeService) DeleteIncome(userID, incomeID uint) error {
	var income models.Income
	if err := s.db.Where("id = ? AND user_id = ?", incomeID, userID).First(&income).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrIncomeNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&income).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.ledgerService.ReverseIncome(tx, userID, income.Amount, income.Date)
	})
}
