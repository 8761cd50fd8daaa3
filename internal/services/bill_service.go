package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// billService handles bill reminders and their recurring rollover.
type billService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewBillService creates a new BillServicer.
func NewBillService(db *gorm.DB) BillServicer {
	return &billService{db: db, now: time.Now}
}

// NextDueDate computes the due date of the instance that follows one due
// on the given date. The second return is false for one_time bills,
// which never roll over. Month-based intervals clamp the day-of-month,
// so a bill due Jan 31 recurs on Feb 28/29, then Mar 28/29.
func NextDueDate(due time.Time, interval models.BillInterval) (time.Time, bool) {
	switch interval {
	case models.BillIntervalWeekly:
		return dateOnly(due).AddDate(0, 0, 7), true
	case models.BillIntervalMonthly:
		return addMonthsClamp(due, 1), true
	case models.BillIntervalQuarterly:
		return addMonthsClamp(due, 3), true
	case models.BillIntervalYearly:
		return addMonthsClamp(due, 12), true
	default:
		return time.Time{}, false
	}
}

// CreateBill creates a new bill reminder.
func (s *billService) CreateBill(
	userID uint,
	name string,
	amount int64,
	category models.BillCategory,
	dueDate time.Time,
	interval models.BillInterval,
	reminderTime int,
) (*models.BillReminder, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bill name is required")
	}
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if reminderTime < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "reminder time cannot be negative")
	}

	bill := &models.BillReminder{
		UserID:            userID,
		BillName:          name,
		Amount:            amount,
		Category:          category,
		DueDate:           dateOnly(dueDate),
		RecurringInterval: interval,
		ReminderTime:      reminderTime,
	}

	if err := s.db.Create(bill).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return bill, nil
}

// GetUserBills returns the user's bills ordered by due date.
func (s *billService) GetUserBills(userID uint, page pagination.PageRequest, unpaidOnly bool) (*pagination.PageResponse[models.BillReminder], error) {
	page.Defaults()

	base := s.db.Model(&models.BillReminder{}).Where("user_id = ?", userID)
	if unpaidOnly {
		base = base.Where("is_paid = ?", false)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var bills []models.BillReminder
	if err := base.Scopes(pagination.Ordered(page, "due_date")).Find(&bills).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(bills, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBillByID returns a bill by ID if it belongs to the user.
func (s *billService) GetBillByID(userID, billID uint) (*models.BillReminder, error) {
	var bill models.BillReminder
	if err := s.db.Where("id = ? AND user_id = ?", billID, userID).First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBillNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &bill, nil
}

// GetUpcomingBills returns unpaid bills inside their reminder window:
// due within reminder_time days of today (overdue bills included).
func (s *billService) GetUpcomingBills(userID uint, today time.Time) ([]models.BillReminder, error) {
	var bills []models.BillReminder
	err := s.db.
		Where("user_id = ? AND is_paid = ?", userID, false).
		Order("due_date").
		Find(&bills).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// reminder_time varies per bill, so the window check happens here
	// rather than in SQL.
	upcoming := make([]models.BillReminder, 0, len(bills))
	cutoff := dateOnly(today)
	for _, bill := range bills {
		windowStart := dateOnly(bill.DueDate).AddDate(0, 0, -bill.ReminderTime)
		if !cutoff.Before(windowStart) {
			upcoming = append(upcoming, bill)
		}
	}
	return upcoming, nil
}

// MarkPaid marks a bill as paid and, for recurring intervals, spawns the
// next unpaid instance with the rolled-over due date. The paid instance
// is kept as history. Both writes commit together.
func (s *billService) MarkPaid(userID, billID uint) (*MarkPaidResult, error) {
	var result *MarkPaidResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var bill models.BillReminder
		if err := tx.
			Where("id = ? AND user_id = ?", billID, userID).
			First(&bill).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrBillNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if bill.IsPaid {
			return apperrors.ErrBillAlreadyPaid
		}

		paidAt := s.now()
		bill.IsPaid = true
		bill.PaymentDate = &paidAt
		if err := tx.Model(&bill).Updates(map[string]interface{}{
			"is_paid":      true,
			"payment_date": paidAt,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		result = &MarkPaidResult{Paid: &bill}

		nextDue, recurring := NextDueDate(bill.DueDate, bill.RecurringInterval)
		if !recurring {
			return nil
		}

		next := &models.BillReminder{
			UserID:            bill.UserID,
			BillName:          bill.BillName,
			Amount:            bill.Amount,
			Category:          bill.Category,
			DueDate:           nextDue,
			RecurringInterval: bill.RecurringInterval,
			ReminderTime:      bill.ReminderTime,
		}
		if err := tx.Create(next).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		result.Next = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
