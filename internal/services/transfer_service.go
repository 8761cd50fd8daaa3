package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// errInsufficientFunds marks a transfer whose income could no longer
// cover it at execution time. It is a skip condition, never surfaced.
var errInsufficientFunds = errors.New("insufficient funds for transfer")

// transferService executes the recurring goal-funding tick. Correctness
// depends on the external clock firing it once per day: a second run in
// the same period transfers again.
type transferService struct {
	db          *gorm.DB
	goalService GoalServicer
}

// NewTransferService creates a new TransferServicer.
func NewTransferService(db *gorm.DB, goalService GoalServicer) TransferServicer {
	return &transferService{db: db, goalService: goalService}
}

// TransferMultiplier scales a goal's per-day allocation to its
// recurrence period. Unrecognized recurrences transfer nothing.
func TransferMultiplier(recurrence models.GoalRecurrence) int64 {
	switch recurrence {
	case models.GoalRecurrenceDaily:
		return 1
	case models.GoalRecurrenceWeekly:
		return 7
	case models.GoalRecurrenceMonthly:
		return 30
	default:
		return 0
	}
}

// ComputeTransfers decides, without touching storage, which transfers
// the tick should execute. For each unfinished recurring goal it takes
// the first income of the goal's source and owner; goals whose income
// is missing or short are skipped until the next tick.
func ComputeTransfers(goals []models.FinancialGoal, incomes []models.Income, today time.Time) []Transfer {
	transfers := make([]Transfer, 0, len(goals))

	for _, goal := range goals {
		if goal.CurrentAmount >= goal.TargetAmount || goal.IncomeSourceID == nil {
			continue
		}

		amount := goal.AllocatedAmount * TransferMultiplier(goal.Recurrence)
		if amount <= 0 {
			continue
		}

		income := firstIncomeFor(incomes, goal.UserID, *goal.IncomeSourceID)
		if income == nil || income.Amount < amount {
			continue
		}

		transfers = append(transfers, Transfer{
			GoalID:   goal.ID,
			IncomeID: income.ID,
			Amount:   amount,
			Date:     dateOnly(today),
		})
	}

	return transfers
}

func firstIncomeFor(incomes []models.Income, userID, sourceID uint) *models.Income {
	for i := range incomes {
		if incomes[i].UserID == userID && incomes[i].SourceID == sourceID {
			return &incomes[i]
		}
	}
	return nil
}

// RunTick loads the eligible goals and incomes, computes the pending
// transfers, and executes each one in its own transaction. A failing
// goal is logged and skipped; it never aborts the rest of the tick.
func (s *transferService) RunTick(now time.Time) (int, error) {
	var goals []models.FinancialGoal
	if err := s.db.
		Where("current_amount < target_amount AND recurrence <> ? AND income_source_id IS NOT NULL", models.GoalRecurrenceNone).
		Find(&goals).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var incomes []models.Income
	if err := s.db.Order("id").Find(&incomes).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	transfers := ComputeTransfers(goals, incomes, now)

	log := logger.Get()
	log.Infow("transfer tick computed",
		"eligible_goals", len(goals),
		"transfers", len(transfers),
	)

	executed := 0
	for _, transfer := range transfers {
		if err := s.execute(transfer, now); err != nil {
			if errors.Is(err, errInsufficientFunds) {
				continue
			}
			log.Errorw("transfer failed",
				"goal_id", transfer.GoalID,
				"income_id", transfer.IncomeID,
				"amount", transfer.Amount,
				"error", err,
			)
			continue
		}
		executed++
	}

	log.Infow("transfer tick complete", "executed", executed)
	return executed, nil
}

// execute moves one transfer: draw down the income, then run the shared
// contribution core so automatic transfers are recorded exactly like
// manual ones. The income balance is re-checked under lock since
// ComputeTransfers read it without one.
func (s *transferService) execute(transfer Transfer, now time.Time) error {
	unlockIncome := entityLocks.Lock(incomeKey(transfer.IncomeID))
	defer unlockIncome()
	unlockGoal := entityLocks.Lock(goalKey(transfer.GoalID))
	defer unlockGoal()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var income models.Income
		if err := tx.First(&income, transfer.IncomeID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if income.Amount < transfer.Amount {
			return errInsufficientFunds
		}

		if err := tx.Model(&income).
			Update("amount", income.Amount-transfer.Amount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var goal models.FinancialGoal
		if err := tx.First(&goal, transfer.GoalID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		_, _, err := s.goalService.ApplyContribution(tx, &goal, transfer.Amount, now)
		return err
	})
}
