package services

import (
	"time"

	"gorm.io/gorm"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// BudgetSnapshot is the caller-facing view of a user's ledger state.
type BudgetSnapshot struct {
	BudgetID      uint                `json:"budget_id"`
	Period        models.BudgetPeriod `json:"period"`
	BudgetLimit   int64               `json:"budget_limit"`
	TotalIncome   int64               `json:"total_income"`
	TotalExpenses int64               `json:"total_expenses"`
	Balance       int64               `json:"balance"`
	IsOverBudget  bool                `json:"is_over_budget"`
	LastResetDate time.Time           `json:"last_reset_date"`
}

// LedgerServicer owns a user's running income/expense totals.
//
// The Apply/Reverse methods take a *gorm.DB so callers can compose them
// into a larger transaction; they are no-ops when the user has no budget.
type LedgerServicer interface {
	CreateBudget(userID uint, name, description string, limit int64, period models.BudgetPeriod) (*models.Budget, error)
	UpdateBudget(userID, budgetID uint, limit *int64, period *models.BudgetPeriod) (*models.Budget, error)
	GetBudgetSnapshot(userID uint) (*BudgetSnapshot, error)
	ApplyIncome(tx *gorm.DB, userID uint, amount int64, date time.Time) error
	ApplyExpense(tx *gorm.DB, userID uint, amount int64, date time.Time) error
	ReverseIncome(tx *gorm.DB, userID uint, amount int64, date time.Time) error
	ReverseExpense(tx *gorm.DB, userID uint, amount int64, date time.Time) error
}

// GoalServicer defines the contract for savings-goal business logic.
//
// ApplyContribution is the single entry point shared by manual
// contributions and scheduler transfers: it increments the goal, appends
// the contribution record, mirrors the amount as a "Goals" expense, and
// forwards it into the ledger, all on the supplied transaction.
type GoalServicer interface {
	CreateGoal(userID uint, name, description string, targetAmount, currentAmount, allocatedAmount int64, targetDate time.Time, recurrence models.GoalRecurrence, incomeSourceID *uint) (*models.FinancialGoal, error)
	GetUserGoals(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.FinancialGoal], error)
	GetGoalByID(userID, goalID uint) (*models.FinancialGoal, error)
	DeleteGoal(userID, goalID uint) error
	Contribute(userID, goalID uint, amount int64) (*ContributionResult, error)
	ApplyContribution(tx *gorm.DB, goal *models.FinancialGoal, amount int64, now time.Time) (*models.GoalContribution, *models.Expense, error)
	GetGoalContributions(userID, goalID uint, page pagination.PageRequest) (*pagination.PageResponse[models.GoalContribution], error)
}

// ContributionResult carries everything a contribution produced.
type ContributionResult struct {
	Goal         *models.FinancialGoal    `json:"goal"`
	Contribution *models.GoalContribution `json:"contribution"`
	Expense      *models.Expense          `json:"expense"`
}

// Transfer is one scheduler-computed movement of funds from an income
// record into a goal.
type Transfer struct {
	GoalID   uint
	IncomeID uint
	Amount   int64
	Date     time.Time
}

// TransferServicer runs the recurring goal-funding tick.
type TransferServicer interface {
	RunTick(now time.Time) (int, error)
}

// BillServicer defines the contract for bill-reminder business logic.
type BillServicer interface {
	CreateBill(userID uint, name string, amount int64, category models.BillCategory, dueDate time.Time, interval models.BillInterval, reminderTime int) (*models.BillReminder, error)
	GetUserBills(userID uint, page pagination.PageRequest, unpaidOnly bool) (*pagination.PageResponse[models.BillReminder], error)
	GetBillByID(userID, billID uint) (*models.BillReminder, error)
	GetUpcomingBills(userID uint, today time.Time) ([]models.BillReminder, error)
	MarkPaid(userID, billID uint) (*MarkPaidResult, error)
}

// MarkPaidResult holds the settled bill and, for recurring intervals,
// the freshly spawned next instance.
type MarkPaidResult struct {
	Paid *models.BillReminder `json:"paid"`
	Next *models.BillReminder `json:"next,omitempty"`
}

// CategoryServicer defines the contract for category business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string) (*models.Category, error)
	GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
	GetOrCreate(tx *gorm.DB, userID uint, name string) (*models.Category, error)
}

// IncomeServicer defines the contract for income sources and records.
type IncomeServicer interface {
	CreateSource(userID uint, sourceName string) (*models.IncomeSource, error)
	GetUserSources(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.IncomeSource], error)
	CreateIncome(userID, sourceID uint, amount int64, description string, date time.Time) (*models.Income, error)
	GetUserIncomes(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error)
	DeleteIncome(userID, incomeID uint) error
}

// ExpenseServicer defines the contract for expense records.
type ExpenseServicer interface {
	CreateExpense(userID, categoryID uint, amount int64, description string, date time.Time) (*models.Expense, error)
	GetUserExpenses(userID uint, page pagination.PageRequest, categoryID *uint) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID uint) (*models.Expense, error)
	UpdateExpense(userID, expenseID uint, amount *int64, description string) (*models.Expense, error)
	DeleteExpense(userID, expenseID uint) error
}
