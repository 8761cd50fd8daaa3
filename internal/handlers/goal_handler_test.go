package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// --- mock goal service ---

type mockGoalService struct {
	createGoalFn           func(userID uint, name, description string, targetAmount, currentAmount, allocatedAmount int64, targetDate time.Time, recurrence models.GoalRecurrence, incomeSourceID *uint) (*models.FinancialGoal, error)
	getUserGoalsFn         func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.FinancialGoal], error)
	getGoalByIDFn          func(userID, goalID uint) (*models.FinancialGoal, error)
	deleteGoalFn           func(userID, goalID uint) error
	contributeFn           func(userID, goalID uint, amount int64) (*services.ContributionResult, error)
	getGoalContributionsFn func(userID, goalID uint, page pagination.PageRequest) (*pagination.PageResponse[models.GoalContribution], error)
}

func (m *mockGoalService) CreateGoal(userID uint, name, description string, targetAmount, currentAmount, allocatedAmount int64, targetDate time.Time, recurrence models.GoalRecurrence, incomeSourceID *uint) (*models.FinancialGoal, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(userID, name, description, targetAmount, currentAmount, allocatedAmount, targetDate, recurrence, incomeSourceID)
	}
	return &models.FinancialGoal{}, nil
}

func (m *mockGoalService) GetUserGoals(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.FinancialGoal], error) {
	if m.getUserGoalsFn != nil {
		return m.getUserGoalsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.FinancialGoal{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockGoalService) GetGoalByID(userID, goalID uint) (*models.FinancialGoal, error) {
	if m.getGoalByIDFn != nil {
		return m.getGoalByIDFn(userID, goalID)
	}
	return &models.FinancialGoal{}, nil
}

func (m *mockGoalService) DeleteGoal(userID, goalID uint) error {
	if m.deleteGoalFn != nil {
		return m.deleteGoalFn(userID, goalID)
	}
	return nil
}

func (m *mockGoalService) Contribute(userID, goalID uint, amount int64) (*services.ContributionResult, error) {
	if m.contributeFn != nil {
		return m.contributeFn(userID, goalID, amount)
	}
	return &services.ContributionResult{}, nil
}

func (m *mockGoalService) ApplyContribution(_ *gorm.DB, _ *models.FinancialGoal, _ int64, _ time.Time) (*models.GoalContribution, *models.Expense, error) {
	return nil, nil, nil
}

func (m *mockGoalService) GetGoalContributions(userID, goalID uint, page pagination.PageRequest) (*pagination.PageResponse[models.GoalContribution], error) {
	if m.getGoalContributionsFn != nil {
		return m.getGoalContributionsFn(userID, goalID, page)
	}
	resp := pagination.NewPageResponse([]models.GoalContribution{}, 1, 20, 0)
	return &resp, nil
}

var _ services.GoalServicer = (*mockGoalService)(nil)

func setupGoalRouter(handler *GoalHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/goals", handler.CreateGoal)
	auth.GET("/goals", handler.GetGoals)
	auth.GET("/goals/:id", handler.GetGoal)
	auth.DELETE("/goals/:id", handler.DeleteGoal)
	auth.POST("/goals/:id/contribute", handler.Contribute)
	auth.GET("/goals/:id/contributions", handler.GetContributions)
	return r
}

func TestGoalHandler_CreateGoal(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockGoalService{
			createGoalFn: func(_ uint, name, _ string, targetAmount, _, _ int64, _ time.Time, recurrence models.GoalRecurrence, _ *uint) (*models.FinancialGoal, error) {
				return &models.FinancialGoal{
					Base:         models.Base{ID: 1},
					UserID:       1,
					Name:         name,
					TargetAmount: targetAmount,
					Recurrence:   recurrence,
				}, nil
			},
		}
		r := setupGoalRouter(NewGoalHandler(svc))

		rec := doRequest(r, "POST", "/goals",
			`{"name":"Vacation","target_amount":100000,"target_date":"2030-01-01T00:00:00Z","recurrence":"weekly"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		goal := result["goal"].(map[string]interface{})
		if goal["name"] != "Vacation" {
			t.Errorf("expected Vacation, got %v", goal["name"])
		}
	})

	t.Run("returns 400 on invalid recurrence", func(t *testing.T) {
		r := setupGoalRouter(NewGoalHandler(&mockGoalService{}))

		rec := doRequest(r, "POST", "/goals",
			`{"name":"Vacation","target_amount":100000,"target_date":"2030-01-01T00:00:00Z","recurrence":"hourly"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestGoalHandler_Contribute(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockGoalService{
			contributeFn: func(_, goalID uint, amount int64) (*services.ContributionResult, error) {
				return &services.ContributionResult{
					Goal: &models.FinancialGoal{
						Base:          models.Base{ID: goalID},
						CurrentAmount: amount,
					},
					Contribution: &models.GoalContribution{GoalID: goalID, Amount: amount},
				}, nil
			},
		}
		r := setupGoalRouter(NewGoalHandler(svc))

		rec := doRequest(r, "POST", "/goals/1/contribute", `{"amount":2500}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		goal := result["goal"].(map[string]interface{})
		if goal["current_amount"].(float64) != 2500 {
			t.Errorf("expected current_amount 2500, got %v", goal["current_amount"])
		}
	})

	t.Run("returns 400 on non-positive amount", func(t *testing.T) {
		svc := &mockGoalService{
			contributeFn: func(_, _ uint, _ int64) (*services.ContributionResult, error) {
				return nil, apperrors.ErrInvalidAmount
			},
		}
		r := setupGoalRouter(NewGoalHandler(svc))

		rec := doRequest(r, "POST", "/goals/1/contribute", `{"amount":-5}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		errObj := result["error"].(map[string]interface{})
		if errObj["code"] != "INVALID_AMOUNT" {
			t.Errorf("expected INVALID_AMOUNT, got %v", errObj["code"])
		}
	})

	t.Run("returns 404 on unknown goal", func(t *testing.T) {
		svc := &mockGoalService{
			contributeFn: func(_, _ uint, _ int64) (*services.ContributionResult, error) {
				return nil, apperrors.ErrGoalNotFound
			},
		}
		r := setupGoalRouter(NewGoalHandler(svc))

		rec := doRequest(r, "POST", "/goals/42/contribute", `{"amount":100}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad goal id", func(t *testing.T) {
		r := setupGoalRouter(NewGoalHandler(&mockGoalService{}))

		rec := doRequest(r, "POST", "/goals/abc/contribute", `{"amount":100}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
