package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// --- mock bill service ---

type mockBillService struct {
	createBillFn       func(userID uint, name string, amount int64, category models.BillCategory, dueDate time.Time, interval models.BillInterval, reminderTime int) (*models.BillReminder, error)
	getUserBillsFn     func(userID uint, page pagination.PageRequest, unpaidOnly bool) (*pagination.PageResponse[models.BillReminder], error)
	getBillByIDFn      func(userID, billID uint) (*models.BillReminder, error)
	getUpcomingBillsFn func(userID uint, today time.Time) ([]models.BillReminder, error)
	markPaidFn         func(userID, billID uint) (*services.MarkPaidResult, error)
}

func (m *mockBillService) CreateBill(userID uint, name string, amount int64, category models.BillCategory, dueDate time.Time, interval models.BillInterval, reminderTime int) (*models.BillReminder, error) {
	if m.createBillFn != nil {
		return m.createBillFn(userID, name, amount, category, dueDate, interval, reminderTime)
	}
	return &models.BillReminder{}, nil
}

func (m *mockBillService) GetUserBills(userID uint, page pagination.PageRequest, unpaidOnly bool) (*pagination.PageResponse[models.BillReminder], error) {
	if m.getUserBillsFn != nil {
		return m.getUserBillsFn(userID, page, unpaidOnly)
	}
	resp := pagination.NewPageResponse([]models.BillReminder{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockBillService) GetBillByID(userID, billID uint) (*models.BillReminder, error) {
	if m.getBillByIDFn != nil {
		return m.getBillByIDFn(userID, billID)
	}
	return &models.BillReminder{}, nil
}

func (m *mockBillService) GetUpcomingBills(userID uint, today time.Time) ([]models.BillReminder, error) {
	if m.getUpcomingBillsFn != nil {
		return m.getUpcomingBillsFn(userID, today)
	}
	return []models.BillReminder{}, nil
}

func (m *mockBillService) MarkPaid(userID, billID uint) (*services.MarkPaidResult, error) {
	if m.markPaidFn != nil {
		return m.markPaidFn(userID, billID)
	}
	return &services.MarkPaidResult{}, nil
}

var _ services.BillServicer = (*mockBillService)(nil)

func setupBillRouter(handler *BillHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/bills", handler.CreateBill)
	auth.GET("/bills", handler.GetBills)
	auth.GET("/bills/upcoming", handler.GetUpcomingBills)
	auth.GET("/bills/:id", handler.GetBill)
	auth.POST("/bills/:id/pay", handler.MarkPaid)
	return r
}

func TestBillHandler_CreateBill(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockBillService{
			createBillFn: func(_ uint, name string, amount int64, category models.BillCategory, dueDate time.Time, interval models.BillInterval, reminderTime int) (*models.BillReminder, error) {
				return &models.BillReminder{
					Base:              models.Base{ID: 1},
					UserID:            1,
					BillName:          name,
					Amount:            amount,
					Category:          category,
					DueDate:           dueDate,
					RecurringInterval: interval,
					ReminderTime:      reminderTime,
				}, nil
			},
		}
		r := setupBillRouter(NewBillHandler(svc))

		rec := doRequest(r, "POST", "/bills",
			`{"bill_name":"Electricity","amount":4500,"category":"electricity","due_date":"2030-01-15T00:00:00Z","recurring_interval":"monthly","reminder_time":3}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		bill := result["bill"].(map[string]interface{})
		if bill["bill_name"] != "Electricity" {
			t.Errorf("expected Electricity, got %v", bill["bill_name"])
		}
	})

	t.Run("returns 400 on invalid interval", func(t *testing.T) {
		r := setupBillRouter(NewBillHandler(&mockBillService{}))

		rec := doRequest(r, "POST", "/bills",
			`{"bill_name":"Electricity","amount":4500,"category":"electricity","due_date":"2030-01-15T00:00:00Z","recurring_interval":"daily"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBillHandler_MarkPaid(t *testing.T) {
	t.Run("returns 200 with next instance", func(t *testing.T) {
		svc := &mockBillService{
			markPaidFn: func(_, billID uint) (*services.MarkPaidResult, error) {
				return &services.MarkPaidResult{
					Paid: &models.BillReminder{Base: models.Base{ID: billID}, IsPaid: true},
					Next: &models.BillReminder{Base: models.Base{ID: billID + 1}},
				}, nil
			},
		}
		r := setupBillRouter(NewBillHandler(svc))

		rec := doRequest(r, "POST", "/bills/1/pay", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["next"] == nil {
			t.Error("expected next instance in response")
		}
	})

	t.Run("returns 409 when already paid", func(t *testing.T) {
		svc := &mockBillService{
			markPaidFn: func(_, _ uint) (*services.MarkPaidResult, error) {
				return nil, apperrors.ErrBillAlreadyPaid
			},
		}
		r := setupBillRouter(NewBillHandler(svc))

		rec := doRequest(r, "POST", "/bills/1/pay", "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}
