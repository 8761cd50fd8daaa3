package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// BillHandler handles bill reminder requests.
type BillHandler struct {
	billService services.BillServicer
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(billService services.BillServicer) *BillHandler {
	return &BillHandler{billService: billService}
}

// CreateBillRequest represents the request payload for creating a bill reminder.
type CreateBillRequest struct {
	BillName          string              `json:"bill_name" binding:"required,min=1,max=100"`
	Amount            int64               `json:"amount" binding:"required"`
	Category          models.BillCategory `json:"category" binding:"required,bill_category"`
	DueDate           time.Time           `json:"due_date" binding:"required"`
	RecurringInterval models.BillInterval `json:"recurring_interval" binding:"required,bill_interval"`
	ReminderTime      int                 `json:"reminder_time" binding:"omitempty,gte=0"`
}

// CreateBill handles the creation of a new bill reminder.
// @Summary     Create a bill reminder
// @Tags        bills
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBillRequest true "Bill details"
// @Success     201 {object} models.BillReminder "Bill created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /bills [post]
func (h *BillHandler) CreateBill(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	bill, err := h.billService.CreateBill(
		userID, req.BillName, req.Amount, req.Category,
		req.DueDate, req.RecurringInterval, req.ReminderTime,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bill": bill})
}

// GetBills handles listing the user's bills.
// @Summary     Get bills
// @Description Get a paginated list of the user's bills ordered by due date
// @Tags        bills
// @Produce     json
// @Security    BearerAuth
// @Param       unpaid_only query bool false "Only unpaid bills"
// @Param       page        query int  false "Page number (default 1)"
// @Param       page_size   query int  false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.BillReminder] "Paginated bills"
// @Router      /bills [get]
func (h *BillHandler) GetBills(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	unpaidOnly := c.Query("unpaid_only") == "true"

	result, err := h.billService.GetUserBills(userID, page, unpaidOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBill handles retrieving a specific bill.
// @Summary     Get bill by ID
// @Tags        bills
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Bill ID"
// @Success     200 {object} models.BillReminder "Bill details"
// @Failure     404 {object} ErrorResponse "Bill not found"
// @Router      /bills/{id} [get]
func (h *BillHandler) GetBill(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	billID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	bill, err := h.billService.GetBillByID(userID, billID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bill": bill})
}

// GetUpcomingBills handles listing bills inside their reminder window.
// @Summary     Get upcoming bills
// @Description Get unpaid bills due within their per-bill reminder window, overdue bills included
// @Tags        bills
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.BillReminder "Upcoming bills"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /bills/upcoming [get]
func (h *BillHandler) GetUpcomingBills(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	bills, err := h.billService.GetUpcomingBills(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bills": bills})
}

// MarkPaid handles marking a bill as paid.
// @Summary     Mark bill paid
// @Description Mark a bill as paid; recurring bills spawn the next unpaid instance
// @Tags        bills
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Bill ID"
// @Success     200 {object} services.MarkPaidResult "Settled bill and next instance, if any"
// @Failure     404 {object} ErrorResponse "Bill not found"
// @Failure     409 {object} ErrorResponse "Bill already paid"
// @Router      /bills/{id}/pay [post]
func (h *BillHandler) MarkPaid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	billID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.billService.MarkPaid(userID, billID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
