package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/services"
)

// TransferHandler exposes the scheduler's tick over an internal endpoint.
type TransferHandler struct {
	transferService services.TransferServicer
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferService services.TransferServicer) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// Tick runs one pass of the recurring transfer engine.
// @Summary     Run a transfer tick
// @Description Execute all pending recurring goal transfers. Internal endpoint, guarded by the scheduler API key.
// @Tags        internal
// @Produce     json
// @Param       X-API-Key header string true "Scheduler API key"
// @Success     200 {object} map[string]int "Number of executed transfers"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /internal/transfers/tick [post]
func (h *TransferHandler) Tick(c *gin.Context) {
	executed, err := h.transferService.RunTick(time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"executed": executed})
}
