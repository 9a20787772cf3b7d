package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/ecucondor/rates_backend/internal/core/ports/services"
	"github.com/ecucondor/rates_backend/internal/dto"
	"github.com/ecucondor/rates_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler executes locked quotes.
type transactionHandler struct {
	exchangeService portssvc.ExchangeSvcFacade
}

func newTransactionHandler(es portssvc.ExchangeSvcFacade) *transactionHandler {
	return &transactionHandler{exchangeService: es}
}

// registerTransactionRoutes registers routes related to transaction execution.
func registerTransactionRoutes(rg *gin.RouterGroup, exchangeService portssvc.ExchangeSvcFacade) {
	h := newTransactionHandler(exchangeService)
	rg.POST("/transactions", h.executeTransaction)
}

// executeTransaction godoc
// @Summary Execute a locked quote
// @Description Consumes the price lock and records the USD amount against the caller's limits. A limit rejection answers 200 with executed=false.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   request body dto.ExecuteTransactionRequest true "Lock to execute"
// @Success 201 {object} dto.SuccessResponse{data=dto.ExecuteTransactionResponse} "Executed"
// @Success 200 {object} dto.SuccessResponse{data=dto.ExecuteTransactionResponse} "Declined by limits"
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Lock belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Lock not found"
// @Failure 409 {object} dto.ErrorResponse "Lock already used or expired"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) executeTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.ExecuteTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("lock_id", req.LockID))

	result, err := h.exchangeService.Execute(c.Request.Context(), userID, req.LockID)
	if err != nil {
		respondError(c, err, "Execute transaction")
		return
	}

	resp := dto.ToExecuteTransactionResponse(*result, time.Now())
	if !result.Executed {
		logger.Info("Transaction declined by limits", slog.Any("reason", resp.Decision.Reason))
		respond(c, http.StatusOK, resp)
		return
	}
	logger.Info("Transaction executed")
	respond(c, http.StatusCreated, resp)
}
