package handlers

import (
	"net/http"

	portssvc "github.com/ecucondor/rates_backend/internal/core/ports/services"
	"github.com/ecucondor/rates_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// limitsHandler serves the caller's transaction limits.
type limitsHandler struct {
	limitsService portssvc.LimitsSvcFacade
}

func newLimitsHandler(ls portssvc.LimitsSvcFacade) *limitsHandler {
	return &limitsHandler{limitsService: ls}
}

// registerLimitsRoutes registers routes related to transaction limits.
func registerLimitsRoutes(rg *gin.RouterGroup, limitsService portssvc.LimitsSvcFacade) {
	h := newLimitsHandler(limitsService)

	limits := rg.Group("/limits")
	{
		limits.GET("", h.getLimitsStatus)
		limits.GET("/summary", h.getSummary)
		limits.POST("/check", h.checkLimit)
	}
}

// getLimitsStatus godoc
// @Summary Get limits headroom
// @Description Monthly volume, daily count and per-transaction bounds of the caller
// @Tags limits
// @Produce  json
// @Success 200 {object} dto.SuccessResponse{data=dto.LimitsStatusResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /limits [get]
func (h *limitsHandler) getLimitsStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	status, err := h.limitsService.GetUserLimitsStatus(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Get limits status")
		return
	}
	respond(c, http.StatusOK, *status)
}

// getSummary godoc
// @Summary Get usage summary
// @Description Current monthly and daily usage of the caller, after calendar rollover
// @Tags limits
// @Produce  json
// @Success 200 {object} dto.SuccessResponse{data=dto.TransactionSummaryResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /limits/summary [get]
func (h *limitsHandler) getSummary(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	summary, err := h.limitsService.GetUserTransactionSummary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Get transaction summary")
		return
	}
	respond(c, http.StatusOK, dto.ToTransactionSummaryResponse(*summary))
}

// checkLimit godoc
// @Summary Check a transaction against the limits
// @Description Advisory check, nothing is recorded
// @Tags limits
// @Accept  json
// @Produce  json
// @Param   request body dto.CheckLimitRequest true "USD amount"
// @Success 200 {object} dto.SuccessResponse{data=dto.LimitDecisionResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /limits/check [post]
func (h *limitsHandler) checkLimit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CheckLimitRequest
	if !bindJSON(c, &req) {
		return
	}

	decision, err := h.limitsService.CanMakeTransaction(c.Request.Context(), userID, req.AmountUSD)
	if err != nil {
		respondError(c, err, "Check transaction limits")
		return
	}
	respond(c, http.StatusOK, dto.ToLimitDecisionResponse(*decision))
}
