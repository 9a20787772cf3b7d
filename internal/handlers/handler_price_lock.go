package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ecucondor/rates_backend/internal/core/domain"
	portssvc "github.com/ecucondor/rates_backend/internal/core/ports/services"
	"github.com/ecucondor/rates_backend/internal/dto"
	"github.com/ecucondor/rates_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// priceLockHandler handles HTTP requests related to price locks.
type priceLockHandler struct {
	rateService      portssvc.RateSvcFacade
	priceLockService portssvc.PriceLockSvcFacade
}

func newPriceLockHandler(rs portssvc.RateSvcFacade, pls portssvc.PriceLockSvcFacade) *priceLockHandler {
	return &priceLockHandler{rateService: rs, priceLockService: pls}
}

// registerPriceLockRoutes registers routes related to price locks.
func registerPriceLockRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade, priceLockService portssvc.PriceLockSvcFacade) {
	h := newPriceLockHandler(rateService, priceLockService)

	locks := rg.Group("/price-locks")
	{
		locks.POST("", h.createPriceLock)
		locks.GET("", h.listActivePriceLocks)
		locks.GET("/:lockID", h.getPriceLock)
		locks.DELETE("/:lockID", h.cancelPriceLock)
	}
}

// createPriceLock godoc
// @Summary Lock the current rate
// @Description Freezes the current rate of a pair for the caller for a limited time
// @Tags price locks
// @Accept  json
// @Produce  json
// @Param   request body dto.CreatePriceLockRequest true "Pair, USD amount and direction"
// @Success 201 {object} dto.SuccessResponse{data=dto.PriceLockResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Pair not supported"
// @Failure 503 {object} dto.ErrorResponse "Rate not available"
// @Security BearerAuth
// @Router /price-locks [post]
func (h *priceLockHandler) createPriceLock(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreatePriceLockRequest
	if !bindJSON(c, &req) {
		return
	}
	direction, err := domain.ParseDirection(req.Direction)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := h.rateService.EnsureFresh(ctx, false); err != nil {
		logger.Warn("Rate refresh failed before locking, using cached rate", slog.String("error", err.Error()))
	}
	rate, err := h.rateService.GetRate(ctx, req.Pair)
	if err != nil {
		respondError(c, err, "Get rate for price lock")
		return
	}

	lock, err := h.priceLockService.CreatePriceLock(ctx, userID, rate.Pair, rate.RateFor(direction), req.AmountUSD, direction)
	if err != nil {
		respondError(c, err, "Create price lock")
		return
	}

	logger.Info("Price lock created", slog.String("lock_id", lock.ID), slog.String("pair", lock.Pair))
	respond(c, http.StatusCreated, dto.ToPriceLockResponse(*lock, time.Now()))
}

// listActivePriceLocks godoc
// @Summary List active price locks
// @Description Unused, unexpired locks of the caller, soonest expiry first
// @Tags price locks
// @Produce  json
// @Success 200 {object} dto.SuccessResponse{data=[]dto.PriceLockResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /price-locks [get]
func (h *priceLockHandler) listActivePriceLocks(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	locks, err := h.priceLockService.GetUserActivePriceLocks(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "List price locks")
		return
	}
	respond(c, http.StatusOK, dto.ToListPriceLockResponse(locks, time.Now()))
}

// getPriceLock godoc
// @Summary Get a price lock
// @Description Returns one of the caller's locks with its current status
// @Tags price locks
// @Produce  json
// @Param   lockID path string true "Lock ID"
// @Success 200 {object} dto.SuccessResponse{data=dto.PriceLockResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Lock belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Lock not found"
// @Security BearerAuth
// @Router /price-locks/{lockID} [get]
func (h *priceLockHandler) getPriceLock(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	lockID := c.Param("lockID")
	ctx := c.Request.Context()

	lock, err := h.priceLockService.GetPriceLock(ctx, lockID)
	if err != nil {
		respondError(c, err, "Get price lock")
		return
	}
	if lock.UserID != userID {
		middleware.GetLoggerFromCtx(ctx).Warn("Price lock requested by another user", slog.String("lock_id", lockID))
		respondMessage(c, http.StatusForbidden, "price lock belongs to another user")
		return
	}

	status, err := h.priceLockService.GetPriceLockStatus(ctx, lockID)
	if err != nil {
		respondError(c, err, "Get price lock status")
		return
	}
	resp := dto.ToPriceLockResponse(*lock, time.Now())
	resp.Status = *status
	respond(c, http.StatusOK, resp)
}

// cancelPriceLock godoc
// @Summary Cancel a price lock
// @Description Deletes an unused, unexpired lock of the caller
// @Tags price locks
// @Param   lockID path string true "Lock ID"
// @Success 204 "No Content"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Lock belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Lock not found"
// @Failure 409 {object} dto.ErrorResponse "Lock already used or expired"
// @Security BearerAuth
// @Router /price-locks/{lockID} [delete]
func (h *priceLockHandler) cancelPriceLock(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	lockID := c.Param("lockID")

	if err := h.priceLockService.CancelPriceLock(c.Request.Context(), lockID, userID); err != nil {
		respondError(c, err, "Cancel price lock")
		return
	}
	c.Status(http.StatusNoContent)
}
