package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ecucondor/rates_backend/internal/core/domain"
	portssvc "github.com/ecucondor/rates_backend/internal/core/ports/services"
	"github.com/ecucondor/rates_backend/internal/dto"
	"github.com/ecucondor/rates_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rateHandler handles HTTP requests related to published exchange rates.
type rateHandler struct {
	rateService portssvc.RateSvcFacade
}

// newRateHandler creates a new rateHandler.
func newRateHandler(rs portssvc.RateSvcFacade) *rateHandler {
	return &rateHandler{rateService: rs}
}

// registerRateRoutes registers routes related to exchange rates.
func registerRateRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade) {
	h := newRateHandler(rateService)

	rates := rg.Group("/rates")
	{
		rates.GET("", h.listRates)
		rates.GET("/:pair", h.getRate)
		rates.POST("/calculate", h.calculateTransaction)
	}
}

// listRates godoc
// @Summary List exchange rates
// @Description Returns every published rate. With refresh=true the cache is refreshed first; on upstream failure the cached rates are served.
// @Tags rates
// @Produce  json
// @Param   refresh query bool false "Force a refresh from the price feed"
// @Success 200 {object} dto.SuccessResponse{data=[]dto.ExchangeRateResponse}
// @Failure 503 {object} dto.ErrorResponse "No rates available"
// @Router /rates [get]
func (h *rateHandler) listRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if c.Query("refresh") == "true" {
		if err := h.rateService.EnsureFresh(c.Request.Context(), true); err != nil {
			logger.Warn("Forced refresh failed, serving cached rates", slog.String("error", err.Error()))
		}
	}

	rates := h.rateService.GetAllRates(c.Request.Context())
	if len(rates) == 0 {
		respondMessage(c, http.StatusServiceUnavailable, "Exchange rates are temporarily unavailable")
		return
	}
	respond(c, http.StatusOK, dto.ToListExchangeRateResponse(rates))
}

// getRate godoc
// @Summary Get an exchange rate
// @Description Retrieves the cached rate of a currency pair such as USD-ARS
// @Tags rates
// @Produce  json
// @Param   pair path string true "Currency pair, BASE-TARGET"
// @Success 200 {object} dto.SuccessResponse{data=dto.ExchangeRateResponse}
// @Failure 404 {object} dto.ErrorResponse "Pair not supported"
// @Failure 503 {object} dto.ErrorResponse "Rate not available yet"
// @Router /rates/{pair} [get]
func (h *rateHandler) getRate(c *gin.Context) {
	pair := c.Param("pair")

	rate, err := h.rateService.GetRate(c.Request.Context(), pair)
	if err != nil {
		respondError(c, err, "Get exchange rate")
		return
	}
	respond(c, http.StatusOK, dto.ToExchangeRateResponse(*rate))
}

// calculateTransaction godoc
// @Summary Price a transaction
// @Description Prices an amount of the pair's base currency at the current rate, commission included
// @Tags rates
// @Accept  json
// @Produce  json
// @Param   request body dto.CalculateTransactionRequest true "Pair, amount and direction"
// @Success 200 {object} dto.SuccessResponse{data=dto.TransactionQuoteResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Pair not supported"
// @Failure 503 {object} dto.ErrorResponse "Rate not available yet"
// @Router /rates/calculate [post]
func (h *rateHandler) calculateTransaction(c *gin.Context) {
	var req dto.CalculateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	direction, err := domain.ParseDirection(req.Direction)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	quote, err := h.rateService.CalculateTransaction(c.Request.Context(), req.Pair, req.Amount, direction)
	if err != nil {
		respondError(c, err, "Calculate transaction")
		return
	}
	respond(c, http.StatusOK, dto.ToTransactionQuoteResponse(*quote))
}
