package handlers

import (
	"net/http"

	portssvc "github.com/ecucondor/rates_backend/internal/core/ports/services"
	"github.com/ecucondor/rates_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type healthHandler struct {
	rates portssvc.RateReaderSvc
}

func newHealthHandler(rates portssvc.RateReaderSvc) *healthHandler {
	return &healthHandler{rates: rates}
}

// health godoc
// @Summary Liveness and rate cache health
// @Description Always 200 while the process serves requests; status is "degraded" when the rate cache is not healthy
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *healthHandler) health(c *gin.Context) {
	resp := dto.HealthResponse{Status: "ok", RatesHealthy: h.rates.IsHealthy()}
	if !resp.RatesHealthy {
		resp.Status = "degraded"
	}
	if last := h.rates.LastRefresh(); !last.IsZero() {
		resp.LastRefresh = &last
	}
	c.JSON(http.StatusOK, resp)
}
