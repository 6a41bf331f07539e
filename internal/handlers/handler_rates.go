package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	portssvc "github.com/SscSPs/fx_exchange_engine/internal/core/ports/services"
	"github.com/SscSPs/fx_exchange_engine/internal/dto"
	"github.com/SscSPs/fx_exchange_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rateHandler serves current rates and their history.
type rateHandler struct {
	rateService    portssvc.RateReaderSvc
	historyService portssvc.RateHistorySvc
}

func newRateHandler(rs portssvc.RateReaderSvc, hs portssvc.RateHistorySvc) *rateHandler {
	return &rateHandler{
		rateService:    rs,
		historyService: hs,
	}
}

// registerRateRoutes registers routes related to rates.
func registerRateRoutes(rg *gin.RouterGroup, rs portssvc.RateReaderSvc, hs portssvc.RateHistorySvc) {
	h := newRateHandler(rs, hs)

	rates := rg.Group("/rates")
	{
		rates.GET("", h.getRates)
		rates.GET("/history", h.getRateHistory)
	}
}

// getRates godoc
// @Summary Get current rates
// @Description Returns the current rate from base to each target, from cache when fresh. Falls back to other providers and finally to a synthetic rate.
// @Tags rates
// @Produce  json
// @Param   base     query string true  "Base currency code" minlength(3) maxlength(3)
// @Param   targets  query string true  "Comma-separated target currency codes"
// @Param   provider query string false "Preferred provider name"
// @Success 200 {object} dto.GetRatesResponse
// @Failure 400 {object} map[string]string "Invalid currency codes"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Rate unavailable"
// @Security BearerAuth
// @Router /rates [get]
func (h *rateHandler) getRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	base := domain.NormalizeCode(c.Query("base"))
	var targets []string
	for _, t := range strings.Split(c.Query("targets"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			targets = append(targets, t)
		}
	}
	provider := c.Query("provider")

	logger.Debug("Received request for rates",
		slog.String("base", base),
		slog.Any("targets", targets),
		slog.String("provider", provider))

	records, err := h.rateService.GetRates(c.Request.Context(), base, targets, provider)
	if err != nil {
		respondError(c, err, "Failed to retrieve rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToGetRatesResponse(base, records))
}

// getRateHistory godoc
// @Summary Get rate history
// @Description Aggregates stored observations of a pair into hourly buckets for periods up to 24h and daily buckets beyond.
// @Tags rates
// @Produce  json
// @Param   from   query string true "From currency code"
// @Param   to     query string true "To currency code"
// @Param   period query string true "Look-back period, e.g. 24h, 7d, 2w, 1m, 1y"
// @Success 200 {object} dto.RateHistoryResponse
// @Failure 400 {object} map[string]string "Invalid pair or period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve rate history"
// @Security BearerAuth
// @Router /rates/history [get]
func (h *rateHandler) getRateHistory(c *gin.Context) {
	from := domain.NormalizeCode(c.Query("from"))
	to := domain.NormalizeCode(c.Query("to"))
	period := c.Query("period")

	buckets, err := h.historyService.GetRateHistory(c.Request.Context(), from, to, period)
	if err != nil {
		respondError(c, err, "Failed to retrieve rate history")
		return
	}
	c.JSON(http.StatusOK, dto.ToRateHistoryResponse(from, to, period, buckets))
}
