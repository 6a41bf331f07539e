package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/fx_exchange_engine/internal/core/ports/services"
	"github.com/SscSPs/fx_exchange_engine/internal/dto"
	"github.com/SscSPs/fx_exchange_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

type rateAlertHandler struct {
	alertService portssvc.RateAlertSvcFacade
}

func newRateAlertHandler(as portssvc.RateAlertSvcFacade) *rateAlertHandler {
	return &rateAlertHandler{alertService: as}
}

func registerRateAlertRoutes(rg *gin.RouterGroup, as portssvc.RateAlertSvcFacade) {
	h := newRateAlertHandler(as)

	alerts := rg.Group("/rate-alerts")
	{
		alerts.POST("", h.createRateAlert)
		alerts.GET("", h.listRateAlerts)
		alerts.DELETE("/:alertID", h.cancelRateAlert)
	}
}

// createRateAlert godoc
// @Summary Create a rate alert
// @Description Watches a pair and fires once when the rate reaches the target in the given direction
// @Tags rate alerts
// @Accept  json
// @Produce  json
// @Param   alert body dto.CreateRateAlertRequest true "Alert details"
// @Success 201 {object} dto.RateAlertResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create rate alert"
// @Security BearerAuth
// @Router /rate-alerts [post]
func (h *rateAlertHandler) createRateAlert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRateAlert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	alert, err := h.alertService.SetRateAlert(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create rate alert")
		return
	}
	logger.Info("Rate alert created", slog.String("alert_id", alert.AlertID), slog.String("user_id", userID))
	c.JSON(http.StatusCreated, dto.ToRateAlertResponse(alert))
}

// listRateAlerts godoc
// @Summary List rate alerts
// @Description Lists the caller's alerts, active and fired
// @Tags rate alerts
// @Produce  json
// @Success 200 {array} dto.RateAlertResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list rate alerts"
// @Security BearerAuth
// @Router /rate-alerts [get]
func (h *rateAlertHandler) listRateAlerts(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	alerts, err := h.alertService.ListRateAlerts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list rate alerts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRateAlertResponse(alerts))
}

// cancelRateAlert godoc
// @Summary Cancel a rate alert
// @Tags rate alerts
// @Param   alertID path string true "Alert ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Alert not found"
// @Failure 500 {object} map[string]string "Failed to cancel rate alert"
// @Security BearerAuth
// @Router /rate-alerts/{alertID} [delete]
func (h *rateAlertHandler) cancelRateAlert(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.alertService.CancelRateAlert(c.Request.Context(), userID, c.Param("alertID")); err != nil {
		respondError(c, err, "Failed to cancel rate alert")
		return
	}
	c.Status(http.StatusNoContent)
}
