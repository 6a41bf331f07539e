package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	portssvc "github.com/SscSPs/fx_exchange_engine/internal/core/ports/services"
	"github.com/SscSPs/fx_exchange_engine/internal/dto"
	"github.com/SscSPs/fx_exchange_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeHandler handles quoting, execution and order lookups.
type exchangeHandler struct {
	exchangeService portssvc.ExchangeSvcFacade
}

func newExchangeHandler(es portssvc.ExchangeSvcFacade) *exchangeHandler {
	return &exchangeHandler{
		exchangeService: es,
	}
}

// registerExchangeRoutes registers routes related to exchanges.
func registerExchangeRoutes(rg *gin.RouterGroup, es portssvc.ExchangeSvcFacade) {
	h := newExchangeHandler(es)

	exchange := rg.Group("/exchange")
	{
		exchange.POST("/quote", h.calculateExchange)
		exchange.POST("/execute", h.executeExchange)
		exchange.GET("/orders", h.listOrders)
		exchange.GET("/orders/:orderID", h.getOrder)
	}
}

// calculateExchange godoc
// @Summary Quote an exchange
// @Description Prices an amount at the current rate. The returned base rate is what the caller accepts when executing.
// @Tags exchange
// @Accept  json
// @Produce  json
// @Param   quote body dto.CalculateExchangeRequest true "Quote request"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Rate unavailable"
// @Security BearerAuth
// @Router /exchange/quote [post]
func (h *exchangeHandler) calculateExchange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CalculateExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CalculateExchange", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	quote, err := h.exchangeService.CalculateExchange(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to calculate exchange")
		return
	}
	c.JSON(http.StatusOK, dto.ToQuoteResponse(quote))
}

// executeExchange godoc
// @Summary Execute an exchange
// @Description Moves funds between two of the caller's accounts against an unexpired, unused quote, unless the rate moved beyond the slippage tolerance.
// @Tags exchange
// @Accept  json
// @Produce  json
// @Param   exchange body dto.ExecuteExchangeRequest true "Execution request"
// @Success 201 {object} dto.ExchangeOrderResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Account belongs to another user"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} dto.SlippageRejectionResponse "Rate moved beyond tolerance, or the quote was already used"
// @Failure 422 {object} map[string]interface{} "Insufficient funds"
// @Failure 502 {object} map[string]string "Settlement failed"
// @Failure 503 {object} map[string]string "Rate unavailable"
// @Security BearerAuth
// @Router /exchange/execute [post]
func (h *exchangeHandler) executeExchange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ExecuteExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ExecuteExchange", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger = logger.With(slog.String("user_id", userID))
	logger.Info("Received request to execute exchange",
		slog.String("from", req.FromCurrency),
		slog.String("to", req.ToCurrency),
		slog.String("amount", req.Amount.String()),
		slog.String("accepted_rate", req.AcceptedRate.String()))

	order, err := h.exchangeService.ExecuteExchange(c.Request.Context(), userID, req)
	if err != nil {
		var slippage *domain.SlippageError
		switch {
		case errors.As(err, &slippage) && order != nil:
			resp := dto.SlippageRejectionResponse{
				Error:        apperrors.ErrSlippageExceeded.Error(),
				Order:        dto.ToExchangeOrderResponse(order),
				AcceptedRate: slippage.AcceptedRate,
				FreshRate:    slippage.FreshRate,
				Deviation:    slippage.Deviation,
				Tolerance:    slippage.Tolerance,
			}
			if slippage.FreshQuote != nil {
				fresh := dto.ToQuoteResponse(slippage.FreshQuote)
				resp.FreshQuote = &fresh
			}
			logger.Info("Exchange rejected for slippage", slog.String("order_id", order.OrderID))
			c.JSON(http.StatusConflict, resp)
		case errors.Is(err, apperrors.ErrInsufficientFunds) && order != nil:
			logger.Info("Exchange rejected for insufficient funds", slog.String("order_id", order.OrderID))
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": apperrors.ErrInsufficientFunds.Error(),
				"order": dto.ToExchangeOrderResponse(order),
			})
		default:
			respondError(c, err, "Failed to execute exchange")
		}
		return
	}

	logger.Info("Exchange executed", slog.String("order_id", order.OrderID), slog.String("status", string(order.Status)))
	c.JSON(http.StatusCreated, dto.ToExchangeOrderResponse(order))
}

// getOrder godoc
// @Summary Get an exchange order
// @Description Retrieves one of the caller's orders by ID
// @Tags exchange
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Success 200 {object} dto.ExchangeOrderResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 500 {object} map[string]string "Failed to retrieve order"
// @Security BearerAuth
// @Router /exchange/orders/{orderID} [get]
func (h *exchangeHandler) getOrder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	order, err := h.exchangeService.GetOrder(c.Request.Context(), userID, c.Param("orderID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve order")
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeOrderResponse(order))
}

// listOrders godoc
// @Summary List exchange orders
// @Description Lists the caller's orders, newest first, with token pagination
// @Tags exchange
// @Produce  json
// @Param   limit     query int    false "Page size"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListExchangeOrdersResponse
// @Failure 400 {object} map[string]string "Invalid pagination parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list orders"
// @Security BearerAuth
// @Router /exchange/orders [get]
func (h *exchangeHandler) listOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.ListExchangeOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListOrders", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.exchangeService.ListOrders(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err, "Failed to list orders")
		return
	}
	c.JSON(http.StatusOK, page)
}
