package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/fx_exchange_engine/internal/core/ports/services"
	"github.com/SscSPs/fx_exchange_engine/internal/dto"
	"github.com/gin-gonic/gin"
)

// referenceHandler serves reference data and balance views.
type referenceHandler struct {
	referenceService portssvc.ReferenceDataSvc
}

func registerReferenceRoutes(rg *gin.RouterGroup, rs portssvc.ReferenceDataSvc) {
	h := &referenceHandler{referenceService: rs}

	rg.GET("/pairs/popular", h.listPopularPairs)
	rg.GET("/currencies", h.listCurrencies)
	rg.GET("/accounts/:accountRef/balance", h.getAccountBalance)
}

// listPopularPairs godoc
// @Summary List popular currency pairs
// @Tags reference
// @Produce  json
// @Success 200 {array} dto.PairResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /pairs/popular [get]
func (h *referenceHandler) listPopularPairs(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToListPairResponse(h.referenceService.ListPopularPairs()))
}

// listCurrencies godoc
// @Summary List supported currencies
// @Tags reference
// @Produce  json
// @Success 200 {array} dto.CurrencyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list currencies"
// @Security BearerAuth
// @Router /currencies [get]
func (h *referenceHandler) listCurrencies(c *gin.Context) {
	currencies, err := h.referenceService.ListCurrencies(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list currencies")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Read-only view of one of the caller's external balances
// @Tags reference
// @Produce  json
// @Param   accountRef path string true "Account reference"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountRef}/balance [get]
func (h *referenceHandler) getAccountBalance(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	balance, err := h.referenceService.GetAccountBalance(c.Request.Context(), userID, c.Param("accountRef"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(balance))
}
