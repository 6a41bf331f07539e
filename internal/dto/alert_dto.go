package dto

import (
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRateAlertRequest defines the structure for creating a threshold watch.
type CreateRateAlertRequest struct {
	FromCurrency string          `json:"fromCurrency" binding:"required,len=3"`
	ToCurrency   string          `json:"toCurrency" binding:"required,len=3"`
	TargetRate   decimal.Decimal `json:"targetRate" binding:"required"`
	Direction    string          `json:"direction" binding:"required,oneof=above below"`
}

// RateAlertResponse defines the structure for API responses containing an alert.
type RateAlertResponse struct {
	AlertID       string           `json:"alertID"`
	FromCurrency  string           `json:"fromCurrency"`
	ToCurrency    string           `json:"toCurrency"`
	TargetRate    decimal.Decimal  `json:"targetRate"`
	Direction     string           `json:"direction"`
	Active        bool             `json:"active"`
	CreatedAt     time.Time        `json:"createdAt"`
	TriggeredAt   *time.Time       `json:"triggeredAt,omitempty"`
	TriggeredRate *decimal.Decimal `json:"triggeredRate,omitempty"`
}

// ToRateAlertResponse converts a domain.RateAlert to RateAlertResponse DTO
func ToRateAlertResponse(a *domain.RateAlert) RateAlertResponse {
	return RateAlertResponse{
		AlertID:       a.AlertID,
		FromCurrency:  a.FromCurrency,
		ToCurrency:    a.ToCurrency,
		TargetRate:    a.TargetRate,
		Direction:     string(a.Direction),
		Active:        a.Active,
		CreatedAt:     a.CreatedAt,
		TriggeredAt:   a.TriggeredAt,
		TriggeredRate: a.TriggeredRate,
	}
}

// ToListRateAlertResponse converts a slice of alerts.
func ToListRateAlertResponse(alerts []domain.RateAlert) []RateAlertResponse {
	res := make([]RateAlertResponse, len(alerts))
	for i := range alerts {
		res[i] = ToRateAlertResponse(&alerts[i])
	}
	return res
}
