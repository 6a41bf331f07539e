package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertDirection selects which side of the target triggers an alert.
type AlertDirection string

const (
	AlertAbove AlertDirection = "above"
	AlertBelow AlertDirection = "below"
)

// IsValid reports whether d is a known direction.
func (d AlertDirection) IsValid() bool {
	return d == AlertAbove || d == AlertBelow
}

// RateAlert is a user-defined threshold watch on a currency pair.
type RateAlert struct {
	AlertID       string           `json:"alertID"`
	UserID        string           `json:"userID"`
	FromCurrency  string           `json:"fromCurrency"`
	ToCurrency    string           `json:"toCurrency"`
	TargetRate    decimal.Decimal  `json:"targetRate"`
	Direction     AlertDirection   `json:"direction"`
	Active        bool             `json:"active"`
	CreatedAt     time.Time        `json:"createdAt"`
	TriggeredAt   *time.Time       `json:"triggeredAt,omitempty"`
	TriggeredRate *decimal.Decimal `json:"triggeredRate,omitempty"`
}

// IsTriggeredBy reports whether rate crosses the alert's threshold.
func (a RateAlert) IsTriggeredBy(rate decimal.Decimal) bool {
	if a.Direction == AlertAbove {
		return rate.GreaterThanOrEqual(a.TargetRate)
	}
	return rate.LessThanOrEqual(a.TargetRate)
}
