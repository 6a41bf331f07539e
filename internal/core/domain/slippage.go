package domain

import (
	"fmt"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

// SlippageError rejects an execution whose fresh rate moved too far from the
// accepted one. FreshQuote is informational: the caller re-accepts by
// submitting a new execution.
type SlippageError struct {
	AcceptedRate decimal.Decimal
	FreshRate    decimal.Decimal
	Deviation    decimal.Decimal
	Tolerance    decimal.Decimal
	FreshQuote   *Quote
}

func (e *SlippageError) Error() string {
	return fmt.Sprintf("%s: accepted %s, fresh %s, deviation %s exceeds tolerance %s",
		apperrors.ErrSlippageExceeded, e.AcceptedRate, e.FreshRate, e.Deviation.StringFixed(6), e.Tolerance)
}

// Is makes errors.Is(err, apperrors.ErrSlippageExceeded) match.
func (e *SlippageError) Is(target error) bool {
	return target == apperrors.ErrSlippageExceeded
}

// RateDeviation returns |fresh - accepted| / accepted.
func RateDeviation(accepted, fresh decimal.Decimal) decimal.Decimal {
	if accepted.IsZero() {
		return decimal.Zero
	}
	return fresh.Sub(accepted).Abs().Div(accepted)
}
