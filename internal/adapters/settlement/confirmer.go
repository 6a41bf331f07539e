// Package settlement holds the counterparty confirmation used by order completion.
package settlement

import (
	"context"
	"fmt"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/SscSPs/fx_exchange_engine/internal/core/ports/gateways"
)

// AutoConfirmer accepts every well formed order. It is the confirmer used while
// no payment network is connected.
type AutoConfirmer struct{}

var _ gateways.SettlementConfirmer = AutoConfirmer{}

func (AutoConfirmer) Confirm(ctx context.Context, order domain.ExchangeOrder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !order.FromAmount.IsPositive() || !order.ToAmount.IsPositive() {
		return fmt.Errorf("%w: order %s has non-positive amounts", apperrors.ErrSettlementRejected, order.OrderID)
	}
	return nil
}
