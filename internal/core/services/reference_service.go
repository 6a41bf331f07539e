package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fx_exchange_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fx_exchange_engine/internal/core/ports/services"
)

// popularPairs is static reference data for the product's corridors.
var popularPairs = []domain.CurrencyPair{
	{Base: "EUR", Quote: "XOF"},
	{Base: "USD", Quote: "XOF"},
	{Base: "XOF", Quote: "EUR"},
	{Base: "XOF", Quote: "USD"},
	{Base: "GBP", Quote: "XOF"},
	{Base: "EUR", Quote: "USD"},
}

type referenceService struct {
	BaseService
	currencyRepo portsrepo.CurrencyReader
	accountRepo  portsrepo.AccountReader
}

// NewReferenceService creates the reference data service.
func NewReferenceService(currencyRepo portsrepo.CurrencyReader, accountRepo portsrepo.AccountReader, opts ...Option) portssvc.ReferenceDataSvc {
	return &referenceService{
		BaseService:  newBaseService(opts),
		currencyRepo: currencyRepo,
		accountRepo:  accountRepo,
	}
}

func (s *referenceService) ListPopularPairs() []domain.CurrencyPair {
	return append([]domain.CurrencyPair(nil), popularPairs...)
}

func (s *referenceService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	return currencies, nil
}

// GetAccountBalance returns a read-only view of one of userID's balances.
func (s *referenceService) GetAccountBalance(ctx context.Context, userID, accountRef string) (*domain.AccountBalance, error) {
	account, err := s.accountRepo.FindAccountByRef(ctx, accountRef)
	if err != nil {
		return nil, fmt.Errorf("failed to get account balance: %w", err)
	}
	if account.UserID != userID {
		return nil, apperrors.NewNotFoundError("account " + accountRef + " not found")
	}
	return account, nil
}
