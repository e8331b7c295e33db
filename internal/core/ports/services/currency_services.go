package services

import (
	"context"

	"github.com/agustinvidal/fintrack/internal/core/domain"
	"github.com/agustinvidal/fintrack/internal/dto"
)

// CurrencySvcFacade manages the currency catalogue.
type CurrencySvcFacade interface {
	// CreateCurrency registers a currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)

	// GetCurrencyByCode looks up one currency by ISO code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies returns every active currency.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
