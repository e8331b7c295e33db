package services

import (
	"context"
	"time"

	"github.com/agustinvidal/fintrack/internal/core/domain"
	"github.com/agustinvidal/fintrack/internal/dto"
	"github.com/shopspring/decimal"
)

// RateProvider is an external exchange-rate source. Implementations translate
// provider failures into apperrors.ErrProviderUnavailable.
type RateProvider interface {
	// FetchRate returns the current quote for one unit of from expressed in to.
	FetchRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (decimal.Decimal, error)

	// Name identifies the provider in stored quotes.
	Name() string
}

// RateSvcFacade manages stored exchange-rate quotes.
type RateSvcFacade interface {
	// CreateExchangeRate records a manual quote. Returns
	// apperrors.ErrDuplicateRate when the same pair, date and provider
	// already exist.
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)

	// ListRates returns stored quotes, optionally filtered by pair legs.
	ListRates(ctx context.Context, fromCurrencyCode, toCurrencyCode *string) ([]domain.ExchangeRate, error)

	// RefreshRate fetches and stores the current quote for one pair.
	RefreshRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error)

	// RefreshAllRates fetches quotes between the base currency and every
	// other active currency, both directions. Individual pair failures are
	// collected, not fatal.
	RefreshAllRates(ctx context.Context) (domain.RefreshSummary, error)
}

// ConversionSvcFacade converts monetary amounts between currencies.
type ConversionSvcFacade interface {
	// Convert re-expresses an amount in the target currency as of a date,
	// rounded half-to-even at the target currency's precision. Returns
	// apperrors.ErrRateUnavailable when no usable rate can be resolved.
	Convert(ctx context.Context, amount domain.Money, targetCurrencyCode string, asOf time.Time) (domain.Money, error)

	// ResolveRate finds the rate used by Convert: direct quote first, then
	// the reciprocal of the opposite pair, then a synchronous provider
	// fetch.
	ResolveRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error)
}
