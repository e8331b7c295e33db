package repositories

import (
	"context"
	"time"

	"github.com/agustinvidal/fintrack/internal/core/domain"
)

// RateStoreReader defines read operations over stored exchange rate quotes.
type RateStoreReader interface {
	// GetRate retrieves the most recent quote for the pair with a rate date on
	// or before the given date. Same-day quotes from multiple providers are
	// tie-broken by fetched_at, latest wins. Returns apperrors.ErrNotFound
	// when no quote qualifies.
	GetRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, onOrBefore time.Time) (*domain.ExchangeRate, error)

	// ListRates retrieves stored quotes, optionally filtered by pair legs.
	ListRates(ctx context.Context, fromCurrencyCode, toCurrencyCode *string) ([]domain.ExchangeRate, error)
}

// RateStoreWriter defines write operations over stored exchange rate quotes.
type RateStoreWriter interface {
	// PutRate persists a new quote. Quotes are immutable: inserting a second
	// quote for the same (from, to, date, provider) key returns
	// apperrors.ErrDuplicateRate.
	PutRate(ctx context.Context, rate domain.ExchangeRate) error
}

// RateStoreFacade combines all rate store repository interfaces.
type RateStoreFacade interface {
	RateStoreReader
	RateStoreWriter
}
