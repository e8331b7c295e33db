package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agustinvidal/fintrack/internal/apperrors"
	"github.com/agustinvidal/fintrack/internal/core/domain"
	portsrepo "github.com/agustinvidal/fintrack/internal/core/ports/repositories"
	portssvc "github.com/agustinvidal/fintrack/internal/core/ports/services"
	"github.com/agustinvidal/fintrack/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// rateService provides business logic for stored exchange-rate quotes.
type rateService struct {
	BaseService
	rateStore    portsrepo.RateStoreFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
	provider     portssvc.RateProvider
}

var _ portssvc.RateSvcFacade = (*rateService)(nil)

// NewRateService creates a new rate service.
func NewRateService(rateStore portsrepo.RateStoreFacade, currencyRepo portsrepo.CurrencyRepositoryFacade, provider portssvc.RateProvider) portssvc.RateSvcFacade {
	return &rateService{
		rateStore:    rateStore,
		currencyRepo: currencyRepo,
		provider:     provider,
	}
}

// CreateExchangeRate records a manual quote.
func (s *rateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	from := strings.ToUpper(req.FromCurrencyCode)
	to := strings.ToUpper(req.ToCurrencyCode)
	if from == to {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, from); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: 'from' currency code '%s' not found", apperrors.ErrValidation, from)
		}
		return nil, fmt.Errorf("failed to validate 'from' currency '%s': %w", from, err)
	}
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, to); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: 'to' currency code '%s' not found", apperrors.ErrValidation, to)
		}
		return nil, fmt.Errorf("failed to validate 'to' currency '%s': %w", to, err)
	}

	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             req.Rate,
		RateDate:         truncateToDate(req.RateDate),
		Provider:         domain.ProviderManual,
		FetchedAt:        time.Now(),
	}

	if err := s.rateStore.PutRate(ctx, rate); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateRate) {
			return nil, fmt.Errorf("%w: quote for %s/%s on %s already recorded", apperrors.ErrDuplicateRate, from, to, rate.RateDate.Format("2006-01-02"))
		}
		s.LogError(ctx, err, "failed to save exchange rate", "from", from, "to", to)
		return nil, fmt.Errorf("failed to save exchange rate: %w", err)
	}

	s.LogInfo(ctx, "exchange rate recorded", "from", from, "to", to, "rate", rate.Rate.String())
	return &rate, nil
}

// ListRates retrieves stored quotes, optionally filtered by pair legs.
func (s *rateService) ListRates(ctx context.Context, fromCurrencyCode, toCurrencyCode *string) ([]domain.ExchangeRate, error) {
	rates, err := s.rateStore.ListRates(ctx, fromCurrencyCode, toCurrencyCode)
	if err != nil {
		s.LogError(ctx, err, "failed to list exchange rates")
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	return rates, nil
}

// RefreshRate fetches and stores the current quote for one pair. When the
// provider already supplied today's quote, the stored one is returned.
func (s *rateService) RefreshRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error) {
	from := strings.ToUpper(fromCurrencyCode)
	to := strings.ToUpper(toCurrencyCode)
	if from == to {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	fetched, err := s.provider.FetchRate(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "provider fetch failed", "from", from, "to", to)
		return nil, fmt.Errorf("failed to fetch rate for %s/%s: %w", from, to, err)
	}

	today := truncateToDate(time.Now())
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             fetched,
		RateDate:         today,
		Provider:         s.provider.Name(),
		FetchedAt:        time.Now(),
	}

	if err := s.rateStore.PutRate(ctx, rate); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateRate) {
			// Today's quote from this provider is already stored; quotes are
			// immutable so the stored one wins.
			return s.rateStore.GetRate(ctx, from, to, today)
		}
		s.LogError(ctx, err, "failed to save fetched rate", "from", from, "to", to)
		return nil, fmt.Errorf("failed to save fetched rate: %w", err)
	}

	s.LogInfo(ctx, "exchange rate refreshed", "from", from, "to", to, "rate", rate.Rate.String())
	return &rate, nil
}

// RefreshAllRates fetches quotes between the base currency and every other
// active currency, both directions. Pair failures are collected in the
// summary, never fatal to the batch.
func (s *rateService) RefreshAllRates(ctx context.Context) (domain.RefreshSummary, error) {
	summary := domain.RefreshSummary{}

	base, err := s.currencyRepo.FindBaseCurrency(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to resolve base currency: %w", err)
	}

	currencies, err := s.currencyRepo.ListActiveCurrencies(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list currencies: %w", err)
	}

	for _, currency := range currencies {
		if currency.CurrencyCode == base.CurrencyCode {
			continue
		}
		for _, pair := range [][2]string{
			{base.CurrencyCode, currency.CurrencyCode},
			{currency.CurrencyCode, base.CurrencyCode},
		} {
			if _, err := s.RefreshRate(ctx, pair[0], pair[1]); err != nil {
				summary.Failed++
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s/%s: %v", pair[0], pair[1], err))
				continue
			}
			summary.Updated++
		}
	}

	s.LogInfo(ctx, "rate refresh batch finished", "updated", summary.Updated, "failed", summary.Failed)
	return summary, nil
}

// truncateToDate drops the time-of-day component, keeping UTC calendar dates.
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
