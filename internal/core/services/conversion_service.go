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
	"github.com/google/uuid"
)

// conversionService converts monetary amounts between currencies using the
// rate store, falling back to a synchronous provider fetch.
type conversionService struct {
	BaseService
	rateStore    portsrepo.RateStoreFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
	provider     portssvc.RateProvider
}

var _ portssvc.ConversionSvcFacade = (*conversionService)(nil)

// NewConversionService creates a new conversion service.
func NewConversionService(rateStore portsrepo.RateStoreFacade, currencyRepo portsrepo.CurrencyRepositoryFacade, provider portssvc.RateProvider) portssvc.ConversionSvcFacade {
	return &conversionService{
		rateStore:    rateStore,
		currencyRepo: currencyRepo,
		provider:     provider,
	}
}

// Convert re-expresses an amount in the target currency as of a date. The
// result is rounded half-to-even at the target currency's decimal places;
// same-currency conversions return the amount unchanged.
func (s *conversionService) Convert(ctx context.Context, amount domain.Money, targetCurrencyCode string, asOf time.Time) (domain.Money, error) {
	source := strings.ToUpper(amount.CurrencyCode)
	target := strings.ToUpper(targetCurrencyCode)
	if source == target {
		return amount, nil
	}

	rate, err := s.ResolveRate(ctx, source, target, asOf)
	if err != nil {
		return domain.Money{}, err
	}

	converted := amount.Mul(rate.Rate)
	converted.CurrencyCode = target
	return converted.Round(s.decimalPlaces(ctx, target)), nil
}

// ResolveRate finds the effective rate for a pair as of a date: the latest
// stored direct quote first, then the reciprocal of the opposite pair, then a
// synchronous provider fetch. Returns apperrors.ErrRateUnavailable when all
// three fail.
func (s *conversionService) ResolveRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	from := strings.ToUpper(fromCurrencyCode)
	to := strings.ToUpper(toCurrencyCode)

	direct, err := s.rateStore.GetRate(ctx, from, to, asOf)
	if err == nil {
		return direct, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up rate %s/%s: %w", from, to, err)
	}

	opposite, err := s.rateStore.GetRate(ctx, to, from, asOf)
	if err == nil {
		inverse := opposite.Inverse()
		return &inverse, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up rate %s/%s: %w", to, from, err)
	}

	return s.fetchAndStore(ctx, from, to)
}

// fetchAndStore asks the provider for a current quote and records it. A
// duplicate on insert means a concurrent refresh won; the stored quote is
// used.
func (s *conversionService) fetchAndStore(ctx context.Context, from, to string) (*domain.ExchangeRate, error) {
	fetched, err := s.provider.FetchRate(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "provider fetch failed during conversion", "from", from, "to", to)
		return nil, fmt.Errorf("%w: no stored quote for %s/%s and provider fetch failed", apperrors.ErrRateUnavailable, from, to)
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
			return s.rateStore.GetRate(ctx, from, to, today)
		}
		return nil, fmt.Errorf("failed to save fetched rate: %w", err)
	}

	return &rate, nil
}

// decimalPlaces resolves the rounding precision for a currency, defaulting
// when the currency is not in the catalogue.
func (s *conversionService) decimalPlaces(ctx context.Context, currencyCode string) int32 {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return domain.DefaultDecimalPlaces
	}
	return currency.DecimalPlaces
}
