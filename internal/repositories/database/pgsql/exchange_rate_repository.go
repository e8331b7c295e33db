package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agustinvidal/fintrack/internal/apperrors"
	"github.com/agustinvidal/fintrack/internal/core/domain"
	portsrepo "github.com/agustinvidal/fintrack/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRateStoreRepository implements the rate store using pgxpool. Quotes are
// append-only; the unique key on (from, to, date, provider) enforces their
// immutability.
type PgxRateStoreRepository struct {
	BaseRepository
}

var _ portsrepo.RateStoreFacade = (*PgxRateStoreRepository)(nil)

// NewPgxRateStoreRepository creates a new PgxRateStoreRepository.
func NewPgxRateStoreRepository(db *pgxpool.Pool) *PgxRateStoreRepository {
	return &PgxRateStoreRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

const rateColumns = `exchange_rate_id, from_currency_code, to_currency_code, rate, rate_date, provider, fetched_at`

func scanRate(row pgx.Row) (*domain.ExchangeRate, error) {
	var rate domain.ExchangeRate
	err := row.Scan(
		&rate.ExchangeRateID, &rate.FromCurrencyCode, &rate.ToCurrencyCode,
		&rate.Rate, &rate.RateDate, &rate.Provider, &rate.FetchedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// PutRate persists a new quote.
func (r *PgxRateStoreRepository) PutRate(ctx context.Context, rate domain.ExchangeRate) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO exchange_rates (`+rateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rate.ExchangeRateID, rate.FromCurrencyCode, rate.ToCurrencyCode,
		rate.Rate, rate.RateDate, rate.Provider, rate.FetchedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s/%s on %s from %s", apperrors.ErrDuplicateRate,
				rate.FromCurrencyCode, rate.ToCurrencyCode, rate.RateDate.Format("2006-01-02"), rate.Provider)
		}
		return fmt.Errorf("failed to insert exchange rate: %w", err)
	}
	return nil
}

// GetRate retrieves the most recent quote for the pair with a rate date on or
// before the given date. Same-day quotes from multiple providers are
// tie-broken by fetched_at, latest wins.
func (r *PgxRateStoreRepository) GetRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, onOrBefore time.Time) (*domain.ExchangeRate, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT `+rateColumns+`
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND rate_date <= $3
		ORDER BY rate_date DESC, fetched_at DESC
		LIMIT 1`,
		fromCurrencyCode, toCurrencyCode, onOrBefore,
	)
	rate, err := scanRate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no quote for %s/%s on or before %s", apperrors.ErrNotFound,
				fromCurrencyCode, toCurrencyCode, onOrBefore.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to query exchange rate: %w", err)
	}
	return rate, nil
}

// ListRates retrieves stored quotes, optionally filtered by pair legs, newest
// first.
func (r *PgxRateStoreRepository) ListRates(ctx context.Context, fromCurrencyCode, toCurrencyCode *string) ([]domain.ExchangeRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM exchange_rates
		WHERE ($1::text IS NULL OR from_currency_code = $1)
		  AND ($2::text IS NULL OR to_currency_code = $2)
		ORDER BY rate_date DESC, fetched_at DESC`

	rows, err := r.Pool.Query(ctx, query, fromCurrencyCode, toCurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates: %w", err)
	}
	defer rows.Close()

	var rates []domain.ExchangeRate
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate: %w", err)
		}
		rates = append(rates, *rate)
	}
	return rates, rows.Err()
}
