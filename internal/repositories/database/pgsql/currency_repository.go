package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/agustinvidal/fintrack/internal/apperrors"
	"github.com/agustinvidal/fintrack/internal/core/domain"
	portsrepo "github.com/agustinvidal/fintrack/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxCurrencyRepository implements the currency repository using pgxpool.
type PgxCurrencyRepository struct {
	BaseRepository
}

var _ portsrepo.CurrencyRepositoryFacade = (*PgxCurrencyRepository)(nil)

// NewPgxCurrencyRepository creates a new PgxCurrencyRepository.
func NewPgxCurrencyRepository(db *pgxpool.Pool) *PgxCurrencyRepository {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

const currencyColumns = `currency_code, name, symbol, decimal_places, is_base, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanCurrency(row pgx.Row) (*domain.Currency, error) {
	var c domain.Currency
	err := row.Scan(
		&c.CurrencyCode, &c.Name, &c.Symbol, &c.DecimalPlaces, &c.IsBase, &c.IsActive,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveCurrency persists a new currency.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO currencies (`+currencyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		currency.CurrencyCode, currency.Name, currency.Symbol, currency.DecimalPlaces,
		currency.IsBase, currency.IsActive,
		currency.CreatedAt, currency.CreatedBy, currency.LastUpdatedAt, currency.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: currency %s already exists", apperrors.ErrDuplicate, currency.CurrencyCode)
		}
		return fmt.Errorf("failed to insert currency: %w", err)
	}
	return nil
}

// FindCurrencyByCode retrieves a currency by its ISO 4217 code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT `+currencyColumns+`
		FROM currencies
		WHERE currency_code = $1`,
		currencyCode,
	)
	currency, err := scanCurrency(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: currency %s", apperrors.ErrNotFound, currencyCode)
		}
		return nil, fmt.Errorf("failed to query currency: %w", err)
	}
	return currency, nil
}

// ListActiveCurrencies retrieves all active currencies ordered by code.
func (r *PgxCurrencyRepository) ListActiveCurrencies(ctx context.Context) ([]domain.Currency, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+currencyColumns+`
		FROM currencies
		WHERE is_active = TRUE
		ORDER BY currency_code`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	var currencies []domain.Currency
	for rows.Next() {
		currency, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, *currency)
	}
	return currencies, rows.Err()
}

// FindBaseCurrency retrieves the system base currency.
func (r *PgxCurrencyRepository) FindBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT `+currencyColumns+`
		FROM currencies
		WHERE is_base = TRUE AND is_active = TRUE
		LIMIT 1`,
	)
	currency, err := scanCurrency(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no base currency configured", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query base currency: %w", err)
	}
	return currency, nil
}
