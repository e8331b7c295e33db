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

// PgxBudgetRepository implements the budget repository using pgxpool.
type PgxBudgetRepository struct {
	BaseRepository
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

// NewPgxBudgetRepository creates a new PgxBudgetRepository.
func NewPgxBudgetRepository(db *pgxpool.Pool) *PgxBudgetRepository {
	return &PgxBudgetRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

const budgetColumns = `budget_id, user_id, category_id, period, amount, currency_code, start_date, end_date, alert_percentage, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	err := row.Scan(
		&b.BudgetID, &b.UserID, &b.CategoryID, &b.Period, &b.Amount, &b.CurrencyCode,
		&b.StartDate, &b.EndDate, &b.AlertPercentage, &b.IsActive,
		&b.CreatedAt, &b.CreatedBy, &b.LastUpdatedAt, &b.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// SaveBudget persists a new budget.
func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO budgets (`+budgetColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		budget.BudgetID, budget.UserID, budget.CategoryID, budget.Period, budget.Amount, budget.CurrencyCode,
		budget.StartDate, budget.EndDate, budget.AlertPercentage, budget.IsActive,
		budget.CreatedAt, budget.CreatedBy, budget.LastUpdatedAt, budget.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: budget %s", apperrors.ErrDuplicate, budget.BudgetID)
		}
		return fmt.Errorf("failed to insert budget: %w", err)
	}
	return nil
}

// FindBudgetByID retrieves a budget by its ID.
func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE budget_id = $1`,
		budgetID,
	)
	budget, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: budget %s", apperrors.ErrNotFound, budgetID)
		}
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}
	return budget, nil
}

// ListBudgetsByUser retrieves all budgets owned by a user.
func (r *PgxBudgetRepository) ListBudgetsByUser(ctx context.Context, userID string) ([]domain.Budget, error) {
	return r.listBudgets(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1
		ORDER BY start_date DESC`,
		userID,
	)
}

// ListActiveBudgets retrieves active budgets whose window covers asOf.
func (r *PgxBudgetRepository) ListActiveBudgets(ctx context.Context, userID string, asOf time.Time) ([]domain.Budget, error) {
	return r.listBudgets(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1 AND is_active = TRUE AND start_date <= $2 AND end_date >= $2
		ORDER BY start_date DESC`,
		userID, asOf,
	)
}

func (r *PgxBudgetRepository) listBudgets(ctx context.Context, query string, args ...any) ([]domain.Budget, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []domain.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, *budget)
	}
	return budgets, rows.Err()
}
