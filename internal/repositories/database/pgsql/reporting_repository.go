package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/agustinvidal/fintrack/internal/core/domain"
	portsrepo "github.com/agustinvidal/fintrack/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxReportingRepository implements the reporting aggregation queries using
// pgxpool. All sums are grouped per original currency; conversion happens in
// the reporting service.
type PgxReportingRepository struct {
	BaseRepository
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// NewPgxReportingRepository creates a new PgxReportingRepository.
func NewPgxReportingRepository(db *pgxpool.Pool) *PgxReportingRepository {
	return &PgxReportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// ExpenseTotalsByCategory sums confirmed expense transactions per category
// and currency within the window.
func (r *PgxReportingRepository) ExpenseTotalsByCategory(ctx context.Context, userID string, from, to time.Time) ([]domain.CategoryCurrencyTotal, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT t.category_id, c.name, t.currency_code, SUM(t.amount), COUNT(*)
		FROM transactions t
		JOIN categories c ON c.category_id = t.category_id
		WHERE t.user_id = $1
		  AND t.transaction_type = 'expense'
		  AND t.confirmed = TRUE
		  AND t.transaction_date >= $2 AND t.transaction_date <= $3
		GROUP BY t.category_id, c.name, t.currency_code
		ORDER BY SUM(t.amount) DESC`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense totals: %w", err)
	}
	defer rows.Close()

	var totals []domain.CategoryCurrencyTotal
	for rows.Next() {
		var row domain.CategoryCurrencyTotal
		if err := rows.Scan(&row.CategoryID, &row.CategoryName, &row.CurrencyCode, &row.Total, &row.TransactionCount); err != nil {
			return nil, fmt.Errorf("failed to scan expense total: %w", err)
		}
		totals = append(totals, row)
	}
	return totals, rows.Err()
}

// MonthlyFlows sums confirmed income and expense transactions per month,
// currency and type within the window.
func (r *PgxReportingRepository) MonthlyFlows(ctx context.Context, userID string, from, to time.Time) ([]domain.MonthlyCurrencyFlow, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT to_char(date_trunc('month', transaction_date), 'YYYY-MM'), currency_code, transaction_type, SUM(amount)
		FROM transactions
		WHERE user_id = $1
		  AND confirmed = TRUE
		  AND transaction_type IN ('income', 'expense')
		  AND transaction_date >= $2 AND transaction_date <= $3
		GROUP BY 1, currency_code, transaction_type
		ORDER BY 1`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly flows: %w", err)
	}
	defer rows.Close()

	var flows []domain.MonthlyCurrencyFlow
	for rows.Next() {
		var row domain.MonthlyCurrencyFlow
		if err := rows.Scan(&row.Month, &row.CurrencyCode, &row.Type, &row.Total); err != nil {
			return nil, fmt.Errorf("failed to scan monthly flow: %w", err)
		}
		flows = append(flows, row)
	}
	return flows, rows.Err()
}

// CategorySpend sums confirmed expense transactions for one category and
// window, per currency.
func (r *PgxReportingRepository) CategorySpend(ctx context.Context, userID, categoryID string, from, to time.Time) ([]domain.CategoryCurrencySpend, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT currency_code, SUM(amount)
		FROM transactions
		WHERE user_id = $1
		  AND category_id = $2
		  AND transaction_type = 'expense'
		  AND confirmed = TRUE
		  AND transaction_date >= $3 AND transaction_date <= $4
		GROUP BY currency_code`,
		userID, categoryID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query category spend: %w", err)
	}
	defer rows.Close()

	var spend []domain.CategoryCurrencySpend
	for rows.Next() {
		var row domain.CategoryCurrencySpend
		if err := rows.Scan(&row.CurrencyCode, &row.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category spend: %w", err)
		}
		spend = append(spend, row)
	}
	return spend, rows.Err()
}

// PendingInstallments expands each active plan's remaining installments into
// per-month, per-currency buckets up to the horizon.
func (r *PgxReportingRepository) PendingInstallments(ctx context.Context, userID string, horizon time.Time) ([]domain.InstallmentBucket, int, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT to_char(p.next_due_date + make_interval(months => gs.n), 'YYYY-MM') AS due_month,
		       p.currency_code,
		       SUM(p.installment_amount),
		       COUNT(*)
		FROM installment_plans p
		CROSS JOIN LATERAL generate_series(0, p.total_installments - p.current_installment - 1) AS gs(n)
		WHERE p.user_id = $1
		  AND p.status = 'active'
		  AND p.next_due_date + make_interval(months => gs.n) < $2
		GROUP BY due_month, p.currency_code
		ORDER BY due_month, p.currency_code`,
		userID, horizon,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query pending installments: %w", err)
	}
	defer rows.Close()

	var buckets []domain.InstallmentBucket
	for rows.Next() {
		var row domain.InstallmentBucket
		if err := rows.Scan(&row.Month, &row.CurrencyCode, &row.Total, &row.Count); err != nil {
			return nil, 0, fmt.Errorf("failed to scan installment bucket: %w", err)
		}
		buckets = append(buckets, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var activePlans int
	err = r.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM installment_plans
		WHERE user_id = $1 AND status = 'active'`,
		userID,
	).Scan(&activePlans)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count active plans: %w", err)
	}

	return buckets, activePlans, nil
}
