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

// PgxInstallmentRepository implements the installment repository using
// pgxpool. Posting a due installment is all-or-nothing: the plan and account
// rows are locked, dueness is re-checked and the expense, balance and plan
// cursor commit together.
type PgxInstallmentRepository struct {
	BaseRepository
	accounts *PgxAccountRepository
}

var _ portsrepo.InstallmentRepositoryFacade = (*PgxInstallmentRepository)(nil)

// NewPgxInstallmentRepository creates a new PgxInstallmentRepository.
func NewPgxInstallmentRepository(db *pgxpool.Pool, accounts *PgxAccountRepository) *PgxInstallmentRepository {
	return &PgxInstallmentRepository{
		BaseRepository: BaseRepository{Pool: db},
		accounts:       accounts,
	}
}

const planColumns = `plan_id, user_id, account_id, COALESCE(category_id, ''), description, total_amount, installment_amount, currency_code, total_installments, current_installment, purchase_date, next_due_date, status, created_at, created_by, last_updated_at, last_updated_by`

func scanPlan(row pgx.Row) (*domain.InstallmentPlan, error) {
	var p domain.InstallmentPlan
	err := row.Scan(
		&p.PlanID, &p.UserID, &p.AccountID, &p.CategoryID, &p.Description,
		&p.TotalAmount, &p.InstallmentAmount, &p.CurrencyCode,
		&p.TotalInstallments, &p.CurrentInstallment, &p.PurchaseDate, &p.NextDueDate, &p.Status,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePlan persists a new plan.
func (r *PgxInstallmentRepository) SavePlan(ctx context.Context, plan domain.InstallmentPlan) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO installment_plans (
			plan_id, user_id, account_id, category_id, description,
			total_amount, installment_amount, currency_code,
			total_installments, current_installment, purchase_date, next_due_date, status,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		plan.PlanID, plan.UserID, plan.AccountID, plan.CategoryID, plan.Description,
		plan.TotalAmount, plan.InstallmentAmount, plan.CurrencyCode,
		plan.TotalInstallments, plan.CurrentInstallment, plan.PurchaseDate, plan.NextDueDate, plan.Status,
		plan.CreatedAt, plan.CreatedBy, plan.LastUpdatedAt, plan.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: plan %s", apperrors.ErrDuplicate, plan.PlanID)
		}
		return fmt.Errorf("failed to insert plan: %w", err)
	}
	return nil
}

// FindPlanByID retrieves a plan by its ID.
func (r *PgxInstallmentRepository) FindPlanByID(ctx context.Context, planID string) (*domain.InstallmentPlan, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT `+planColumns+`
		FROM installment_plans
		WHERE plan_id = $1`,
		planID,
	)
	plan, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: plan %s", apperrors.ErrNotFound, planID)
		}
		return nil, fmt.Errorf("failed to query plan: %w", err)
	}
	return plan, nil
}

// ListPlansByUser retrieves all plans owned by a user.
func (r *PgxInstallmentRepository) ListPlansByUser(ctx context.Context, userID string) ([]domain.InstallmentPlan, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+planColumns+`
		FROM installment_plans
		WHERE user_id = $1
		ORDER BY next_due_date`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []domain.InstallmentPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, *plan)
	}
	return plans, rows.Err()
}

// CancelPlan transitions an active plan to cancelled.
func (r *PgxInstallmentRepository) CancelPlan(ctx context.Context, planID, updaterUserID string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE installment_plans
		SET status = 'cancelled', last_updated_at = $1, last_updated_by = $2
		WHERE plan_id = $3 AND status = 'active'`,
		time.Now(), updaterUserID, planID,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: active plan %s", apperrors.ErrNotFound, planID)
	}
	return nil
}

// FindDuePlans retrieves active plans with next_due_date on or before asOf
// and installments still pending.
func (r *PgxInstallmentRepository) FindDuePlans(ctx context.Context, asOf time.Time) ([]domain.InstallmentPlan, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+planColumns+`
		FROM installment_plans
		WHERE status = 'active'
		  AND next_due_date <= $1
		  AND current_installment < total_installments
		ORDER BY next_due_date`,
		asOf,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query due plans: %w", err)
	}
	defer rows.Close()

	var plans []domain.InstallmentPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, *plan)
	}
	return plans, rows.Err()
}

// PostDueInstallment posts one installment and advances the plan as one
// all-or-nothing unit. The plan completes when the last installment posts.
func (r *PgxInstallmentRepository) PostDueInstallment(ctx context.Context, planID string, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	row := tx.QueryRow(ctx, `
		SELECT `+planColumns+`
		FROM installment_plans
		WHERE plan_id = $1
		FOR UPDATE`,
		planID,
	)
	plan, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: plan %s", apperrors.ErrNotFound, planID)
		}
		return fmt.Errorf("failed to lock plan: %w", err)
	}

	// Re-check under the lock: a concurrent or re-invoked scan may have
	// posted this installment already.
	if !plan.IsDue(txn.TransactionDate) {
		return fmt.Errorf("%w: plan %s installment already posted for %s", apperrors.ErrDuplicate,
			planID, txn.TransactionDate.Format("2006-01-02"))
	}

	account, err := r.accounts.FindAccountByIDForUpdate(ctx, tx, plan.AccountID)
	if err != nil {
		return err
	}
	if !account.CanDebit(plan.InstallmentAmount) {
		return fmt.Errorf("%w: account %s balance %s cannot absorb debit of %s",
			apperrors.ErrInsufficientFunds, account.AccountID, account.Balance, plan.InstallmentAmount)
	}

	newBalance := domain.NewMoney(account.Balance.Sub(plan.InstallmentAmount), account.CurrencyCode)
	if err := r.accounts.UpdateAccountBalanceInTx(ctx, tx, account.AccountID, newBalance, txn.CreatedBy); err != nil {
		return err
	}

	if err := insertTransactionInTx(ctx, tx, txn); err != nil {
		return err
	}

	current := plan.CurrentInstallment + 1
	status := domain.InstallmentActive
	if current >= plan.TotalInstallments {
		status = domain.InstallmentCompleted
	}

	_, err = tx.Exec(ctx, `
		UPDATE installment_plans
		SET current_installment = $1, next_due_date = $2, status = $3,
		    last_updated_at = $4, last_updated_by = $5
		WHERE plan_id = $6`,
		current, plan.NextDueDate.AddDate(0, 1, 0), status, time.Now(), txn.CreatedBy, planID,
	)
	if err != nil {
		return fmt.Errorf("failed to advance plan: %w", err)
	}

	return r.Commit(ctx, tx)
}
