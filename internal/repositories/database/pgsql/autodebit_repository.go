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

// PgxAutoDebitRepository implements the auto-debit repository using pgxpool.
// Due execution is all-or-nothing: the schedule and account rows are locked,
// dueness is re-checked under the lock and the expense, balance and cursor
// updates commit together.
type PgxAutoDebitRepository struct {
	BaseRepository
	accounts *PgxAccountRepository
}

var _ portsrepo.AutoDebitRepositoryFacade = (*PgxAutoDebitRepository)(nil)

// NewPgxAutoDebitRepository creates a new PgxAutoDebitRepository.
func NewPgxAutoDebitRepository(db *pgxpool.Pool, accounts *PgxAccountRepository) *PgxAutoDebitRepository {
	return &PgxAutoDebitRepository{
		BaseRepository: BaseRepository{Pool: db},
		accounts:       accounts,
	}
}

const scheduleColumns = `schedule_id, user_id, account_id, COALESCE(category_id, ''), name, amount, currency_code, frequency, start_date, end_date, next_execution, last_execution, execution_count, failed_attempts, status, created_at, created_by, last_updated_at, last_updated_by`

func scanSchedule(row pgx.Row) (*domain.AutoDebitSchedule, error) {
	var s domain.AutoDebitSchedule
	err := row.Scan(
		&s.ScheduleID, &s.UserID, &s.AccountID, &s.CategoryID, &s.Name,
		&s.Amount, &s.CurrencyCode, &s.Frequency, &s.StartDate, &s.EndDate,
		&s.NextExecution, &s.LastExecution, &s.ExecutionCount, &s.FailedAttempts, &s.Status,
		&s.CreatedAt, &s.CreatedBy, &s.LastUpdatedAt, &s.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSchedule persists a new schedule.
func (r *PgxAutoDebitRepository) SaveSchedule(ctx context.Context, schedule domain.AutoDebitSchedule) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO auto_debit_schedules (
			schedule_id, user_id, account_id, category_id, name, amount, currency_code,
			frequency, start_date, end_date, next_execution, last_execution,
			execution_count, failed_attempts, status,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		schedule.ScheduleID, schedule.UserID, schedule.AccountID, schedule.CategoryID, schedule.Name,
		schedule.Amount, schedule.CurrencyCode, schedule.Frequency, schedule.StartDate, schedule.EndDate,
		schedule.NextExecution, schedule.LastExecution, schedule.ExecutionCount, schedule.FailedAttempts, schedule.Status,
		schedule.CreatedAt, schedule.CreatedBy, schedule.LastUpdatedAt, schedule.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: schedule %s", apperrors.ErrDuplicate, schedule.ScheduleID)
		}
		return fmt.Errorf("failed to insert schedule: %w", err)
	}
	return nil
}

// FindScheduleByID retrieves a schedule by its ID.
func (r *PgxAutoDebitRepository) FindScheduleByID(ctx context.Context, scheduleID string) (*domain.AutoDebitSchedule, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT `+scheduleColumns+`
		FROM auto_debit_schedules
		WHERE schedule_id = $1`,
		scheduleID,
	)
	schedule, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: schedule %s", apperrors.ErrNotFound, scheduleID)
		}
		return nil, fmt.Errorf("failed to query schedule: %w", err)
	}
	return schedule, nil
}

// ListSchedulesByUser retrieves all schedules owned by a user.
func (r *PgxAutoDebitRepository) ListSchedulesByUser(ctx context.Context, userID string) ([]domain.AutoDebitSchedule, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+scheduleColumns+`
		FROM auto_debit_schedules
		WHERE user_id = $1
		ORDER BY next_execution`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []domain.AutoDebitSchedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, *schedule)
	}
	return schedules, rows.Err()
}

// UpdateScheduleStatus transitions a schedule's lifecycle state. Reactivating
// resets the failure counter so a fresh run of attempts starts clean.
func (r *PgxAutoDebitRepository) UpdateScheduleStatus(ctx context.Context, scheduleID string, status domain.DebitStatus, updaterUserID string) error {
	query := `
		UPDATE auto_debit_schedules
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE schedule_id = $4`
	if status == domain.DebitActive {
		query = `
		UPDATE auto_debit_schedules
		SET status = $1, failed_attempts = 0, last_updated_at = $2, last_updated_by = $3
		WHERE schedule_id = $4`
	}

	tag, err := r.Pool.Exec(ctx, query, status, time.Now(), updaterUserID, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to update schedule status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: schedule %s", apperrors.ErrNotFound, scheduleID)
	}
	return nil
}

// FindDueSchedules retrieves active schedules with next_execution on or
// before asOf, respecting end dates.
func (r *PgxAutoDebitRepository) FindDueSchedules(ctx context.Context, asOf time.Time) ([]domain.AutoDebitSchedule, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+scheduleColumns+`
		FROM auto_debit_schedules
		WHERE status = 'active'
		  AND next_execution <= $1
		  AND (end_date IS NULL OR end_date >= $1)
		ORDER BY next_execution`,
		asOf,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query due schedules: %w", err)
	}
	defer rows.Close()

	var schedules []domain.AutoDebitSchedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, *schedule)
	}
	return schedules, rows.Err()
}

// lockScheduleInTx retrieves a schedule and locks its row.
func (r *PgxAutoDebitRepository) lockScheduleInTx(ctx context.Context, tx pgx.Tx, scheduleID string) (*domain.AutoDebitSchedule, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+scheduleColumns+`
		FROM auto_debit_schedules
		WHERE schedule_id = $1
		FOR UPDATE`,
		scheduleID,
	)
	schedule, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: schedule %s", apperrors.ErrNotFound, scheduleID)
		}
		return nil, fmt.Errorf("failed to lock schedule: %w", err)
	}
	return schedule, nil
}

// ExecuteDueSchedule posts the expense transaction and advances the schedule
// cursor as one all-or-nothing unit.
func (r *PgxAutoDebitRepository) ExecuteDueSchedule(ctx context.Context, scheduleID string, txn domain.Transaction, executedOn time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	schedule, err := r.lockScheduleInTx(ctx, tx, scheduleID)
	if err != nil {
		return err
	}
	// Re-check under the lock: a concurrent or re-invoked scan may have
	// advanced the cursor already.
	if !schedule.IsDue(executedOn) {
		return fmt.Errorf("%w: schedule %s already processed for %s", apperrors.ErrDuplicate,
			scheduleID, executedOn.Format("2006-01-02"))
	}

	account, err := r.accounts.FindAccountByIDForUpdate(ctx, tx, schedule.AccountID)
	if err != nil {
		return err
	}
	if !account.CanDebit(schedule.Amount) {
		return fmt.Errorf("%w: account %s balance %s cannot absorb debit of %s",
			apperrors.ErrInsufficientFunds, account.AccountID, account.Balance, schedule.Amount)
	}

	newBalance := domain.NewMoney(account.Balance.Sub(schedule.Amount), account.CurrencyCode)
	if err := r.accounts.UpdateAccountBalanceInTx(ctx, tx, account.AccountID, newBalance, txn.CreatedBy); err != nil {
		return err
	}

	if err := insertTransactionInTx(ctx, tx, txn); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE auto_debit_schedules
		SET next_execution = $1, last_execution = $2, execution_count = execution_count + 1,
		    failed_attempts = 0, last_updated_at = $3, last_updated_by = $4
		WHERE schedule_id = $5`,
		schedule.NextExecutionAfter(executedOn), executedOn, time.Now(), txn.CreatedBy, scheduleID,
	)
	if err != nil {
		return fmt.Errorf("failed to advance schedule cursor: %w", err)
	}

	return r.Commit(ctx, tx)
}

// RecordScheduleFailure increments failed_attempts under the row lock and
// pauses the schedule once the threshold is reached.
func (r *PgxAutoDebitRepository) RecordScheduleFailure(ctx context.Context, scheduleID string, failureThreshold int, updaterUserID string) (int, domain.DebitStatus, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, "", err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	schedule, err := r.lockScheduleInTx(ctx, tx, scheduleID)
	if err != nil {
		return 0, "", err
	}

	attempts := schedule.FailedAttempts + 1
	status := schedule.Status
	if attempts >= failureThreshold {
		status = domain.DebitPaused
	}

	_, err = tx.Exec(ctx, `
		UPDATE auto_debit_schedules
		SET failed_attempts = $1, status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE schedule_id = $5`,
		attempts, status, time.Now(), updaterUserID, scheduleID,
	)
	if err != nil {
		return 0, "", fmt.Errorf("failed to record schedule failure: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, "", err
	}
	return attempts, status, nil
}
