package repositories

import (
	"context"
	"time"

	"github.com/agustinvidal/fintrack/internal/core/domain"
)

// AutoDebitRepositoryFacade defines operations for auto-debit schedules,
// including the atomic due execution used by the due-item scan.
type AutoDebitRepositoryFacade interface {
	// FindScheduleByID retrieves a schedule by its ID.
	FindScheduleByID(ctx context.Context, scheduleID string) (*domain.AutoDebitSchedule, error)

	// ListSchedulesByUser retrieves all schedules owned by a user.
	ListSchedulesByUser(ctx context.Context, userID string) ([]domain.AutoDebitSchedule, error)

	// SaveSchedule persists a new schedule.
	SaveSchedule(ctx context.Context, schedule domain.AutoDebitSchedule) error

	// UpdateScheduleStatus transitions a schedule's lifecycle state. Resuming
	// a paused schedule resets failed_attempts to zero.
	UpdateScheduleStatus(ctx context.Context, scheduleID string, status domain.DebitStatus, updaterUserID string) error

	// FindDueSchedules retrieves active schedules with next_execution on or
	// before asOf, respecting end dates.
	FindDueSchedules(ctx context.Context, asOf time.Time) ([]domain.AutoDebitSchedule, error)

	// ExecuteDueSchedule posts the expense transaction and advances the
	// schedule cursor as one all-or-nothing unit. The schedule and account
	// rows are locked; dueness is re-checked under the lock so that a
	// re-invoked scan cannot double-post (apperrors.ErrDuplicate is returned
	// for an already-processed schedule). Returns
	// apperrors.ErrInsufficientFunds when the account's balance policy blocks
	// the debit; in that case nothing is written.
	ExecuteDueSchedule(ctx context.Context, scheduleID string, txn domain.Transaction, executedOn time.Time) error

	// RecordScheduleFailure increments failed_attempts and pauses the
	// schedule once the threshold is reached. Returns the updated attempt
	// count and status.
	RecordScheduleFailure(ctx context.Context, scheduleID string, failureThreshold int, updaterUserID string) (int, domain.DebitStatus, error)
}

// InstallmentRepositoryFacade defines operations for installment plans,
// including the atomic due posting used by the due-item scan.
type InstallmentRepositoryFacade interface {
	// FindPlanByID retrieves a plan by its ID.
	FindPlanByID(ctx context.Context, planID string) (*domain.InstallmentPlan, error)

	// ListPlansByUser retrieves all plans owned by a user.
	ListPlansByUser(ctx context.Context, userID string) ([]domain.InstallmentPlan, error)

	// SavePlan persists a new plan.
	SavePlan(ctx context.Context, plan domain.InstallmentPlan) error

	// CancelPlan transitions an active plan to cancelled.
	CancelPlan(ctx context.Context, planID, updaterUserID string) error

	// FindDuePlans retrieves active plans with next_due_date on or before
	// asOf and installments still pending.
	FindDuePlans(ctx context.Context, asOf time.Time) ([]domain.InstallmentPlan, error)

	// PostDueInstallment posts one installment transaction, debits the
	// account, increments current_installment and steps next_due_date one
	// month, completing the plan when the last installment posts, all as one
	// unit. Dueness is re-checked under the plan row lock; an
	// already-processed plan returns apperrors.ErrDuplicate and writes
	// nothing.
	PostDueInstallment(ctx context.Context, planID string, txn domain.Transaction) error
}
