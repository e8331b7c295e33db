package services

import (
	"context"
	"time"

	"github.com/agustinvidal/fintrack/internal/core/domain"
	"github.com/agustinvidal/fintrack/internal/dto"
)

// InstallmentSvcFacade manages installment purchase plans.
type InstallmentSvcFacade interface {
	// CreatePlan opens an installment plan. The per-installment amount is
	// the total divided by the installment count, rounded half-to-even at
	// the currency's precision.
	CreatePlan(ctx context.Context, req dto.CreateInstallmentPlanRequest, userID string) (*domain.InstallmentPlan, error)

	// GetPlanByID returns one plan, enforcing ownership.
	GetPlanByID(ctx context.Context, planID, userID string) (*domain.InstallmentPlan, error)

	// ListPlans returns the user's plans.
	ListPlans(ctx context.Context, userID string) ([]domain.InstallmentPlan, error)

	// CancelPlan cancels an active plan; already posted installments stand.
	CancelPlan(ctx context.Context, planID, userID string) error
}

// AutoDebitSvcFacade manages recurring debit schedules.
type AutoDebitSvcFacade interface {
	// CreateSchedule registers a recurring debit starting at StartDate.
	CreateSchedule(ctx context.Context, req dto.CreateAutoDebitRequest, userID string) (*domain.AutoDebitSchedule, error)

	// GetScheduleByID returns one schedule, enforcing ownership.
	GetScheduleByID(ctx context.Context, scheduleID, userID string) (*domain.AutoDebitSchedule, error)

	// ListSchedules returns the user's schedules.
	ListSchedules(ctx context.Context, userID string) ([]domain.AutoDebitSchedule, error)

	// PauseSchedule stops execution until resumed.
	PauseSchedule(ctx context.Context, scheduleID, userID string) error

	// ResumeSchedule reactivates a paused schedule and clears its failure
	// counter.
	ResumeSchedule(ctx context.Context, scheduleID, userID string) error

	// CancelSchedule permanently stops a schedule.
	CancelSchedule(ctx context.Context, scheduleID, userID string) error
}

// DueItemSvcFacade runs the scheduled posting batch. Entry points are driven
// externally (HTTP job endpoint or the jobs binary), never by an internal
// timer.
type DueItemSvcFacade interface {
	// RunDueItemScan executes every due auto-debit and posts every due
	// installment as of the given date. Items are processed independently;
	// one failure never aborts the batch. Safe to re-run for the same date.
	RunDueItemScan(ctx context.Context, asOf time.Time) (domain.ScanSummary, error)
}
