package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agustinvidal/fintrack/internal/apperrors"
	"github.com/agustinvidal/fintrack/internal/core/domain"
	portsrepo "github.com/agustinvidal/fintrack/internal/core/ports/repositories"
	portssvc "github.com/agustinvidal/fintrack/internal/core/ports/services"
	"github.com/google/uuid"
)

// systemUserID marks writes performed by the batch rather than a user.
const systemUserID = "system"

// dueItemService runs the scheduled posting batch: due auto-debits and due
// installments. Items are processed independently and the atomic posting
// (lock, re-check dueness, write) lives in the repositories, which makes a
// re-run for the same date a no-op.
type dueItemService struct {
	BaseService
	autoDebitRepo    portsrepo.AutoDebitRepositoryFacade
	installmentRepo  portsrepo.InstallmentRepositoryFacade
	failureThreshold int
}

var _ portssvc.DueItemSvcFacade = (*dueItemService)(nil)

// NewDueItemService creates a new due-item service. failureThreshold is the
// number of consecutive posting failures after which an auto-debit schedule
// is paused.
func NewDueItemService(
	autoDebitRepo portsrepo.AutoDebitRepositoryFacade,
	installmentRepo portsrepo.InstallmentRepositoryFacade,
	failureThreshold int,
) portssvc.DueItemSvcFacade {
	return &dueItemService{
		autoDebitRepo:    autoDebitRepo,
		installmentRepo:  installmentRepo,
		failureThreshold: failureThreshold,
	}
}

// RunDueItemScan executes every due auto-debit and posts every due
// installment as of the given date. One item's failure never aborts the
// batch.
func (s *dueItemService) RunDueItemScan(ctx context.Context, asOf time.Time) (domain.ScanSummary, error) {
	summary := domain.ScanSummary{}

	s.runDueDebits(ctx, asOf, &summary)
	s.runDueInstallments(ctx, asOf, &summary)

	s.LogInfo(ctx, "due-item scan finished",
		"debits_executed", summary.DebitsExecuted,
		"installments_posted", summary.InstallmentsPosted,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (s *dueItemService) runDueDebits(ctx context.Context, asOf time.Time, summary *domain.ScanSummary) {
	schedules, err := s.autoDebitRepo.FindDueSchedules(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "failed to find due schedules")
		summary.Failed++
		summary.Errors = append(summary.Errors, fmt.Sprintf("due schedules: %v", err))
		return
	}

	for i := range schedules {
		schedule := &schedules[i]

		txn := s.debitTransaction(schedule)
		err := s.autoDebitRepo.ExecuteDueSchedule(ctx, schedule.ScheduleID, txn, schedule.NextExecution)
		switch {
		case err == nil:
			summary.DebitsExecuted++
		case errors.Is(err, apperrors.ErrDuplicate):
			// Already executed by an earlier or concurrent scan.
		default:
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("schedule %s: %v", schedule.ScheduleID, err))
			s.recordDebitFailure(ctx, schedule.ScheduleID, err)
		}
	}
}

func (s *dueItemService) recordDebitFailure(ctx context.Context, scheduleID string, cause error) {
	attempts, status, err := s.autoDebitRepo.RecordScheduleFailure(ctx, scheduleID, s.failureThreshold, systemUserID)
	if err != nil {
		s.LogError(ctx, err, "failed to record schedule failure", "schedule_id", scheduleID)
		return
	}
	s.LogError(ctx, cause, "auto-debit execution failed",
		"schedule_id", scheduleID,
		"failed_attempts", attempts,
		"status", string(status),
	)
}

func (s *dueItemService) runDueInstallments(ctx context.Context, asOf time.Time, summary *domain.ScanSummary) {
	plans, err := s.installmentRepo.FindDuePlans(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "failed to find due plans")
		summary.Failed++
		summary.Errors = append(summary.Errors, fmt.Sprintf("due plans: %v", err))
		return
	}

	for i := range plans {
		plan := &plans[i]

		txn := s.installmentTransaction(plan)
		err := s.installmentRepo.PostDueInstallment(ctx, plan.PlanID, txn)
		switch {
		case err == nil:
			summary.InstallmentsPosted++
		case errors.Is(err, apperrors.ErrDuplicate):
			// Already posted by an earlier or concurrent scan.
		default:
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("plan %s: %v", plan.PlanID, err))
			s.LogError(ctx, err, "installment posting failed", "plan_id", plan.PlanID)
		}
	}
}

func (s *dueItemService) debitTransaction(schedule *domain.AutoDebitSchedule) domain.Transaction {
	now := time.Now()
	return domain.Transaction{
		TransactionID:   uuid.NewString(),
		UserID:          schedule.UserID,
		AccountID:       schedule.AccountID,
		CategoryID:      schedule.CategoryID,
		TransactionDate: schedule.NextExecution,
		Amount:          schedule.Amount,
		CurrencyCode:    schedule.CurrencyCode,
		Type:            domain.Expense,
		Origin:          domain.OriginAutoDebit,
		Description:     schedule.Name,
		ScheduleID:      schedule.ScheduleID,
		Confirmed:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     systemUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: systemUserID,
		},
	}
}

func (s *dueItemService) installmentTransaction(plan *domain.InstallmentPlan) domain.Transaction {
	now := time.Now()
	return domain.Transaction{
		TransactionID:   uuid.NewString(),
		UserID:          plan.UserID,
		AccountID:       plan.AccountID,
		CategoryID:      plan.CategoryID,
		TransactionDate: plan.NextDueDate,
		Amount:          plan.InstallmentAmount,
		CurrencyCode:    plan.CurrencyCode,
		Type:            domain.Expense,
		Origin:          domain.OriginInstallment,
		Description:     fmt.Sprintf("%s (%d/%d)", plan.Description, plan.CurrentInstallment+1, plan.TotalInstallments),
		ScheduleID:      plan.PlanID,
		Confirmed:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     systemUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: systemUserID,
		},
	}
}
