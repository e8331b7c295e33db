package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agustinvidal/fintrack/internal/apperrors"
	"github.com/agustinvidal/fintrack/internal/core/domain"
	portsrepo "github.com/agustinvidal/fintrack/internal/core/ports/repositories"
	portssvc "github.com/agustinvidal/fintrack/internal/core/ports/services"
	"github.com/agustinvidal/fintrack/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// autoDebitService manages recurring debit schedules.
type autoDebitService struct {
	BaseService
	autoDebitRepo portsrepo.AutoDebitRepositoryFacade
	accountRepo   portsrepo.AccountRepositoryFacade
}

var _ portssvc.AutoDebitSvcFacade = (*autoDebitService)(nil)

// NewAutoDebitService creates a new auto-debit service.
func NewAutoDebitService(autoDebitRepo portsrepo.AutoDebitRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.AutoDebitSvcFacade {
	return &autoDebitService{
		autoDebitRepo: autoDebitRepo,
		accountRepo:   accountRepo,
	}
}

// CreateSchedule registers a recurring debit. The first execution happens on
// StartDate.
func (s *autoDebitService) CreateSchedule(ctx context.Context, req dto.CreateAutoDebitRequest, userID string) (*domain.AutoDebitSchedule, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: end date cannot precede the start date", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("%w: account does not belong to user", apperrors.ErrForbidden)
	}

	currencyCode := strings.ToUpper(req.CurrencyCode)
	if currencyCode != account.CurrencyCode {
		return nil, fmt.Errorf("%w: schedule currency '%s' does not match account currency '%s'", apperrors.ErrValidation, currencyCode, account.CurrencyCode)
	}

	now := time.Now()
	schedule := domain.AutoDebitSchedule{
		ScheduleID:     uuid.NewString(),
		UserID:         userID,
		AccountID:      account.AccountID,
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		Amount:         req.Amount,
		CurrencyCode:   currencyCode,
		Frequency:      req.Frequency,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		NextExecution:  req.StartDate,
		ExecutionCount: 0,
		FailedAttempts: 0,
		Status:         domain.DebitActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.autoDebitRepo.SaveSchedule(ctx, schedule); err != nil {
		s.LogError(ctx, err, "failed to save auto-debit schedule", "account_id", account.AccountID)
		return nil, fmt.Errorf("failed to save auto-debit schedule: %w", err)
	}

	s.LogInfo(ctx, "auto-debit schedule created", "schedule_id", schedule.ScheduleID, "frequency", string(schedule.Frequency))
	return &schedule, nil
}

// GetScheduleByID retrieves a schedule and enforces ownership.
func (s *autoDebitService) GetScheduleByID(ctx context.Context, scheduleID, userID string) (*domain.AutoDebitSchedule, error) {
	schedule, err := s.autoDebitRepo.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.UserID != userID {
		return nil, fmt.Errorf("%w: schedule does not belong to user", apperrors.ErrForbidden)
	}
	return schedule, nil
}

// ListSchedules retrieves the user's schedules.
func (s *autoDebitService) ListSchedules(ctx context.Context, userID string) ([]domain.AutoDebitSchedule, error) {
	schedules, err := s.autoDebitRepo.ListSchedulesByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "failed to list auto-debit schedules")
		return nil, fmt.Errorf("failed to list auto-debit schedules: %w", err)
	}
	return schedules, nil
}

// PauseSchedule stops execution until resumed.
func (s *autoDebitService) PauseSchedule(ctx context.Context, scheduleID, userID string) error {
	return s.transition(ctx, scheduleID, userID, domain.DebitActive, domain.DebitPaused)
}

// ResumeSchedule reactivates a paused schedule. The repository resets the
// failure counter on this transition.
func (s *autoDebitService) ResumeSchedule(ctx context.Context, scheduleID, userID string) error {
	return s.transition(ctx, scheduleID, userID, domain.DebitPaused, domain.DebitActive)
}

// CancelSchedule permanently stops a schedule.
func (s *autoDebitService) CancelSchedule(ctx context.Context, scheduleID, userID string) error {
	schedule, err := s.GetScheduleByID(ctx, scheduleID, userID)
	if err != nil {
		return err
	}
	if schedule.Status == domain.DebitCancelled {
		return fmt.Errorf("%w: schedule is already cancelled", apperrors.ErrValidation)
	}
	return s.updateStatus(ctx, scheduleID, userID, domain.DebitCancelled)
}

func (s *autoDebitService) transition(ctx context.Context, scheduleID, userID string, fromStatus, toStatus domain.DebitStatus) error {
	schedule, err := s.GetScheduleByID(ctx, scheduleID, userID)
	if err != nil {
		return err
	}
	if schedule.Status != fromStatus {
		return fmt.Errorf("%w: schedule is %s, expected %s", apperrors.ErrValidation, schedule.Status, fromStatus)
	}
	return s.updateStatus(ctx, scheduleID, userID, toStatus)
}

func (s *autoDebitService) updateStatus(ctx context.Context, scheduleID, userID string, status domain.DebitStatus) error {
	if err := s.autoDebitRepo.UpdateScheduleStatus(ctx, scheduleID, status, userID); err != nil {
		s.LogError(ctx, err, "failed to update schedule status", "schedule_id", scheduleID, "status", string(status))
		return fmt.Errorf("failed to update schedule status: %w", err)
	}
	s.LogInfo(ctx, "schedule status updated", "schedule_id", scheduleID, "status", string(status))
	return nil
}
