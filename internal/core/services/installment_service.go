package services

import (
	"context"
	"errors"
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

// installmentService manages installment purchase plans.
type installmentService struct {
	BaseService
	installmentRepo portsrepo.InstallmentRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
	currencyRepo    portsrepo.CurrencyRepositoryFacade
}

var _ portssvc.InstallmentSvcFacade = (*installmentService)(nil)

// NewInstallmentService creates a new installment service.
func NewInstallmentService(
	installmentRepo portsrepo.InstallmentRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	currencyRepo portsrepo.CurrencyRepositoryFacade,
) portssvc.InstallmentSvcFacade {
	return &installmentService{
		installmentRepo: installmentRepo,
		accountRepo:     accountRepo,
		currencyRepo:    currencyRepo,
	}
}

// CreatePlan opens an installment plan. The per-installment amount is the
// total divided by the count, rounded half-to-even at the currency precision.
func (s *installmentService) CreatePlan(ctx context.Context, req dto.CreateInstallmentPlanRequest, userID string) (*domain.InstallmentPlan, error) {
	if req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: total amount must be positive", apperrors.ErrValidation)
	}
	if req.FirstDueDate.Before(req.PurchaseDate) {
		return nil, fmt.Errorf("%w: first due date cannot precede the purchase date", apperrors.ErrValidation)
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
		return nil, fmt.Errorf("%w: plan currency '%s' does not match account currency '%s'", apperrors.ErrValidation, currencyCode, account.CurrencyCode)
	}

	places := domain.DefaultDecimalPlaces
	if currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode); err == nil {
		places = currency.DecimalPlaces
	}
	installmentAmount := req.TotalAmount.
		Div(decimal.NewFromInt(int64(req.TotalInstallments))).
		RoundBank(places)

	now := time.Now()
	plan := domain.InstallmentPlan{
		PlanID:             uuid.NewString(),
		UserID:             userID,
		AccountID:          account.AccountID,
		CategoryID:         req.CategoryID,
		Description:        req.Description,
		TotalAmount:        req.TotalAmount,
		InstallmentAmount:  installmentAmount,
		CurrencyCode:       currencyCode,
		TotalInstallments:  req.TotalInstallments,
		CurrentInstallment: 0,
		PurchaseDate:       req.PurchaseDate,
		NextDueDate:        req.FirstDueDate,
		Status:             domain.InstallmentActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.installmentRepo.SavePlan(ctx, plan); err != nil {
		s.LogError(ctx, err, "failed to save installment plan", "account_id", account.AccountID)
		return nil, fmt.Errorf("failed to save installment plan: %w", err)
	}

	s.LogInfo(ctx, "installment plan created", "plan_id", plan.PlanID, "installments", plan.TotalInstallments)
	return &plan, nil
}

// GetPlanByID retrieves a plan and enforces ownership.
func (s *installmentService) GetPlanByID(ctx context.Context, planID, userID string) (*domain.InstallmentPlan, error) {
	plan, err := s.installmentRepo.FindPlanByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, fmt.Errorf("%w: plan does not belong to user", apperrors.ErrForbidden)
	}
	return plan, nil
}

// ListPlans retrieves the user's plans.
func (s *installmentService) ListPlans(ctx context.Context, userID string) ([]domain.InstallmentPlan, error) {
	plans, err := s.installmentRepo.ListPlansByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "failed to list installment plans")
		return nil, fmt.Errorf("failed to list installment plans: %w", err)
	}
	return plans, nil
}

// CancelPlan cancels an active plan. Installments already posted stand.
func (s *installmentService) CancelPlan(ctx context.Context, planID, userID string) error {
	plan, err := s.GetPlanByID(ctx, planID, userID)
	if err != nil {
		return err
	}
	if plan.Status != domain.InstallmentActive {
		return fmt.Errorf("%w: only active plans can be cancelled", apperrors.ErrValidation)
	}

	if err := s.installmentRepo.CancelPlan(ctx, planID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		s.LogError(ctx, err, "failed to cancel installment plan", "plan_id", planID)
		return fmt.Errorf("failed to cancel installment plan: %w", err)
	}

	s.LogInfo(ctx, "installment plan cancelled", "plan_id", planID)
	return nil
}
