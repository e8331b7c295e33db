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

// defaultAlertPercentage is applied when a budget is created without one.
const defaultAlertPercentage = 80

// budgetService manages category spending budgets.
type budgetService struct {
	BaseService
	budgetRepo   portsrepo.BudgetRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// NewBudgetService creates a new budget service.
func NewBudgetService(
	budgetRepo portsrepo.BudgetRepositoryFacade,
	categoryRepo portsrepo.CategoryRepositoryFacade,
	currencyRepo portsrepo.CurrencyRepositoryFacade,
) portssvc.BudgetSvcFacade {
	return &budgetService{
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
		currencyRepo: currencyRepo,
	}
}

// CreateBudget creates a budget over a date window.
func (s *budgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, userID string) (*domain.Budget, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: budget amount must be positive", apperrors.ErrValidation)
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: end date cannot precede the start date", apperrors.ErrValidation)
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: category not found", apperrors.ErrValidation)
		}
		return nil, fmt.Errorf("failed to validate category: %w", err)
	}
	if category.UserID != userID {
		return nil, fmt.Errorf("%w: category does not belong to user", apperrors.ErrForbidden)
	}
	if category.Kind != domain.CategoryExpense {
		return nil, fmt.Errorf("%w: budgets apply to expense categories only", apperrors.ErrValidation)
	}

	currencyCode := strings.ToUpper(req.CurrencyCode)
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, currencyCode)
		}
		return nil, fmt.Errorf("failed to validate currency '%s': %w", currencyCode, err)
	}

	alertPercentage := req.AlertPercentage
	if alertPercentage == 0 {
		alertPercentage = defaultAlertPercentage
	}

	now := time.Now()
	budget := domain.Budget{
		BudgetID:        uuid.NewString(),
		UserID:          userID,
		CategoryID:      category.CategoryID,
		Period:          req.Period,
		Amount:          req.Amount,
		CurrencyCode:    currencyCode,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		AlertPercentage: alertPercentage,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		s.LogError(ctx, err, "failed to save budget", "category_id", category.CategoryID)
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	s.LogInfo(ctx, "budget created", "budget_id", budget.BudgetID)
	return &budget, nil
}

// GetBudgetByID retrieves a budget and enforces ownership.
func (s *budgetService) GetBudgetByID(ctx context.Context, budgetID, userID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.UserID != userID {
		return nil, fmt.Errorf("%w: budget does not belong to user", apperrors.ErrForbidden)
	}
	return budget, nil
}

// ListBudgets retrieves the user's budgets.
func (s *budgetService) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	budgets, err := s.budgetRepo.ListBudgetsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "failed to list budgets")
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}
