package services

import (
	"context"

	"github.com/agustinvidal/fintrack/internal/core/domain"
	"github.com/agustinvidal/fintrack/internal/dto"
)

// BudgetSvcFacade manages category spending budgets.
type BudgetSvcFacade interface {
	// CreateBudget creates a budget over a date window. AlertPercentage
	// defaults to 80 when omitted.
	CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, userID string) (*domain.Budget, error)

	// GetBudgetByID returns one budget, enforcing ownership.
	GetBudgetByID(ctx context.Context, budgetID, userID string) (*domain.Budget, error)

	// ListBudgets returns the user's budgets.
	ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error)
}
