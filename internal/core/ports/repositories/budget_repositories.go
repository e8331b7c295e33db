package repositories

import (
	"context"
	"time"

	"github.com/agustinvidal/fintrack/internal/core/domain"
)

// BudgetRepositoryFacade defines operations for budget data.
type BudgetRepositoryFacade interface {
	// FindBudgetByID retrieves a budget by its ID.
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// ListBudgetsByUser retrieves all budgets owned by a user.
	ListBudgetsByUser(ctx context.Context, userID string) ([]domain.Budget, error)

	// ListActiveBudgets retrieves active budgets whose window covers asOf.
	ListActiveBudgets(ctx context.Context, userID string, asOf time.Time) ([]domain.Budget, error)

	// SaveBudget persists a new budget.
	SaveBudget(ctx context.Context, budget domain.Budget) error
}
