package services

import (
	"context"

	"github.com/agustinvidal/fintrack/internal/core/domain"
	"github.com/agustinvidal/fintrack/internal/dto"
)

// AccountSvcFacade manages a user's financial accounts.
type AccountSvcFacade interface {
	// CreateAccount opens an account for the user.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// GetAccountByID returns one account, enforcing ownership.
	GetAccountByID(ctx context.Context, accountID, userID string) (*domain.Account, error)

	// ListAccounts returns the user's active accounts.
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)

	// DeactivateAccount soft-deletes an account, enforcing ownership.
	DeactivateAccount(ctx context.Context, accountID, userID string) error
}

// CategorySvcFacade manages a user's transaction categories.
type CategorySvcFacade interface {
	// CreateCategory creates a category for the user.
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, userID string) (*domain.Category, error)

	// GetCategoryByID returns one category, enforcing ownership.
	GetCategoryByID(ctx context.Context, categoryID, userID string) (*domain.Category, error)

	// ListCategories returns the user's categories.
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
}
