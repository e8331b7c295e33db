package repositories

import (
	"context"

	"github.com/agustinvidal/fintrack/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves an account by its ID.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccountsByUser retrieves all accounts owned by a user.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account inactive.
	DeactivateAccount(ctx context.Context, accountID, updaterUserID string) error
}

// AccountLocker defines row-locking operations used inside database
// transactions by the posting paths.
type AccountLocker interface {
	// FindAccountByIDForUpdate retrieves an account and locks its row for the
	// duration of the surrounding transaction.
	FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error)

	// UpdateAccountBalanceInTx sets an account's balance within an open
	// transaction. The row must already be locked.
	UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, newBalance domain.Money, updaterUserID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountLocker
	TransactionManager
}

// CategoryRepositoryFacade defines operations for category data.
type CategoryRepositoryFacade interface {
	// FindCategoryByID retrieves a category by its ID.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// ListCategoriesByUser retrieves all active categories owned by a user.
	ListCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error)

	// SaveCategory persists a new category.
	SaveCategory(ctx context.Context, category domain.Category) error
}
