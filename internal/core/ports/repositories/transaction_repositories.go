package repositories

import (
	"context"
	"time"

	"github.com/agustinvidal/fintrack/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for transaction data.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by its ID.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByUser retrieves a user's transactions within a window,
	// most recent first.
	ListTransactionsByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error)
}

// TransactionWriter defines the posting operation. Posting is all-or-nothing:
// the transaction row is inserted and every affected account balance is
// adjusted inside one database transaction with the account rows locked.
type TransactionWriter interface {
	// PostTransaction inserts the transaction and applies the given balance
	// deltas (positive credits, negative debits) to the affected accounts.
	// Returns apperrors.ErrInsufficientFunds when a delta would drive an
	// account negative against its balance policy.
	PostTransaction(ctx context.Context, txn domain.Transaction, balanceDeltas map[string]decimal.Decimal) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
