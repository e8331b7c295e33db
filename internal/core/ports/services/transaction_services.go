package services

import (
	"context"
	"time"

	"github.com/agustinvidal/fintrack/internal/core/domain"
	"github.com/agustinvidal/fintrack/internal/dto"
)

// TransactionSvcFacade posts and reads account movements.
type TransactionSvcFacade interface {
	// CreateTransaction validates and posts a movement, updating account
	// balances atomically. Transfers convert the amount when the target
	// account holds a different currency. Returns
	// apperrors.ErrInsufficientFunds when a debit would violate the source
	// account's balance policy.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)

	// GetTransactionByID returns one movement, enforcing ownership.
	GetTransactionByID(ctx context.Context, transactionID, userID string) (*domain.Transaction, error)

	// ListTransactions returns the user's movements within the optional
	// window, newest first.
	ListTransactions(ctx context.Context, userID string, from, to *time.Time) ([]domain.Transaction, error)
}
