package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/agustinvidal/fintrack/internal/apperrors"
	"github.com/agustinvidal/fintrack/internal/core/domain"
	portsrepo "github.com/agustinvidal/fintrack/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxTransactionRepository implements the transaction repository using
// pgxpool. Posting locks every affected account row, re-checks the balance
// policy under the lock and writes the transaction and the new balances in
// one database transaction.
type PgxTransactionRepository struct {
	BaseRepository
	accounts *PgxAccountRepository
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// NewPgxTransactionRepository creates a new PgxTransactionRepository.
func NewPgxTransactionRepository(db *pgxpool.Pool, accounts *PgxAccountRepository) *PgxTransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: db},
		accounts:       accounts,
	}
}

const transactionColumns = `transaction_id, user_id, account_id, target_account_id, category_id, transaction_date, amount, currency_code, transaction_type, origin, description, schedule_id, confirmed, created_at, created_by, last_updated_at, last_updated_by`

const selectTransactionColumns = `transaction_id, user_id, account_id, COALESCE(target_account_id, ''), COALESCE(category_id, ''), transaction_date, amount, currency_code, transaction_type, origin, description, COALESCE(schedule_id, ''), confirmed, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.TransactionID, &t.UserID, &t.AccountID, &t.TargetAccountID, &t.CategoryID,
		&t.TransactionDate, &t.Amount, &t.CurrencyCode, &t.Type, &t.Origin,
		&t.Description, &t.ScheduleID, &t.Confirmed,
		&t.CreatedAt, &t.CreatedBy, &t.LastUpdatedAt, &t.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// insertTransactionInTx writes the transaction row inside an open database
// transaction. Empty optional references are stored as NULL.
func insertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, $10, $11, NULLIF($12, ''), $13, $14, $15, $16, $17)`,
		txn.TransactionID, txn.UserID, txn.AccountID, txn.TargetAccountID, txn.CategoryID,
		txn.TransactionDate, txn.Amount, txn.CurrencyCode, txn.Type, txn.Origin,
		txn.Description, txn.ScheduleID, txn.Confirmed,
		txn.CreatedAt, txn.CreatedBy, txn.LastUpdatedAt, txn.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// applyBalanceDeltasInTx locks the affected accounts in a deterministic order,
// enforces each account's balance policy and writes the new balances.
func (r *PgxTransactionRepository) applyBalanceDeltasInTx(ctx context.Context, tx pgx.Tx, balanceDeltas map[string]decimal.Decimal, updaterUserID string) error {
	accountIDs := make([]string, 0, len(balanceDeltas))
	for accountID := range balanceDeltas {
		accountIDs = append(accountIDs, accountID)
	}
	// Lock ordering avoids deadlocks between concurrent postings.
	sort.Strings(accountIDs)

	for _, accountID := range accountIDs {
		account, err := r.accounts.FindAccountByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}

		delta := balanceDeltas[accountID]
		if delta.IsNegative() && !account.CanDebit(delta.Neg()) {
			return fmt.Errorf("%w: account %s balance %s cannot absorb debit of %s",
				apperrors.ErrInsufficientFunds, accountID, account.Balance, delta.Neg())
		}

		newBalance := domain.NewMoney(account.Balance.Add(delta), account.CurrencyCode)
		if err := r.accounts.UpdateAccountBalanceInTx(ctx, tx, accountID, newBalance, updaterUserID); err != nil {
			return err
		}
	}
	return nil
}

// PostTransaction inserts the transaction and applies the balance deltas as
// one all-or-nothing unit.
func (r *PgxTransactionRepository) PostTransaction(ctx context.Context, txn domain.Transaction, balanceDeltas map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := r.applyBalanceDeltasInTx(ctx, tx, balanceDeltas, txn.CreatedBy); err != nil {
		return err
	}
	if err := insertTransactionInTx(ctx, tx, txn); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT `+selectTransactionColumns+`
		FROM transactions
		WHERE transaction_id = $1`,
		transactionID,
	)
	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return txn, nil
}

// ListTransactionsByUser retrieves a user's transactions within a window,
// most recent first.
func (r *PgxTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+selectTransactionColumns+`
		FROM transactions
		WHERE user_id = $1 AND transaction_date >= $2 AND transaction_date <= $3
		ORDER BY transaction_date DESC, created_at DESC`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	return transactions, rows.Err()
}
