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

// transactionService posts and reads account movements. Posting validates
// ownership and category kind, computes the balance deltas and hands the
// all-or-nothing write to the repository.
type transactionService struct {
	BaseService
	transactionRepo portsrepo.TransactionRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
	categoryRepo    portsrepo.CategoryRepositoryFacade
	conversionSvc   portssvc.ConversionSvcFacade
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// NewTransactionService creates a new transaction service.
func NewTransactionService(
	transactionRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	categoryRepo portsrepo.CategoryRepositoryFacade,
	conversionSvc portssvc.ConversionSvcFacade,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		categoryRepo:    categoryRepo,
		conversionSvc:   conversionSvc,
	}
}

// CreateTransaction validates and posts a movement.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	account, err := s.ownedAccount(ctx, req.AccountID, userID)
	if err != nil {
		return nil, err
	}

	currencyCode := strings.ToUpper(req.CurrencyCode)
	if currencyCode != account.CurrencyCode {
		return nil, fmt.Errorf("%w: transaction currency '%s' does not match account currency '%s'", apperrors.ErrValidation, currencyCode, account.CurrencyCode)
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		UserID:          userID,
		AccountID:       account.AccountID,
		CategoryID:      req.CategoryID,
		TransactionDate: req.TransactionDate,
		Amount:          req.Amount,
		CurrencyCode:    currencyCode,
		Type:            req.Type,
		Origin:          domain.OriginManual,
		Description:     req.Description,
		Confirmed:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	balanceDeltas := map[string]decimal.Decimal{}

	switch req.Type {
	case domain.Income, domain.Expense:
		if req.TargetAccountID != "" {
			return nil, fmt.Errorf("%w: target account only applies to transfers", apperrors.ErrValidation)
		}
		if err := s.validateCategory(ctx, req.CategoryID, userID, req.Type); err != nil {
			return nil, err
		}
		if req.Type == domain.Income {
			balanceDeltas[account.AccountID] = req.Amount
		} else {
			balanceDeltas[account.AccountID] = req.Amount.Neg()
		}

	case domain.Transfer:
		if req.TargetAccountID == "" {
			return nil, fmt.Errorf("%w: transfers require a target account", apperrors.ErrValidation)
		}
		if req.TargetAccountID == req.AccountID {
			return nil, fmt.Errorf("%w: cannot transfer to the same account", apperrors.ErrValidation)
		}
		if req.CategoryID != "" {
			return nil, fmt.Errorf("%w: transfers cannot be categorized", apperrors.ErrValidation)
		}
		target, err := s.ownedAccount(ctx, req.TargetAccountID, userID)
		if err != nil {
			return nil, err
		}

		credited := req.Amount
		if target.CurrencyCode != account.CurrencyCode {
			converted, err := s.conversionSvc.Convert(ctx, txn.Money(), target.CurrencyCode, req.TransactionDate)
			if err != nil {
				return nil, fmt.Errorf("failed to convert transfer amount: %w", err)
			}
			credited = converted.Amount
		}

		txn.TargetAccountID = target.AccountID
		txn.Origin = domain.OriginTransfer
		balanceDeltas[account.AccountID] = req.Amount.Neg()
		balanceDeltas[target.AccountID] = credited

	default:
		return nil, fmt.Errorf("%w: unknown transaction type '%s'", apperrors.ErrValidation, req.Type)
	}

	if err := s.transactionRepo.PostTransaction(ctx, txn, balanceDeltas); err != nil {
		if errors.Is(err, apperrors.ErrInsufficientFunds) {
			return nil, err
		}
		s.LogError(ctx, err, "failed to post transaction", "account_id", account.AccountID)
		return nil, fmt.Errorf("failed to post transaction: %w", err)
	}

	s.LogInfo(ctx, "transaction posted", "transaction_id", txn.TransactionID, "type", string(txn.Type))
	return &txn, nil
}

// GetTransactionByID retrieves a movement and enforces ownership.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID, userID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, fmt.Errorf("%w: transaction does not belong to user", apperrors.ErrForbidden)
	}
	return txn, nil
}

// ListTransactions retrieves the user's movements within the optional window.
func (s *transactionService) ListTransactions(ctx context.Context, userID string, from, to *time.Time) ([]domain.Transaction, error) {
	windowFrom := time.Time{}
	if from != nil {
		windowFrom = *from
	}
	windowTo := time.Now().AddDate(1, 0, 0)
	if to != nil {
		windowTo = *to
	}

	transactions, err := s.transactionRepo.ListTransactionsByUser(ctx, userID, windowFrom, windowTo)
	if err != nil {
		s.LogError(ctx, err, "failed to list transactions")
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

func (s *transactionService) ownedAccount(ctx context.Context, accountID, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("%w: account does not belong to user", apperrors.ErrForbidden)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account is inactive", apperrors.ErrValidation)
	}
	return account, nil
}

// validateCategory checks ownership and that the category kind matches the
// transaction type.
func (s *transactionService) validateCategory(ctx context.Context, categoryID, userID string, txnType domain.TransactionType) error {
	if categoryID == "" {
		return fmt.Errorf("%w: category is required for income and expense transactions", apperrors.ErrValidation)
	}
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: category not found", apperrors.ErrValidation)
		}
		return fmt.Errorf("failed to validate category: %w", err)
	}
	if category.UserID != userID {
		return fmt.Errorf("%w: category does not belong to user", apperrors.ErrForbidden)
	}
	if (txnType == domain.Income && category.Kind != domain.CategoryIncome) ||
		(txnType == domain.Expense && category.Kind != domain.CategoryExpense) {
		return fmt.Errorf("%w: category kind '%s' does not match transaction type '%s'", apperrors.ErrValidation, category.Kind, txnType)
	}
	return nil
}
