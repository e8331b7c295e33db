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

// accountService provides business logic for financial accounts.
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
	}
}

// CreateAccount opens a new account for the user.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	currencyCode := strings.ToUpper(req.CurrencyCode)
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, currencyCode)
		}
		return nil, fmt.Errorf("failed to validate currency '%s': %w", currencyCode, err)
	}

	if req.CreditLimit.IsNegative() {
		return nil, fmt.Errorf("%w: credit limit cannot be negative", apperrors.ErrValidation)
	}
	if req.InitialBalance.IsNegative() && !req.AllowsNegativeBalance {
		return nil, fmt.Errorf("%w: initial balance cannot be negative for this account", apperrors.ErrValidation)
	}

	includeInTotal := true
	if req.IncludeInTotal != nil {
		includeInTotal = *req.IncludeInTotal
	}

	allowsNegative := req.AllowsNegativeBalance
	if req.AccountType == domain.AccountCreditCard {
		// Credit cards carry a negative balance by convention.
		allowsNegative = true
	}

	now := time.Now()
	account := domain.Account{
		AccountID:             uuid.NewString(),
		UserID:                userID,
		Name:                  req.Name,
		AccountType:           req.AccountType,
		CurrencyCode:          currencyCode,
		Balance:               req.InitialBalance,
		CreditLimit:           req.CreditLimit,
		AllowsNegativeBalance: allowsNegative,
		Description:           req.Description,
		IsActive:              true,
		IncludeInTotal:        includeInTotal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "failed to save account", "account_name", req.Name)
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "account created", "account_id", account.AccountID, "account_type", string(account.AccountType))
	return &account, nil
}

// GetAccountByID retrieves an account and enforces ownership.
func (s *accountService) GetAccountByID(ctx context.Context, accountID, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("%w: account does not belong to user", apperrors.ErrForbidden)
	}
	return account, nil
}

// ListAccounts retrieves the user's active accounts.
func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// DeactivateAccount soft-deletes an account after checking ownership and that
// its balance is settled.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID, userID string) error {
	account, err := s.GetAccountByID(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if !account.Balance.Equal(decimal.Zero) {
		return fmt.Errorf("%w: account balance must be zero before deactivation", apperrors.ErrValidation)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID); err != nil {
		s.LogError(ctx, err, "failed to deactivate account", "account_id", accountID)
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	s.LogInfo(ctx, "account deactivated", "account_id", accountID)
	return nil
}
