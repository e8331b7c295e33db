package pgsql

import (
	portsrepo "github.com/agustinvidal/fintrack/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgsql repository against one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := NewPgxAccountRepository(dbPool)
	currencyRepo := NewPgxCurrencyRepository(dbPool)
	rateStore := NewPgxRateStoreRepository(dbPool)
	categoryRepo := NewPgxCategoryRepository(dbPool)
	transactionRepo := NewPgxTransactionRepository(dbPool, accountRepo)
	autoDebitRepo := NewPgxAutoDebitRepository(dbPool, accountRepo)
	installmentRepo := NewPgxInstallmentRepository(dbPool, accountRepo)
	budgetRepo := NewPgxBudgetRepository(dbPool)
	reportingRepo := NewPgxReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		CurrencyRepo:    currencyRepo,
		RateStore:       rateStore,
		AccountRepo:     accountRepo,
		CategoryRepo:    categoryRepo,
		TransactionRepo: transactionRepo,
		AutoDebitRepo:   autoDebitRepo,
		InstallmentRepo: installmentRepo,
		BudgetRepo:      budgetRepo,
		ReportingRepo:   reportingRepo,
	}
}
