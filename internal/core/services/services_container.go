package services

import (
	portsrepo "github.com/agustinvidal/fintrack/internal/core/ports/repositories"
	portssvc "github.com/agustinvidal/fintrack/internal/core/ports/services"
	"github.com/agustinvidal/fintrack/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, provider portssvc.RateProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.CurrencySvc = NewCurrencyService(repos.CurrencyRepo)
	container.RateSvc = NewRateService(repos.RateStore, repos.CurrencyRepo, provider)
	container.ConversionSvc = NewConversionService(repos.RateStore, repos.CurrencyRepo, provider)

	container.AccountSvc = NewAccountService(repos.AccountRepo, repos.CurrencyRepo)
	container.CategorySvc = NewCategoryService(repos.CategoryRepo)
	container.TransactionSvc = NewTransactionService(repos.TransactionRepo, repos.AccountRepo, repos.CategoryRepo, container.ConversionSvc)

	container.InstallmentSvc = NewInstallmentService(repos.InstallmentRepo, repos.AccountRepo, repos.CurrencyRepo)
	container.AutoDebitSvc = NewAutoDebitService(repos.AutoDebitRepo, repos.AccountRepo)
	container.BudgetSvc = NewBudgetService(repos.BudgetRepo, repos.CategoryRepo, repos.CurrencyRepo)

	container.ReportingSvc = NewReportingService(repos.ReportingRepo, repos.AccountRepo, repos.CategoryRepo, repos.BudgetRepo, container.ConversionSvc)
	container.DueItemSvc = NewDueItemService(repos.AutoDebitRepo, repos.InstallmentRepo, cfg.AutoDebitFailureThreshold)

	return container
}
