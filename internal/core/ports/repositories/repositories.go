package repositories

// RepositoryProvider bundles every repository implementation for service
// container construction.
type RepositoryProvider struct {
	CurrencyRepo    CurrencyRepositoryFacade
	RateStore       RateStoreFacade
	AccountRepo     AccountRepositoryFacade
	CategoryRepo    CategoryRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	AutoDebitRepo   AutoDebitRepositoryFacade
	InstallmentRepo InstallmentRepositoryFacade
	BudgetRepo      BudgetRepositoryFacade
	ReportingRepo   ReportingRepository
}
