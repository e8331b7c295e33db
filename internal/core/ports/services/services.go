package services

// ServiceContainer bundles every service implementation for handler
// registration.
type ServiceContainer struct {
	CurrencySvc    CurrencySvcFacade
	RateSvc        RateSvcFacade
	ConversionSvc  ConversionSvcFacade
	AccountSvc     AccountSvcFacade
	CategorySvc    CategorySvcFacade
	TransactionSvc TransactionSvcFacade
	InstallmentSvc InstallmentSvcFacade
	AutoDebitSvc   AutoDebitSvcFacade
	BudgetSvc      BudgetSvcFacade
	ReportingSvc   ReportingSvcFacade
	DueItemSvc     DueItemSvcFacade
}
