package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/agustinvidal/fintrack/internal/apperrors"
	"github.com/agustinvidal/fintrack/internal/core/domain"
	portssvc "github.com/agustinvidal/fintrack/internal/core/ports/services"
	"github.com/agustinvidal/fintrack/internal/core/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) ExpenseTotalsByCategory(ctx context.Context, userID string, from, to time.Time) ([]domain.CategoryCurrencyTotal, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryCurrencyTotal), args.Error(1)
}

func (m *MockReportingRepository) MonthlyFlows(ctx context.Context, userID string, from, to time.Time) ([]domain.MonthlyCurrencyFlow, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyCurrencyFlow), args.Error(1)
}

func (m *MockReportingRepository) CategorySpend(ctx context.Context, userID, categoryID string, from, to time.Time) ([]domain.CategoryCurrencySpend, error) {
	args := m.Called(ctx, userID, categoryID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryCurrencySpend), args.Error(1)
}

func (m *MockReportingRepository) PendingInstallments(ctx context.Context, userID string, horizon time.Time) ([]domain.InstallmentBucket, int, error) {
	args := m.Called(ctx, userID, horizon)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.InstallmentBucket), args.Int(1), args.Error(2)
}

// --- Mock AccountRepositoryFacade ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID, updaterUserID string) error {
	args := m.Called(ctx, accountID, updaterUserID)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, newBalance domain.Money, updaterUserID string) error {
	args := m.Called(ctx, tx, accountID, newBalance, updaterUserID)
	return args.Error(0)
}

func (m *MockAccountRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockAccountRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockAccountRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock CategoryRepositoryFacade ---

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// --- Mock BudgetRepositoryFacade ---

type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) ListBudgetsByUser(ctx context.Context, userID string) ([]domain.Budget, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) ListActiveBudgets(ctx context.Context, userID string, asOf time.Time) ([]domain.Budget, error) {
	args := m.Called(ctx, userID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

// --- Mock ConversionSvcFacade ---

type MockConversionService struct {
	mock.Mock
}

func (m *MockConversionService) Convert(ctx context.Context, amount domain.Money, targetCurrencyCode string, asOf time.Time) (domain.Money, error) {
	args := m.Called(ctx, amount, targetCurrencyCode, asOf)
	return args.Get(0).(domain.Money), args.Error(1)
}

func (m *MockConversionService) ResolveRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCurrencyCode, toCurrencyCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

// --- Test Suite ---

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	mockAccountRepo   *MockAccountRepository
	mockCategoryRepo  *MockCategoryRepository
	mockBudgetRepo    *MockBudgetRepository
	mockConversionSvc *MockConversionService
	service           portssvc.ReportingSvcFacade
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockConversionSvc = new(MockConversionService)
	suite.service = services.NewReportingService(
		suite.mockReportingRepo,
		suite.mockAccountRepo,
		suite.mockCategoryRepo,
		suite.mockBudgetRepo,
		suite.mockConversionSvc,
	)
}

// identityConversionStub passes every amount through unchanged, relabeled to
// the target currency. Used where the test data is already in the target
// currency.
type identityConversionStub struct{}

func (identityConversionStub) Convert(ctx context.Context, amount domain.Money, targetCurrencyCode string, asOf time.Time) (domain.Money, error) {
	return domain.NewMoney(amount.Amount, targetCurrencyCode), nil
}

func (identityConversionStub) ResolveRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	return nil, apperrors.ErrRateUnavailable
}

// useIdentityConversion rebuilds the service under test with the identity
// conversion stub.
func (suite *ReportingServiceTestSuite) useIdentityConversion() {
	suite.service = services.NewReportingService(
		suite.mockReportingRepo,
		suite.mockAccountRepo,
		suite.mockCategoryRepo,
		suite.mockBudgetRepo,
		identityConversionStub{},
	)
}

func (suite *ReportingServiceTestSuite) TestExpensesByCategory_PercentagesAndOrdering() {
	ctx := context.Background()
	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	rows := []domain.CategoryCurrencyTotal{
		{CategoryID: "cat-food", CategoryName: "Food", CurrencyCode: "ARS", Total: decimal.RequireFromString("600"), TransactionCount: 10},
		{CategoryID: "cat-rent", CategoryName: "Rent", CurrencyCode: "ARS", Total: decimal.RequireFromString("1400"), TransactionCount: 1},
	}

	suite.mockReportingRepo.On("ExpenseTotalsByCategory", ctx, "user-1", from, to).Return(rows, nil).Once()
	suite.useIdentityConversion()

	report, err := suite.service.ExpensesByCategory(ctx, "user-1", "ARS", from, to)

	suite.Require().NoError(err)
	suite.True(report.TotalExpenses.Equal(decimal.RequireFromString("2000")))
	suite.Require().Len(report.Categories, 2)
	suite.Equal("Rent", report.Categories[0].CategoryName, "largest category first")
	suite.Equal("70", report.Categories[0].Percentage.String())
	suite.Equal("30", report.Categories[1].Percentage.String())
}

func (suite *ReportingServiceTestSuite) TestExpensesByCategory_MergesCurrenciesPerCategory() {
	ctx := context.Background()
	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	rows := []domain.CategoryCurrencyTotal{
		{CategoryID: "cat-travel", CategoryName: "Travel", CurrencyCode: "ARS", Total: decimal.RequireFromString("500"), TransactionCount: 2},
		{CategoryID: "cat-travel", CategoryName: "Travel", CurrencyCode: "USD", Total: decimal.RequireFromString("1"), TransactionCount: 1},
	}

	suite.mockReportingRepo.On("ExpenseTotalsByCategory", ctx, "user-1", from, to).Return(rows, nil).Once()
	suite.mockConversionSvc.On("Convert", ctx, domain.NewMoney(decimal.RequireFromString("500"), "ARS"), "ARS", to).
		Return(domain.NewMoney(decimal.RequireFromString("500"), "ARS"), nil).Once()
	suite.mockConversionSvc.On("Convert", ctx, domain.NewMoney(decimal.RequireFromString("1"), "USD"), "ARS", to).
		Return(domain.NewMoney(decimal.RequireFromString("1000"), "ARS"), nil).Once()

	report, err := suite.service.ExpensesByCategory(ctx, "user-1", "ARS", from, to)

	suite.Require().NoError(err)
	suite.Require().Len(report.Categories, 1)
	suite.True(report.Categories[0].Amount.Equal(decimal.RequireFromString("1500")))
	suite.Equal(3, report.Categories[0].TransactionCount)
	suite.Equal("100", report.Categories[0].Percentage.String())
}

func (suite *ReportingServiceTestSuite) TestIncomeVsExpenses_SavingsRate() {
	ctx := context.Background()
	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)

	rows := []domain.MonthlyCurrencyFlow{
		{Month: "2026-01", CurrencyCode: "ARS", Type: domain.Income, Total: decimal.RequireFromString("1000")},
		{Month: "2026-01", CurrencyCode: "ARS", Type: domain.Expense, Total: decimal.RequireFromString("600")},
		{Month: "2026-02", CurrencyCode: "ARS", Type: domain.Income, Total: decimal.RequireFromString("1000")},
		{Month: "2026-02", CurrencyCode: "ARS", Type: domain.Expense, Total: decimal.RequireFromString("900")},
	}

	suite.mockReportingRepo.On("MonthlyFlows", ctx, "user-1", from, to).Return(rows, nil).Once()
	suite.useIdentityConversion()

	report, err := suite.service.IncomeVsExpenses(ctx, "user-1", "ARS", from, to)

	suite.Require().NoError(err)
	suite.True(report.Net.Equal(decimal.RequireFromString("500")))
	suite.Equal("25", report.SavingsRate.String(), "500 of 2000 income saved")
	suite.Require().Len(report.MonthlyBreakdown, 2)
	suite.Equal("2026-01", report.MonthlyBreakdown[0].Month)
	suite.True(report.MonthlyBreakdown[0].Net.Equal(decimal.RequireFromString("400")))
}

func (suite *ReportingServiceTestSuite) TestIncomeVsExpenses_ZeroIncomeHasZeroSavingsRate() {
	ctx := context.Background()
	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	rows := []domain.MonthlyCurrencyFlow{
		{Month: "2026-01", CurrencyCode: "ARS", Type: domain.Expense, Total: decimal.RequireFromString("300")},
	}

	suite.mockReportingRepo.On("MonthlyFlows", ctx, "user-1", from, to).Return(rows, nil).Once()
	suite.useIdentityConversion()

	report, err := suite.service.IncomeVsExpenses(ctx, "user-1", "ARS", from, to)

	suite.Require().NoError(err)
	suite.True(report.SavingsRate.IsZero(), "no income must not divide by zero")
}

func (suite *ReportingServiceTestSuite) TestBudgetUsage_StatusPerBudget() {
	ctx := context.Background()
	asOf := time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	budgets := []domain.Budget{
		{BudgetID: "b-ok", CategoryID: "cat-food", Period: domain.BudgetMonthly, Amount: decimal.RequireFromString("1000"), CurrencyCode: "ARS", StartDate: start, EndDate: end, AlertPercentage: 80},
		{BudgetID: "b-over", CategoryID: "cat-fun", Period: domain.BudgetMonthly, Amount: decimal.RequireFromString("200"), CurrencyCode: "ARS", StartDate: start, EndDate: end, AlertPercentage: 80},
	}

	suite.mockBudgetRepo.On("ListActiveBudgets", ctx, "user-1", asOf).Return(budgets, nil).Once()
	suite.mockReportingRepo.On("CategorySpend", ctx, "user-1", "cat-food", start, end).
		Return([]domain.CategoryCurrencySpend{{CurrencyCode: "ARS", Total: decimal.RequireFromString("400")}}, nil).Once()
	suite.mockReportingRepo.On("CategorySpend", ctx, "user-1", "cat-fun", start, end).
		Return([]domain.CategoryCurrencySpend{{CurrencyCode: "ARS", Total: decimal.RequireFromString("250")}}, nil).Once()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, "cat-food").Return(&domain.Category{CategoryID: "cat-food", Name: "Food"}, nil).Once()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, "cat-fun").Return(&domain.Category{CategoryID: "cat-fun", Name: "Fun"}, nil).Once()
	suite.useIdentityConversion()

	report, err := suite.service.BudgetUsage(ctx, "user-1", "ARS", asOf)

	suite.Require().NoError(err)
	suite.Require().Len(report.Budgets, 2)
	suite.Equal(domain.BudgetOK, report.Budgets[0].Status)
	suite.Equal(domain.BudgetExceeded, report.Budgets[1].Status)
	suite.Equal("125", report.Budgets[1].UsagePercentage.String())
	suite.True(report.TotalBudgeted.Equal(decimal.RequireFromString("1200")))
	suite.True(report.TotalSpent.Equal(decimal.RequireFromString("650")))
}

func (suite *ReportingServiceTestSuite) TestBudgetUsage_UsageNeverDecreasesAsSpendGrows() {
	ctx := context.Background()
	asOf := time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	budgets := []domain.Budget{
		{BudgetID: "b-1", CategoryID: "cat-food", Period: domain.BudgetMonthly, Amount: decimal.RequireFromString("1000"), CurrencyCode: "ARS", StartDate: start, EndDate: end, AlertPercentage: 80},
	}

	suite.mockBudgetRepo.On("ListActiveBudgets", ctx, "user-1", asOf).Return(budgets, nil).Twice()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, "cat-food").Return(&domain.Category{CategoryID: "cat-food", Name: "Food"}, nil).Twice()
	suite.mockReportingRepo.On("CategorySpend", ctx, "user-1", "cat-food", start, end).
		Return([]domain.CategoryCurrencySpend{{CurrencyCode: "ARS", Total: decimal.RequireFromString("400")}}, nil).Once()
	suite.mockReportingRepo.On("CategorySpend", ctx, "user-1", "cat-food", start, end).
		Return([]domain.CategoryCurrencySpend{
			{CurrencyCode: "ARS", Total: decimal.RequireFromString("400")},
			{CurrencyCode: "ARS", Total: decimal.RequireFromString("250")},
		}, nil).Once()
	suite.useIdentityConversion()

	before, err := suite.service.BudgetUsage(ctx, "user-1", "ARS", asOf)
	suite.Require().NoError(err)
	after, err := suite.service.BudgetUsage(ctx, "user-1", "ARS", asOf)
	suite.Require().NoError(err)

	suite.Require().Len(before.Budgets, 1)
	suite.Require().Len(after.Budgets, 1)
	suite.True(after.Budgets[0].UsagePercentage.GreaterThanOrEqual(before.Budgets[0].UsagePercentage),
		"usage went from %s to %s after adding an expense", before.Budgets[0].UsagePercentage, after.Budgets[0].UsagePercentage)
	suite.True(after.OverallUsage.GreaterThanOrEqual(before.OverallUsage))
}

func (suite *ReportingServiceTestSuite) TestDashboard_ComposesAllSections() {
	ctx := context.Background()
	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	accounts := []domain.Account{
		{AccountID: "a-1", Name: "Checking", AccountType: domain.AccountBank, CurrencyCode: "ARS", Balance: decimal.RequireFromString("1000"), IsActive: true, IncludeInTotal: true},
	}
	expenseRows := []domain.CategoryCurrencyTotal{
		{CategoryID: "cat-food", CategoryName: "Food", CurrencyCode: "ARS", Total: decimal.RequireFromString("300"), TransactionCount: 4},
	}
	flowRows := []domain.MonthlyCurrencyFlow{
		{Month: "2026-01", CurrencyCode: "ARS", Type: domain.Income, Total: decimal.RequireFromString("1000")},
		{Month: "2026-01", CurrencyCode: "ARS", Type: domain.Expense, Total: decimal.RequireFromString("300")},
	}

	suite.mockAccountRepo.On("ListAccountsByUser", ctx, "user-1").Return(accounts, nil).Once()
	suite.mockReportingRepo.On("ExpenseTotalsByCategory", ctx, "user-1", from, to).Return(expenseRows, nil).Once()
	suite.mockReportingRepo.On("MonthlyFlows", ctx, "user-1", from, to).Return(flowRows, nil).Once()
	suite.mockBudgetRepo.On("ListActiveBudgets", ctx, "user-1", to).Return([]domain.Budget{}, nil).Once()
	suite.mockReportingRepo.On("PendingInstallments", ctx, "user-1", mock.AnythingOfType("time.Time")).
		Return([]domain.InstallmentBucket{}, 0, nil).Once()
	suite.useIdentityConversion()

	report, err := suite.service.Dashboard(ctx, "user-1", "ars", from, to, 6)

	suite.Require().NoError(err)
	suite.Equal("ARS", report.TargetCurrency)
	suite.Require().NotNil(report.Balance)
	suite.True(report.Balance.TotalBalance.Equal(decimal.RequireFromString("1000")))
	suite.Require().NotNil(report.Expenses)
	suite.True(report.Expenses.TotalExpenses.Equal(decimal.RequireFromString("300")))
	suite.Require().NotNil(report.IncomeVsExpenses)
	suite.True(report.IncomeVsExpenses.Net.Equal(decimal.RequireFromString("700")))
	suite.Require().NotNil(report.Budgets)
	suite.Require().NotNil(report.Installments)
	suite.Equal(6, report.Installments.MonthsAhead)
}

func (suite *ReportingServiceTestSuite) TestDashboard_FailsWhenAnySectionFails() {
	ctx := context.Background()
	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	accounts := []domain.Account{
		{AccountID: "a-1", Name: "Checking", AccountType: domain.AccountBank, CurrencyCode: "USD", Balance: decimal.RequireFromString("100"), IsActive: true, IncludeInTotal: true},
	}

	suite.mockAccountRepo.On("ListAccountsByUser", ctx, "user-1").Return(accounts, nil).Once()
	suite.mockConversionSvc.On("Convert", ctx, mock.Anything, "ARS", to).
		Return(domain.Money{}, apperrors.ErrRateUnavailable).Once()

	_, err := suite.service.Dashboard(ctx, "user-1", "ARS", from, to, 6)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "MonthlyFlows", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestBalanceReport_SkipsExcludedAccounts() {
	ctx := context.Background()
	asOf := time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)

	accounts := []domain.Account{
		{AccountID: "a-1", Name: "Checking", AccountType: domain.AccountBank, CurrencyCode: "ARS", Balance: decimal.RequireFromString("1000"), IsActive: true, IncludeInTotal: true},
		{AccountID: "a-2", Name: "Old card", AccountType: domain.AccountCreditCard, CurrencyCode: "ARS", Balance: decimal.RequireFromString("-500"), IsActive: false, IncludeInTotal: true},
		{AccountID: "a-3", Name: "Shared fund", AccountType: domain.AccountWallet, CurrencyCode: "ARS", Balance: decimal.RequireFromString("900"), IsActive: true, IncludeInTotal: false},
	}

	suite.mockAccountRepo.On("ListAccountsByUser", ctx, "user-1").Return(accounts, nil).Once()
	suite.useIdentityConversion()

	report, err := suite.service.BalanceReport(ctx, "user-1", "ARS", asOf)

	suite.Require().NoError(err)
	suite.Require().Len(report.Accounts, 1)
	suite.True(report.TotalBalance.Equal(decimal.RequireFromString("1000")))
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
