package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agustinvidal/fintrack/internal/apperrors"
	"github.com/agustinvidal/fintrack/internal/core/domain"
	portsrepo "github.com/agustinvidal/fintrack/internal/core/ports/repositories"
	portssvc "github.com/agustinvidal/fintrack/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// reportingService builds multi-currency reports. Aggregation rows come from
// the reporting repository summed per original currency; every bucket is
// converted to the report's target currency before totaling. A single
// unresolvable rate fails the whole report, partial totals are never
// returned.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountRepositoryFacade
	categoryRepo  portsrepo.CategoryRepositoryFacade
	budgetRepo    portsrepo.BudgetRepositoryFacade
	conversionSvc portssvc.ConversionSvcFacade
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// NewReportingService creates a new reporting service.
func NewReportingService(
	reportingRepo portsrepo.ReportingRepository,
	accountRepo portsrepo.AccountRepositoryFacade,
	categoryRepo portsrepo.CategoryRepositoryFacade,
	budgetRepo portsrepo.BudgetRepositoryFacade,
	conversionSvc portssvc.ConversionSvcFacade,
) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo: reportingRepo,
		accountRepo:   accountRepo,
		categoryRepo:  categoryRepo,
		budgetRepo:    budgetRepo,
		conversionSvc: conversionSvc,
	}
}

// BalanceReport totals the user's active accounts flagged for inclusion.
func (s *reportingService) BalanceReport(ctx context.Context, userID, targetCurrencyCode string, asOf time.Time) (*domain.BalanceReport, error) {
	target := strings.ToUpper(targetCurrencyCode)

	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	report := &domain.BalanceReport{
		TargetCurrency: target,
		AsOf:           asOf,
		TotalBalance:   decimal.Zero,
		ByAccountType:  map[domain.AccountType]decimal.Decimal{},
	}
	byCurrency := map[string]*domain.CurrencyBalance{}

	for i := range accounts {
		account := &accounts[i]
		if !account.IsActive || !account.IncludeInTotal {
			continue
		}

		converted, err := s.convert(ctx, account.Balance, account.CurrencyCode, target, asOf)
		if err != nil {
			return nil, err
		}

		report.Accounts = append(report.Accounts, domain.AccountBalanceLine{
			AccountID:        account.AccountID,
			Name:             account.Name,
			AccountType:      account.AccountType,
			CurrencyCode:     account.CurrencyCode,
			Balance:          account.Balance,
			ConvertedBalance: converted,
		})

		report.TotalBalance = report.TotalBalance.Add(converted)
		report.ByAccountType[account.AccountType] = report.ByAccountType[account.AccountType].Add(converted)

		cb, ok := byCurrency[account.CurrencyCode]
		if !ok {
			cb = &domain.CurrencyBalance{CurrencyCode: account.CurrencyCode}
			byCurrency[account.CurrencyCode] = cb
		}
		cb.Balance = cb.Balance.Add(account.Balance)
		cb.ConvertedBalance = cb.ConvertedBalance.Add(converted)
	}

	for _, cb := range byCurrency {
		report.ByCurrency = append(report.ByCurrency, *cb)
	}
	sort.Slice(report.ByCurrency, func(i, j int) bool {
		return report.ByCurrency[i].CurrencyCode < report.ByCurrency[j].CurrencyCode
	})

	return report, nil
}

// ExpensesByCategory aggregates confirmed expenses per category over the
// window, largest first.
func (s *reportingService) ExpensesByCategory(ctx context.Context, userID, targetCurrencyCode string, from, to time.Time) (*domain.ExpensesReport, error) {
	target := strings.ToUpper(targetCurrencyCode)

	rows, err := s.reportingRepo.ExpenseTotalsByCategory(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate expenses: %w", err)
	}

	type categoryAgg struct {
		name   string
		amount decimal.Decimal
		count  int
	}
	byCategory := map[string]*categoryAgg{}
	var order []string

	for _, row := range rows {
		converted, err := s.convert(ctx, row.Total, row.CurrencyCode, target, to)
		if err != nil {
			return nil, err
		}
		agg, ok := byCategory[row.CategoryID]
		if !ok {
			agg = &categoryAgg{name: row.CategoryName}
			byCategory[row.CategoryID] = agg
			order = append(order, row.CategoryID)
		}
		agg.amount = agg.amount.Add(converted)
		agg.count += row.TransactionCount
	}

	report := &domain.ExpensesReport{
		From:           from,
		To:             to,
		TargetCurrency: target,
		TotalExpenses:  decimal.Zero,
	}
	for _, categoryID := range order {
		report.TotalExpenses = report.TotalExpenses.Add(byCategory[categoryID].amount)
	}
	for _, categoryID := range order {
		agg := byCategory[categoryID]
		report.Categories = append(report.Categories, domain.CategoryExpenseLine{
			CategoryID:       categoryID,
			CategoryName:     agg.name,
			Amount:           agg.amount,
			TransactionCount: agg.count,
			Percentage:       percentOf(agg.amount, report.TotalExpenses),
		})
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		return report.Categories[i].Amount.GreaterThan(report.Categories[j].Amount)
	})

	return report, nil
}

// IncomeVsExpenses compares income and expenses per month over the window.
func (s *reportingService) IncomeVsExpenses(ctx context.Context, userID, targetCurrencyCode string, from, to time.Time) (*domain.IncomeVsExpensesReport, error) {
	target := strings.ToUpper(targetCurrencyCode)

	rows, err := s.reportingRepo.MonthlyFlows(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly flows: %w", err)
	}

	byMonth := map[string]*domain.MonthlyFlow{}
	for _, row := range rows {
		converted, err := s.convert(ctx, row.Total, row.CurrencyCode, target, to)
		if err != nil {
			return nil, err
		}
		flow, ok := byMonth[row.Month]
		if !ok {
			flow = &domain.MonthlyFlow{Month: row.Month}
			byMonth[row.Month] = flow
		}
		switch row.Type {
		case domain.Income:
			flow.Income = flow.Income.Add(converted)
		case domain.Expense:
			flow.Expense = flow.Expense.Add(converted)
		}
	}

	report := &domain.IncomeVsExpensesReport{
		From:           from,
		To:             to,
		TargetCurrency: target,
		TotalIncome:    decimal.Zero,
		TotalExpenses:  decimal.Zero,
	}
	for _, flow := range byMonth {
		flow.Net = flow.Income.Sub(flow.Expense)
		report.TotalIncome = report.TotalIncome.Add(flow.Income)
		report.TotalExpenses = report.TotalExpenses.Add(flow.Expense)
		report.MonthlyBreakdown = append(report.MonthlyBreakdown, *flow)
	}
	sort.Slice(report.MonthlyBreakdown, func(i, j int) bool {
		return report.MonthlyBreakdown[i].Month < report.MonthlyBreakdown[j].Month
	})

	report.Net = report.TotalIncome.Sub(report.TotalExpenses)
	report.SavingsRate = percentOf(report.Net, report.TotalIncome)

	return report, nil
}

// BudgetUsage reports spending against every active budget covering asOf.
func (s *reportingService) BudgetUsage(ctx context.Context, userID, targetCurrencyCode string, asOf time.Time) (*domain.BudgetReport, error) {
	target := strings.ToUpper(targetCurrencyCode)

	budgets, err := s.budgetRepo.ListActiveBudgets(ctx, userID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list active budgets: %w", err)
	}

	report := &domain.BudgetReport{
		TargetCurrency: target,
		TotalBudgeted:  decimal.Zero,
		TotalSpent:     decimal.Zero,
	}

	for i := range budgets {
		budget := &budgets[i]

		budgetAmount, err := s.convert(ctx, budget.Amount, budget.CurrencyCode, target, asOf)
		if err != nil {
			return nil, err
		}

		spendRows, err := s.reportingRepo.CategorySpend(ctx, userID, budget.CategoryID, budget.StartDate, budget.EndDate)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate category spend: %w", err)
		}
		spent := decimal.Zero
		for _, row := range spendRows {
			converted, err := s.convert(ctx, row.Total, row.CurrencyCode, target, asOf)
			if err != nil {
				return nil, err
			}
			spent = spent.Add(converted)
		}

		categoryName := ""
		if category, err := s.categoryRepo.FindCategoryByID(ctx, budget.CategoryID); err == nil {
			categoryName = category.Name
		}

		usage := percentOf(spent, budgetAmount)
		report.Budgets = append(report.Budgets, domain.BudgetUsageLine{
			BudgetID:        budget.BudgetID,
			CategoryID:      budget.CategoryID,
			CategoryName:    categoryName,
			Period:          budget.Period,
			BudgetAmount:    budgetAmount,
			SpentAmount:     spent,
			RemainingAmount: budgetAmount.Sub(spent),
			UsagePercentage: usage,
			AlertPercentage: budget.AlertPercentage,
			Status:          budget.StatusFor(usage),
		})

		report.TotalBudgeted = report.TotalBudgeted.Add(budgetAmount)
		report.TotalSpent = report.TotalSpent.Add(spent)
	}

	report.OverallUsage = percentOf(report.TotalSpent, report.TotalBudgeted)
	return report, nil
}

// InstallmentsProjection buckets pending installments per month for the
// coming monthsAhead months.
func (s *reportingService) InstallmentsProjection(ctx context.Context, userID, targetCurrencyCode string, monthsAhead int) (*domain.InstallmentsProjection, error) {
	target := strings.ToUpper(targetCurrencyCode)
	if monthsAhead <= 0 {
		return nil, fmt.Errorf("%w: monthsAhead must be positive", apperrors.ErrValidation)
	}

	now := time.Now()
	horizon := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, monthsAhead, 0)

	buckets, activePlans, err := s.reportingRepo.PendingInstallments(ctx, userID, horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate pending installments: %w", err)
	}

	byMonth := map[string]*domain.MonthlyInstallments{}
	report := &domain.InstallmentsProjection{
		TargetCurrency: target,
		MonthsAhead:    monthsAhead,
		TotalPending:   decimal.Zero,
		ActivePlans:    activePlans,
	}

	for _, bucket := range buckets {
		converted, err := s.convert(ctx, bucket.Total, bucket.CurrencyCode, target, now)
		if err != nil {
			return nil, err
		}
		month, ok := byMonth[bucket.Month]
		if !ok {
			month = &domain.MonthlyInstallments{Month: bucket.Month}
			byMonth[bucket.Month] = month
		}
		month.TotalAmount = month.TotalAmount.Add(converted)
		month.InstallmentCount += bucket.Count
		report.TotalPending = report.TotalPending.Add(converted)
	}

	for _, month := range byMonth {
		report.MonthlyBreakdown = append(report.MonthlyBreakdown, *month)
	}
	sort.Slice(report.MonthlyBreakdown, func(i, j int) bool {
		return report.MonthlyBreakdown[i].Month < report.MonthlyBreakdown[j].Month
	})

	return report, nil
}

// Dashboard composes the individual reports into a single overview. Point-in-
// time sections (balance, budgets) are evaluated at the end of the window.
func (s *reportingService) Dashboard(ctx context.Context, userID, targetCurrencyCode string, from, to time.Time, monthsAhead int) (*domain.DashboardReport, error) {
	target := strings.ToUpper(targetCurrencyCode)

	balance, err := s.BalanceReport(ctx, userID, target, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.ExpensesByCategory(ctx, userID, target, from, to)
	if err != nil {
		return nil, err
	}
	flows, err := s.IncomeVsExpenses(ctx, userID, target, from, to)
	if err != nil {
		return nil, err
	}
	budgets, err := s.BudgetUsage(ctx, userID, target, to)
	if err != nil {
		return nil, err
	}
	installments, err := s.InstallmentsProjection(ctx, userID, target, monthsAhead)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardReport{
		From:             from,
		To:               to,
		TargetCurrency:   target,
		Balance:          balance,
		Expenses:         expenses,
		IncomeVsExpenses: flows,
		Budgets:          budgets,
		Installments:     installments,
	}, nil
}

// convert re-expresses an amount in the target currency as of a date.
func (s *reportingService) convert(ctx context.Context, amount decimal.Decimal, currencyCode, target string, asOf time.Time) (decimal.Decimal, error) {
	converted, err := s.conversionSvc.Convert(ctx, domain.NewMoney(amount, currencyCode), target, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return converted.Amount, nil
}

// percentOf computes part/whole as a percentage rounded half-to-even to two
// places, returning zero when the denominator is zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).RoundBank(2)
}
