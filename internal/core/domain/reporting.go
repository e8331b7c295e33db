package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalanceLine is one account's contribution to a balance report.
type AccountBalanceLine struct {
	AccountID        string          `json:"accountID"`
	Name             string          `json:"name"`
	AccountType      AccountType     `json:"accountType"`
	CurrencyCode     string          `json:"currencyCode"`
	Balance          decimal.Decimal `json:"balance"`
	ConvertedBalance decimal.Decimal `json:"convertedBalance"`
}

// CurrencyBalance groups original and converted balances per currency.
type CurrencyBalance struct {
	CurrencyCode     string          `json:"currencyCode"`
	Balance          decimal.Decimal `json:"balance"`
	ConvertedBalance decimal.Decimal `json:"convertedBalance"`
}

// BalanceReport is the user's position across accounts, normalized to one
// target currency.
type BalanceReport struct {
	TargetCurrency string                          `json:"targetCurrency"`
	AsOf           time.Time                       `json:"asOf"`
	TotalBalance   decimal.Decimal                 `json:"totalBalance"`
	ByAccountType  map[AccountType]decimal.Decimal `json:"byAccountType"`
	ByCurrency     []CurrencyBalance               `json:"byCurrency"`
	Accounts       []AccountBalanceLine            `json:"accounts"`
}

// CategoryExpenseLine is one category's aggregate within an expenses report.
type CategoryExpenseLine struct {
	CategoryID       string          `json:"categoryID"`
	CategoryName     string          `json:"categoryName"`
	Amount           decimal.Decimal `json:"amount"` // converted to the target currency
	TransactionCount int             `json:"transactionCount"`
	Percentage       decimal.Decimal `json:"percentage"` // share of total expenses; 0 when total is 0
}

// ExpensesReport aggregates confirmed expense transactions by category.
type ExpensesReport struct {
	From           time.Time             `json:"from"`
	To             time.Time             `json:"to"`
	TargetCurrency string                `json:"targetCurrency"`
	TotalExpenses  decimal.Decimal       `json:"totalExpenses"`
	Categories     []CategoryExpenseLine `json:"categories"`
}

// MonthlyFlow is one month's income and expense totals.
type MonthlyFlow struct {
	Month   string          `json:"month"` // YYYY-MM
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// IncomeVsExpensesReport compares income and expenses over a window.
type IncomeVsExpensesReport struct {
	From             time.Time       `json:"from"`
	To               time.Time       `json:"to"`
	TargetCurrency   string          `json:"targetCurrency"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	Net              decimal.Decimal `json:"net"`
	SavingsRate      decimal.Decimal `json:"savingsRate"` // percentage; 0 when income is 0
	MonthlyBreakdown []MonthlyFlow   `json:"monthlyBreakdown"`
}

// BudgetUsageLine is one budget's usage within a budget report.
type BudgetUsageLine struct {
	BudgetID        string          `json:"budgetID"`
	CategoryID      string          `json:"categoryID"`
	CategoryName    string          `json:"categoryName"`
	Period          BudgetPeriod    `json:"period"`
	BudgetAmount    decimal.Decimal `json:"budgetAmount"`
	SpentAmount     decimal.Decimal `json:"spentAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	UsagePercentage decimal.Decimal `json:"usagePercentage"`
	AlertPercentage int             `json:"alertPercentage"`
	Status          BudgetStatus    `json:"status"`
}

// BudgetReport is the usage of every active budget covering today.
type BudgetReport struct {
	TargetCurrency string            `json:"targetCurrency"`
	TotalBudgeted  decimal.Decimal   `json:"totalBudgeted"`
	TotalSpent     decimal.Decimal   `json:"totalSpent"`
	OverallUsage   decimal.Decimal   `json:"overallUsage"` // percentage; 0 when nothing budgeted
	Budgets        []BudgetUsageLine `json:"budgets"`
}

// MonthlyInstallments is the projected installment load for one month.
type MonthlyInstallments struct {
	Month            string          `json:"month"` // YYYY-MM
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	InstallmentCount int             `json:"installmentCount"`
}

// InstallmentsProjection lists the upcoming installment load per month.
type InstallmentsProjection struct {
	TargetCurrency   string                `json:"targetCurrency"`
	MonthsAhead      int                   `json:"monthsAhead"`
	TotalPending     decimal.Decimal       `json:"totalPending"`
	ActivePlans      int                   `json:"activePlans"`
	MonthlyBreakdown []MonthlyInstallments `json:"monthlyBreakdown"`
}

// DashboardReport bundles every report into one overview response.
type DashboardReport struct {
	From             time.Time               `json:"from"`
	To               time.Time               `json:"to"`
	TargetCurrency   string                  `json:"targetCurrency"`
	Balance          *BalanceReport          `json:"balance"`
	Expenses         *ExpensesReport         `json:"expenses"`
	IncomeVsExpenses *IncomeVsExpensesReport `json:"incomeVsExpenses"`
	Budgets          *BudgetReport           `json:"budgets"`
	Installments     *InstallmentsProjection `json:"installments"`
}

// RefreshSummary is the outcome of a rate refresh batch.
type RefreshSummary struct {
	Updated int      `json:"updated"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// ScanSummary is the outcome of a due-item scan.
type ScanSummary struct {
	DebitsExecuted     int      `json:"debitsExecuted"`
	InstallmentsPosted int      `json:"installmentsPosted"`
	Failed             int      `json:"failed"`
	Errors             []string `json:"errors,omitempty"`
}
