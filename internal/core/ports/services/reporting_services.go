package services

import (
	"context"
	"time"

	"github.com/agustinvidal/fintrack/internal/core/domain"
)

// ReportingSvcFacade builds multi-currency reports normalized to a target
// currency. Every report fails with apperrors.ErrRateUnavailable when any
// needed conversion cannot be resolved; partial totals are never returned.
type ReportingSvcFacade interface {
	// BalanceReport totals the user's accounts flagged for inclusion.
	BalanceReport(ctx context.Context, userID, targetCurrencyCode string, asOf time.Time) (*domain.BalanceReport, error)

	// ExpensesByCategory aggregates confirmed expenses per category over
	// the window.
	ExpensesByCategory(ctx context.Context, userID, targetCurrencyCode string, from, to time.Time) (*domain.ExpensesReport, error)

	// IncomeVsExpenses compares income and expenses per month over the
	// window.
	IncomeVsExpenses(ctx context.Context, userID, targetCurrencyCode string, from, to time.Time) (*domain.IncomeVsExpensesReport, error)

	// BudgetUsage reports spending against every active budget covering
	// asOf.
	BudgetUsage(ctx context.Context, userID, targetCurrencyCode string, asOf time.Time) (*domain.BudgetReport, error)

	// InstallmentsProjection buckets pending installments per month for the
	// coming monthsAhead months.
	InstallmentsProjection(ctx context.Context, userID, targetCurrencyCode string, monthsAhead int) (*domain.InstallmentsProjection, error)

	// Dashboard composes the individual reports into a single overview.
	Dashboard(ctx context.Context, userID, targetCurrencyCode string, from, to time.Time, monthsAhead int) (*domain.DashboardReport, error)
}
