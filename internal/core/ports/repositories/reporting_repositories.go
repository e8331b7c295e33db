package repositories

import (
	"context"
	"time"

	"github.com/agustinvidal/fintrack/internal/core/domain"
)

// ReportingRepository defines the aggregation queries behind reports. Sums are
// grouped per original currency; conversion happens in the reporting service.
type ReportingRepository interface {
	// ExpenseTotalsByCategory sums confirmed expense transactions per
	// category and currency within the window.
	ExpenseTotalsByCategory(ctx context.Context, userID string, from, to time.Time) ([]domain.CategoryCurrencyTotal, error)

	// MonthlyFlows sums confirmed income and expense transactions per month,
	// currency and type within the window.
	MonthlyFlows(ctx context.Context, userID string, from, to time.Time) ([]domain.MonthlyCurrencyFlow, error)

	// CategorySpend sums confirmed expense transactions for one category and
	// window, per currency. Used by the budget usage report.
	CategorySpend(ctx context.Context, userID, categoryID string, from, to time.Time) ([]domain.CategoryCurrencySpend, error)

	// PendingInstallments buckets the not-yet-posted installments of active
	// plans per due month and currency up to the horizon.
	PendingInstallments(ctx context.Context, userID string, horizon time.Time) ([]domain.InstallmentBucket, int, error)
}
