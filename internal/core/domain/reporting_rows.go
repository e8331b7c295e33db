package domain

import "github.com/shopspring/decimal"

// Aggregation rows returned by the reporting repository. Amounts are summed
// per original currency; the reporting service converts each bucket to the
// report's target currency before totaling.

// CategoryCurrencyTotal is a per-category, per-currency expense sum.
type CategoryCurrencyTotal struct {
	CategoryID       string          `json:"categoryID"`
	CategoryName     string          `json:"categoryName"`
	CurrencyCode     string          `json:"currencyCode"`
	Total            decimal.Decimal `json:"total"`
	TransactionCount int             `json:"transactionCount"`
}

// MonthlyCurrencyFlow is a per-month, per-currency income or expense sum.
type MonthlyCurrencyFlow struct {
	Month        string          `json:"month"` // YYYY-MM
	CurrencyCode string          `json:"currencyCode"`
	Type         TransactionType `json:"type"`
	Total        decimal.Decimal `json:"total"`
}

// CategoryCurrencySpend is a per-currency spend sum for a single category,
// used by the budget usage report.
type CategoryCurrencySpend struct {
	CurrencyCode string          `json:"currencyCode"`
	Total        decimal.Decimal `json:"total"`
}

// InstallmentBucket is a per-month, per-currency pending installment sum.
type InstallmentBucket struct {
	Month        string          `json:"month"` // YYYY-MM
	CurrencyCode string          `json:"currencyCode"`
	Total        decimal.Decimal `json:"total"`
	Count        int             `json:"count"`
}
