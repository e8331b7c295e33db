package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod is the length of a budget window.
type BudgetPeriod string

const (
	BudgetMonthly   BudgetPeriod = "monthly"
	BudgetQuarterly BudgetPeriod = "quarterly"
	BudgetYearly    BudgetPeriod = "yearly"
)

// Budget caps expected spending for a category over a period. Read-only input
// to the budget usage report.
type Budget struct {
	BudgetID        string          `json:"budgetID" db:"budget_id"`
	UserID          string          `json:"userID" db:"user_id"`
	CategoryID      string          `json:"categoryID" db:"category_id"`
	Period          BudgetPeriod    `json:"period" db:"period"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	CurrencyCode    string          `json:"currencyCode" db:"currency_code"`
	StartDate       time.Time       `json:"startDate" db:"start_date"`
	EndDate         time.Time       `json:"endDate" db:"end_date"`
	AlertPercentage int             `json:"alertPercentage" db:"alert_percentage"`
	IsActive        bool            `json:"isActive" db:"is_active"`
	AuditFields
}

// BudgetStatus reflects how much of a budget has been used.
type BudgetStatus string

const (
	BudgetOK       BudgetStatus = "ok"
	BudgetWarning  BudgetStatus = "warning"
	BudgetExceeded BudgetStatus = "exceeded"
)

// StatusFor classifies a usage percentage against the budget's alert level.
func (b Budget) StatusFor(usagePercentage decimal.Decimal) BudgetStatus {
	switch {
	case usagePercentage.GreaterThanOrEqual(decimal.NewFromInt(100)):
		return BudgetExceeded
	case usagePercentage.GreaterThanOrEqual(decimal.NewFromInt(int64(b.AlertPercentage))):
		return BudgetWarning
	}
	return BudgetOK
}
