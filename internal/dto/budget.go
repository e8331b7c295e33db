package dto

import (
	"time"

	"github.com/agustinvidal/fintrack/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest defines the payload for creating a spending budget.
type CreateBudgetRequest struct {
	CategoryID      string              `json:"categoryID" binding:"required,uuid"`
	Period          domain.BudgetPeriod `json:"period" binding:"required,oneof=monthly quarterly yearly"`
	Amount          decimal.Decimal     `json:"amount" binding:"required"`
	CurrencyCode    string              `json:"currencyCode" binding:"required,currency"`
	StartDate       time.Time           `json:"startDate" binding:"required"`
	EndDate         time.Time           `json:"endDate" binding:"required"`
	AlertPercentage int                 `json:"alertPercentage" binding:"omitempty,gte=1,lte=100"`
}

// BudgetResponse is the API shape of a budget.
type BudgetResponse struct {
	BudgetID        string              `json:"budgetID"`
	CategoryID      string              `json:"categoryID"`
	Period          domain.BudgetPeriod `json:"period"`
	Amount          decimal.Decimal     `json:"amount"`
	CurrencyCode    string              `json:"currencyCode"`
	StartDate       time.Time           `json:"startDate"`
	EndDate         time.Time           `json:"endDate"`
	AlertPercentage int                 `json:"alertPercentage"`
	IsActive        bool                `json:"isActive"`
}

// ToBudgetResponse converts a domain.Budget to its API shape.
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:        b.BudgetID,
		CategoryID:      b.CategoryID,
		Period:          b.Period,
		Amount:          b.Amount,
		CurrencyCode:    b.CurrencyCode,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		AlertPercentage: b.AlertPercentage,
		IsActive:        b.IsActive,
	}
}

// ToListBudgetResponse converts a slice of budgets.
func ToListBudgetResponse(budgets []domain.Budget) []BudgetResponse {
	responses := make([]BudgetResponse, len(budgets))
	for i := range budgets {
		responses[i] = ToBudgetResponse(&budgets[i])
	}
	return responses
}
