package dto

import (
	"github.com/agustinvidal/fintrack/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the payload for opening an account.
type CreateAccountRequest struct {
	Name                  string             `json:"name" binding:"required,max=100"`
	AccountType           domain.AccountType `json:"accountType" binding:"required,oneof=BANK CASH CREDIT_CARD WALLET INVESTMENT"`
	CurrencyCode          string             `json:"currencyCode" binding:"required,currency"`
	InitialBalance        decimal.Decimal    `json:"initialBalance"`
	CreditLimit           decimal.Decimal    `json:"creditLimit"`
	AllowsNegativeBalance bool               `json:"allowsNegativeBalance"`
	Description           string             `json:"description"`
	IncludeInTotal        *bool              `json:"includeInTotal"` // defaults to true
}

// AccountResponse is the API shape of an account.
type AccountResponse struct {
	AccountID             string             `json:"accountID"`
	Name                  string             `json:"name"`
	AccountType           domain.AccountType `json:"accountType"`
	CurrencyCode          string             `json:"currencyCode"`
	Balance               decimal.Decimal    `json:"balance"`
	AvailableBalance      decimal.Decimal    `json:"availableBalance"`
	CreditLimit           decimal.Decimal    `json:"creditLimit"`
	AllowsNegativeBalance bool               `json:"allowsNegativeBalance"`
	Description           string             `json:"description"`
	IsActive              bool               `json:"isActive"`
	IncludeInTotal        bool               `json:"includeInTotal"`
}

// ToAccountResponse converts a domain.Account to its API shape.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:             a.AccountID,
		Name:                  a.Name,
		AccountType:           a.AccountType,
		CurrencyCode:          a.CurrencyCode,
		Balance:               a.Balance,
		AvailableBalance:      a.AvailableBalance(),
		CreditLimit:           a.CreditLimit,
		AllowsNegativeBalance: a.AllowsNegativeBalance,
		Description:           a.Description,
		IsActive:              a.IsActive,
		IncludeInTotal:        a.IncludeInTotal,
	}
}

// ToListAccountResponse converts a slice of accounts.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}

// CreateCategoryRequest defines the payload for creating a category.
type CreateCategoryRequest struct {
	Name string              `json:"name" binding:"required,max=100"`
	Kind domain.CategoryKind `json:"kind" binding:"required,oneof=income expense"`
}

// CategoryResponse is the API shape of a category.
type CategoryResponse struct {
	CategoryID string              `json:"categoryID"`
	Name       string              `json:"name"`
	Kind       domain.CategoryKind `json:"kind"`
	IsActive   bool                `json:"isActive"`
}

// ToCategoryResponse converts a domain.Category to its API shape.
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID: c.CategoryID,
		Name:       c.Name,
		Kind:       c.Kind,
		IsActive:   c.IsActive,
	}
}

// ToListCategoryResponse converts a slice of categories.
func ToListCategoryResponse(categories []domain.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}
