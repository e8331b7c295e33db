package dto

import (
	"time"

	"github.com/agustinvidal/fintrack/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the payload for posting a movement.
// TargetAccountID is required for transfers and rejected otherwise.
type CreateTransactionRequest struct {
	AccountID       string                 `json:"accountID" binding:"required,uuid"`
	TargetAccountID string                 `json:"targetAccountID" binding:"omitempty,uuid"`
	CategoryID      string                 `json:"categoryID" binding:"omitempty,uuid"`
	Type            domain.TransactionType `json:"type" binding:"required,oneof=income expense transfer"`
	Amount          decimal.Decimal        `json:"amount" binding:"required"`
	CurrencyCode    string                 `json:"currencyCode" binding:"required,currency"`
	TransactionDate time.Time              `json:"transactionDate" binding:"required"`
	Description     string                 `json:"description" binding:"max=255"`
}

// ListTransactionsRequest carries the optional query window for listings.
type ListTransactionsRequest struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// TransactionResponse is the API shape of a posted movement.
type TransactionResponse struct {
	TransactionID   string                   `json:"transactionID"`
	AccountID       string                   `json:"accountID"`
	TargetAccountID string                   `json:"targetAccountID,omitempty"`
	CategoryID      string                   `json:"categoryID,omitempty"`
	Type            domain.TransactionType   `json:"type"`
	Origin          domain.TransactionOrigin `json:"origin"`
	Amount          decimal.Decimal          `json:"amount"`
	CurrencyCode    string                   `json:"currencyCode"`
	TransactionDate time.Time                `json:"transactionDate"`
	Description     string                   `json:"description"`
	ScheduleID      string                   `json:"scheduleID,omitempty"`
	Confirmed       bool                     `json:"confirmed"`
}

// ToTransactionResponse converts a domain.Transaction to its API shape.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   t.TransactionID,
		AccountID:       t.AccountID,
		TargetAccountID: t.TargetAccountID,
		CategoryID:      t.CategoryID,
		Type:            t.Type,
		Origin:          t.Origin,
		Amount:          t.Amount,
		CurrencyCode:    t.CurrencyCode,
		TransactionDate: t.TransactionDate,
		Description:     t.Description,
		ScheduleID:      t.ScheduleID,
		Confirmed:       t.Confirmed,
	}
}

// ToListTransactionResponse converts a slice of movements.
func ToListTransactionResponse(transactions []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = ToTransactionResponse(&transactions[i])
	}
	return responses
}
