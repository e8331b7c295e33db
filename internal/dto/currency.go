package dto

import (
	"github.com/agustinvidal/fintrack/internal/core/domain"
)

// CreateCurrencyRequest defines the payload for registering a currency.
type CreateCurrencyRequest struct {
	CurrencyCode  string `json:"currencyCode" binding:"required,currency"`
	Name          string `json:"name" binding:"required"`
	Symbol        string `json:"symbol" binding:"required"`
	DecimalPlaces int32  `json:"decimalPlaces" binding:"gte=0,lte=8"`
	IsBase        bool   `json:"isBase"`
}

// CurrencyResponse is the API shape of a currency.
type CurrencyResponse struct {
	CurrencyCode  string `json:"currencyCode"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	DecimalPlaces int32  `json:"decimalPlaces"`
	IsBase        bool   `json:"isBase"`
	IsActive      bool   `json:"isActive"`
}

// ToCurrencyResponse converts a domain.Currency to its API shape.
func ToCurrencyResponse(c *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode:  c.CurrencyCode,
		Name:          c.Name,
		Symbol:        c.Symbol,
		DecimalPlaces: c.DecimalPlaces,
		IsBase:        c.IsBase,
		IsActive:      c.IsActive,
	}
}

// ToListCurrencyResponse converts a slice of currencies.
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	responses := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		responses[i] = ToCurrencyResponse(&currencies[i])
	}
	return responses
}
