package dto

import (
	"time"

	"github.com/agustinvidal/fintrack/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest defines the payload for recording a manual quote.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,currency"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,currency"`
	Rate             decimal.Decimal `json:"rate" binding:"required"`
	RateDate         time.Time       `json:"rateDate" binding:"required"`
}

// ExchangeRateResponse is the API shape of a stored quote.
type ExchangeRateResponse struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	RateDate         time.Time       `json:"rateDate"`
	Provider         string          `json:"provider"`
	FetchedAt        time.Time       `json:"fetchedAt"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to its API shape.
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID:   rate.ExchangeRateID,
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		RateDate:         rate.RateDate,
		Provider:         rate.Provider,
		FetchedAt:        rate.FetchedAt,
	}
}

// ToListExchangeRateResponse converts a slice of quotes.
func ToListExchangeRateResponse(rates []domain.ExchangeRate) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToExchangeRateResponse(&rates[i])
	}
	return responses
}

// ConvertResponse is the API shape of a currency conversion result.
type ConvertResponse struct {
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	OriginalCurrency string          `json:"originalCurrency"`
	ConvertedAmount  decimal.Decimal `json:"convertedAmount"`
	TargetCurrency   string          `json:"targetCurrency"`
	AsOf             time.Time       `json:"asOf"`
}
