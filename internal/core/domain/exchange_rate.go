package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a single quote for a currency pair on a date from a named
// provider. Quotes are immutable once written; refreshing inserts a new row.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID" db:"exchange_rate_id"`
	FromCurrencyCode string          `json:"fromCurrencyCode" db:"from_currency_code"`
	ToCurrencyCode   string          `json:"toCurrencyCode" db:"to_currency_code"`
	Rate             decimal.Decimal `json:"rate" db:"rate"` // 1 from = Rate to; always > 0
	RateDate         time.Time       `json:"rateDate" db:"rate_date"`
	Provider         string          `json:"provider" db:"provider"`
	FetchedAt        time.Time       `json:"fetchedAt" db:"fetched_at"`
}

// ProviderManual marks quotes entered through the API rather than fetched.
const ProviderManual = "manual"

// Inverse returns the quote for the opposite direction of the pair.
// Precision is preserved by dividing at full decimal precision.
func (r ExchangeRate) Inverse() ExchangeRate {
	inv := r
	inv.FromCurrencyCode = r.ToCurrencyCode
	inv.ToCurrencyCode = r.FromCurrencyCode
	if !r.Rate.IsZero() {
		inv.Rate = decimal.NewFromInt(1).Div(r.Rate)
	}
	return inv
}
