package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an immutable amount in a specific currency. Operations return new
// values; the zero value is 0 in an unnamed currency and should not be used.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// NewMoney builds a Money value.
func NewMoney(amount decimal.Decimal, currencyCode string) Money {
	return Money{Amount: amount, CurrencyCode: currencyCode}
}

// Round returns the amount rounded to the given number of decimal places using
// banker's rounding (round-half-to-even), which avoids systematic bias when
// many rounded values are summed in reports.
func (m Money) Round(places int32) Money {
	return Money{Amount: m.Amount.RoundBank(places), CurrencyCode: m.CurrencyCode}
}

// Mul multiplies the amount by a rate keeping full precision.
func (m Money) Mul(rate decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(rate), CurrencyCode: m.CurrencyCode}
}

// Equal reports whether both the amount and the currency match exactly.
func (m Money) Equal(o Money) bool {
	return m.CurrencyCode == o.CurrencyCode && m.Amount.Equal(o.Amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.String(), m.CurrencyCode)
}
