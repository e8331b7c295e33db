package domain

// Currency represents a currency supported by the system.
type Currency struct {
	CurrencyCode  string `json:"currencyCode" db:"currency_code"` // ISO 4217, primary key (e.g. "ARS")
	Name          string `json:"name" db:"name"`
	Symbol        string `json:"symbol" db:"symbol"`
	DecimalPlaces int32  `json:"decimalPlaces" db:"decimal_places"`
	IsBase        bool   `json:"isBase" db:"is_base"` // system base currency, reports default to it
	IsActive      bool   `json:"isActive" db:"is_active"`
	AuditFields
}

// DefaultDecimalPlaces is used when a currency's precision is unknown.
const DefaultDecimalPlaces int32 = 2
