package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the economic direction of a transaction.
type TransactionType string

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

// TransactionOrigin records how a transaction entered the system.
type TransactionOrigin string

const (
	OriginManual      TransactionOrigin = "manual"
	OriginCard        TransactionOrigin = "card"
	OriginAutoDebit   TransactionOrigin = "auto_debit"
	OriginInstallment TransactionOrigin = "installment"
	OriginTransfer    TransactionOrigin = "transfer"
	OriginImport      TransactionOrigin = "import"
)

// Transaction is a single posted movement on an account. Immutable after
// confirmation except for soft metadata (description).
type Transaction struct {
	TransactionID   string            `json:"transactionID" db:"transaction_id"`
	UserID          string            `json:"userID" db:"user_id"`
	AccountID       string            `json:"accountID" db:"account_id"`
	TargetAccountID string            `json:"targetAccountID,omitempty" db:"target_account_id"` // transfers only
	CategoryID      string            `json:"categoryID" db:"category_id"`
	TransactionDate time.Time         `json:"transactionDate" db:"transaction_date"`
	Amount          decimal.Decimal   `json:"amount" db:"amount"` // always positive
	CurrencyCode    string            `json:"currencyCode" db:"currency_code"`
	Type            TransactionType   `json:"type" db:"transaction_type"`
	Origin          TransactionOrigin `json:"origin" db:"origin"`
	Description     string            `json:"description" db:"description"`
	ScheduleID      string            `json:"scheduleID,omitempty" db:"schedule_id"` // auto-debit or installment plan that generated it
	Confirmed       bool              `json:"confirmed" db:"confirmed"`
	AuditFields
}

// Money returns the transaction amount as a Money value.
func (t Transaction) Money() Money {
	return Money{Amount: t.Amount, CurrencyCode: t.CurrencyCode}
}
