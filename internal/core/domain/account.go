package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType describes what kind of financial account this is and what
// balance policy applies to it.
type AccountType string

const (
	AccountBank       AccountType = "BANK"
	AccountCash       AccountType = "CASH"
	AccountCreditCard AccountType = "CREDIT_CARD"
	AccountWallet     AccountType = "WALLET" // digital wallets
	AccountInvestment AccountType = "INVESTMENT"
)

// Account is a financial account owned by exactly one user. Balance is
// maintained transactionally on every posted transaction; the row is locked
// during each read-modify-write.
type Account struct {
	AccountID             string          `json:"accountID" db:"account_id"`
	UserID                string          `json:"userID" db:"user_id"`
	Name                  string          `json:"name" db:"name"`
	AccountType           AccountType     `json:"accountType" db:"account_type"`
	CurrencyCode          string          `json:"currencyCode" db:"currency_code"`
	Balance               decimal.Decimal `json:"balance" db:"balance"`
	CreditLimit           decimal.Decimal `json:"creditLimit" db:"credit_limit"` // zero for non-credit accounts
	AllowsNegativeBalance bool            `json:"allowsNegativeBalance" db:"allows_negative_balance"`
	Description           string          `json:"description" db:"description"`
	IsActive              bool            `json:"isActive" db:"is_active"`
	IncludeInTotal        bool            `json:"includeInTotal" db:"include_in_total"`
	AuditFields
}

// AvailableBalance is the balance plus the credit limit for accounts that can
// go negative (credit cards carry a negative balance by convention).
func (a Account) AvailableBalance() decimal.Decimal {
	if a.AllowsNegativeBalance && a.CreditLimit.IsPositive() {
		return a.CreditLimit.Add(a.Balance)
	}
	return a.Balance
}

// CanDebit reports whether taking amount out of the account respects its
// negative-balance policy.
func (a Account) CanDebit(amount decimal.Decimal) bool {
	if a.AllowsNegativeBalance {
		return true
	}
	return a.Balance.GreaterThanOrEqual(amount)
}
