package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus is the lifecycle state of an installment plan.
type InstallmentStatus string

const (
	InstallmentActive    InstallmentStatus = "active"
	InstallmentCompleted InstallmentStatus = "completed"
	InstallmentCancelled InstallmentStatus = "cancelled"
)

// InstallmentPlan is a card purchase paid in a fixed number of monthly
// installments. The due-item scan posts one expense transaction per due
// installment and advances CurrentInstallment and NextDueDate together.
type InstallmentPlan struct {
	PlanID             string            `json:"planID" db:"plan_id"`
	UserID             string            `json:"userID" db:"user_id"`
	AccountID          string            `json:"accountID" db:"account_id"`
	CategoryID         string            `json:"categoryID" db:"category_id"`
	Description        string            `json:"description" db:"description"`
	TotalAmount        decimal.Decimal   `json:"totalAmount" db:"total_amount"`
	InstallmentAmount  decimal.Decimal   `json:"installmentAmount" db:"installment_amount"`
	CurrencyCode       string            `json:"currencyCode" db:"currency_code"`
	TotalInstallments  int               `json:"totalInstallments" db:"total_installments"`
	CurrentInstallment int               `json:"currentInstallment" db:"current_installment"`
	PurchaseDate       time.Time         `json:"purchaseDate" db:"purchase_date"`
	NextDueDate        time.Time         `json:"nextDueDate" db:"next_due_date"`
	Status             InstallmentStatus `json:"status" db:"status"`
	AuditFields
}

// RemainingInstallments is the number of installments not yet posted.
func (p InstallmentPlan) RemainingInstallments() int {
	return p.TotalInstallments - p.CurrentInstallment
}

// RemainingAmount is the total of the installments not yet posted.
func (p InstallmentPlan) RemainingAmount() decimal.Decimal {
	return p.InstallmentAmount.Mul(decimal.NewFromInt(int64(p.RemainingInstallments())))
}

// IsDue reports whether the next installment should be posted as of the given
// date.
func (p InstallmentPlan) IsDue(asOf time.Time) bool {
	return p.Status == InstallmentActive &&
		p.CurrentInstallment < p.TotalInstallments &&
		!p.NextDueDate.After(asOf)
}
