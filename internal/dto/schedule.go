package dto

import (
	"time"

	"github.com/agustinvidal/fintrack/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInstallmentPlanRequest defines the payload for opening an
// installment purchase.
type CreateInstallmentPlanRequest struct {
	AccountID         string          `json:"accountID" binding:"required,uuid"`
	CategoryID        string          `json:"categoryID" binding:"omitempty,uuid"`
	Description       string          `json:"description" binding:"required,max=255"`
	TotalAmount       decimal.Decimal `json:"totalAmount" binding:"required"`
	CurrencyCode      string          `json:"currencyCode" binding:"required,currency"`
	TotalInstallments int             `json:"totalInstallments" binding:"required,gte=2,lte=120"`
	PurchaseDate      time.Time       `json:"purchaseDate" binding:"required"`
	FirstDueDate      time.Time       `json:"firstDueDate" binding:"required"`
}

// InstallmentPlanResponse is the API shape of an installment plan.
type InstallmentPlanResponse struct {
	PlanID             string                   `json:"planID"`
	AccountID          string                   `json:"accountID"`
	CategoryID         string                   `json:"categoryID,omitempty"`
	Description        string                   `json:"description"`
	TotalAmount        decimal.Decimal          `json:"totalAmount"`
	InstallmentAmount  decimal.Decimal          `json:"installmentAmount"`
	CurrencyCode       string                   `json:"currencyCode"`
	TotalInstallments  int                      `json:"totalInstallments"`
	CurrentInstallment int                      `json:"currentInstallment"`
	RemainingAmount    decimal.Decimal          `json:"remainingAmount"`
	PurchaseDate       time.Time                `json:"purchaseDate"`
	NextDueDate        time.Time                `json:"nextDueDate"`
	Status             domain.InstallmentStatus `json:"status"`
}

// ToInstallmentPlanResponse converts a domain.InstallmentPlan to its API shape.
func ToInstallmentPlanResponse(p *domain.InstallmentPlan) InstallmentPlanResponse {
	return InstallmentPlanResponse{
		PlanID:             p.PlanID,
		AccountID:          p.AccountID,
		CategoryID:         p.CategoryID,
		Description:        p.Description,
		TotalAmount:        p.TotalAmount,
		InstallmentAmount:  p.InstallmentAmount,
		CurrencyCode:       p.CurrencyCode,
		TotalInstallments:  p.TotalInstallments,
		CurrentInstallment: p.CurrentInstallment,
		RemainingAmount:    p.RemainingAmount(),
		PurchaseDate:       p.PurchaseDate,
		NextDueDate:        p.NextDueDate,
		Status:             p.Status,
	}
}

// ToListInstallmentPlanResponse converts a slice of plans.
func ToListInstallmentPlanResponse(plans []domain.InstallmentPlan) []InstallmentPlanResponse {
	responses := make([]InstallmentPlanResponse, len(plans))
	for i := range plans {
		responses[i] = ToInstallmentPlanResponse(&plans[i])
	}
	return responses
}

// CreateAutoDebitRequest defines the payload for scheduling a recurring debit.
type CreateAutoDebitRequest struct {
	AccountID    string                `json:"accountID" binding:"required,uuid"`
	CategoryID   string                `json:"categoryID" binding:"omitempty,uuid"`
	Name         string                `json:"name" binding:"required,max=100"`
	Amount       decimal.Decimal       `json:"amount" binding:"required"`
	CurrencyCode string                `json:"currencyCode" binding:"required,currency"`
	Frequency    domain.DebitFrequency `json:"frequency" binding:"required,oneof=daily weekly biweekly monthly quarterly yearly"`
	StartDate    time.Time             `json:"startDate" binding:"required"`
	EndDate      *time.Time            `json:"endDate"`
}

// AutoDebitResponse is the API shape of a recurring debit schedule.
type AutoDebitResponse struct {
	ScheduleID     string                `json:"scheduleID"`
	AccountID      string                `json:"accountID"`
	CategoryID     string                `json:"categoryID,omitempty"`
	Name           string                `json:"name"`
	Amount         decimal.Decimal       `json:"amount"`
	CurrencyCode   string                `json:"currencyCode"`
	Frequency      domain.DebitFrequency `json:"frequency"`
	StartDate      time.Time             `json:"startDate"`
	EndDate        *time.Time            `json:"endDate,omitempty"`
	NextExecution  time.Time             `json:"nextExecution"`
	LastExecution  *time.Time            `json:"lastExecution,omitempty"`
	ExecutionCount int                   `json:"executionCount"`
	FailedAttempts int                   `json:"failedAttempts"`
	Status         domain.DebitStatus    `json:"status"`
}

// ToAutoDebitResponse converts a domain.AutoDebitSchedule to its API shape.
func ToAutoDebitResponse(s *domain.AutoDebitSchedule) AutoDebitResponse {
	return AutoDebitResponse{
		ScheduleID:     s.ScheduleID,
		AccountID:      s.AccountID,
		CategoryID:     s.CategoryID,
		Name:           s.Name,
		Amount:         s.Amount,
		CurrencyCode:   s.CurrencyCode,
		Frequency:      s.Frequency,
		StartDate:      s.StartDate,
		EndDate:        s.EndDate,
		NextExecution:  s.NextExecution,
		LastExecution:  s.LastExecution,
		ExecutionCount: s.ExecutionCount,
		FailedAttempts: s.FailedAttempts,
		Status:         s.Status,
	}
}

// ToListAutoDebitResponse converts a slice of schedules.
func ToListAutoDebitResponse(schedules []domain.AutoDebitSchedule) []AutoDebitResponse {
	responses := make([]AutoDebitResponse, len(schedules))
	for i := range schedules {
		responses[i] = ToAutoDebitResponse(&schedules[i])
	}
	return responses
}
