package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebitFrequency is the cadence of an auto-debit schedule.
type DebitFrequency string

const (
	FrequencyDaily     DebitFrequency = "daily"
	FrequencyWeekly    DebitFrequency = "weekly"
	FrequencyBiweekly  DebitFrequency = "biweekly"
	FrequencyMonthly   DebitFrequency = "monthly"
	FrequencyQuarterly DebitFrequency = "quarterly"
	FrequencyYearly    DebitFrequency = "yearly"
)

// DebitStatus is the lifecycle state of an auto-debit schedule.
type DebitStatus string

const (
	DebitActive    DebitStatus = "active"
	DebitPaused    DebitStatus = "paused"
	DebitCancelled DebitStatus = "cancelled"
)

// AutoDebitSchedule periodically posts an expense transaction against an
// account. FailedAttempts increments on posting failure and the schedule is
// paused once the configured threshold is reached; manual reactivation is the
// only path back to active.
type AutoDebitSchedule struct {
	ScheduleID     string          `json:"scheduleID" db:"schedule_id"`
	UserID         string          `json:"userID" db:"user_id"`
	AccountID      string          `json:"accountID" db:"account_id"`
	CategoryID     string          `json:"categoryID" db:"category_id"`
	Name           string          `json:"name" db:"name"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	CurrencyCode   string          `json:"currencyCode" db:"currency_code"`
	Frequency      DebitFrequency  `json:"frequency" db:"frequency"`
	StartDate      time.Time       `json:"startDate" db:"start_date"`
	EndDate        *time.Time      `json:"endDate,omitempty" db:"end_date"`
	NextExecution  time.Time       `json:"nextExecution" db:"next_execution"`
	LastExecution  *time.Time      `json:"lastExecution,omitempty" db:"last_execution"`
	ExecutionCount int             `json:"executionCount" db:"execution_count"`
	FailedAttempts int             `json:"failedAttempts" db:"failed_attempts"`
	Status         DebitStatus     `json:"status" db:"status"`
	AuditFields
}

// IsDue reports whether the schedule should execute as of the given date.
func (s AutoDebitSchedule) IsDue(asOf time.Time) bool {
	if s.Status != DebitActive || s.NextExecution.After(asOf) {
		return false
	}
	if s.EndDate != nil && asOf.After(*s.EndDate) {
		return false
	}
	return true
}

// NextExecutionAfter steps the execution cursor one period past the given
// execution date.
func (s AutoDebitSchedule) NextExecutionAfter(executed time.Time) time.Time {
	switch s.Frequency {
	case FrequencyDaily:
		return executed.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return executed.AddDate(0, 0, 7)
	case FrequencyBiweekly:
		return executed.AddDate(0, 0, 14)
	case FrequencyMonthly:
		return executed.AddDate(0, 1, 0)
	case FrequencyQuarterly:
		return executed.AddDate(0, 3, 0)
	case FrequencyYearly:
		return executed.AddDate(1, 0, 0)
	}
	return executed
}
