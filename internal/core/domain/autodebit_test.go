package domain_test

import (
	"testing"
	"time"

	"github.com/agustinvidal/fintrack/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAutoDebitSchedule_IsDue(t *testing.T) {
	endDate := date(2026, time.March, 31)

	tests := []struct {
		name     string
		schedule domain.AutoDebitSchedule
		asOf     time.Time
		want     bool
	}{
		{
			name: "due today",
			schedule: domain.AutoDebitSchedule{
				Status:        domain.DebitActive,
				NextExecution: date(2026, time.January, 15),
			},
			asOf: date(2026, time.January, 15),
			want: true,
		},
		{
			name: "overdue",
			schedule: domain.AutoDebitSchedule{
				Status:        domain.DebitActive,
				NextExecution: date(2026, time.January, 10),
			},
			asOf: date(2026, time.January, 15),
			want: true,
		},
		{
			name: "not yet due",
			schedule: domain.AutoDebitSchedule{
				Status:        domain.DebitActive,
				NextExecution: date(2026, time.January, 20),
			},
			asOf: date(2026, time.January, 15),
			want: false,
		},
		{
			name: "paused schedule never due",
			schedule: domain.AutoDebitSchedule{
				Status:        domain.DebitPaused,
				NextExecution: date(2026, time.January, 10),
			},
			asOf: date(2026, time.January, 15),
			want: false,
		},
		{
			name: "cancelled schedule never due",
			schedule: domain.AutoDebitSchedule{
				Status:        domain.DebitCancelled,
				NextExecution: date(2026, time.January, 10),
			},
			asOf: date(2026, time.January, 15),
			want: false,
		},
		{
			name: "past end date",
			schedule: domain.AutoDebitSchedule{
				Status:        domain.DebitActive,
				NextExecution: date(2026, time.March, 31),
				EndDate:       &endDate,
			},
			asOf: date(2026, time.April, 1),
			want: false,
		},
		{
			name: "due on end date",
			schedule: domain.AutoDebitSchedule{
				Status:        domain.DebitActive,
				NextExecution: date(2026, time.March, 31),
				EndDate:       &endDate,
			},
			asOf: date(2026, time.March, 31),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.schedule.IsDue(tt.asOf))
		})
	}
}

func TestAutoDebitSchedule_NextExecutionAfter(t *testing.T) {
	executed := date(2026, time.January, 31)

	tests := []struct {
		name      string
		frequency domain.DebitFrequency
		want      time.Time
	}{
		{"daily", domain.FrequencyDaily, date(2026, time.February, 1)},
		{"weekly", domain.FrequencyWeekly, date(2026, time.February, 7)},
		{"biweekly", domain.FrequencyBiweekly, date(2026, time.February, 14)},
		{"monthly normalizes past end of month", domain.FrequencyMonthly, date(2026, time.March, 3)},
		{"quarterly", domain.FrequencyQuarterly, date(2026, time.May, 1)},
		{"yearly", domain.FrequencyYearly, date(2027, time.January, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.AutoDebitSchedule{Frequency: tt.frequency}
			assert.Equal(t, tt.want, s.NextExecutionAfter(executed))
		})
	}
}
