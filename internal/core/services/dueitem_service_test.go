package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/agustinvidal/fintrack/internal/apperrors"
	"github.com/agustinvidal/fintrack/internal/core/domain"
	portssvc "github.com/agustinvidal/fintrack/internal/core/ports/services"
	"github.com/agustinvidal/fintrack/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AutoDebitRepositoryFacade ---

type MockAutoDebitRepository struct {
	mock.Mock
}

func (m *MockAutoDebitRepository) FindScheduleByID(ctx context.Context, scheduleID string) (*domain.AutoDebitSchedule, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AutoDebitSchedule), args.Error(1)
}

func (m *MockAutoDebitRepository) ListSchedulesByUser(ctx context.Context, userID string) ([]domain.AutoDebitSchedule, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AutoDebitSchedule), args.Error(1)
}

func (m *MockAutoDebitRepository) SaveSchedule(ctx context.Context, schedule domain.AutoDebitSchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockAutoDebitRepository) UpdateScheduleStatus(ctx context.Context, scheduleID string, status domain.DebitStatus, updaterUserID string) error {
	args := m.Called(ctx, scheduleID, status, updaterUserID)
	return args.Error(0)
}

func (m *MockAutoDebitRepository) FindDueSchedules(ctx context.Context, asOf time.Time) ([]domain.AutoDebitSchedule, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AutoDebitSchedule), args.Error(1)
}

func (m *MockAutoDebitRepository) ExecuteDueSchedule(ctx context.Context, scheduleID string, txn domain.Transaction, executedOn time.Time) error {
	args := m.Called(ctx, scheduleID, txn, executedOn)
	return args.Error(0)
}

func (m *MockAutoDebitRepository) RecordScheduleFailure(ctx context.Context, scheduleID string, failureThreshold int, updaterUserID string) (int, domain.DebitStatus, error) {
	args := m.Called(ctx, scheduleID, failureThreshold, updaterUserID)
	return args.Int(0), args.Get(1).(domain.DebitStatus), args.Error(2)
}

// --- Mock InstallmentRepositoryFacade ---

type MockInstallmentRepository struct {
	mock.Mock
}

func (m *MockInstallmentRepository) FindPlanByID(ctx context.Context, planID string) (*domain.InstallmentPlan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InstallmentPlan), args.Error(1)
}

func (m *MockInstallmentRepository) ListPlansByUser(ctx context.Context, userID string) ([]domain.InstallmentPlan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InstallmentPlan), args.Error(1)
}

func (m *MockInstallmentRepository) SavePlan(ctx context.Context, plan domain.InstallmentPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockInstallmentRepository) CancelPlan(ctx context.Context, planID, updaterUserID string) error {
	args := m.Called(ctx, planID, updaterUserID)
	return args.Error(0)
}

func (m *MockInstallmentRepository) FindDuePlans(ctx context.Context, asOf time.Time) ([]domain.InstallmentPlan, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InstallmentPlan), args.Error(1)
}

func (m *MockInstallmentRepository) PostDueInstallment(ctx context.Context, planID string, txn domain.Transaction) error {
	args := m.Called(ctx, planID, txn)
	return args.Error(0)
}

// --- Test Suite ---

type DueItemServiceTestSuite struct {
	suite.Suite
	mockAutoDebitRepo   *MockAutoDebitRepository
	mockInstallmentRepo *MockInstallmentRepository
	service             portssvc.DueItemSvcFacade
}

func (suite *DueItemServiceTestSuite) SetupTest() {
	suite.mockAutoDebitRepo = new(MockAutoDebitRepository)
	suite.mockInstallmentRepo = new(MockInstallmentRepository)
	suite.service = services.NewDueItemService(suite.mockAutoDebitRepo, suite.mockInstallmentRepo, 3)
}

func (suite *DueItemServiceTestSuite) dueSchedule() domain.AutoDebitSchedule {
	return domain.AutoDebitSchedule{
		ScheduleID:    "sched-1",
		UserID:        "user-1",
		AccountID:     "acc-1",
		Name:          "Gym membership",
		Amount:        decimal.RequireFromString("45.00"),
		CurrencyCode:  "ARS",
		Frequency:     domain.FrequencyMonthly,
		NextExecution: time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
		Status:        domain.DebitActive,
	}
}

func (suite *DueItemServiceTestSuite) duePlan() domain.InstallmentPlan {
	return domain.InstallmentPlan{
		PlanID:             "plan-1",
		UserID:             "user-1",
		AccountID:          "acc-1",
		Description:        "New laptop",
		TotalAmount:        decimal.RequireFromString("300.00"),
		InstallmentAmount:  decimal.RequireFromString("100.00"),
		CurrencyCode:       "ARS",
		TotalInstallments:  3,
		CurrentInstallment: 2,
		NextDueDate:        time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
		Status:             domain.InstallmentActive,
	}
}

func (suite *DueItemServiceTestSuite) TestRunDueItemScan_ExecutesDueItems() {
	ctx := context.Background()
	asOf := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	schedule := suite.dueSchedule()
	plan := suite.duePlan()

	suite.mockAutoDebitRepo.On("FindDueSchedules", ctx, asOf).Return([]domain.AutoDebitSchedule{schedule}, nil).Once()
	suite.mockAutoDebitRepo.On("ExecuteDueSchedule", ctx, "sched-1", mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Origin == domain.OriginAutoDebit &&
			txn.Type == domain.Expense &&
			txn.ScheduleID == "sched-1" &&
			txn.Amount.Equal(schedule.Amount)
	}), schedule.NextExecution).Return(nil).Once()

	suite.mockInstallmentRepo.On("FindDuePlans", ctx, asOf).Return([]domain.InstallmentPlan{plan}, nil).Once()
	suite.mockInstallmentRepo.On("PostDueInstallment", ctx, "plan-1", mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Origin == domain.OriginInstallment &&
			txn.Description == "New laptop (3/3)" &&
			txn.Amount.Equal(plan.InstallmentAmount)
	})).Return(nil).Once()

	summary, err := suite.service.RunDueItemScan(ctx, asOf)

	suite.Require().NoError(err)
	suite.Equal(1, summary.DebitsExecuted)
	suite.Equal(1, summary.InstallmentsPosted)
	suite.Equal(0, summary.Failed)
	suite.mockAutoDebitRepo.AssertExpectations(suite.T())
	suite.mockInstallmentRepo.AssertExpectations(suite.T())
}

func (suite *DueItemServiceTestSuite) TestRunDueItemScan_AlreadyProcessedItemsAreSkipped() {
	ctx := context.Background()
	asOf := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	schedule := suite.dueSchedule()
	plan := suite.duePlan()

	suite.mockAutoDebitRepo.On("FindDueSchedules", ctx, asOf).Return([]domain.AutoDebitSchedule{schedule}, nil).Once()
	suite.mockAutoDebitRepo.On("ExecuteDueSchedule", ctx, "sched-1", mock.AnythingOfType("domain.Transaction"), schedule.NextExecution).Return(apperrors.ErrDuplicate).Once()

	suite.mockInstallmentRepo.On("FindDuePlans", ctx, asOf).Return([]domain.InstallmentPlan{plan}, nil).Once()
	suite.mockInstallmentRepo.On("PostDueInstallment", ctx, "plan-1", mock.AnythingOfType("domain.Transaction")).Return(apperrors.ErrDuplicate).Once()

	summary, err := suite.service.RunDueItemScan(ctx, asOf)

	suite.Require().NoError(err)
	suite.Equal(0, summary.DebitsExecuted)
	suite.Equal(0, summary.InstallmentsPosted)
	suite.Equal(0, summary.Failed, "a re-run must be a clean no-op")
	suite.Empty(summary.Errors)
	suite.mockAutoDebitRepo.AssertNotCalled(suite.T(), "RecordScheduleFailure", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DueItemServiceTestSuite) TestRunDueItemScan_InsufficientFundsRecordsFailure() {
	ctx := context.Background()
	asOf := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	schedule := suite.dueSchedule()

	suite.mockAutoDebitRepo.On("FindDueSchedules", ctx, asOf).Return([]domain.AutoDebitSchedule{schedule}, nil).Once()
	suite.mockAutoDebitRepo.On("ExecuteDueSchedule", ctx, "sched-1", mock.AnythingOfType("domain.Transaction"), schedule.NextExecution).Return(apperrors.ErrInsufficientFunds).Once()
	suite.mockAutoDebitRepo.On("RecordScheduleFailure", ctx, "sched-1", 3, "system").Return(3, domain.DebitPaused, nil).Once()

	suite.mockInstallmentRepo.On("FindDuePlans", ctx, asOf).Return([]domain.InstallmentPlan{}, nil).Once()

	summary, err := suite.service.RunDueItemScan(ctx, asOf)

	suite.Require().NoError(err)
	suite.Equal(0, summary.DebitsExecuted)
	suite.Equal(1, summary.Failed)
	suite.Require().Len(summary.Errors, 1)
	suite.Contains(summary.Errors[0], "sched-1")
	suite.mockAutoDebitRepo.AssertExpectations(suite.T())
}

func (suite *DueItemServiceTestSuite) TestRunDueItemScan_OneFailureDoesNotAbortTheBatch() {
	ctx := context.Background()
	asOf := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	failing := suite.dueSchedule()
	succeeding := suite.dueSchedule()
	succeeding.ScheduleID = "sched-2"

	suite.mockAutoDebitRepo.On("FindDueSchedules", ctx, asOf).Return([]domain.AutoDebitSchedule{failing, succeeding}, nil).Once()
	suite.mockAutoDebitRepo.On("ExecuteDueSchedule", ctx, "sched-1", mock.AnythingOfType("domain.Transaction"), failing.NextExecution).Return(apperrors.ErrInsufficientFunds).Once()
	suite.mockAutoDebitRepo.On("RecordScheduleFailure", ctx, "sched-1", 3, "system").Return(1, domain.DebitActive, nil).Once()
	suite.mockAutoDebitRepo.On("ExecuteDueSchedule", ctx, "sched-2", mock.AnythingOfType("domain.Transaction"), succeeding.NextExecution).Return(nil).Once()

	suite.mockInstallmentRepo.On("FindDuePlans", ctx, asOf).Return([]domain.InstallmentPlan{}, nil).Once()

	summary, err := suite.service.RunDueItemScan(ctx, asOf)

	suite.Require().NoError(err)
	suite.Equal(1, summary.DebitsExecuted)
	suite.Equal(1, summary.Failed)
	suite.mockAutoDebitRepo.AssertExpectations(suite.T())
}

func TestDueItemServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DueItemServiceTestSuite))
}
