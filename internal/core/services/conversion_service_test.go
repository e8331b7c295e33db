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

// --- Mock RateStoreFacade ---

type MockRateStore struct {
	mock.Mock
}

func (m *MockRateStore) GetRate(ctx context.Context, from, to string, onOrBefore time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, from, to, onOrBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockRateStore) ListRates(ctx context.Context, from, to *string) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockRateStore) PutRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

// --- Mock CurrencyRepositoryFacade ---

type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListActiveCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) FindBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

// --- Mock RateProvider ---

type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRateProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

// --- Test Suite ---

type ConversionServiceTestSuite struct {
	suite.Suite
	mockRateStore    *MockRateStore
	mockCurrencyRepo *MockCurrencyRepository
	mockProvider     *MockRateProvider
	service          portssvc.ConversionSvcFacade
}

func (suite *ConversionServiceTestSuite) SetupTest() {
	suite.mockRateStore = new(MockRateStore)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.mockProvider = new(MockRateProvider)
	suite.service = services.NewConversionService(suite.mockRateStore, suite.mockCurrencyRepo, suite.mockProvider)
}

func (suite *ConversionServiceTestSuite) TestConvert_SameCurrencyUnchanged() {
	ctx := context.Background()
	amount := domain.NewMoney(decimal.RequireFromString("123.456"), "ARS")

	got, err := suite.service.Convert(ctx, amount, "ARS", time.Now())

	suite.Require().NoError(err)
	suite.True(got.Equal(amount), "same-currency conversion must not touch the amount")
	suite.mockRateStore.AssertNotCalled(suite.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ConversionServiceTestSuite) TestConvert_SameCurrencyIgnoresCase() {
	ctx := context.Background()
	amount := domain.NewMoney(decimal.RequireFromString("75.10"), "usd")

	got, err := suite.service.Convert(ctx, amount, "USD", time.Now())

	suite.Require().NoError(err)
	suite.True(got.Amount.Equal(amount.Amount))
	suite.mockRateStore.AssertNotCalled(suite.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockProvider.AssertNotCalled(suite.T(), "FetchRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ConversionServiceTestSuite) TestConvert_DirectRate() {
	ctx := context.Background()
	asOf := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	stored := &domain.ExchangeRate{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "ARS",
		Rate:             decimal.RequireFromString("1000"),
		RateDate:         asOf,
	}

	suite.mockRateStore.On("GetRate", ctx, "USD", "ARS", asOf).Return(stored, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "ARS").Return(&domain.Currency{CurrencyCode: "ARS", DecimalPlaces: 2}, nil).Once()

	got, err := suite.service.Convert(ctx, domain.NewMoney(decimal.RequireFromString("50"), "USD"), "ARS", asOf)

	suite.Require().NoError(err)
	suite.Equal("ARS", got.CurrencyCode)
	suite.True(got.Amount.Equal(decimal.RequireFromString("50000")), "got %s", got.Amount)
	suite.mockRateStore.AssertExpectations(suite.T())
}

func (suite *ConversionServiceTestSuite) TestConvert_RoundsHalfToEven() {
	ctx := context.Background()
	asOf := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	stored := &domain.ExchangeRate{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.RequireFromString("0.8450"),
	}

	suite.mockRateStore.On("GetRate", ctx, "USD", "EUR", asOf).Return(stored, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "EUR").Return(&domain.Currency{CurrencyCode: "EUR", DecimalPlaces: 2}, nil).Once()

	// 2.50 * 0.8450 = 2.1125, half-to-even at 2 places gives 2.11
	got, err := suite.service.Convert(ctx, domain.NewMoney(decimal.RequireFromString("2.50"), "USD"), "EUR", asOf)

	suite.Require().NoError(err)
	suite.Equal("2.11", got.Amount.StringFixed(2))
}

func (suite *ConversionServiceTestSuite) TestConvert_RoundTripWithinOneSmallestUnit() {
	ctx := context.Background()
	asOf := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	stored := &domain.ExchangeRate{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "ARS",
		Rate:             decimal.RequireFromString("997.35"),
	}

	suite.mockRateStore.On("GetRate", ctx, "USD", "ARS", asOf).Return(stored, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "ARS").Return(&domain.Currency{CurrencyCode: "ARS", DecimalPlaces: 2}, nil).Once()

	original := domain.NewMoney(decimal.RequireFromString("123.45"), "USD")
	there, err := suite.service.Convert(ctx, original, "ARS", asOf)
	suite.Require().NoError(err)

	// The opposite direction has no stored quote, so the trip back goes
	// through the inverse of the same rate.
	suite.mockRateStore.On("GetRate", ctx, "ARS", "USD", asOf).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateStore.On("GetRate", ctx, "USD", "ARS", asOf).Return(stored, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD", DecimalPlaces: 2}, nil).Once()

	back, err := suite.service.Convert(ctx, there, "USD", asOf)
	suite.Require().NoError(err)

	drift := back.Amount.Sub(original.Amount).Abs()
	suite.True(drift.LessThanOrEqual(decimal.RequireFromString("0.01")), "round trip drifted by %s", drift)
}

func (suite *ConversionServiceTestSuite) TestResolveRate_InverseFallback() {
	ctx := context.Background()
	asOf := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	opposite := &domain.ExchangeRate{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "ARS",
		Rate:             decimal.RequireFromString("1000"),
	}

	suite.mockRateStore.On("GetRate", ctx, "ARS", "USD", asOf).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateStore.On("GetRate", ctx, "USD", "ARS", asOf).Return(opposite, nil).Once()

	got, err := suite.service.ResolveRate(ctx, "ARS", "USD", asOf)

	suite.Require().NoError(err)
	suite.Equal("ARS", got.FromCurrencyCode)
	suite.Equal("USD", got.ToCurrencyCode)
	suite.True(got.Rate.Equal(decimal.RequireFromString("0.001")), "got %s", got.Rate)
	suite.mockProvider.AssertNotCalled(suite.T(), "FetchRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ConversionServiceTestSuite) TestResolveRate_ProviderFallbackStoresQuote() {
	ctx := context.Background()
	asOf := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

	suite.mockRateStore.On("GetRate", ctx, "USD", "ARS", asOf).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateStore.On("GetRate", ctx, "ARS", "USD", asOf).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockProvider.On("FetchRate", ctx, "USD", "ARS").Return(decimal.RequireFromString("1021.5"), nil).Once()
	suite.mockProvider.On("Name").Return("exchangeratesapi").Once()
	suite.mockRateStore.On("PutRate", ctx, mock.AnythingOfType("domain.ExchangeRate")).Return(nil).Once()

	got, err := suite.service.ResolveRate(ctx, "USD", "ARS", asOf)

	suite.Require().NoError(err)
	suite.Equal("exchangeratesapi", got.Provider)
	suite.True(got.Rate.Equal(decimal.RequireFromString("1021.5")))
	suite.mockRateStore.AssertExpectations(suite.T())
	suite.mockProvider.AssertExpectations(suite.T())
}

func (suite *ConversionServiceTestSuite) TestResolveRate_ConcurrentInsertFallsBackToStored() {
	ctx := context.Background()
	asOf := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	stored := &domain.ExchangeRate{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "ARS",
		Rate:             decimal.RequireFromString("1020"),
	}

	suite.mockRateStore.On("GetRate", ctx, "USD", "ARS", asOf).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateStore.On("GetRate", ctx, "ARS", "USD", asOf).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockProvider.On("FetchRate", ctx, "USD", "ARS").Return(decimal.RequireFromString("1021.5"), nil).Once()
	suite.mockProvider.On("Name").Return("exchangeratesapi").Once()
	suite.mockRateStore.On("PutRate", ctx, mock.AnythingOfType("domain.ExchangeRate")).Return(apperrors.ErrDuplicateRate).Once()
	suite.mockRateStore.On("GetRate", ctx, "USD", "ARS", mock.AnythingOfType("time.Time")).Return(stored, nil).Once()

	got, err := suite.service.ResolveRate(ctx, "USD", "ARS", asOf)

	suite.Require().NoError(err)
	suite.True(got.Rate.Equal(decimal.RequireFromString("1020")), "stored quote wins over fetched")
}

func (suite *ConversionServiceTestSuite) TestResolveRate_UnavailableWhenProviderFails() {
	ctx := context.Background()
	asOf := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

	suite.mockRateStore.On("GetRate", ctx, "USD", "ARS", asOf).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateStore.On("GetRate", ctx, "ARS", "USD", asOf).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockProvider.On("FetchRate", ctx, "USD", "ARS").Return(decimal.Zero, apperrors.ErrProviderUnavailable).Once()

	_, err := suite.service.ResolveRate(ctx, "USD", "ARS", asOf)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
	suite.mockRateStore.AssertNotCalled(suite.T(), "PutRate", mock.Anything, mock.Anything)
}

func TestConversionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ConversionServiceTestSuite))
}
