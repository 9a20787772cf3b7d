package handlers_test

import (
	"context"
	"time"

	"github.com/ecucondor/rates_backend/internal/core/domain"
	portssvc "github.com/ecucondor/rates_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock RateService ---
type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) GetRate(ctx context.Context, pair string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, pair)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockRateService) GetAllRates(ctx context.Context) []domain.ExchangeRate {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.ExchangeRate)
}

func (m *MockRateService) CalculateTransaction(ctx context.Context, pair string, amount decimal.Decimal, direction domain.Direction) (*domain.TransactionQuote, error) {
	args := m.Called(ctx, pair, amount, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionQuote), args.Error(1)
}

func (m *MockRateService) IsHealthy() bool {
	return m.Called().Bool(0)
}

func (m *MockRateService) LastRefresh() time.Time {
	return m.Called().Get(0).(time.Time)
}

func (m *MockRateService) UpdateRates(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockRateService) EnsureFresh(ctx context.Context, force bool) error {
	return m.Called(ctx, force).Error(0)
}

var _ portssvc.RateSvcFacade = (*MockRateService)(nil)

// --- Mock LimitsService ---
type MockLimitsService struct {
	mock.Mock
}

func (m *MockLimitsService) GetUserLimitsStatus(ctx context.Context, userID string) (*domain.LimitsStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LimitsStatus), args.Error(1)
}

func (m *MockLimitsService) GetUserTransactionSummary(ctx context.Context, userID string) (*domain.UserTransactionSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserTransactionSummary), args.Error(1)
}

func (m *MockLimitsService) CanMakeTransaction(ctx context.Context, userID string, amountUSD decimal.Decimal) (*domain.LimitDecision, error) {
	args := m.Called(ctx, userID, amountUSD)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LimitDecision), args.Error(1)
}

func (m *MockLimitsService) RecordTransaction(ctx context.Context, userID string, amountUSD decimal.Decimal) (*domain.LimitDecision, error) {
	args := m.Called(ctx, userID, amountUSD)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LimitDecision), args.Error(1)
}

var _ portssvc.LimitsSvcFacade = (*MockLimitsService)(nil)

// --- Mock PriceLockService ---
type MockPriceLockService struct {
	mock.Mock
}

func (m *MockPriceLockService) GetPriceLock(ctx context.Context, lockID string) (*domain.PriceLock, error) {
	args := m.Called(ctx, lockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceLock), args.Error(1)
}

func (m *MockPriceLockService) GetPriceLockStatus(ctx context.Context, lockID string) (*domain.PriceLockStatus, error) {
	args := m.Called(ctx, lockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceLockStatus), args.Error(1)
}

func (m *MockPriceLockService) GetUserActivePriceLocks(ctx context.Context, userID string) ([]domain.PriceLock, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PriceLock), args.Error(1)
}

func (m *MockPriceLockService) CreatePriceLock(ctx context.Context, userID, pair string, rate, amountUSD decimal.Decimal, direction domain.Direction) (*domain.PriceLock, error) {
	args := m.Called(ctx, userID, pair, rate, amountUSD, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceLock), args.Error(1)
}

func (m *MockPriceLockService) UsePriceLock(ctx context.Context, lockID string) (bool, error) {
	args := m.Called(ctx, lockID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPriceLockService) CancelPriceLock(ctx context.Context, lockID, userID string) error {
	return m.Called(ctx, lockID, userID).Error(0)
}

var _ portssvc.PriceLockSvcFacade = (*MockPriceLockService)(nil)

// --- Mock ExchangeService ---
type MockExchangeService struct {
	mock.Mock
}

func (m *MockExchangeService) Execute(ctx context.Context, userID, lockID string) (*portssvc.ExchangeResult, error) {
	args := m.Called(ctx, userID, lockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.ExchangeResult), args.Error(1)
}

var _ portssvc.ExchangeSvcFacade = (*MockExchangeService)(nil)

// decEq matches a decimal argument by value rather than representation.
func decEq(s string) any {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}
