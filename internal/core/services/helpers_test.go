package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/ecucondor/rates_backend/internal/core/ports/feeds"
	"github.com/ecucondor/rates_backend/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock PriceFeed ---
type MockPriceFeed struct {
	mock.Mock
}

func (m *MockPriceFeed) FetchPrice(ctx context.Context, symbol string) (feeds.Price, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(feeds.Price), args.Error(1)
}

// --- Mock Publisher ---
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

// fakeClock is a settable Clock safe for concurrent use.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func price(symbol, value string, at time.Time) feeds.Price {
	return feeds.Price{Symbol: symbol, Value: decimal.RequireFromString(value), FetchedAt: at}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testLimits() domain.TransactionLimits {
	return domain.TransactionLimits{
		MinAmountUSD:         decimal.NewFromInt(10),
		MaxAmountUSD:         decimal.NewFromInt(5000),
		MaxMonthlyUSD:        decimal.NewFromInt(20000),
		MaxDailyTransactions: 5,
	}
}

func testPairs() map[string]domain.PairConfig {
	return config.DefaultPairs()
}
