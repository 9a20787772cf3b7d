package services_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ecucondor/rates_backend/internal/adapters/database/memory"
	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/ecucondor/rates_backend/internal/core/domain"
	portssvc "github.com/ecucondor/rates_backend/internal/core/ports/services"
	"github.com/ecucondor/rates_backend/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LimitsServiceTestSuite struct {
	suite.Suite
	repo      *memory.UsageRepository
	clock     *fakeClock
	publisher *MockPublisher
	service   portssvc.LimitsSvcFacade
	ctx       context.Context
}

func (suite *LimitsServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.repo = memory.NewUsageRepository()
	suite.clock = newFakeClock(time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC))
	suite.publisher = new(MockPublisher)
	suite.publisher.On("Publish", mock.Anything, mock.AnythingOfType("domain.Event")).Return(nil).Maybe()
	suite.service = services.NewLimitsService(suite.repo, testLimits(),
		services.WithLimitsClock(suite.clock),
		services.WithLimitsPublisher(suite.publisher))
}

func (suite *LimitsServiceTestSuite) record(user, amount string) *domain.LimitDecision {
	d, err := suite.service.RecordTransaction(suite.ctx, user, dec(amount))
	suite.Require().NoError(err)
	return d
}

// --- Test Cases ---

func (suite *LimitsServiceTestSuite) TestNewUserHasZeroSummary() {
	summary, err := suite.service.GetUserTransactionSummary(suite.ctx, "u1")
	suite.Require().NoError(err)
	suite.Equal("u1", summary.UserID)
	suite.True(summary.MonthlyVolumeUSD.IsZero())
	suite.Zero(summary.DailyTransactionCount)
	suite.Nil(summary.LastTransactionAt)

	status, err := suite.service.GetUserLimitsStatus(suite.ctx, "u1")
	suite.Require().NoError(err)
	suite.True(dec("20000").Equal(status.Monthly.Remaining))
	suite.Equal(5, status.DailyTransactions.Remaining)
	suite.True(dec("10").Equal(status.PerTransaction.Min))
}

func (suite *LimitsServiceTestSuite) TestCanMakeTransaction_Reasons() {
	// each constraint is violated on its own
	d, err := suite.service.CanMakeTransaction(suite.ctx, "u1", dec("9.99"))
	suite.Require().NoError(err)
	suite.False(d.CanProceed)
	suite.Equal(domain.ReasonBelowMinimum, *d.Reason)

	d, err = suite.service.CanMakeTransaction(suite.ctx, "u1", dec("5000.01"))
	suite.Require().NoError(err)
	suite.Equal(domain.ReasonAboveMaximum, *d.Reason)

	for i := 0; i < 5; i++ {
		suite.True(suite.record("u2", "10").CanProceed)
	}
	d, err = suite.service.CanMakeTransaction(suite.ctx, "u2", dec("10"))
	suite.Require().NoError(err)
	suite.Equal(domain.ReasonDailyCountReached, *d.Reason)
	suite.True(d.RemainingAmount.IsZero())

	for day := 0; day < 4; day++ {
		suite.True(suite.record("u3", "5000").CanProceed)
		suite.clock.Advance(24 * time.Hour)
	}
	d, err = suite.service.CanMakeTransaction(suite.ctx, "u3", dec("10"))
	suite.Require().NoError(err)
	suite.Equal(domain.ReasonMonthlyExceeded, *d.Reason)

	d, err = suite.service.CanMakeTransaction(suite.ctx, "u4", dec("100"))
	suite.Require().NoError(err)
	suite.True(d.CanProceed)
	suite.Nil(d.Reason)
	suite.True(dec("5000").Equal(d.RemainingAmount))
}

func (suite *LimitsServiceTestSuite) TestCanMakeTransaction_IsAdvisory() {
	_, err := suite.service.CanMakeTransaction(suite.ctx, "u1", dec("100"))
	suite.Require().NoError(err)
	_, err = suite.repo.FindSummary(suite.ctx, "u1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LimitsServiceTestSuite) TestValidation() {
	_, err := suite.service.CanMakeTransaction(suite.ctx, "", dec("100"))
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = suite.service.CanMakeTransaction(suite.ctx, "u1", dec("0"))
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = suite.service.RecordTransaction(suite.ctx, "u1", dec("-1"))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LimitsServiceTestSuite) TestRecordTransaction_AccumulatesAndPublishes() {
	d := suite.record("u1", "1200")
	suite.True(d.CanProceed)
	suite.True(dec("5000").Equal(d.RemainingAmount))

	summary, err := suite.service.GetUserTransactionSummary(suite.ctx, "u1")
	suite.Require().NoError(err)
	suite.True(dec("1200").Equal(summary.MonthlyVolumeUSD))
	suite.True(dec("1200").Equal(summary.DailyVolumeUSD))
	suite.Equal(1, summary.DailyTransactionCount)
	suite.Require().NotNil(summary.LastTransactionAt)

	suite.publisher.AssertCalled(suite.T(), "Publish", mock.Anything, mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == domain.EventTransactionRecorded && e.Key == "u1"
	}))
}

func (suite *LimitsServiceTestSuite) TestRecordTransaction_DeclineLeavesSummary() {
	d := suite.record("u1", "6000")
	suite.False(d.CanProceed)
	suite.Equal(domain.ReasonAboveMaximum, *d.Reason)

	_, err := suite.repo.FindSummary(suite.ctx, "u1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.publisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *LimitsServiceTestSuite) TestRollover_DayAndMonth() {
	for i := 0; i < 5; i++ {
		suite.record("u1", "100")
	}
	suite.clock.Advance(24 * time.Hour)

	summary, err := suite.service.GetUserTransactionSummary(suite.ctx, "u1")
	suite.Require().NoError(err)
	suite.Zero(summary.DailyTransactionCount)
	suite.True(summary.DailyVolumeUSD.IsZero())
	suite.True(dec("500").Equal(summary.MonthlyVolumeUSD))
	suite.True(suite.record("u1", "100").CanProceed)

	suite.clock.Set(time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
	summary, err = suite.service.GetUserTransactionSummary(suite.ctx, "u1")
	suite.Require().NoError(err)
	suite.True(summary.MonthlyVolumeUSD.IsZero())
}

func (suite *LimitsServiceTestSuite) TestRollover_UsesBusinessTimezone() {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	suite.Require().NoError(err)
	svc := services.NewLimitsService(memory.NewUsageRepository(), testLimits(),
		services.WithLimitsClock(suite.clock),
		services.WithBusinessLocation(loc))

	// 23:30 on March 31 in Buenos Aires is already April 1 in UTC
	suite.clock.Set(time.Date(2026, 3, 31, 23, 30, 0, 0, loc))
	_, err = svc.RecordTransaction(suite.ctx, "u1", dec("100"))
	suite.Require().NoError(err)

	suite.clock.Set(time.Date(2026, 4, 1, 0, 10, 0, 0, loc))
	summary, err := svc.GetUserTransactionSummary(suite.ctx, "u1")
	suite.Require().NoError(err)
	suite.True(summary.MonthlyVolumeUSD.IsZero(), "new business month")
	suite.Zero(summary.DailyTransactionCount)
}

func (suite *LimitsServiceTestSuite) TestRecordTransaction_ConcurrentNearCap() {
	for i := 0; i < 4; i++ {
		suite.True(suite.record("u1", "4975").CanProceed)
	}
	suite.clock.Advance(24 * time.Hour) // fresh daily count, 100 USD monthly headroom left

	var admitted atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			d, err := suite.service.RecordTransaction(suite.ctx, "u1", dec("100"))
			suite.NoError(err)
			if d != nil && d.CanProceed {
				admitted.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	suite.Equal(int32(1), admitted.Load())
	summary, err := suite.service.GetUserTransactionSummary(suite.ctx, "u1")
	suite.Require().NoError(err)
	suite.True(dec("20000").Equal(summary.MonthlyVolumeUSD))
}

func (suite *LimitsServiceTestSuite) TestRecordTransaction_ConcurrentDailyCount() {
	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := suite.service.RecordTransaction(suite.ctx, "u1", dec("10"))
			suite.NoError(err)
			if d != nil && d.CanProceed {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	suite.Equal(int32(5), admitted.Load())
}

// --- Run Test Suite ---
func TestLimitsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LimitsServiceTestSuite))
}
