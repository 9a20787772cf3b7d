package handlers_test

import (
	"net/http"

	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/ecucondor/rates_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *APITestSuite) TestLimits_RequireAuth() {
	for _, path := range []string{"/api/v1/limits", "/api/v1/limits/summary", "/api/v1/price-locks"} {
		w := suite.do(http.MethodGet, path, nil, "")
		suite.Equal(http.StatusUnauthorized, w.Code, path)
	}
}

func (suite *APITestSuite) TestGetLimitsStatus() {
	limits := domain.TransactionLimits{
		MinAmountUSD:         decimal.NewFromInt(10),
		MaxAmountUSD:         decimal.NewFromInt(5000),
		MaxMonthlyUSD:        decimal.NewFromInt(20000),
		MaxDailyTransactions: 5,
	}
	summary := domain.NewUserTransactionSummary("user-1")
	summary.MonthlyVolumeUSD = decimal.NewFromInt(1500)
	summary.DailyTransactionCount = 2
	status := limits.Status(summary)
	suite.limits.On("GetUserLimitsStatus", mock.Anything, "user-1").Return(&status, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/limits", nil, "user-1")
	suite.Equal(http.StatusOK, w.Code)
	body := decodeBody[dto.LimitsStatusResponse](suite, w)
	suite.True(decimal.NewFromInt(18500).Equal(body.Data.Monthly.Remaining))
	suite.Equal(3, body.Data.DailyTransactions.Remaining)
}

func (suite *APITestSuite) TestGetSummary() {
	summary := domain.NewUserTransactionSummary("user-1")
	summary.DailyVolumeUSD = decimal.NewFromInt(250)
	summary.MonthlyVolumeUSD = decimal.NewFromInt(900)
	summary.DailyTransactionCount = 1
	suite.limits.On("GetUserTransactionSummary", mock.Anything, "user-1").Return(&summary, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/limits/summary", nil, "user-1")
	suite.Equal(http.StatusOK, w.Code)
	body := decodeBody[dto.TransactionSummaryResponse](suite, w)
	suite.Equal("user-1", body.Data.UserID)
	suite.True(decimal.NewFromInt(900).Equal(body.Data.MonthlyVolumeUSD))
	suite.Nil(body.Data.LastTransactionAt)
}

func (suite *APITestSuite) TestCheckLimit_Declined() {
	reason := domain.ReasonDailyCountReached
	decision := &domain.LimitDecision{
		CanProceed:      false,
		Reason:          &reason,
		Message:         "daily transaction limit reached",
		RemainingAmount: decimal.Zero,
	}
	suite.limits.On("CanMakeTransaction", mock.Anything, "user-1", decEq("250")).Return(decision, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/limits/check", map[string]any{"amountUsd": "250"}, "user-1")
	suite.Equal(http.StatusOK, w.Code)
	body := decodeBody[dto.LimitDecisionResponse](suite, w)
	suite.False(body.Data.CanProceed)
	suite.Require().NotNil(body.Data.Reason)
	suite.Equal(string(domain.ReasonDailyCountReached), *body.Data.Reason)
	suite.True(body.Data.RemainingAmount.IsZero())
}

func (suite *APITestSuite) TestCheckLimit_InvalidAmount() {
	suite.limits.On("CanMakeTransaction", mock.Anything, "user-1", decEq("-5")).
		Return(nil, apperrors.NewValidationError("amount must be positive")).Once()

	w := suite.do(http.MethodPost, "/api/v1/limits/check", map[string]any{"amountUsd": -5}, "user-1")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("amount must be positive", decodeBody[any](suite, w).Error)
}
