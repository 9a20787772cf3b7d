package handlers_test

import (
	"net/http"

	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/ecucondor/rates_backend/internal/core/domain"
	portssvc "github.com/ecucondor/rates_backend/internal/core/ports/services"
	"github.com/ecucondor/rates_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *APITestSuite) TestExecuteTransaction() {
	lock := sampleLock("user-1", "980", domain.DirectionSell)
	lock.Used = true
	quote := domain.Quote("USD-ARS", "USD", "ARS", domain.DirectionSell, lock.AmountUSD, lock.Rate, decimal.RequireFromString("0.03"))
	summary := domain.NewUserTransactionSummary("user-1").Record(lock.AmountUSD, lock.CreatedAt)
	result := &portssvc.ExchangeResult{
		Executed: true,
		Lock:     lock,
		Quote:    &quote,
		Decision: &domain.LimitDecision{CanProceed: true, RemainingAmount: decimal.NewFromInt(5000)},
		Summary:  &summary,
	}
	suite.exchange.On("Execute", mock.Anything, "user-1", lock.ID).Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions", map[string]any{"lockId": lock.ID}, "user-1")
	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody[dto.ExecuteTransactionResponse](suite, w)
	suite.True(body.Data.Executed)
	suite.Require().NotNil(body.Data.Quote)
	suite.True(decimal.NewFromInt(95060).Equal(body.Data.Quote.ReceiveAmount))
	suite.Require().NotNil(body.Data.Lock)
	suite.False(body.Data.Lock.Status.Valid)
	suite.Require().NotNil(body.Data.Summary)
	suite.Equal(1, body.Data.Summary.DailyTransactionCount)
}

func (suite *APITestSuite) TestExecuteTransaction_Declined() {
	lock := sampleLock("user-1", "980", domain.DirectionSell)
	reason := domain.ReasonMonthlyExceeded
	result := &portssvc.ExchangeResult{
		Lock:     lock,
		Decision: &domain.LimitDecision{Reason: &reason, Message: "monthly limit exceeded", RemainingAmount: decimal.NewFromInt(40)},
	}
	suite.exchange.On("Execute", mock.Anything, "user-1", lock.ID).Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions", map[string]any{"lockId": lock.ID}, "user-1")
	suite.Equal(http.StatusOK, w.Code)
	body := decodeBody[dto.ExecuteTransactionResponse](suite, w)
	suite.False(body.Data.Executed)
	suite.Nil(body.Data.Quote)
	suite.Require().NotNil(body.Data.Decision.Reason)
	suite.Equal(string(domain.ReasonMonthlyExceeded), *body.Data.Decision.Reason)
}

func (suite *APITestSuite) TestExecuteTransaction_Errors() {
	suite.exchange.On("Execute", mock.Anything, "user-1", "used").Return(nil, apperrors.NewConflictError("price lock expired or used")).Once()
	suite.exchange.On("Execute", mock.Anything, "user-1", "theirs").Return(nil, apperrors.NewForbiddenError("price lock belongs to another user")).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions", map[string]any{"lockId": "used"}, "user-1")
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("price lock expired or used", decodeBody[any](suite, w).Error)

	w = suite.do(http.MethodPost, "/api/v1/transactions", map[string]any{"lockId": "theirs"}, "user-1")
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/transactions", map[string]any{}, "user-1")
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/transactions", map[string]any{"lockId": "x"}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
}
