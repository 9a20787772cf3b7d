package handlers_test

import (
	"errors"
	"net/http"
	"time"

	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/ecucondor/rates_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func sampleLock(userID string, rate string, direction domain.Direction) *domain.PriceLock {
	now := time.Now().UTC()
	return &domain.PriceLock{
		ID:        uuid.NewString(),
		UserID:    userID,
		Pair:      "USD-ARS",
		Rate:      decimal.RequireFromString(rate),
		AmountUSD: decimal.NewFromInt(100),
		Direction: direction,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.DefaultPriceLockDuration),
	}
}

func (suite *APITestSuite) TestCreatePriceLock_UsesDirectionRate() {
	rate := sampleRate("USD-ARS", "980", "1000")
	lock := sampleLock("user-1", "1000", domain.DirectionBuy)
	suite.rates.On("EnsureFresh", mock.Anything, false).Return(nil).Once()
	suite.rates.On("GetRate", mock.Anything, "usd-ars").Return(&rate, nil).Once()
	suite.locks.On("CreatePriceLock", mock.Anything, "user-1", "USD-ARS", decEq("1000"), decEq("100"), domain.DirectionBuy).
		Return(lock, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/price-locks", map[string]any{
		"pair": "usd-ars", "amountUsd": "100", "direction": "buy",
	}, "user-1")
	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody[dto.PriceLockResponse](suite, w)
	suite.Equal(lock.ID, body.Data.ID)
	suite.True(body.Data.Status.Valid)
	suite.Require().NotNil(body.Data.Status.ExpiresInMinutes)
	suite.Equal(15, *body.Data.Status.ExpiresInMinutes)
}

func (suite *APITestSuite) TestCreatePriceLock_RateUnavailable() {
	suite.rates.On("EnsureFresh", mock.Anything, false).Return(apperrors.ErrUpstreamUnavailable).Once()
	suite.rates.On("GetRate", mock.Anything, "USD-BRL").Return(nil, apperrors.ErrUpstreamUnavailable).Once()

	w := suite.do(http.MethodPost, "/api/v1/price-locks", map[string]any{
		"pair": "USD-BRL", "amountUsd": "100", "direction": "sell",
	}, "user-1")
	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.locks.AssertNotCalled(suite.T(), "CreatePriceLock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *APITestSuite) TestListActivePriceLocks() {
	locks := []domain.PriceLock{*sampleLock("user-1", "980", domain.DirectionSell), *sampleLock("user-1", "990", domain.DirectionSell)}
	suite.locks.On("GetUserActivePriceLocks", mock.Anything, "user-1").Return(locks, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/price-locks", nil, "user-1")
	suite.Equal(http.StatusOK, w.Code)
	body := decodeBody[[]dto.PriceLockResponse](suite, w)
	suite.Require().Len(body.Data, 2)
	suite.Equal(locks[0].ID, body.Data[0].ID)
}

func (suite *APITestSuite) TestGetPriceLock() {
	lock := sampleLock("user-1", "980", domain.DirectionSell)
	minutes := 12
	status := &domain.PriceLockStatus{Valid: true, ExpiresInMinutes: &minutes, Rate: &lock.Rate}
	suite.locks.On("GetPriceLock", mock.Anything, lock.ID).Return(lock, nil).Once()
	suite.locks.On("GetPriceLockStatus", mock.Anything, lock.ID).Return(status, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/price-locks/"+lock.ID, nil, "user-1")
	suite.Equal(http.StatusOK, w.Code)
	body := decodeBody[dto.PriceLockResponse](suite, w)
	suite.Require().NotNil(body.Data.Status.ExpiresInMinutes)
	suite.Equal(12, *body.Data.Status.ExpiresInMinutes)
}

func (suite *APITestSuite) TestGetPriceLock_NotOwner() {
	lock := sampleLock("user-2", "980", domain.DirectionSell)
	suite.locks.On("GetPriceLock", mock.Anything, lock.ID).Return(lock, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/price-locks/"+lock.ID, nil, "user-1")
	suite.Equal(http.StatusForbidden, w.Code)
	suite.locks.AssertNotCalled(suite.T(), "GetPriceLockStatus", mock.Anything, mock.Anything)
}

func (suite *APITestSuite) TestGetPriceLock_NotFound() {
	suite.locks.On("GetPriceLock", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("price lock missing not found")).Once()

	w := suite.do(http.MethodGet, "/api/v1/price-locks/missing", nil, "user-1")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestCancelPriceLock() {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"cancelled", nil, http.StatusNoContent},
		{"not owner", apperrors.NewForbiddenError("price lock belongs to another user"), http.StatusForbidden},
		{"already used", apperrors.NewConflictError("price lock already used or expired"), http.StatusConflict},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			lockID := uuid.NewString()
			suite.locks.On("CancelPriceLock", mock.Anything, lockID, "user-1").Return(tt.err).Once()

			w := suite.do(http.MethodDelete, "/api/v1/price-locks/"+lockID, nil, "user-1")
			suite.Equal(tt.status, w.Code)
			if tt.status == http.StatusInternalServerError {
				body := decodeBody[any](suite, w)
				suite.Equal("Internal server error", body.Error)
				suite.NotEmpty(body.RequestID)
			}
		})
	}
}
