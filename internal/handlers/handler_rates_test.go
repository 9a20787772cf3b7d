package handlers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/ecucondor/rates_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func sampleRate(pair string, sell, buy string) domain.ExchangeRate {
	base, target, _ := domain.SplitPair(pair)
	s, b := decimal.RequireFromString(sell), decimal.RequireFromString(buy)
	return domain.ExchangeRate{
		Pair:           pair,
		BaseCurrency:   base,
		TargetCurrency: target,
		SellRate:       s,
		BuyRate:        b,
		Spread:         b.Sub(s),
		SellCommission: decimal.RequireFromString("0.03"),
		BuyCommission:  decimal.RequireFromString("0.03"),
		LastUpdated:    time.Now().UTC(),
		Source:         domain.RateSourceMarket,
	}
}

func (suite *APITestSuite) TestHealth() {
	last := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	suite.rates.On("IsHealthy").Return(false).Once()
	suite.rates.On("LastRefresh").Return(last).Once()

	w := suite.do(http.MethodGet, "/health", nil, "")
	suite.Equal(http.StatusOK, w.Code)

	var body dto.HealthResponse
	suite.Require().NoError(jsonUnmarshal(w, &body))
	suite.Equal("degraded", body.Status)
	suite.False(body.RatesHealthy)
	suite.Require().NotNil(body.LastRefresh)
	suite.True(last.Equal(*body.LastRefresh))
}

func (suite *APITestSuite) TestListRates() {
	suite.rates.On("GetAllRates", mock.Anything).Return([]domain.ExchangeRate{
		sampleRate("USD-ARS", "980", "1000"),
		sampleRate("USD-BRL", "5.2", "5.4"),
	}).Once()

	w := suite.do(http.MethodGet, "/api/v1/rates", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	body := decodeBody[[]dto.ExchangeRateResponse](suite, w)
	suite.Len(body.Data, 2)
	suite.Equal("market", body.Data[0].Source)
	suite.rates.AssertNotCalled(suite.T(), "EnsureFresh", mock.Anything, mock.Anything)
}

func (suite *APITestSuite) TestListRates_ForcedRefreshFailureServesCache() {
	suite.rates.On("EnsureFresh", mock.Anything, true).Return(fmt.Errorf("%w: all 2 market pairs failed", apperrors.ErrUpstreamUnavailable)).Once()
	suite.rates.On("GetAllRates", mock.Anything).Return([]domain.ExchangeRate{sampleRate("USD-ARS", "980", "1000")}).Once()

	w := suite.do(http.MethodGet, "/api/v1/rates?refresh=true", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Len(decodeBody[[]dto.ExchangeRateResponse](suite, w).Data, 1)
}

func (suite *APITestSuite) TestListRates_EmptyCache() {
	suite.rates.On("GetAllRates", mock.Anything).Return([]domain.ExchangeRate{}).Once()

	w := suite.do(http.MethodGet, "/api/v1/rates", nil, "")
	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *APITestSuite) TestGetRate() {
	rate := sampleRate("USD-ARS", "980", "1000")
	suite.rates.On("GetRate", mock.Anything, "USD-ARS").Return(&rate, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/rates/USD-ARS", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	body := decodeBody[dto.ExchangeRateResponse](suite, w)
	suite.True(decimal.NewFromInt(980).Equal(body.Data.SellRate))
	suite.True(decimal.NewFromInt(20).Equal(body.Data.Spread))
}

func (suite *APITestSuite) TestGetRate_Errors() {
	suite.rates.On("GetRate", mock.Anything, "EUR-JPY").Return(nil, apperrors.NewNotFoundError("pair EUR-JPY is not supported")).Once()
	suite.rates.On("GetRate", mock.Anything, "USD-BRL").Return(nil, fmt.Errorf("%w: rate for USD-BRL is not available yet", apperrors.ErrUpstreamUnavailable)).Once()

	w := suite.do(http.MethodGet, "/api/v1/rates/EUR-JPY", nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("pair EUR-JPY is not supported", decodeBody[any](suite, w).Error)

	w = suite.do(http.MethodGet, "/api/v1/rates/USD-BRL", nil, "")
	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.NotContains(decodeBody[any](suite, w).Error, "USD-BRL")
}

func (suite *APITestSuite) TestCalculateTransaction() {
	quote := domain.Quote("USD-ARS", "USD", "ARS", domain.DirectionSell,
		decimal.NewFromInt(100), decimal.NewFromInt(980), decimal.RequireFromString("0.03"))
	suite.rates.On("CalculateTransaction", mock.Anything, "usd-ars", decEq("100"), domain.DirectionSell).Return(&quote, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/rates/calculate", map[string]any{
		"pair": "usd-ars", "amount": 100, "direction": "sell",
	}, "")
	suite.Equal(http.StatusOK, w.Code)
	body := decodeBody[dto.TransactionQuoteResponse](suite, w)
	suite.True(decimal.NewFromInt(95060).Equal(body.Data.ReceiveAmount), body.Data.ReceiveAmount.String())
	suite.Equal("ARS", body.Data.ReceiveCurrency)
	suite.True(decimal.NewFromInt(3).Equal(body.Data.CommissionAmount))
}

func (suite *APITestSuite) TestCalculateTransaction_InvalidInput() {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"malformed pair", map[string]any{"pair": "USDARS", "amount": 100, "direction": "sell"}},
		{"unknown direction", map[string]any{"pair": "USD-ARS", "amount": 100, "direction": "hold"}},
		{"missing pair", map[string]any{"amount": 100, "direction": "buy"}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, "/api/v1/rates/calculate", tt.body, "")
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.rates.AssertNotCalled(suite.T(), "CalculateTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
