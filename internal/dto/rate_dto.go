package dto

import (
	"time"

	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/ecucondor/rates_backend/internal/utils"
	"github.com/shopspring/decimal"
)

// CalculateTransactionRequest prices an amount of the pair's base currency.
type CalculateTransactionRequest struct {
	Pair      string          `json:"pair" binding:"required,currency_pair"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Direction string          `json:"direction" binding:"required,oneof=buy sell"`
}

// ExchangeRateResponse defines the structure for API responses containing a published rate.
type ExchangeRateResponse struct {
	Pair           string           `json:"pair"`
	BaseCurrency   string           `json:"baseCurrency"`
	TargetCurrency string           `json:"targetCurrency"`
	RawRate        *decimal.Decimal `json:"rawRate"`
	SellRate       decimal.Decimal  `json:"sellRate"`
	BuyRate        decimal.Decimal  `json:"buyRate"`
	Spread         decimal.Decimal  `json:"spread"`
	SellCommission decimal.Decimal  `json:"sellCommission"`
	BuyCommission  decimal.Decimal  `json:"buyCommission"`
	LastUpdated    time.Time        `json:"lastUpdated"`
	Source         string           `json:"source"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		Pair:           rate.Pair,
		BaseCurrency:   rate.BaseCurrency,
		TargetCurrency: rate.TargetCurrency,
		RawRate:        rate.RawRate,
		SellRate:       rate.SellRate,
		BuyRate:        rate.BuyRate,
		Spread:         rate.Spread,
		SellCommission: rate.SellCommission,
		BuyCommission:  rate.BuyCommission,
		LastUpdated:    rate.LastUpdated,
		Source:         string(rate.Source),
	}
}

// ToListExchangeRateResponse converts a slice of domain rates.
func ToListExchangeRateResponse(rates []domain.ExchangeRate) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i, rate := range rates {
		responses[i] = ToExchangeRateResponse(rate)
	}
	return responses
}

// TransactionQuoteResponse is a priced transaction.
type TransactionQuoteResponse struct {
	Pair             string          `json:"pair"`
	Direction        string          `json:"direction"`
	Amount           decimal.Decimal `json:"amount"`
	SendAmount       decimal.Decimal `json:"sendAmount"`
	SendCurrency     string          `json:"sendCurrency"`
	ReceiveAmount    decimal.Decimal `json:"receiveAmount"`
	ReceiveCurrency  string          `json:"receiveCurrency"`
	Rate             decimal.Decimal `json:"rate"`
	Commission       decimal.Decimal `json:"commission"`
	CommissionAmount decimal.Decimal `json:"commissionAmount"`
}

// ToTransactionQuoteResponse converts a domain quote, rounding money amounts
// to the precision of their currency.
func ToTransactionQuoteResponse(q domain.TransactionQuote) TransactionQuoteResponse {
	base, _, _ := domain.SplitPair(q.Pair)
	return TransactionQuoteResponse{
		Pair:             q.Pair,
		Direction:        string(q.Direction),
		Amount:           q.Amount,
		SendAmount:       utils.RoundToCurrency(q.SendAmount, q.SendCurrency),
		SendCurrency:     q.SendCurrency,
		ReceiveAmount:    utils.RoundToCurrency(q.ReceiveAmount, q.ReceiveCurrency),
		ReceiveCurrency:  q.ReceiveCurrency,
		Rate:             q.Rate,
		Commission:       q.Commission,
		CommissionAmount: utils.RoundToCurrency(q.CommissionAmount, base),
	}
}
