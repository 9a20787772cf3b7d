package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RateSource tags how an ExchangeRate was produced.
type RateSource string

const (
	RateSourceMarket RateSource = "market"
	RateSourceFixed  RateSource = "fixed"
	RateSourceCross  RateSource = "cross"
)

// Direction is the side of the trade from the customer's point of view.
// DirectionSell means the customer hands over the base currency.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	return d == DirectionBuy || d == DirectionSell
}

// ParseDirection normalises user input into a Direction.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown direction %q", s)
	}
	return d, nil
}

// ExchangeRate is the published rate of a currency pair. Values are never
// mutated after construction; a refresh replaces the whole set.
type ExchangeRate struct {
	Pair           string           `json:"pair"` // e.g. "USD-ARS"
	BaseCurrency   string           `json:"baseCurrency"`
	TargetCurrency string           `json:"targetCurrency"`
	RawRate        *decimal.Decimal `json:"rawRate,omitempty"` // nil for fixed pairs
	SellRate       decimal.Decimal  `json:"sellRate"`
	BuyRate        decimal.Decimal  `json:"buyRate"`
	Spread         decimal.Decimal  `json:"spread"` // BuyRate - SellRate, any sign
	SellCommission decimal.Decimal  `json:"sellCommission"`
	BuyCommission  decimal.Decimal  `json:"buyCommission"`
	LastUpdated    time.Time        `json:"lastUpdated"`
	Source         RateSource       `json:"source"`
}

// RateFor returns the rate applied to a trade in the given direction.
func (r ExchangeRate) RateFor(d Direction) decimal.Decimal {
	if d == DirectionBuy {
		return r.BuyRate
	}
	return r.SellRate
}

// CommissionFor returns the commission fraction applied in the given direction.
func (r ExchangeRate) CommissionFor(d Direction) decimal.Decimal {
	if d == DirectionBuy {
		return r.BuyCommission
	}
	return r.SellCommission
}

// TransactionQuote is the result of pricing an amount on a pair.
// Amount is always denominated in the base currency of the pair.
type TransactionQuote struct {
	Pair             string          `json:"pair"`
	Direction        Direction       `json:"direction"`
	Amount           decimal.Decimal `json:"amount"`
	SendAmount       decimal.Decimal `json:"sendAmount"`
	SendCurrency     string          `json:"sendCurrency"`
	ReceiveAmount    decimal.Decimal `json:"receiveAmount"`
	ReceiveCurrency  string          `json:"receiveCurrency"`
	Rate             decimal.Decimal `json:"rate"`
	Commission       decimal.Decimal `json:"commission"`
	CommissionAmount decimal.Decimal `json:"commissionAmount"` // in base currency
}

// Quote prices amount (base currency) at rate with the given commission fraction.
//
// sell: the customer sends amount of base and receives (amount - commission) * rate of target.
// buy: the customer receives amount of base and sends (amount + commission) * rate of target.
func Quote(pair, base, target string, d Direction, amount, rate, commission decimal.Decimal) TransactionQuote {
	commissionAmount := amount.Mul(commission)
	q := TransactionQuote{
		Pair:             pair,
		Direction:        d,
		Amount:           amount,
		Rate:             rate,
		Commission:       commission,
		CommissionAmount: commissionAmount,
	}
	if d == DirectionBuy {
		q.SendAmount = amount.Add(commissionAmount).Mul(rate)
		q.SendCurrency = target
		q.ReceiveAmount = amount
		q.ReceiveCurrency = base
		return q
	}
	q.SendAmount = amount
	q.SendCurrency = base
	q.ReceiveAmount = amount.Sub(commissionAmount).Mul(rate)
	q.ReceiveCurrency = target
	return q
}

// SplitPair splits "USD-ARS" into its base and target currency codes.
func SplitPair(pair string) (base, target string, ok bool) {
	parts := strings.Split(NormalizePair(pair), "-")
	if len(parts) != 2 || !isCurrencyCode(parts[0]) || !isCurrencyCode(parts[1]) {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// isCurrencyCode accepts ISO codes and 4-letter stablecoin tickers like USDT.
func isCurrencyCode(code string) bool {
	if len(code) != 3 && len(code) != 4 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// NormalizePair upper-cases and trims a pair key.
func NormalizePair(pair string) string {
	return strings.ToUpper(strings.TrimSpace(pair))
}
