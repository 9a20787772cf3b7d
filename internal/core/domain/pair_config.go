package domain

import "github.com/shopspring/decimal"

// PairConfig is the static pricing configuration of one pair.
//
// Market pairs read Symbol from the price feed. Fixed pairs always resolve to
// FixedRate. Cross pairs are derived from two USD legs: BaseLeg quotes the
// pair's base currency against USD and QuoteLeg its target currency.
type PairConfig struct {
	Pair           string
	Base           string
	Target         string
	Source         RateSource
	Symbol         string
	FixedRate      decimal.Decimal
	BaseLeg        string
	QuoteLeg       string
	SellAdjustment decimal.Decimal
	BuyAdjustment  decimal.Decimal
	SellCommission decimal.Decimal
	BuyCommission  decimal.Decimal
}
