package config

import (
	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultPairs is the pricing table shipped with the service. Adjustments and
// commissions can be overridden per pair through PAIR_<BASE>_<TARGET>_* settings.
func DefaultPairs() map[string]domain.PairConfig {
	pairs := []domain.PairConfig{
		{
			Pair:           "USD-ARS",
			Base:           "USD",
			Target:         "ARS",
			Source:         domain.RateSourceMarket,
			Symbol:         "USDTARS",
			SellAdjustment: decimal.NewFromInt(-20),
			BuyAdjustment:  decimal.NewFromInt(20),
			SellCommission: decimal.RequireFromString("0.03"),
			BuyCommission:  decimal.Zero,
		},
		{
			Pair:           "USD-BRL",
			Base:           "USD",
			Target:         "BRL",
			Source:         domain.RateSourceMarket,
			Symbol:         "USDTBRL",
			SellAdjustment: decimal.RequireFromString("-0.10"),
			BuyAdjustment:  decimal.RequireFromString("0.10"),
			SellCommission: decimal.RequireFromString("0.03"),
			BuyCommission:  decimal.Zero,
		},
		{
			Pair:           "ARS-BRL",
			Base:           "ARS",
			Target:         "BRL",
			Source:         domain.RateSourceCross,
			BaseLeg:        "USD-ARS",
			QuoteLeg:       "USD-BRL",
			SellAdjustment: decimal.Zero,
			BuyAdjustment:  decimal.Zero,
			SellCommission: decimal.Zero,
			BuyCommission:  decimal.Zero,
		},
		{
			Pair:           "USDT-USD",
			Base:           "USDT",
			Target:         "USD",
			Source:         domain.RateSourceFixed,
			FixedRate:      decimal.NewFromInt(1),
			SellAdjustment: decimal.Zero,
			BuyAdjustment:  decimal.Zero,
			SellCommission: decimal.Zero,
			BuyCommission:  decimal.Zero,
		},
	}

	table := make(map[string]domain.PairConfig, len(pairs))
	for _, p := range pairs {
		table[p.Pair] = p
	}
	return table
}
