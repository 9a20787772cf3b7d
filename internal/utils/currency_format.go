package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultPrecision is used for currencies missing from the precision table.
const DefaultPrecision = 2

// RatePrecision is the number of decimals published rates carry.
const RatePrecision = 8

var currencyPrecision = map[string]int32{
	"USD":  2,
	"USDT": 2,
	"ARS":  2,
	"BRL":  2,
}

// PrecisionOf returns the number of minor units of a currency code.
func PrecisionOf(code string) int32 {
	if p, ok := currencyPrecision[strings.ToUpper(code)]; ok {
		return p
	}
	return DefaultPrecision
}

// RoundToCurrency rounds an amount to the precision of the given currency.
// Example: 95060.004 ARS returns 95060
func RoundToCurrency(amount decimal.Decimal, code string) decimal.Decimal {
	return amount.Round(PrecisionOf(code))
}

// FormatWithCurrencyPrecision formats an amount with the correct precision for a given currency
// Example: amount 12.3456 with USD returns "12.35"
func FormatWithCurrencyPrecision(amount decimal.Decimal, code string) string {
	return amount.StringFixed(PrecisionOf(code))
}
