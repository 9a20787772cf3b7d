package domain

import (
	"time"

	"github.com/ecucondor/rates_backend/internal/utils"
	"github.com/shopspring/decimal"
)

// TransactionLimits are the deployment-wide limits, read-only at runtime.
type TransactionLimits struct {
	MinAmountUSD         decimal.Decimal `json:"minAmountUsd"`
	MaxAmountUSD         decimal.Decimal `json:"maxAmountUsd"`
	MaxMonthlyUSD        decimal.Decimal `json:"maxMonthlyUsd"`
	MaxDailyTransactions int             `json:"maxDailyTransactions"`
}

// UserTransactionSummary is the rolling usage of a single user.
type UserTransactionSummary struct {
	UserID                string          `json:"userId"`
	MonthlyVolumeUSD      decimal.Decimal `json:"monthlyVolumeUsd"`
	DailyVolumeUSD        decimal.Decimal `json:"dailyVolumeUsd"`
	DailyTransactionCount int             `json:"dailyTransactionCount"`
	LastTransactionAt     *time.Time      `json:"lastTransactionAt,omitempty"`
}

// NewUserTransactionSummary returns the all-zero summary for a user without history.
func NewUserTransactionSummary(userID string) UserTransactionSummary {
	return UserTransactionSummary{
		UserID:           userID,
		MonthlyVolumeUSD: decimal.Zero,
		DailyVolumeUSD:   decimal.Zero,
	}
}

// RolledOver returns a copy of s with counters zeroed for every calendar
// boundary crossed between the last transaction and now. Both instants are
// compared as calendar dates in loc.
func (s UserTransactionSummary) RolledOver(now time.Time, loc *time.Location) UserTransactionSummary {
	if s.LastTransactionAt == nil {
		return s
	}
	last := s.LastTransactionAt.In(loc)
	cur := now.In(loc)
	ly, lm, ld := last.Date()
	cy, cm, cd := cur.Date()

	out := s
	if ly != cy || lm != cm {
		out.MonthlyVolumeUSD = decimal.Zero
	}
	if ly != cy || lm != cm || ld != cd {
		out.DailyVolumeUSD = decimal.Zero
		out.DailyTransactionCount = 0
	}
	return out
}

// Record accumulates one transaction. The caller applies RolledOver first.
func (s UserTransactionSummary) Record(amountUSD decimal.Decimal, at time.Time) UserTransactionSummary {
	out := s
	out.MonthlyVolumeUSD = s.MonthlyVolumeUSD.Add(amountUSD)
	out.DailyVolumeUSD = s.DailyVolumeUSD.Add(amountUSD)
	out.DailyTransactionCount = s.DailyTransactionCount + 1
	t := at
	out.LastTransactionAt = &t
	return out
}

// LimitReason identifies which constraint rejected a transaction.
type LimitReason string

const (
	ReasonBelowMinimum      LimitReason = "amount_below_minimum"
	ReasonAboveMaximum      LimitReason = "amount_above_maximum"
	ReasonDailyCountReached LimitReason = "daily_transaction_limit_reached"
	ReasonMonthlyExceeded   LimitReason = "monthly_limit_exceeded"
)

// LimitDecision is the outcome of an admission check.
type LimitDecision struct {
	CanProceed      bool            `json:"canProceed"`
	Reason          *LimitReason    `json:"reason"`
	Message         string          `json:"message,omitempty"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
}

// Evaluate applies the limits to a proposed amount, in order: per-transaction
// bounds, daily count, monthly volume. The first failing check wins.
func (l TransactionLimits) Evaluate(s UserTransactionSummary, amountUSD decimal.Decimal) LimitDecision {
	const usd = "USD"
	remainingMonthly := decimal.Max(l.MaxMonthlyUSD.Sub(s.MonthlyVolumeUSD), decimal.Zero)
	remaining := l.Headroom(s)

	reject := func(reason LimitReason, msg string) LimitDecision {
		r := reason
		return LimitDecision{CanProceed: false, Reason: &r, Message: msg, RemainingAmount: remaining}
	}

	switch {
	case amountUSD.LessThan(l.MinAmountUSD):
		return reject(ReasonBelowMinimum, "minimum amount per transaction is "+utils.FormatWithCurrencyPrecision(l.MinAmountUSD, usd)+" USD")
	case amountUSD.GreaterThan(l.MaxAmountUSD):
		return reject(ReasonAboveMaximum, "maximum amount per transaction is "+utils.FormatWithCurrencyPrecision(l.MaxAmountUSD, usd)+" USD")
	case s.DailyTransactionCount >= l.MaxDailyTransactions:
		return reject(ReasonDailyCountReached, "daily transaction limit reached")
	case s.MonthlyVolumeUSD.Add(amountUSD).GreaterThan(l.MaxMonthlyUSD):
		return reject(ReasonMonthlyExceeded, "monthly limit exceeded, remaining "+utils.FormatWithCurrencyPrecision(remainingMonthly, usd)+" USD")
	}
	return LimitDecision{CanProceed: true, RemainingAmount: remaining}
}

// Headroom is the largest amount a single transaction could still have:
// the smaller of the remaining monthly volume and the per-transaction maximum,
// or zero once the daily transaction count is exhausted.
func (l TransactionLimits) Headroom(s UserTransactionSummary) decimal.Decimal {
	if s.DailyTransactionCount >= l.MaxDailyTransactions {
		return decimal.Zero
	}
	remainingMonthly := decimal.Max(l.MaxMonthlyUSD.Sub(s.MonthlyVolumeUSD), decimal.Zero)
	return decimal.Min(remainingMonthly, l.MaxAmountUSD)
}

// LimitUsage is a max/used/remaining triple.
type LimitUsage struct {
	Max       decimal.Decimal `json:"max"`
	Used      decimal.Decimal `json:"used"`
	Remaining decimal.Decimal `json:"remaining"`
}

// CountUsage is LimitUsage for counters.
type CountUsage struct {
	Max       int `json:"max"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

// AmountBounds are the per-transaction bounds.
type AmountBounds struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// LimitsStatus is the headroom view of a user against the deployment limits.
type LimitsStatus struct {
	Monthly           LimitUsage   `json:"monthly"`
	DailyTransactions CountUsage   `json:"dailyTransactions"`
	PerTransaction    AmountBounds `json:"perTransaction"`
}

// Status derives the headroom of s against l.
func (l TransactionLimits) Status(s UserTransactionSummary) LimitsStatus {
	remainingCount := l.MaxDailyTransactions - s.DailyTransactionCount
	if remainingCount < 0 {
		remainingCount = 0
	}
	return LimitsStatus{
		Monthly: LimitUsage{
			Max:       l.MaxMonthlyUSD,
			Used:      s.MonthlyVolumeUSD,
			Remaining: decimal.Max(l.MaxMonthlyUSD.Sub(s.MonthlyVolumeUSD), decimal.Zero),
		},
		DailyTransactions: CountUsage{
			Max:       l.MaxDailyTransactions,
			Used:      s.DailyTransactionCount,
			Remaining: remainingCount,
		},
		PerTransaction: AmountBounds{Min: l.MinAmountUSD, Max: l.MaxAmountUSD},
	}
}
