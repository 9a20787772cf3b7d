package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPriceLockDuration is how long a lock freezes a rate unless configured otherwise.
const DefaultPriceLockDuration = 15 * time.Minute

// PriceLock freezes a rate and amount for a user between quote and execution.
type PriceLock struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Pair      string          `json:"pair"`
	Rate      decimal.Decimal `json:"rate"`
	AmountUSD decimal.Decimal `json:"amountUsd"`
	Direction Direction       `json:"direction"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Used      bool            `json:"used"`
	UsedAt    *time.Time      `json:"usedAt,omitempty"`
}

// USDDenominated reports whether amounts in code count 1:1 against the USD limits.
func USDDenominated(code string) bool {
	return code == "USD" || code == "USDT"
}

// Expired reports whether the lock's window has closed, regardless of Used.
func (l PriceLock) Expired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}

// Valid reports whether the lock can still be consumed at now.
func (l PriceLock) Valid(now time.Time) bool {
	return !l.Used && !l.Expired(now)
}

// PriceLockStatus is the read-time view of a lock.
type PriceLockStatus struct {
	Valid            bool             `json:"valid"`
	Expired          bool             `json:"expired"`
	ExpiresInMinutes *int             `json:"expiresInMinutes"`
	Rate             *decimal.Decimal `json:"rate"`
}

// Status evaluates the lock at now. A nil lock yields the unknown-lock status.
func (l *PriceLock) Status(now time.Time) PriceLockStatus {
	if l == nil {
		return PriceLockStatus{}
	}
	st := PriceLockStatus{
		Valid:   l.Valid(now),
		Expired: l.Expired(now),
	}
	if st.Valid {
		minutes := int(math.Ceil(l.ExpiresAt.Sub(now).Minutes()))
		rate := l.Rate
		st.ExpiresInMinutes = &minutes
		st.Rate = &rate
	}
	return st
}
