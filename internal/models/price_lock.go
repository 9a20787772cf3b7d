package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceLock is the stored form of a price lock, shared by the SQL and Redis stores.
type PriceLock struct {
	LockID    string          `json:"lockID" db:"lock_id"`
	UserID    string          `json:"userID" db:"user_id"`
	Pair      string          `json:"pair" db:"pair"`
	Rate      decimal.Decimal `json:"rate" db:"rate"`
	AmountUSD decimal.Decimal `json:"amountUSD" db:"amount_usd"`
	Direction string          `json:"direction" db:"direction"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	ExpiresAt time.Time       `json:"expiresAt" db:"expires_at"`
	Used      bool            `json:"used" db:"used"`
	UsedAt    *time.Time      `json:"usedAt,omitempty" db:"used_at"`
}
