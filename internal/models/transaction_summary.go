package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionSummary is the stored per-user usage counter row.
type TransactionSummary struct {
	UserID                string          `json:"userID" db:"user_id"`
	MonthlyVolumeUSD      decimal.Decimal `json:"monthlyVolumeUSD" db:"monthly_volume_usd"`
	DailyVolumeUSD        decimal.Decimal `json:"dailyVolumeUSD" db:"daily_volume_usd"`
	DailyTransactionCount int             `json:"dailyTransactionCount" db:"daily_transaction_count"`
	LastTransactionAt     *time.Time      `json:"lastTransactionAt,omitempty" db:"last_transaction_at"`
	UpdatedAt             time.Time       `json:"updatedAt" db:"updated_at"`
}
