package dto

import (
	"time"

	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CheckLimitRequest asks whether a USD amount would be admitted now.
type CheckLimitRequest struct {
	AmountUSD decimal.Decimal `json:"amountUsd" binding:"required"`
}

// LimitDecisionResponse is the outcome of an admission check.
type LimitDecisionResponse struct {
	CanProceed      bool            `json:"canProceed"`
	Reason          *string         `json:"reason"`
	Message         string          `json:"message,omitempty"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
}

// ToLimitDecisionResponse converts a domain decision.
func ToLimitDecisionResponse(d domain.LimitDecision) LimitDecisionResponse {
	resp := LimitDecisionResponse{
		CanProceed:      d.CanProceed,
		Message:         d.Message,
		RemainingAmount: d.RemainingAmount,
	}
	if d.Reason != nil {
		reason := string(*d.Reason)
		resp.Reason = &reason
	}
	return resp
}

// TransactionSummaryResponse is a user's current usage.
type TransactionSummaryResponse struct {
	UserID                string          `json:"userId"`
	MonthlyVolumeUSD      decimal.Decimal `json:"monthlyVolumeUsd"`
	DailyVolumeUSD        decimal.Decimal `json:"dailyVolumeUsd"`
	DailyTransactionCount int             `json:"dailyTransactionCount"`
	LastTransactionAt     *time.Time      `json:"lastTransactionAt"`
}

// ToTransactionSummaryResponse converts a domain summary.
func ToTransactionSummaryResponse(s domain.UserTransactionSummary) TransactionSummaryResponse {
	return TransactionSummaryResponse{
		UserID:                s.UserID,
		MonthlyVolumeUSD:      s.MonthlyVolumeUSD,
		DailyVolumeUSD:        s.DailyVolumeUSD,
		DailyTransactionCount: s.DailyTransactionCount,
		LastTransactionAt:     s.LastTransactionAt,
	}
}

// LimitsStatusResponse mirrors domain.LimitsStatus.
type LimitsStatusResponse = domain.LimitsStatus
