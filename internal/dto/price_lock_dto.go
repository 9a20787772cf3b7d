package dto

import (
	"time"

	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePriceLockRequest freezes the current rate of a pair for an amount.
type CreatePriceLockRequest struct {
	Pair      string          `json:"pair" binding:"required,currency_pair"`
	AmountUSD decimal.Decimal `json:"amountUsd" binding:"required"`
	Direction string          `json:"direction" binding:"required,oneof=buy sell"`
}

// PriceLockResponse is a lock plus its status at response time.
type PriceLockResponse struct {
	ID        string                 `json:"id"`
	Pair      string                 `json:"pair"`
	Rate      decimal.Decimal        `json:"rate"`
	AmountUSD decimal.Decimal        `json:"amountUsd"`
	Direction string                 `json:"direction"`
	CreatedAt time.Time              `json:"createdAt"`
	ExpiresAt time.Time              `json:"expiresAt"`
	Used      bool                   `json:"used"`
	UsedAt    *time.Time             `json:"usedAt,omitempty"`
	Status    domain.PriceLockStatus `json:"status"`
}

// ToPriceLockResponse converts a lock, evaluating its status at now.
func ToPriceLockResponse(l domain.PriceLock, now time.Time) PriceLockResponse {
	return PriceLockResponse{
		ID:        l.ID,
		Pair:      l.Pair,
		Rate:      l.Rate,
		AmountUSD: l.AmountUSD,
		Direction: string(l.Direction),
		CreatedAt: l.CreatedAt,
		ExpiresAt: l.ExpiresAt,
		Used:      l.Used,
		UsedAt:    l.UsedAt,
		Status:    l.Status(now),
	}
}

// ToListPriceLockResponse converts a slice of locks.
func ToListPriceLockResponse(locks []domain.PriceLock, now time.Time) []PriceLockResponse {
	out := make([]PriceLockResponse, len(locks))
	for i, l := range locks {
		out[i] = ToPriceLockResponse(l, now)
	}
	return out
}
