package mapping

import (
	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/ecucondor/rates_backend/internal/models"
)

// ToModelPriceLock converts a domain PriceLock to a model PriceLock
func ToModelPriceLock(d domain.PriceLock) models.PriceLock {
	return models.PriceLock{
		LockID:    d.ID,
		UserID:    d.UserID,
		Pair:      d.Pair,
		Rate:      d.Rate,
		AmountUSD: d.AmountUSD,
		Direction: string(d.Direction),
		CreatedAt: d.CreatedAt,
		ExpiresAt: d.ExpiresAt,
		Used:      d.Used,
		UsedAt:    d.UsedAt,
	}
}

// ToDomainPriceLock converts a model PriceLock to a domain PriceLock
func ToDomainPriceLock(m models.PriceLock) domain.PriceLock {
	return domain.PriceLock{
		ID:        m.LockID,
		UserID:    m.UserID,
		Pair:      m.Pair,
		Rate:      m.Rate,
		AmountUSD: m.AmountUSD,
		Direction: domain.Direction(m.Direction),
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
		Used:      m.Used,
		UsedAt:    m.UsedAt,
	}
}

// ToDomainPriceLocks converts a slice of model PriceLocks
func ToDomainPriceLocks(ms []models.PriceLock) []domain.PriceLock {
	out := make([]domain.PriceLock, len(ms))
	for i, m := range ms {
		out[i] = ToDomainPriceLock(m)
	}
	return out
}
