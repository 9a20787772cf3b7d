package mapping

import (
	"time"

	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/ecucondor/rates_backend/internal/models"
)

// ToModelTransactionSummary converts a domain summary to its stored form
func ToModelTransactionSummary(d domain.UserTransactionSummary, updatedAt time.Time) models.TransactionSummary {
	return models.TransactionSummary{
		UserID:                d.UserID,
		MonthlyVolumeUSD:      d.MonthlyVolumeUSD,
		DailyVolumeUSD:        d.DailyVolumeUSD,
		DailyTransactionCount: d.DailyTransactionCount,
		LastTransactionAt:     d.LastTransactionAt,
		UpdatedAt:             updatedAt,
	}
}

// ToDomainTransactionSummary converts a stored summary to the domain type
func ToDomainTransactionSummary(m models.TransactionSummary) domain.UserTransactionSummary {
	return domain.UserTransactionSummary{
		UserID:                m.UserID,
		MonthlyVolumeUSD:      m.MonthlyVolumeUSD,
		DailyVolumeUSD:        m.DailyVolumeUSD,
		DailyTransactionCount: m.DailyTransactionCount,
		LastTransactionAt:     m.LastTransactionAt,
	}
}
