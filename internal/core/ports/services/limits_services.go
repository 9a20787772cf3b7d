package services

import (
	"context"

	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LimitsReaderSvc defines read operations for transaction limits
type LimitsReaderSvc interface {
	GetUserLimitsStatus(ctx context.Context, userID string) (*domain.LimitsStatus, error)
	GetUserTransactionSummary(ctx context.Context, userID string) (*domain.UserTransactionSummary, error)

	// CanMakeTransaction is advisory; only RecordTransaction is binding.
	CanMakeTransaction(ctx context.Context, userID string, amountUSD decimal.Decimal) (*domain.LimitDecision, error)
}

// LimitsWriterSvc defines the binding admission operation
type LimitsWriterSvc interface {
	// RecordTransaction re-evaluates the limits and, if admitted, accumulates the
	// amount in the same atomic step. A rejection is reported in the decision, not as an error.
	RecordTransaction(ctx context.Context, userID string, amountUSD decimal.Decimal) (*domain.LimitDecision, error)
}

// LimitsSvcFacade combines all limits-related service interfaces
type LimitsSvcFacade interface {
	LimitsReaderSvc
	LimitsWriterSvc
}
