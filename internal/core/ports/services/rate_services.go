package services

import (
	"context"
	"time"

	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateReaderSvc defines read operations for published rates
type RateReaderSvc interface {
	// GetRate returns the cached rate of a pair, or an error wrapping apperrors.ErrNotFound.
	GetRate(ctx context.Context, pair string) (*domain.ExchangeRate, error)

	// GetAllRates returns a snapshot of every cached rate.
	GetAllRates(ctx context.Context) []domain.ExchangeRate

	// CalculateTransaction prices an amount (base currency) on a pair.
	CalculateTransaction(ctx context.Context, pair string, amount decimal.Decimal, direction domain.Direction) (*domain.TransactionQuote, error)

	// IsHealthy is false until the first refresh and after a refresh where every market pair failed.
	IsHealthy() bool

	// LastRefresh is the time of the last refresh attempt, zero before the first one.
	LastRefresh() time.Time
}

// RateRefresherSvc defines cache maintenance operations
type RateRefresherSvc interface {
	// UpdateRates refetches every market pair and publishes a new snapshot.
	UpdateRates(ctx context.Context) error

	// EnsureFresh refreshes when the snapshot is older than the freshness window, or when forced.
	EnsureFresh(ctx context.Context, force bool) error
}

// RateSvcFacade combines all rate-related service interfaces
type RateSvcFacade interface {
	RateReaderSvc
	RateRefresherSvc
}
