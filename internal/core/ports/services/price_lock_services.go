package services

import (
	"context"

	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PriceLockReaderSvc defines read operations for price locks
type PriceLockReaderSvc interface {
	GetPriceLock(ctx context.Context, lockID string) (*domain.PriceLock, error)
	GetPriceLockStatus(ctx context.Context, lockID string) (*domain.PriceLockStatus, error)
	GetUserActivePriceLocks(ctx context.Context, userID string) ([]domain.PriceLock, error)
}

// PriceLockWriterSvc defines write operations for price locks
type PriceLockWriterSvc interface {
	CreatePriceLock(ctx context.Context, userID, pair string, rate, amountUSD decimal.Decimal, direction domain.Direction) (*domain.PriceLock, error)

	// UsePriceLock consumes the lock once. It returns false for unknown, used or expired locks.
	UsePriceLock(ctx context.Context, lockID string) (bool, error)

	CancelPriceLock(ctx context.Context, lockID, userID string) error
}

// PriceLockSvcFacade combines all price lock service interfaces
type PriceLockSvcFacade interface {
	PriceLockReaderSvc
	PriceLockWriterSvc
}
