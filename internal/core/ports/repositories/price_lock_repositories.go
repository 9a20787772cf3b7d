package repositories

import (
	"context"
	"time"

	"github.com/ecucondor/rates_backend/internal/core/domain"
)

// PriceLockReader defines read operations for price lock data
type PriceLockReader interface {
	// FindPriceLockByID returns the lock or an error wrapping apperrors.ErrNotFound.
	FindPriceLockByID(ctx context.Context, lockID string) (*domain.PriceLock, error)

	// ListPriceLocksByUser returns every stored lock of the user, used or not.
	ListPriceLocksByUser(ctx context.Context, userID string) ([]domain.PriceLock, error)
}

// PriceLockWriter defines write operations for price lock data
type PriceLockWriter interface {
	// SavePriceLock persists a new lock. An existing ID yields apperrors.ErrDuplicate.
	SavePriceLock(ctx context.Context, lock domain.PriceLock) error

	// ConsumePriceLock flips used from false to true if the lock exists, is
	// unused and has not expired at now. It is a single atomic check-and-set:
	// of any number of concurrent calls on one lock at most one returns true.
	ConsumePriceLock(ctx context.Context, lockID string, now time.Time) (bool, error)

	// DeleteUnusedPriceLock removes the lock only if it is still valid at now.
	DeleteUnusedPriceLock(ctx context.Context, lockID string, now time.Time) (bool, error)
}

// PriceLockRepositoryFacade combines all price lock repository interfaces
type PriceLockRepositoryFacade interface {
	PriceLockReader
	PriceLockWriter
}
