package repositories

import (
	"context"

	"github.com/ecucondor/rates_backend/internal/core/domain"
)

// SummaryMutation receives the stored summary (zero-valued for a new user) and
// returns the summary to store. Returning write=false leaves storage untouched.
type SummaryMutation func(current domain.UserTransactionSummary) (next domain.UserTransactionSummary, write bool, err error)

// UsageReader defines read operations for per-user transaction usage
type UsageReader interface {
	// FindSummary returns the stored summary or an error wrapping apperrors.ErrNotFound.
	FindSummary(ctx context.Context, userID string) (*domain.UserTransactionSummary, error)
}

// UsageWriter defines write operations for per-user transaction usage
type UsageWriter interface {
	// UpdateSummary runs fn as one atomic read-check-write step for userID.
	// Calls for the same user are serialized; calls for different users are not.
	UpdateSummary(ctx context.Context, userID string, fn SummaryMutation) (domain.UserTransactionSummary, error)
}

// UsageRepositoryFacade combines all usage repository interfaces
type UsageRepositoryFacade interface {
	UsageReader
	UsageWriter
}
