package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/ecucondor/rates_backend/internal/core/domain"
	portsrepo "github.com/ecucondor/rates_backend/internal/core/ports/repositories"
)

// UsageRepository keeps per-user summaries in a map guarded by a per-user mutex.
type UsageRepository struct {
	keys *keyedMutex

	mu        sync.RWMutex
	summaries map[string]domain.UserTransactionSummary
}

// NewUsageRepository creates an empty in-memory usage store.
func NewUsageRepository() *UsageRepository {
	return &UsageRepository{
		keys:      newKeyedMutex(),
		summaries: make(map[string]domain.UserTransactionSummary),
	}
}

var _ portsrepo.UsageRepositoryFacade = (*UsageRepository)(nil)

func (r *UsageRepository) FindSummary(ctx context.Context, userID string) (*domain.UserTransactionSummary, error) {
	r.mu.RLock()
	s, ok := r.summaries[userID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("summary for user %s: %w", userID, apperrors.ErrNotFound)
	}
	return &s, nil
}

func (r *UsageRepository) UpdateSummary(ctx context.Context, userID string, fn portsrepo.SummaryMutation) (domain.UserTransactionSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserTransactionSummary{}, err
	}
	unlock := r.keys.Lock(userID)
	defer unlock()

	r.mu.RLock()
	current, ok := r.summaries[userID]
	r.mu.RUnlock()
	if !ok {
		current = domain.NewUserTransactionSummary(userID)
	}

	next, write, err := fn(current)
	if err != nil {
		return current, err
	}
	if !write {
		return current, nil
	}

	r.mu.Lock()
	r.summaries[userID] = next
	r.mu.Unlock()
	return next, nil
}
