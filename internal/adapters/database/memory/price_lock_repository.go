package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/ecucondor/rates_backend/internal/core/domain"
	portsrepo "github.com/ecucondor/rates_backend/internal/core/ports/repositories"
)

// expiredLockRetention is how long a closed lock stays readable before a newer
// lock of the same user evicts it.
const expiredLockRetention = 24 * time.Hour

// PriceLockRepository keeps locks in a map. Check-and-set operations hold a
// per-lock mutex so they stay atomic without blocking unrelated locks.
type PriceLockRepository struct {
	keys *keyedMutex

	mu     sync.RWMutex
	locks  map[string]domain.PriceLock
	byUser map[string]map[string]struct{}
}

// NewPriceLockRepository creates an empty in-memory lock store.
func NewPriceLockRepository() *PriceLockRepository {
	return &PriceLockRepository{
		keys:   newKeyedMutex(),
		locks:  make(map[string]domain.PriceLock),
		byUser: make(map[string]map[string]struct{}),
	}
}

var _ portsrepo.PriceLockRepositoryFacade = (*PriceLockRepository)(nil)

func (r *PriceLockRepository) SavePriceLock(ctx context.Context, lock domain.PriceLock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.locks[lock.ID]; exists {
		return fmt.Errorf("price lock %s: %w", lock.ID, apperrors.ErrDuplicate)
	}
	r.locks[lock.ID] = lock
	ids, ok := r.byUser[lock.UserID]
	if !ok {
		ids = make(map[string]struct{})
		r.byUser[lock.UserID] = ids
	}
	ids[lock.ID] = struct{}{}
	r.pruneUserLocked(ids, lock.CreatedAt.Add(-expiredLockRetention))
	return nil
}

// pruneUserLocked drops the user's locks that closed before cutoff. Callers hold r.mu.
func (r *PriceLockRepository) pruneUserLocked(ids map[string]struct{}, cutoff time.Time) {
	for id := range ids {
		l := r.locks[id]
		closedAt := l.ExpiresAt
		if l.UsedAt != nil && l.UsedAt.Before(closedAt) {
			closedAt = *l.UsedAt
		}
		if closedAt.Before(cutoff) {
			delete(r.locks, id)
			delete(ids, id)
		}
	}
}

func (r *PriceLockRepository) FindPriceLockByID(ctx context.Context, lockID string) (*domain.PriceLock, error) {
	r.mu.RLock()
	lock, ok := r.locks[lockID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("price lock %s: %w", lockID, apperrors.ErrNotFound)
	}
	return &lock, nil
}

func (r *PriceLockRepository) ListPriceLocksByUser(ctx context.Context, userID string) ([]domain.PriceLock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.PriceLock, 0, len(r.byUser[userID]))
	for id := range r.byUser[userID] {
		out = append(out, r.locks[id])
	}
	return out, nil
}

func (r *PriceLockRepository) ConsumePriceLock(ctx context.Context, lockID string, now time.Time) (bool, error) {
	unlock := r.keys.Lock(lockID)
	defer unlock()

	r.mu.RLock()
	lock, ok := r.locks[lockID]
	r.mu.RUnlock()
	if !ok || !lock.Valid(now) {
		return false, nil
	}

	usedAt := now
	lock.Used = true
	lock.UsedAt = &usedAt

	r.mu.Lock()
	r.locks[lockID] = lock
	r.mu.Unlock()
	return true, nil
}

func (r *PriceLockRepository) DeleteUnusedPriceLock(ctx context.Context, lockID string, now time.Time) (bool, error) {
	unlock := r.keys.Lock(lockID)
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[lockID]
	if !ok || !lock.Valid(now) {
		return false, nil
	}
	delete(r.locks, lockID)
	if ids := r.byUser[lock.UserID]; ids != nil {
		delete(ids, lockID)
		if len(ids) == 0 {
			delete(r.byUser, lock.UserID)
		}
	}
	return true, nil
}
