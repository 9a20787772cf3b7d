package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/ecucondor/rates_backend/internal/core/domain"
	portsrepo "github.com/ecucondor/rates_backend/internal/core/ports/repositories"
	"github.com/ecucondor/rates_backend/internal/models"
	"github.com/ecucondor/rates_backend/internal/utils/mapping"
	"github.com/redis/go-redis/v9"
)

const maxWatchRetries = 20

// UsageRepository stores one JSON summary per user.
type UsageRepository struct {
	client redis.UniversalClient
	prefix string
	// summaries outlive the longest rollover window
	ttl time.Duration
}

func NewUsageRepository(client redis.UniversalClient, prefix string) *UsageRepository {
	return &UsageRepository{
		client: client,
		prefix: prefix + "summary:",
		ttl:    62 * 24 * time.Hour,
	}
}

var _ portsrepo.UsageRepositoryFacade = (*UsageRepository)(nil)

func (r *UsageRepository) key(userID string) string {
	return r.prefix + userID
}

func (r *UsageRepository) FindSummary(ctx context.Context, userID string) (*domain.UserTransactionSummary, error) {
	s, err := r.read(ctx, r.client, userID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("summary for user %s: %w", userID, apperrors.ErrNotFound)
	}
	return s, nil
}

func (r *UsageRepository) read(ctx context.Context, c redis.Cmdable, userID string) (*domain.UserTransactionSummary, error) {
	data, err := c.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to read transaction summary", err)
	}
	var m models.TransactionSummary
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode transaction summary", err)
	}
	s := mapping.ToDomainTransactionSummary(m)
	return &s, nil
}

// UpdateSummary watches the user's key and retries fn when another writer
// commits in between.
func (r *UsageRepository) UpdateSummary(ctx context.Context, userID string, fn portsrepo.SummaryMutation) (domain.UserTransactionSummary, error) {
	key := r.key(userID)
	var result domain.UserTransactionSummary

	txf := func(tx *redis.Tx) error {
		stored, err := r.read(ctx, tx, userID)
		if err != nil {
			return err
		}
		current := domain.NewUserTransactionSummary(userID)
		if stored != nil {
			current = *stored
		}

		next, write, err := fn(current)
		if err != nil {
			return err
		}
		if !write {
			result = current
			return nil
		}

		data, err := json.Marshal(mapping.ToModelTransactionSummary(next, time.Now().UTC()))
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		if err == nil {
			result = next
		}
		return err
	}

	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return domain.UserTransactionSummary{}, err
	}
	return domain.UserTransactionSummary{}, apperrors.NewAppError(500,
		fmt.Sprintf("transaction summary of %s kept changing, gave up after %d attempts", userID, maxWatchRetries), redis.TxFailedErr)
}
