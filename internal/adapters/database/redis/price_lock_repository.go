package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/ecucondor/rates_backend/internal/core/domain"
	portsrepo "github.com/ecucondor/rates_backend/internal/core/ports/repositories"
	"github.com/ecucondor/rates_backend/internal/models"
	"github.com/ecucondor/rates_backend/internal/utils/mapping"
	"github.com/redis/go-redis/v9"
)

// Each lock is a hash: "data" holds the immutable JSON, "used", "used_at_ms"
// and "expires_at_ms" are the fields the scripts test and set.
const (
	fieldData      = "data"
	fieldUserID    = "user_id"
	fieldUsed      = "used"
	fieldUsedAt    = "used_at_ms"
	fieldExpiresAt = "expires_at_ms"
)

// KEYS[1] lock hash, KEYS[2] owner index set; ARGV[1] data json, ARGV[2] user id,
// ARGV[3] used flag, ARGV[4] expiry in unix ms, ARGV[5] ttl in ms, ARGV[6] lock id.
var saveScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then return 0 end
redis.call('HSET', KEYS[1], 'data', ARGV[1], 'user_id', ARGV[2], 'used', ARGV[3], 'expires_at_ms', ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
redis.call('SADD', KEYS[2], ARGV[6])
redis.call('PEXPIRE', KEYS[2], ARGV[5])
return 1
`)

// KEYS[1] lock hash; ARGV[1] now in unix ms.
var consumeScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return 0 end
if redis.call('HGET', KEYS[1], 'used') == '1' then return 0 end
if tonumber(ARGV[1]) >= tonumber(redis.call('HGET', KEYS[1], 'expires_at_ms')) then return 0 end
redis.call('HSET', KEYS[1], 'used', '1', 'used_at_ms', ARGV[1])
return 1
`)

// KEYS[1] lock hash, KEYS[2] owner index set; ARGV[1] now in unix ms, ARGV[2] lock id.
var deleteUnusedScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return 0 end
if redis.call('HGET', KEYS[1], 'used') == '1' then return 0 end
if tonumber(ARGV[1]) >= tonumber(redis.call('HGET', KEYS[1], 'expires_at_ms')) then return 0 end
redis.call('DEL', KEYS[1])
redis.call('SREM', KEYS[2], ARGV[2])
return 1
`)

// PriceLockRepository stores price locks as hashes with a per-user index set.
type PriceLockRepository struct {
	client redis.UniversalClient
	prefix string
	// used and expired locks stay readable this long past expiry
	retention time.Duration
}

func NewPriceLockRepository(client redis.UniversalClient, prefix string) *PriceLockRepository {
	return &PriceLockRepository{
		client:    client,
		prefix:    prefix,
		retention: 24 * time.Hour,
	}
}

var _ portsrepo.PriceLockRepositoryFacade = (*PriceLockRepository)(nil)

func (r *PriceLockRepository) lockKey(id string) string {
	return r.prefix + "pricelock:" + id
}

func (r *PriceLockRepository) userKey(userID string) string {
	return r.prefix + "pricelocks:user:" + userID
}

func (r *PriceLockRepository) SavePriceLock(ctx context.Context, lock domain.PriceLock) error {
	data, err := json.Marshal(mapping.ToModelPriceLock(lock))
	if err != nil {
		return err
	}
	used := "0"
	if lock.Used {
		used = "1"
	}
	ttl := time.Until(lock.ExpiresAt) + r.retention
	if ttl <= 0 {
		ttl = r.retention
	}
	created, err := saveScript.Run(ctx, r.client,
		[]string{r.lockKey(lock.ID), r.userKey(lock.UserID)},
		data, lock.UserID, used, lock.ExpiresAt.UnixMilli(), ttl.Milliseconds(), lock.ID,
	).Int()
	if err != nil {
		return apperrors.NewAppError(500, "failed to save price lock", err)
	}
	if created == 0 {
		return fmt.Errorf("price lock %s: %w", lock.ID, apperrors.ErrDuplicate)
	}
	return nil
}

func decodeLock(fields map[string]string) (domain.PriceLock, error) {
	var m models.PriceLock
	if err := json.Unmarshal([]byte(fields[fieldData]), &m); err != nil {
		return domain.PriceLock{}, apperrors.NewAppError(500, "failed to decode price lock", err)
	}
	lock := mapping.ToDomainPriceLock(m)
	lock.Used = fields[fieldUsed] == "1"
	if ms, err := strconv.ParseInt(fields[fieldUsedAt], 10, 64); err == nil {
		usedAt := time.UnixMilli(ms).UTC()
		lock.UsedAt = &usedAt
	}
	return lock, nil
}

func (r *PriceLockRepository) FindPriceLockByID(ctx context.Context, lockID string) (*domain.PriceLock, error) {
	fields, err := r.client.HGetAll(ctx, r.lockKey(lockID)).Result()
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to read price lock", err)
	}
	if _, ok := fields[fieldData]; !ok {
		return nil, fmt.Errorf("price lock %s: %w", lockID, apperrors.ErrNotFound)
	}
	lock, err := decodeLock(fields)
	if err != nil {
		return nil, err
	}
	return &lock, nil
}

func (r *PriceLockRepository) ListPriceLocksByUser(ctx context.Context, userID string) ([]domain.PriceLock, error) {
	ids, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list price locks", err)
	}
	if len(ids) == 0 {
		return []domain.PriceLock{}, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, r.lockKey(id))
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, apperrors.NewAppError(500, "failed to read price locks", err)
	}

	locks := make([]domain.PriceLock, 0, len(ids))
	var gone []any
	for i, cmd := range cmds {
		fields := cmd.Val()
		if _, ok := fields[fieldData]; !ok {
			gone = append(gone, ids[i])
			continue
		}
		lock, err := decodeLock(fields)
		if err != nil {
			return nil, err
		}
		locks = append(locks, lock)
	}
	if len(gone) > 0 {
		// index entries whose hash already expired
		_ = r.client.SRem(ctx, r.userKey(userID), gone...).Err()
	}
	return locks, nil
}

func (r *PriceLockRepository) ConsumePriceLock(ctx context.Context, lockID string, now time.Time) (bool, error) {
	n, err := consumeScript.Run(ctx, r.client, []string{r.lockKey(lockID)}, now.UnixMilli()).Int()
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to consume price lock", err)
	}
	return n == 1, nil
}

func (r *PriceLockRepository) DeleteUnusedPriceLock(ctx context.Context, lockID string, now time.Time) (bool, error) {
	userID, err := r.client.HGet(ctx, r.lockKey(lockID), fieldUserID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to read price lock", err)
	}
	n, err := deleteUnusedScript.Run(ctx, r.client,
		[]string{r.lockKey(lockID), r.userKey(userID)},
		now.UnixMilli(), lockID,
	).Int()
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to delete price lock", err)
	}
	return n == 1, nil
}
