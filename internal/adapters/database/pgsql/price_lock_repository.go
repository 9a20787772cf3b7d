package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/ecucondor/rates_backend/internal/core/domain"
	portsrepo "github.com/ecucondor/rates_backend/internal/core/ports/repositories"
	"github.com/ecucondor/rates_backend/internal/models"
	"github.com/ecucondor/rates_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPriceLockRepository stores price locks. Consumption and cancellation are
// single conditional statements, so concurrent callers race inside PostgreSQL.
type PgxPriceLockRepository struct {
	BaseRepository
}

func newPgxPriceLockRepository(pool *pgxpool.Pool) *PgxPriceLockRepository {
	return &PgxPriceLockRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PriceLockRepositoryFacade = (*PgxPriceLockRepository)(nil)

const priceLockSelectQuery = `
SELECT
	l.lock_id, l.user_id, l.pair, l.rate, l.amount_usd, l.direction,
	l.created_at, l.expires_at, l.used, l.used_at
FROM price_locks l
`

func (r *PgxPriceLockRepository) getPriceLocks(ctx context.Context, filterQuery string, args ...any) ([]models.PriceLock, error) {
	rows, err := r.Pool.Query(ctx, priceLockSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query price locks", err)
	}
	locks, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.PriceLock])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect price lock rows", err)
	}
	return locks, nil
}

func (r *PgxPriceLockRepository) SavePriceLock(ctx context.Context, lock domain.PriceLock) error {
	m := mapping.ToModelPriceLock(lock)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO price_locks (
			lock_id, user_id, pair, rate, amount_usd, direction,
			created_at, expires_at, used, used_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.LockID, m.UserID, m.Pair, m.Rate, m.AmountUSD, m.Direction,
		m.CreatedAt, m.ExpiresAt, m.Used, m.UsedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("price lock %s: %w", lock.ID, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert price lock", err)
	}
	return nil
}

func (r *PgxPriceLockRepository) FindPriceLockByID(ctx context.Context, lockID string) (*domain.PriceLock, error) {
	locks, err := r.getPriceLocks(ctx, "WHERE l.lock_id = $1", lockID)
	if err != nil {
		return nil, err
	}
	if len(locks) == 0 {
		return nil, fmt.Errorf("price lock %s: %w", lockID, apperrors.ErrNotFound)
	}
	lock := mapping.ToDomainPriceLock(locks[0])
	return &lock, nil
}

func (r *PgxPriceLockRepository) ListPriceLocksByUser(ctx context.Context, userID string) ([]domain.PriceLock, error) {
	locks, err := r.getPriceLocks(ctx, "WHERE l.user_id = $1 ORDER BY l.expires_at", userID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainPriceLocks(locks), nil
}

func (r *PgxPriceLockRepository) ConsumePriceLock(ctx context.Context, lockID string, now time.Time) (bool, error) {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE price_locks
		SET used = TRUE, used_at = $2
		WHERE lock_id = $1 AND used = FALSE AND expires_at > $2`,
		lockID, now,
	)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to consume price lock", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgxPriceLockRepository) DeleteUnusedPriceLock(ctx context.Context, lockID string, now time.Time) (bool, error) {
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM price_locks WHERE lock_id = $1 AND used = FALSE AND expires_at > $2`,
		lockID, now,
	)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to delete price lock", err)
	}
	return tag.RowsAffected() == 1, nil
}
