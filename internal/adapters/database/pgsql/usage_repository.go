package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/ecucondor/rates_backend/internal/core/domain"
	portsrepo "github.com/ecucondor/rates_backend/internal/core/ports/repositories"
	"github.com/ecucondor/rates_backend/internal/models"
	"github.com/ecucondor/rates_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxUsageRepository stores per-user transaction summaries.
type PgxUsageRepository struct {
	BaseRepository
}

func newPgxUsageRepository(pool *pgxpool.Pool) *PgxUsageRepository {
	return &PgxUsageRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UsageRepositoryFacade = (*PgxUsageRepository)(nil)

const summarySelectQuery = `
SELECT
	s.user_id, s.monthly_volume_usd, s.daily_volume_usd,
	s.daily_transaction_count, s.last_transaction_at, s.updated_at
FROM user_transaction_summaries s
WHERE s.user_id = $1
`

func (r *PgxUsageRepository) FindSummary(ctx context.Context, userID string) (*domain.UserTransactionSummary, error) {
	rows, err := r.Pool.Query(ctx, summarySelectQuery, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transaction summary", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.TransactionSummary])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("summary for user %s: %w", userID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to scan transaction summary", err)
	}
	s := mapping.ToDomainTransactionSummary(m)
	return &s, nil
}

// UpdateSummary locks the user's row with SELECT ... FOR UPDATE for the
// duration of fn. The row is created first so new users are serialized too.
func (r *PgxUsageRepository) UpdateSummary(ctx context.Context, userID string, fn portsrepo.SummaryMutation) (domain.UserTransactionSummary, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return domain.UserTransactionSummary{}, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO user_transaction_summaries (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	); err != nil {
		return domain.UserTransactionSummary{}, apperrors.NewAppError(500, "failed to initialise transaction summary", err)
	}

	rows, err := tx.Query(ctx, summarySelectQuery+" FOR UPDATE", userID)
	if err != nil {
		return domain.UserTransactionSummary{}, apperrors.NewAppError(500, "failed to lock transaction summary", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.TransactionSummary])
	if err != nil {
		return domain.UserTransactionSummary{}, apperrors.NewAppError(500, "failed to scan transaction summary", err)
	}
	current := mapping.ToDomainTransactionSummary(m)

	next, write, err := fn(current)
	if err != nil {
		return current, err
	}
	if !write {
		return current, r.Commit(ctx, tx)
	}

	_, err = tx.Exec(ctx, `
		UPDATE user_transaction_summaries
		SET monthly_volume_usd = $2,
			daily_volume_usd = $3,
			daily_transaction_count = $4,
			last_transaction_at = $5,
			updated_at = NOW()
		WHERE user_id = $1`,
		userID,
		next.MonthlyVolumeUSD,
		next.DailyVolumeUSD,
		next.DailyTransactionCount,
		next.LastTransactionAt,
	)
	if err != nil {
		return current, apperrors.NewAppError(500, "failed to update transaction summary", err)
	}
	if err := r.Commit(ctx, tx); err != nil {
		return current, err
	}
	return next, nil
}
