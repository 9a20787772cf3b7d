package pgsql

import (
	portsrepo "github.com/ecucondor/rates_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type poolCloser struct{ pool *pgxpool.Pool }

func (c poolCloser) Close() error {
	c.pool.Close()
	return nil
}

// NewRepositoryProvider wires the PostgreSQL repositories on a shared pool.
// Closing the provider closes the pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UsageRepo:     newPgxUsageRepository(dbPool),
		PriceLockRepo: newPgxPriceLockRepository(dbPool),
		Closer:        poolCloser{pool: dbPool},
	}
}
