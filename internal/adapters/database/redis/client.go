// Package redis implements the repositories on Redis. Per-user summaries use
// optimistic WATCH/MULTI transactions; price lock check-and-set runs as Lua.
package redis

import (
	"context"
	"fmt"

	portsrepo "github.com/ecucondor/rates_backend/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "ecucondor:"

// NewClient connects to addr and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

// NewRepositoryProvider wires the Redis repositories. Closing the provider closes the client.
func NewRepositoryProvider(client redis.UniversalClient) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UsageRepo:     NewUsageRepository(client, defaultKeyPrefix),
		PriceLockRepo: NewPriceLockRepository(client, defaultKeyPrefix),
		Closer:        client,
	}
}
