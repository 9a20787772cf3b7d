package memory

import portsrepo "github.com/ecucondor/rates_backend/internal/core/ports/repositories"

// NewRepositoryProvider wires the in-memory repositories. Nothing needs closing.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UsageRepo:     NewUsageRepository(),
		PriceLockRepo: NewPriceLockRepository(),
	}
}
