package repositories

import "io"

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	UsageRepo     UsageRepositoryFacade
	PriceLockRepo PriceLockRepositoryFacade

	// Closer releases the underlying connection, if any.
	Closer io.Closer
}

// Close releases the backing store.
func (p RepositoryProvider) Close() error {
	if p.Closer == nil {
		return nil
	}
	return p.Closer.Close()
}
