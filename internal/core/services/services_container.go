package services

import (
	"github.com/ecucondor/rates_backend/internal/core/ports/events"
	"github.com/ecucondor/rates_backend/internal/core/ports/feeds"
	portsrepo "github.com/ecucondor/rates_backend/internal/core/ports/repositories"
	portssvc "github.com/ecucondor/rates_backend/internal/core/ports/services"
	"github.com/ecucondor/rates_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The rate engine is returned separately as well so main can start its refresh loop.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, feed feeds.PriceFeed, publisher events.Publisher) (*portssvc.ServiceContainer, *RateEngine) {
	engine := NewRateEngine(feed, cfg.Pairs, WithFreshnessWindow(cfg.RatesFreshnessWindow))

	container := &portssvc.ServiceContainer{Rates: engine}
	container.Limits = NewLimitsService(
		repos.UsageRepo,
		cfg.Limits,
		WithBusinessLocation(cfg.BusinessLocation),
		WithLimitsPublisher(publisher),
	)
	container.PriceLock = NewPriceLockService(
		repos.PriceLockRepo,
		WithPriceLockDuration(cfg.PriceLockDuration),
		WithPriceLockPublisher(publisher),
	)
	container.Exchange = NewExchangeService(container.Rates, container.Limits, container.PriceLock)
	return container, engine
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.LimitsSvcFacade    = (*limitsService)(nil)
	_ portssvc.PriceLockSvcFacade = (*priceLockService)(nil)
	_ portssvc.ExchangeSvcFacade  = (*exchangeService)(nil)
)
