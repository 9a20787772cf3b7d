package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/ecucondor/rates_backend/internal/core/ports/feeds"
	portssvc "github.com/ecucondor/rates_backend/internal/core/ports/services"
	"github.com/ecucondor/rates_backend/internal/platform/metrics"
	"github.com/ecucondor/rates_backend/internal/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultFreshnessWindow = 30 * time.Second
	defaultFetchFanOut     = 4
	minRefreshDelay        = time.Second
	crossRatePrecision     = utils.RatePrecision
	refreshFlightKey       = "refresh"
)

// rateSnapshot is immutable once stored. Readers load it without locking.
type rateSnapshot struct {
	rates       map[string]domain.ExchangeRate
	refreshedAt time.Time // zero until the first refresh attempt
	populated   bool      // at least one market refresh has succeeded
	healthy     bool      // the latest refresh had at least one success
}

// RateEngine keeps the published rates of all configured pairs.
type RateEngine struct {
	BaseService
	feed      feeds.PriceFeed
	pairs     map[string]domain.PairConfig
	freshness time.Duration
	fanOut    int

	snapshot atomic.Pointer[rateSnapshot]
	flight   singleflight.Group
}

// RateEngineOption is a functional option for configuring the rate engine
type RateEngineOption func(*RateEngine)

// WithRateClock overrides the clock used for timestamps and staleness.
func WithRateClock(clock Clock) RateEngineOption {
	return func(e *RateEngine) { e.Clock = clock }
}

// WithFreshnessWindow sets how old a snapshot may get before EnsureFresh refetches.
func WithFreshnessWindow(d time.Duration) RateEngineOption {
	return func(e *RateEngine) {
		if d > 0 {
			e.freshness = d
		}
	}
}

// WithFetchFanOut bounds the number of concurrent upstream fetches.
func WithFetchFanOut(n int) RateEngineOption {
	return func(e *RateEngine) {
		if n > 0 {
			e.fanOut = n
		}
	}
}

// NewRateEngine builds an engine for the given pairs. Fixed pairs are
// available immediately; market and cross pairs appear after the first refresh.
func NewRateEngine(feed feeds.PriceFeed, pairs map[string]domain.PairConfig, options ...RateEngineOption) *RateEngine {
	e := &RateEngine{
		BaseService: BaseService{Clock: SystemClock},
		feed:        feed,
		pairs:       make(map[string]domain.PairConfig, len(pairs)),
		freshness:   defaultFreshnessWindow,
		fanOut:      defaultFetchFanOut,
	}
	for key, p := range pairs {
		e.pairs[domain.NormalizePair(key)] = p
	}
	for _, opt := range options {
		opt(e)
	}

	initial := &rateSnapshot{rates: make(map[string]domain.ExchangeRate)}
	now := e.Now()
	for key, p := range e.pairs {
		if p.Source == domain.RateSourceFixed {
			initial.rates[key] = fixedRate(p, now)
		}
	}
	e.snapshot.Store(initial)
	return e
}

var _ portssvc.RateSvcFacade = (*RateEngine)(nil)

// GetRate returns the cached rate of a pair.
func (e *RateEngine) GetRate(ctx context.Context, pair string) (*domain.ExchangeRate, error) {
	key := domain.NormalizePair(pair)
	if _, ok := e.pairs[key]; !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("pair %s is not supported", key))
	}
	rate, ok := e.snapshot.Load().rates[key]
	if !ok {
		return nil, fmt.Errorf("%w: rate for %s is not available yet", apperrors.ErrUpstreamUnavailable, key)
	}
	return &rate, nil
}

// GetAllRates returns every cached rate ordered by pair.
func (e *RateEngine) GetAllRates(ctx context.Context) []domain.ExchangeRate {
	snap := e.snapshot.Load()
	out := make([]domain.ExchangeRate, 0, len(snap.rates))
	for _, r := range snap.rates {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pair < out[j].Pair })
	return out
}

// CalculateTransaction prices amount (base currency) at the current rate.
func (e *RateEngine) CalculateTransaction(ctx context.Context, pair string, amount decimal.Decimal, direction domain.Direction) (*domain.TransactionQuote, error) {
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount must be positive")
	}
	if !direction.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown direction %q", direction))
	}
	rate, err := e.GetRate(ctx, pair)
	if err != nil {
		return nil, err
	}
	q := domain.Quote(rate.Pair, rate.BaseCurrency, rate.TargetCurrency, direction, amount, rate.RateFor(direction), rate.CommissionFor(direction))
	return &q, nil
}

// IsHealthy reports whether the last refresh produced at least one market rate.
func (e *RateEngine) IsHealthy() bool {
	snap := e.snapshot.Load()
	return snap.populated && snap.healthy
}

// LastRefresh returns the time of the latest refresh attempt, zero if none.
func (e *RateEngine) LastRefresh() time.Time {
	return e.snapshot.Load().refreshedAt
}

// EnsureFresh refreshes when forced or when the snapshot is older than the freshness window.
func (e *RateEngine) EnsureFresh(ctx context.Context, force bool) error {
	if !force && !e.stale() {
		return nil
	}
	return e.UpdateRates(ctx)
}

func (e *RateEngine) stale() bool {
	at := e.snapshot.Load().refreshedAt
	return at.IsZero() || e.Now().Sub(at) >= e.freshness
}

// UpdateRates refetches every market pair and publishes a new snapshot.
// Concurrent callers share one in-flight refresh. Pairs whose fetch fails keep
// their previous rate. An error is returned only when every market pair failed.
func (e *RateEngine) UpdateRates(ctx context.Context) error {
	// The shared refresh must not die with the first caller's request.
	detached := context.WithoutCancel(ctx)
	_, err, _ := e.flight.Do(refreshFlightKey, func() (any, error) {
		return nil, e.refresh(detached)
	})
	return err
}

type fetchResult struct {
	price feeds.Price
	err   error
}

func (e *RateEngine) refresh(ctx context.Context) error {
	prev := e.snapshot.Load()
	now := e.Now()

	market := e.pairsBySource(domain.RateSourceMarket)
	results := make([]fetchResult, len(market))

	g := new(errgroup.Group)
	g.SetLimit(e.fanOut)
	for i, p := range market {
		g.Go(func() error {
			price, err := e.feed.FetchPrice(ctx, p.Symbol)
			results[i] = fetchResult{price: price, err: err}
			return nil
		})
	}
	_ = g.Wait()

	next := make(map[string]domain.ExchangeRate, len(e.pairs))
	for k, v := range prev.rates {
		next[k] = v
	}

	failures := 0
	for i, p := range market {
		res := results[i]
		if res.err != nil {
			failures++
			metrics.RateFetchFailuresTotal.WithLabelValues(p.Pair).Inc()
			e.LogWarn(ctx, "Price fetch failed, keeping previous rate",
				slog.String("pair", p.Pair),
				slog.String("symbol", p.Symbol),
				slog.String("error", res.err.Error()))
			continue
		}
		updated := res.price.FetchedAt
		if updated.IsZero() {
			updated = now
		}
		next[p.Pair] = marketRate(p, res.price.Value, updated)
	}

	for _, p := range e.pairsBySource(domain.RateSourceFixed) {
		next[p.Pair] = fixedRate(p, now)
	}

	for _, p := range e.pairsBySource(domain.RateSourceCross) {
		baseLeg, okBase := next[p.BaseLeg]
		quoteLeg, okQuote := next[p.QuoteLeg]
		if !okBase || !okQuote {
			e.LogDebug(ctx, "Cross pair legs not available", slog.String("pair", p.Pair))
			continue
		}
		rate, err := crossRate(p, baseLeg, quoteLeg)
		if err != nil {
			e.LogWarn(ctx, "Cross rate not computable", slog.String("pair", p.Pair), slog.String("error", err.Error()))
			continue
		}
		next[p.Pair] = rate
	}

	allFailed := len(market) > 0 && failures == len(market)
	e.snapshot.Store(&rateSnapshot{
		rates:       next,
		refreshedAt: now,
		populated:   prev.populated || !allFailed,
		healthy:     !allFailed,
	})

	switch {
	case allFailed:
		metrics.RateRefreshTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("%w: all %d market pairs failed to refresh", apperrors.ErrUpstreamUnavailable, len(market))
	case failures > 0:
		metrics.RateRefreshTotal.WithLabelValues("partial").Inc()
	default:
		metrics.RateRefreshTotal.WithLabelValues("ok").Inc()
	}
	metrics.RateLastRefresh.Set(float64(now.Unix()))
	e.LogDebug(ctx, "Rates refreshed", slog.Int("pairs", len(next)), slog.Int("failures", failures))
	return nil
}

// Run refreshes immediately and then each time the snapshot goes stale, until
// ctx is done. The timer is re-armed from the snapshot age, so refreshes
// triggered by requests push the next scheduled one back instead of skipping it.
func (e *RateEngine) Run(ctx context.Context) {
	if err := e.UpdateRates(ctx); err != nil {
		e.LogError(ctx, err, "Initial rate refresh failed")
	}
	timer := time.NewTimer(e.untilStale())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if err := e.EnsureFresh(ctx, false); err != nil {
				e.LogError(ctx, err, "Scheduled rate refresh failed")
			}
			timer.Reset(e.untilStale())
		}
	}
}

// untilStale is the time left before the snapshot leaves the freshness window.
func (e *RateEngine) untilStale() time.Duration {
	at := e.snapshot.Load().refreshedAt
	if at.IsZero() {
		return minRefreshDelay
	}
	return max(e.freshness-e.Now().Sub(at), minRefreshDelay)
}

// pairsBySource returns the configured pairs of one source ordered by key.
func (e *RateEngine) pairsBySource(src domain.RateSource) []domain.PairConfig {
	var out []domain.PairConfig
	for _, p := range e.pairs {
		if p.Source == src {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pair < out[j].Pair })
	return out
}

func marketRate(p domain.PairConfig, raw decimal.Decimal, at time.Time) domain.ExchangeRate {
	sell := raw.Add(p.SellAdjustment)
	buy := raw.Add(p.BuyAdjustment)
	r := raw
	return domain.ExchangeRate{
		Pair:           p.Pair,
		BaseCurrency:   p.Base,
		TargetCurrency: p.Target,
		RawRate:        &r,
		SellRate:       sell,
		BuyRate:        buy,
		Spread:         buy.Sub(sell),
		SellCommission: p.SellCommission,
		BuyCommission:  p.BuyCommission,
		LastUpdated:    at,
		Source:         domain.RateSourceMarket,
	}
}

func fixedRate(p domain.PairConfig, at time.Time) domain.ExchangeRate {
	sell := p.FixedRate.Add(p.SellAdjustment)
	buy := p.FixedRate.Add(p.BuyAdjustment)
	return domain.ExchangeRate{
		Pair:           p.Pair,
		BaseCurrency:   p.Base,
		TargetCurrency: p.Target,
		SellRate:       sell,
		BuyRate:        buy,
		Spread:         buy.Sub(sell),
		SellCommission: p.SellCommission,
		BuyCommission:  p.BuyCommission,
		LastUpdated:    at,
		Source:         domain.RateSourceFixed,
	}
}

// crossRate derives BASE-TARGET from USD-BASE and USD-TARGET. Selling BASE for
// TARGET means buying USD with BASE and selling that USD for TARGET, so each
// side takes the customer-unfavourable leg.
func crossRate(p domain.PairConfig, baseLeg, quoteLeg domain.ExchangeRate) (domain.ExchangeRate, error) {
	if !baseLeg.BuyRate.IsPositive() || !baseLeg.SellRate.IsPositive() {
		return domain.ExchangeRate{}, fmt.Errorf("leg %s has a non-positive rate", baseLeg.Pair)
	}
	sell := quoteLeg.SellRate.DivRound(baseLeg.BuyRate, crossRatePrecision).Add(p.SellAdjustment)
	buy := quoteLeg.BuyRate.DivRound(baseLeg.SellRate, crossRatePrecision).Add(p.BuyAdjustment)

	var raw *decimal.Decimal
	if baseLeg.RawRate != nil && quoteLeg.RawRate != nil && baseLeg.RawRate.IsPositive() {
		r := quoteLeg.RawRate.DivRound(*baseLeg.RawRate, crossRatePrecision)
		raw = &r
	}

	updated := baseLeg.LastUpdated
	if quoteLeg.LastUpdated.Before(updated) {
		updated = quoteLeg.LastUpdated
	}
	return domain.ExchangeRate{
		Pair:           p.Pair,
		BaseCurrency:   p.Base,
		TargetCurrency: p.Target,
		RawRate:        raw,
		SellRate:       sell,
		BuyRate:        buy,
		Spread:         buy.Sub(sell),
		SellCommission: p.SellCommission,
		BuyCommission:  p.BuyCommission,
		LastUpdated:    updated,
		Source:         domain.RateSourceCross,
	}, nil
}
