package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/ecucondor/rates_backend/internal/core/domain"
	portssvc "github.com/ecucondor/rates_backend/internal/core/ports/services"
)

type exchangeService struct {
	BaseService
	rates  portssvc.RateReaderSvc
	limits portssvc.LimitsSvcFacade
	locks  portssvc.PriceLockSvcFacade
}

// ExchangeOption is a functional option for configuring the exchange service
type ExchangeOption func(*exchangeService)

// WithExchangeClock overrides the clock used to evaluate lock validity.
func WithExchangeClock(clock Clock) ExchangeOption {
	return func(s *exchangeService) { s.Clock = clock }
}

// NewExchangeService wires lock consumption and limit recording into one execution flow.
func NewExchangeService(rates portssvc.RateReaderSvc, limits portssvc.LimitsSvcFacade, locks portssvc.PriceLockSvcFacade, options ...ExchangeOption) portssvc.ExchangeSvcFacade {
	s := &exchangeService{
		BaseService: BaseService{Clock: SystemClock},
		rates:       rates,
		limits:      limits,
		locks:       locks,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Execute settles a locked quote. The lock is consumed before the binding limit
// record; if the record then declines, the lock stays consumed and the
// customer has to request a new quote.
func (s *exchangeService) Execute(ctx context.Context, userID, lockID string) (*portssvc.ExchangeResult, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	lock, err := s.locks.GetPriceLock(ctx, lockID)
	if err != nil {
		return nil, err
	}
	if lock.UserID != userID {
		return nil, apperrors.NewForbiddenError("price lock belongs to another user")
	}
	if !lock.Valid(s.Now()) {
		return nil, apperrors.NewConflictError("price lock expired or used")
	}

	rate, err := s.rates.GetRate(ctx, lock.Pair)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pair %s: %w", lock.Pair, err)
	}
	if !domain.USDDenominated(rate.BaseCurrency) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("pair %s is not USD based", lock.Pair))
	}

	precheck, err := s.limits.CanMakeTransaction(ctx, userID, lock.AmountUSD)
	if err != nil {
		return nil, err
	}
	if !precheck.CanProceed {
		return &portssvc.ExchangeResult{Executed: false, Lock: lock, Decision: precheck}, nil
	}

	consumed, err := s.locks.UsePriceLock(ctx, lockID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, apperrors.NewConflictError("price lock expired or used")
	}
	lock.Used = true
	usedAt := s.Now()
	lock.UsedAt = &usedAt

	decision, err := s.limits.RecordTransaction(ctx, userID, lock.AmountUSD)
	if err != nil {
		s.LogError(ctx, err, "Lock consumed but transaction not recorded",
			slog.String("lock_id", lockID),
			slog.String("user_id", userID))
		return nil, err
	}
	if !decision.CanProceed {
		s.LogInfo(ctx, "Transaction declined after lock consumption",
			slog.String("lock_id", lockID),
			slog.String("user_id", userID))
		return &portssvc.ExchangeResult{Executed: false, Lock: lock, Decision: decision}, nil
	}

	quote := domain.Quote(lock.Pair, rate.BaseCurrency, rate.TargetCurrency, lock.Direction,
		lock.AmountUSD, lock.Rate, rate.CommissionFor(lock.Direction))

	summary, err := s.limits.GetUserTransactionSummary(ctx, userID)
	if err != nil {
		// the transaction is recorded; report it without the summary
		s.LogError(ctx, err, "Failed to load summary after recording", slog.String("user_id", userID))
		summary = nil
	}

	s.LogInfo(ctx, "Exchange executed",
		slog.String("lock_id", lockID),
		slog.String("user_id", userID),
		slog.String("pair", lock.Pair),
		slog.String("amount_usd", lock.AmountUSD.String()))
	return &portssvc.ExchangeResult{
		Executed: true,
		Lock:     lock,
		Quote:    &quote,
		Decision: decision,
		Summary:  summary,
	}, nil
}
