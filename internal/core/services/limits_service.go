package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/ecucondor/rates_backend/internal/core/ports/events"
	portsrepo "github.com/ecucondor/rates_backend/internal/core/ports/repositories"
	portssvc "github.com/ecucondor/rates_backend/internal/core/ports/services"
	"github.com/ecucondor/rates_backend/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

type limitsService struct {
	BaseService
	repo     portsrepo.UsageRepositoryFacade
	limits   domain.TransactionLimits
	location *time.Location
}

// LimitsOption is a functional option for configuring the limits service
type LimitsOption func(*limitsService)

// WithLimitsClock overrides the clock used for rollover and timestamps.
func WithLimitsClock(clock Clock) LimitsOption {
	return func(s *limitsService) { s.Clock = clock }
}

// WithBusinessLocation sets the timezone whose calendar days and months bound the counters.
func WithBusinessLocation(loc *time.Location) LimitsOption {
	return func(s *limitsService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithLimitsPublisher emits transaction.recorded events after each admitted transaction.
func WithLimitsPublisher(p events.Publisher) LimitsOption {
	return func(s *limitsService) { s.Publisher = p }
}

// NewLimitsService creates the transaction limits engine.
func NewLimitsService(repo portsrepo.UsageRepositoryFacade, limits domain.TransactionLimits, options ...LimitsOption) portssvc.LimitsSvcFacade {
	s := &limitsService{
		BaseService: BaseService{Clock: SystemClock},
		repo:        repo,
		limits:      limits,
		location:    time.UTC,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// loadSummary returns the user's summary with rollover applied as of now.
func (s *limitsService) loadSummary(ctx context.Context, userID string, now time.Time) (domain.UserTransactionSummary, error) {
	stored, err := s.repo.FindSummary(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewUserTransactionSummary(userID), nil
		}
		s.LogError(ctx, err, "Failed to load transaction summary", slog.String("user_id", userID))
		return domain.UserTransactionSummary{}, fmt.Errorf("failed to load transaction summary: %w", err)
	}
	return stored.RolledOver(now, s.location), nil
}

func (s *limitsService) GetUserTransactionSummary(ctx context.Context, userID string) (*domain.UserTransactionSummary, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	summary, err := s.loadSummary(ctx, userID, s.Now())
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *limitsService) GetUserLimitsStatus(ctx context.Context, userID string) (*domain.LimitsStatus, error) {
	summary, err := s.GetUserTransactionSummary(ctx, userID)
	if err != nil {
		return nil, err
	}
	status := s.limits.Status(*summary)
	return &status, nil
}

func (s *limitsService) CanMakeTransaction(ctx context.Context, userID string, amountUSD decimal.Decimal) (*domain.LimitDecision, error) {
	if err := validateAdmission(userID, amountUSD); err != nil {
		return nil, err
	}
	summary, err := s.loadSummary(ctx, userID, s.Now())
	if err != nil {
		return nil, err
	}
	decision := s.limits.Evaluate(summary, amountUSD)
	observeDecision("check", decision)
	return &decision, nil
}

// RecordTransaction evaluates and accumulates in one UpdateSummary step, so two
// callers racing for the last bit of headroom cannot both be admitted.
func (s *limitsService) RecordTransaction(ctx context.Context, userID string, amountUSD decimal.Decimal) (*domain.LimitDecision, error) {
	if err := validateAdmission(userID, amountUSD); err != nil {
		return nil, err
	}
	now := s.Now()

	var decision domain.LimitDecision
	updated, err := s.repo.UpdateSummary(ctx, userID, func(current domain.UserTransactionSummary) (domain.UserTransactionSummary, bool, error) {
		if current.UserID == "" {
			current = domain.NewUserTransactionSummary(userID)
		}
		rolled := current.RolledOver(now, s.location)
		decision = s.limits.Evaluate(rolled, amountUSD)
		if !decision.CanProceed {
			return current, false, nil
		}
		return rolled.Record(amountUSD, now), true, nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record transaction",
			slog.String("user_id", userID),
			slog.String("amount_usd", amountUSD.String()))
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	observeDecision("record", decision)
	if !decision.CanProceed {
		s.LogInfo(ctx, "Transaction declined by limits",
			slog.String("user_id", userID),
			slog.String("reason", string(*decision.Reason)))
		return &decision, nil
	}

	decision.RemainingAmount = s.limits.Headroom(updated)
	s.LogInfo(ctx, "Transaction recorded",
		slog.String("user_id", userID),
		slog.String("amount_usd", amountUSD.String()),
		slog.Int("daily_count", updated.DailyTransactionCount))
	s.Publish(ctx, domain.EventTransactionRecorded, userID, updated)
	return &decision, nil
}

func observeDecision(operation string, d domain.LimitDecision) {
	result := "allowed"
	if !d.CanProceed && d.Reason != nil {
		result = string(*d.Reason)
	}
	metrics.LimitDecisionsTotal.WithLabelValues(operation, result).Inc()
}

func validateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperrors.NewValidationError("user id is required")
	}
	return nil
}

func validateAdmission(userID string, amountUSD decimal.Decimal) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if !amountUSD.IsPositive() {
		return apperrors.NewValidationError("amount must be positive")
	}
	return nil
}
