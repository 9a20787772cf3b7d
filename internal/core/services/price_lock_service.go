package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/ecucondor/rates_backend/internal/core/ports/events"
	portsrepo "github.com/ecucondor/rates_backend/internal/core/ports/repositories"
	portssvc "github.com/ecucondor/rates_backend/internal/core/ports/services"
	"github.com/ecucondor/rates_backend/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type priceLockService struct {
	BaseService
	repo     portsrepo.PriceLockRepositoryFacade
	duration time.Duration
}

// PriceLockOption is a functional option for configuring the price lock service
type PriceLockOption func(*priceLockService)

// WithPriceLockClock overrides the clock used for creation and expiry.
func WithPriceLockClock(clock Clock) PriceLockOption {
	return func(s *priceLockService) { s.Clock = clock }
}

// WithPriceLockDuration sets how long new locks stay valid.
func WithPriceLockDuration(d time.Duration) PriceLockOption {
	return func(s *priceLockService) {
		if d > 0 {
			s.duration = d
		}
	}
}

// WithPriceLockPublisher emits lock lifecycle events.
func WithPriceLockPublisher(p events.Publisher) PriceLockOption {
	return func(s *priceLockService) { s.Publisher = p }
}

// NewPriceLockService creates the price lock engine.
func NewPriceLockService(repo portsrepo.PriceLockRepositoryFacade, options ...PriceLockOption) portssvc.PriceLockSvcFacade {
	s := &priceLockService{
		BaseService: BaseService{Clock: SystemClock},
		repo:        repo,
		duration:    domain.DefaultPriceLockDuration,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *priceLockService) CreatePriceLock(ctx context.Context, userID, pair string, rate, amountUSD decimal.Decimal, direction domain.Direction) (*domain.PriceLock, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	base, target, ok := domain.SplitPair(pair)
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid currency pair %q", pair))
	}
	if !domain.USDDenominated(base) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("price locks require a USD based pair, got %s-%s", base, target))
	}
	if !rate.IsPositive() {
		return nil, apperrors.NewValidationError("rate must be positive")
	}
	if !amountUSD.IsPositive() {
		return nil, apperrors.NewValidationError("amount must be positive")
	}
	if !direction.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown direction %q", direction))
	}

	now := s.Now()
	lock := domain.PriceLock{
		ID:        uuid.NewString(),
		UserID:    userID,
		Pair:      base + "-" + target,
		Rate:      rate,
		AmountUSD: amountUSD,
		Direction: direction,
		CreatedAt: now,
		ExpiresAt: now.Add(s.duration),
	}

	if err := s.repo.SavePriceLock(ctx, lock); err != nil {
		s.LogError(ctx, err, "Failed to save price lock",
			slog.String("user_id", userID),
			slog.String("pair", lock.Pair))
		return nil, fmt.Errorf("failed to save price lock: %w", err)
	}

	s.LogInfo(ctx, "Price lock created",
		slog.String("lock_id", lock.ID),
		slog.String("user_id", userID),
		slog.String("pair", lock.Pair),
		slog.String("rate", rate.String()),
		slog.Time("expires_at", lock.ExpiresAt))
	s.Publish(ctx, domain.EventPriceLockCreated, lock.ID, lock)
	return &lock, nil
}

func (s *priceLockService) GetPriceLock(ctx context.Context, lockID string) (*domain.PriceLock, error) {
	if strings.TrimSpace(lockID) == "" {
		return nil, apperrors.NewValidationError("lock id is required")
	}
	lock, err := s.repo.FindPriceLockByID(ctx, lockID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("price lock %s not found", lockID))
		}
		s.LogError(ctx, err, "Failed to load price lock", slog.String("lock_id", lockID))
		return nil, fmt.Errorf("failed to load price lock: %w", err)
	}
	return lock, nil
}

// GetPriceLockStatus reports an unknown lock as invalid rather than as an error.
func (s *priceLockService) GetPriceLockStatus(ctx context.Context, lockID string) (*domain.PriceLockStatus, error) {
	lock, err := s.GetPriceLock(ctx, lockID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	status := lock.Status(s.Now())
	return &status, nil
}

func (s *priceLockService) GetUserActivePriceLocks(ctx context.Context, userID string) ([]domain.PriceLock, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	locks, err := s.repo.ListPriceLocksByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list price locks", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list price locks: %w", err)
	}

	now := s.Now()
	active := make([]domain.PriceLock, 0, len(locks))
	for _, l := range locks {
		if l.Valid(now) {
			active = append(active, l)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ExpiresAt.Before(active[j].ExpiresAt) })
	return active, nil
}

func (s *priceLockService) UsePriceLock(ctx context.Context, lockID string) (bool, error) {
	if strings.TrimSpace(lockID) == "" {
		return false, nil
	}
	now := s.Now()
	consumed, err := s.repo.ConsumePriceLock(ctx, lockID, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to consume price lock", slog.String("lock_id", lockID))
		return false, fmt.Errorf("failed to consume price lock: %w", err)
	}
	if !consumed {
		metrics.PriceLockConsumeTotal.WithLabelValues("rejected").Inc()
		s.LogDebug(ctx, "Price lock not consumable", slog.String("lock_id", lockID))
		return false, nil
	}

	metrics.PriceLockConsumeTotal.WithLabelValues("consumed").Inc()
	s.LogInfo(ctx, "Price lock consumed", slog.String("lock_id", lockID))
	s.Publish(ctx, domain.EventPriceLockConsumed, lockID, map[string]any{"lockId": lockID, "usedAt": now})
	return true, nil
}

func (s *priceLockService) CancelPriceLock(ctx context.Context, lockID, userID string) error {
	lock, err := s.GetPriceLock(ctx, lockID)
	if err != nil {
		return err
	}
	if lock.UserID != userID {
		return apperrors.NewForbiddenError("price lock belongs to another user")
	}
	now := s.Now()
	if !lock.Valid(now) {
		return apperrors.NewConflictError("price lock already used or expired")
	}

	deleted, err := s.repo.DeleteUnusedPriceLock(ctx, lockID, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to cancel price lock", slog.String("lock_id", lockID))
		return fmt.Errorf("failed to cancel price lock: %w", err)
	}
	if !deleted {
		// consumed or expired between the read and the delete
		return apperrors.NewConflictError("price lock already used or expired")
	}
	s.LogInfo(ctx, "Price lock cancelled", slog.String("lock_id", lockID), slog.String("user_id", userID))
	return nil
}
