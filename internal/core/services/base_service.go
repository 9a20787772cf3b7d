package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/ecucondor/rates_backend/internal/core/ports/events"
	"github.com/ecucondor/rates_backend/internal/middleware"
	"github.com/google/uuid"
)

// Clock abstracts the wall clock so expiry and rollover can be tested.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the real wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// BaseService provides common functionality for all services
type BaseService struct {
	Clock     Clock
	Publisher events.Publisher
}

// Now returns the current time from the configured clock.
func (s *BaseService) Now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a recoverable failure
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Publish emits a domain event if a publisher is configured. Failures are
// logged and never returned: the state change has already happened.
func (s *BaseService) Publish(ctx context.Context, eventType domain.EventType, key string, payload any) {
	if s.Publisher == nil {
		return
	}
	evt := domain.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        key,
		OccurredAt: s.Now(),
		Payload:    payload,
	}
	if err := s.Publisher.Publish(ctx, evt); err != nil {
		s.LogError(ctx, err, "Failed to publish event",
			slog.String("event_type", string(eventType)),
			slog.String("event_key", key))
	}
}
