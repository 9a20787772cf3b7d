package events

import (
	"context"

	"github.com/ecucondor/rates_backend/internal/core/domain"
)

// Publisher delivers domain events to downstream consumers.
// Delivery is best effort; callers log failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
	Close() error
}
