// Package messaging holds the event publishers. The Kafka producer lives in
// the kafka subpackage; NopPublisher is used when no brokers are configured.
package messaging

import (
	"context"

	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/ecucondor/rates_backend/internal/core/ports/events"
)

// NopPublisher drops every event.
type NopPublisher struct{}

var _ events.Publisher = NopPublisher{}

func (NopPublisher) Publish(context.Context, domain.Event) error { return nil }

func (NopPublisher) Close() error { return nil }
