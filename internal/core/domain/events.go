package domain

import "time"

// EventType names a domain event published to the event bus.
type EventType string

const (
	EventPriceLockCreated    EventType = "price_lock.created"
	EventPriceLockConsumed   EventType = "price_lock.consumed"
	EventTransactionRecorded EventType = "transaction.recorded"
)

// Event is the envelope written to the event bus. Key is used for partitioning.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}
