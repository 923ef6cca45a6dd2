package event

import (
	"github.com/creditcore/backend/internal/domain/customer"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the
// outbox table.
func RegisterAllEvents(serializer *EventSerializer) {
	serializer.Register(customer.EventTypeCreated, &customer.Event{})
	serializer.Register(customer.EventTypeUpdated, &customer.Event{})
	serializer.Register(customer.EventTypeDeleted, &customer.Event{})
	serializer.Register(customer.EventTypeCreditScoreUpdated, &customer.Event{})
}
