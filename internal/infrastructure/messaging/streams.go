package messaging

// Stream and consumer group names for the Redis Streams transport
const (
	// CustomerEventsStream carries serialized customer domain events
	CustomerEventsStream = "credit.customer.events"

	// SimpleMessagesStream carries ad-hoc text messages
	SimpleMessagesStream = "credit.simple.messages"

	// ConsumerGroup is the consumer group used by this service
	ConsumerGroup = "credit-service"
)

// Field names used in stream entries
const (
	fieldEventID     = "event_id"
	fieldEventType   = "event_type"
	fieldAggregateID = "aggregate_id"
	fieldPayload     = "payload"
	fieldMessage     = "message"
	fieldSentAt      = "sent_at"
)
