package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/creditcore/backend/internal/domain/shared"
	"github.com/creditcore/backend/internal/infrastructure/event"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StreamPublisher publishes domain events and ad-hoc messages to Redis
// Streams. It implements shared.EventPublisher so it can sit behind the
// outbox processor, making delivery to the broker at-least-once.
type StreamPublisher struct {
	client     *redis.Client
	serializer *event.EventSerializer
	logger     *zap.Logger
}

// NewStreamPublisher creates a new Redis Streams publisher
func NewStreamPublisher(client *redis.Client, serializer *event.EventSerializer, logger *zap.Logger) *StreamPublisher {
	return &StreamPublisher{
		client:     client,
		serializer: serializer,
		logger:     logger,
	}
}

// Publish appends each event to the customer events stream
func (p *StreamPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		payload, err := p.serializer.Serialize(evt)
		if err != nil {
			return fmt.Errorf("failed to serialize event %s: %w", evt.EventID(), err)
		}

		if err := p.client.XAdd(ctx, &redis.XAddArgs{
			Stream: CustomerEventsStream,
			Values: eventValues(evt, payload),
		}).Err(); err != nil {
			return fmt.Errorf("failed to publish event %s: %w", evt.EventID(), err)
		}

		p.logger.Debug("event published to stream",
			zap.String("stream", CustomerEventsStream),
			zap.String("event_id", evt.EventID().String()),
			zap.String("event_type", evt.EventType()),
		)
	}
	return nil
}

// PublishSimpleMessage appends a plain text message to the simple
// messages stream
func (p *StreamPublisher) PublishSimpleMessage(ctx context.Context, message string) error {
	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: SimpleMessagesStream,
		Values: map[string]interface{}{
			fieldMessage: message,
			fieldSentAt:  time.Now().UTC().Format(time.RFC3339),
		},
	}).Err(); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.logger.Debug("message published to stream",
		zap.String("stream", SimpleMessagesStream),
	)
	return nil
}

// eventValues builds the stream entry fields for a domain event
func eventValues(evt shared.DomainEvent, payload []byte) map[string]interface{} {
	return map[string]interface{}{
		fieldEventID:     evt.EventID().String(),
		fieldEventType:   evt.EventType(),
		fieldAggregateID: evt.AggregateID().String(),
		fieldPayload:     string(payload),
	}
}

// Ensure StreamPublisher implements EventPublisher
var _ shared.EventPublisher = (*StreamPublisher)(nil)
