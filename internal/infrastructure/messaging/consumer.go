package messaging

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/creditcore/backend/internal/domain/shared"
	"github.com/creditcore/backend/internal/infrastructure/event"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StreamConsumerConfig holds configuration for the stream consumer.
// ClaimMinIdle is how long an entry must sit unacknowledged in another
// consumer's pending list before it is reclaimed; a non-positive value
// disables reclaiming.
type StreamConsumerConfig struct {
	Group         string
	ConsumerName  string
	BlockTimeout  time.Duration
	BatchSize     int64
	ClaimMinIdle  time.Duration
	ClaimInterval time.Duration
}

// DefaultStreamConsumerConfig returns default configuration
func DefaultStreamConsumerConfig() StreamConsumerConfig {
	return StreamConsumerConfig{
		Group:         ConsumerGroup,
		ConsumerName:  "consumer-1",
		BlockTimeout:  5 * time.Second,
		BatchSize:     10,
		ClaimMinIdle:  time.Minute,
		ClaimInterval: 30 * time.Second,
	}
}

// StreamConsumer reads customer events and simple messages from Redis
// Streams via a consumer group and dispatches them to registered
// handlers. Malformed entries are logged, acknowledged and dropped so
// they cannot wedge the stream. Simple messages are logged on receipt.
type StreamConsumer struct {
	client     *redis.Client
	serializer *event.EventSerializer
	registry   *event.HandlerRegistry
	config     StreamConsumerConfig
	logger     *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStreamConsumer creates a new Redis Streams consumer
func NewStreamConsumer(
	client *redis.Client,
	serializer *event.EventSerializer,
	config StreamConsumerConfig,
	logger *zap.Logger,
) *StreamConsumer {
	return &StreamConsumer{
		client:     client,
		serializer: serializer,
		registry:   event.NewHandlerRegistry(),
		config:     config,
		logger:     logger,
	}
}

// Subscribe registers a handler for specific event types
func (c *StreamConsumer) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	c.registry.Register(handler, eventTypes...)
}

// Start creates the consumer group if needed and begins consuming
func (c *StreamConsumer) Start(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.consumeLoop(ctx)

	c.logger.Info("stream consumer started",
		zap.Strings("streams", []string{CustomerEventsStream, SimpleMessagesStream}),
		zap.String("group", c.config.Group),
		zap.String("consumer", c.config.ConsumerName),
	)
	return nil
}

// Stop gracefully stops the consumer
func (c *StreamConsumer) Stop(ctx context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("stream consumer stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ensureGroup creates the consumer groups, tolerating existing ones
func (c *StreamConsumer) ensureGroup(ctx context.Context) error {
	for _, stream := range []string{CustomerEventsStream, SimpleMessagesStream} {
		err := c.client.XGroupCreateMkStream(ctx, stream, c.config.Group, "0").Err()
		if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
			return err
		}
	}
	return nil
}

// consumeLoop reads and processes entries until the context is cancelled
func (c *StreamConsumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	var nextClaim time.Time

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if c.config.ClaimMinIdle > 0 && time.Now().After(nextClaim) {
			c.claimStale(ctx)
			nextClaim = time.Now().Add(c.config.ClaimInterval)
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.config.Group,
			Consumer: c.config.ConsumerName,
			Streams:  []string{CustomerEventsStream, SimpleMessagesStream, ">", ">"},
			Count:    c.config.BatchSize,
			Block:    c.config.BlockTimeout,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			c.logger.Error("failed to read from stream", zap.Error(err))
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				if stream.Stream == SimpleMessagesStream {
					c.processSimpleMessage(ctx, msg)
					continue
				}
				c.processMessage(ctx, msg)
			}
		}
	}
}

// claimStale takes over entries that another consumer read but never
// acknowledged, so a crashed consumer cannot strand deliveries in the
// pending entries list
func (c *StreamConsumer) claimStale(ctx context.Context) {
	for _, stream := range []string{CustomerEventsStream, SimpleMessagesStream} {
		start := "0-0"
		for {
			msgs, next, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
				Stream:   stream,
				Group:    c.config.Group,
				Consumer: c.config.ConsumerName,
				MinIdle:  c.config.ClaimMinIdle,
				Start:    start,
				Count:    c.config.BatchSize,
			}).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && !errors.Is(err, context.Canceled) {
					c.logger.Error("failed to claim stale entries",
						zap.String("stream", stream),
						zap.Error(err),
					)
				}
				break
			}

			if len(msgs) > 0 {
				c.logger.Info("reclaimed stale stream entries",
					zap.String("stream", stream),
					zap.Int("count", len(msgs)),
				)
			}
			for _, msg := range msgs {
				if stream == SimpleMessagesStream {
					c.processSimpleMessage(ctx, msg)
					continue
				}
				c.processMessage(ctx, msg)
			}

			if next == "0-0" || len(msgs) == 0 {
				break
			}
			start = next
		}
	}
}

// processMessage dispatches a single stream entry to the registered
// handlers and acknowledges it. Entries that cannot be decoded are
// acknowledged anyway so the group does not redeliver them forever.
func (c *StreamConsumer) processMessage(ctx context.Context, msg redis.XMessage) {
	defer c.ack(ctx, CustomerEventsStream, msg.ID)

	eventType, payload, ok := entryFields(msg)
	if !ok {
		c.logger.Warn("dropping malformed stream entry",
			zap.String("entry_id", msg.ID),
		)
		return
	}

	evt, err := c.serializer.Deserialize(eventType, []byte(payload))
	if err != nil {
		c.logger.Warn("dropping undecodable stream entry",
			zap.String("entry_id", msg.ID),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	for _, handler := range c.registry.GetHandlers(evt.EventType()) {
		if err := handler.Handle(ctx, evt); err != nil {
			c.logger.Error("handler failed to process stream event",
				zap.String("event_type", evt.EventType()),
				zap.String("event_id", evt.EventID().String()),
				zap.Error(err),
			)
		}
	}
}

// processSimpleMessage logs a plain text message and acknowledges it
func (c *StreamConsumer) processSimpleMessage(ctx context.Context, msg redis.XMessage) {
	defer c.ack(ctx, SimpleMessagesStream, msg.ID)

	text, _ := msg.Values[fieldMessage].(string)
	c.logger.Info("received simple message",
		zap.String("entry_id", msg.ID),
		zap.String("message", text),
	)
}

// ack acknowledges a stream entry
func (c *StreamConsumer) ack(ctx context.Context, stream, entryID string) {
	if err := c.client.XAck(ctx, stream, c.config.Group, entryID).Err(); err != nil {
		c.logger.Error("failed to ack stream entry",
			zap.String("stream", stream),
			zap.String("entry_id", entryID),
			zap.Error(err),
		)
	}
}

// entryFields extracts the event type and payload from a stream entry
func entryFields(msg redis.XMessage) (eventType, payload string, ok bool) {
	rawType, hasType := msg.Values[fieldEventType]
	rawPayload, hasPayload := msg.Values[fieldPayload]
	if !hasType || !hasPayload {
		return "", "", false
	}

	eventType, typeOK := rawType.(string)
	payload, payloadOK := rawPayload.(string)
	if !typeOK || !payloadOK || eventType == "" {
		return "", "", false
	}

	return eventType, payload, true
}
