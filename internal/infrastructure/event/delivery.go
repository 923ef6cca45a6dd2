package event

import (
	"context"

	"github.com/creditcore/backend/internal/domain/shared"
)

// DeliveryPublisher sends events to the broker first and fans them out to
// the in-process bus only after the broker accepted them. A broker error
// propagates to the caller so the outbox entry is retried instead of being
// marked sent; bus handler failures are logged by the bus itself and do
// not fail the delivery.
type DeliveryPublisher struct {
	broker shared.EventPublisher
	bus    shared.EventPublisher
}

// NewDeliveryPublisher creates a publisher that delivers to the broker and
// then the in-process bus. Either target may be nil.
func NewDeliveryPublisher(broker, bus shared.EventPublisher) *DeliveryPublisher {
	return &DeliveryPublisher{
		broker: broker,
		bus:    bus,
	}
}

// Publish delivers the events to the broker, then to the bus
func (d *DeliveryPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if d.broker != nil {
		if err := d.broker.Publish(ctx, events...); err != nil {
			return err
		}
	}
	if d.bus != nil {
		return d.bus.Publish(ctx, events...)
	}
	return nil
}

// Ensure DeliveryPublisher implements EventPublisher
var _ shared.EventPublisher = (*DeliveryPublisher)(nil)
