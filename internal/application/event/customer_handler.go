package event

import (
	"context"

	"github.com/creditcore/backend/internal/domain/customer"
	"github.com/creditcore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CustomerEventHandler consumes customer lifecycle events from the bus.
// Processing is intentionally side-effect light: each event type maps to a
// follow-up action stub (notifications, reassessment) that downstream teams
// plug into.
type CustomerEventHandler struct {
	logger *zap.Logger
}

// NewCustomerEventHandler creates a new CustomerEventHandler
func NewCustomerEventHandler(logger *zap.Logger) *CustomerEventHandler {
	return &CustomerEventHandler{logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *CustomerEventHandler) EventTypes() []string {
	return []string{
		customer.EventTypeCreated,
		customer.EventTypeUpdated,
		customer.EventTypeDeleted,
		customer.EventTypeCreditScoreUpdated,
	}
}

// Handle dispatches a customer event by type
func (h *CustomerEventHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	customerEvent, ok := evt.(*customer.Event)
	if !ok {
		h.logger.Warn("received event with unexpected payload type",
			zap.String("event_type", evt.EventType()),
			zap.String("event_id", evt.EventID().String()))
		return nil
	}

	switch customerEvent.Type {
	case customer.EventTypeCreated:
		h.processCreation(customerEvent)
	case customer.EventTypeUpdated:
		h.processUpdate(customerEvent)
	case customer.EventTypeDeleted:
		h.processDeletion(customerEvent)
	case customer.EventTypeCreditScoreUpdated:
		h.processScoreChange(customerEvent)
	default:
		h.logger.Warn("unknown customer event type",
			zap.String("event_type", customerEvent.Type),
			zap.String("event_id", customerEvent.ID.String()))
	}

	return nil
}

func (h *CustomerEventHandler) processCreation(evt *customer.Event) {
	fields := []zap.Field{
		zap.String("customer_id", evt.CustomerID.String()),
		zap.String("message", evt.Message),
	}
	if evt.Details != nil {
		fields = append(fields,
			zap.String("email", evt.Details.Email),
			zap.Float64("credit_risk_score", evt.Details.CreditRiskScore))
	}
	h.logger.Info("customer created, queueing welcome notification", fields...)
}

func (h *CustomerEventHandler) processUpdate(evt *customer.Event) {
	fields := []zap.Field{
		zap.String("customer_id", evt.CustomerID.String()),
		zap.String("message", evt.Message),
	}
	if evt.Details != nil && evt.Details.IsHighValue {
		fields = append(fields, zap.Bool("high_value", true))
		h.logger.Info("high-value customer updated, flagging for premium review", fields...)
		return
	}
	h.logger.Info("customer updated", fields...)
}

func (h *CustomerEventHandler) processDeletion(evt *customer.Event) {
	h.logger.Info("customer deleted, scheduling data cleanup",
		zap.String("customer_id", evt.CustomerID.String()))
}

func (h *CustomerEventHandler) processScoreChange(evt *customer.Event) {
	fields := []zap.Field{
		zap.String("customer_id", evt.CustomerID.String()),
		zap.String("message", evt.Message),
	}
	if evt.Details != nil && evt.Details.ScoreChange != nil {
		fields = append(fields, zap.Int("score_change", *evt.Details.ScoreChange))
	}
	h.logger.Info("credit score changed, triggering risk reassessment", fields...)
}
