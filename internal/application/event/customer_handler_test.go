package event

import (
	"context"
	"testing"
	"time"

	"github.com/creditcore/backend/internal/domain/customer"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCustomerEventHandler_EventTypes(t *testing.T) {
	handler := NewCustomerEventHandler(zap.NewNop())
	assert.ElementsMatch(t, []string{"CREATED", "UPDATED", "DELETED", "CREDIT_SCORE_UPDATED"}, handler.EventTypes())
}

func TestCustomerEventHandler_Handle(t *testing.T) {
	ctx := context.Background()

	newHandler := func() (*CustomerEventHandler, *observer.ObservedLogs) {
		core, logs := observer.New(zap.InfoLevel)
		return NewCustomerEventHandler(zap.New(core)), logs
	}

	makeCustomer := func(t *testing.T) *customer.Customer {
		t.Helper()
		c, err := customer.NewCustomer("John", "Doe", "john@example.com", "", 720, 85_000)
		require.NoError(t, err)
		return c
	}

	t.Run("created event is dispatched to creation processing", func(t *testing.T) {
		handler, logs := newHandler()
		evt := customer.NewCreatedEvent(makeCustomer(t))

		require.NoError(t, handler.Handle(ctx, evt))
		require.Equal(t, 1, logs.Len())
		assert.Contains(t, logs.All()[0].Message, "customer created")
	})

	t.Run("high value update is flagged for premium review", func(t *testing.T) {
		handler, logs := newHandler()
		rich, err := customer.NewHighValueCustomer("Rich", "Client", "rich@example.com", "")
		require.NoError(t, err)

		require.NoError(t, handler.Handle(ctx, customer.NewHighValueOrUpdatedEvent(rich)))
		require.Equal(t, 1, logs.Len())
		assert.Contains(t, logs.All()[0].Message, "premium review")
	})

	t.Run("score change logs the delta", func(t *testing.T) {
		handler, logs := newHandler()
		evt := customer.NewCreditScoreUpdatedEvent(makeCustomer(t), 680)

		require.NoError(t, handler.Handle(ctx, evt))
		require.Equal(t, 1, logs.Len())
		assert.Contains(t, logs.All()[0].Message, "risk reassessment")
	})

	t.Run("unknown event type is logged and dropped", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		handler := NewCustomerEventHandler(zap.New(core))
		evt := &customer.Event{
			ID:         uuid.New(),
			Type:       "MYSTERY",
			CustomerID: uuid.New(),
			Timestamp:  time.Now(),
		}

		require.NoError(t, handler.Handle(ctx, evt))
		require.Equal(t, 1, logs.Len())
		assert.Contains(t, logs.All()[0].Message, "unknown customer event type")
	})
}
