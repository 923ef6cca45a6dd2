package messaging

import (
	"testing"

	"github.com/creditcore/backend/internal/domain/customer"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventValues(t *testing.T) {
	c, err := customer.NewCustomer("John", "Doe", "john@example.com", "", 720, 85_000)
	require.NoError(t, err)
	evt := c.GetDomainEvents()[0]

	values := eventValues(evt, []byte(`{"eventType":"CREATED"}`))

	assert.Equal(t, evt.EventID().String(), values[fieldEventID])
	assert.Equal(t, customer.EventTypeCreated, values[fieldEventType])
	assert.Equal(t, c.ID.String(), values[fieldAggregateID])
	assert.Equal(t, `{"eventType":"CREATED"}`, values[fieldPayload])
}

func TestEntryFields(t *testing.T) {
	t.Run("extracts type and payload", func(t *testing.T) {
		msg := redis.XMessage{
			ID: "1-0",
			Values: map[string]interface{}{
				fieldEventType: customer.EventTypeCreated,
				fieldPayload:   `{"eventType":"CREATED"}`,
			},
		}

		eventType, payload, ok := entryFields(msg)
		require.True(t, ok)
		assert.Equal(t, customer.EventTypeCreated, eventType)
		assert.Equal(t, `{"eventType":"CREATED"}`, payload)
	})

	t.Run("rejects entries missing fields", func(t *testing.T) {
		msg := redis.XMessage{
			ID:     "1-0",
			Values: map[string]interface{}{fieldEventType: customer.EventTypeCreated},
		}

		_, _, ok := entryFields(msg)
		assert.False(t, ok)
	})

	t.Run("rejects entries with empty type", func(t *testing.T) {
		msg := redis.XMessage{
			ID: "1-0",
			Values: map[string]interface{}{
				fieldEventType: "",
				fieldPayload:   `{}`,
			},
		}

		_, _, ok := entryFields(msg)
		assert.False(t, ok)
	})
}
