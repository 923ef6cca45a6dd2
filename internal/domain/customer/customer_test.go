package customer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCustomer(t *testing.T) *Customer {
	t.Helper()
	c, err := NewCustomer("John", "Doe", "john.doe@example.com", "+15551234567", 720, 85_000)
	require.NoError(t, err)
	return c
}

func TestNewCustomer(t *testing.T) {
	t.Run("valid customer is created with derived risk score", func(t *testing.T) {
		c := validCustomer(t)

		assert.Equal(t, "John", c.FirstName)
		assert.Equal(t, "Doe", c.LastName)
		assert.Equal(t, "john.doe@example.com", c.Email)
		assert.InDelta(t, RiskScore(720, 85_000), c.CreditRiskScore, 1e-9)
		assert.Equal(t, "John Doe", c.FullName())
	})

	t.Run("creation collects exactly one created event", func(t *testing.T) {
		c := validCustomer(t)

		events := c.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeCreated, events[0].EventType())
	})

	t.Run("email is normalized to lower case", func(t *testing.T) {
		c, err := NewCustomer("Jane", "Roe", "Jane.ROE@Example.COM", "", 650, 40_000)
		require.NoError(t, err)
		assert.Equal(t, "jane.roe@example.com", c.Email)
	})

	t.Run("invalid inputs are rejected", func(t *testing.T) {
		cases := []struct {
			name               string
			first, last, email string
			phone              string
			score              int
			salary             float64
		}{
			{"short first name", "J", "Doe", "j@example.com", "", 700, 50_000},
			{"missing email", "John", "Doe", "", "", 700, 50_000},
			{"malformed email", "John", "Doe", "not-an-email", "", 700, 50_000},
			{"bad phone", "John", "Doe", "j@example.com", "0123", 700, 50_000},
			{"score below range", "John", "Doe", "j@example.com", "", 299, 50_000},
			{"score above range", "John", "Doe", "j@example.com", "", 851, 50_000},
			{"negative salary", "John", "Doe", "j@example.com", "", 700, -1},
			{"salary above cap", "John", "Doe", "j@example.com", "", 700, 10_000_001},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewCustomer(tc.first, tc.last, tc.email, tc.phone, tc.score, tc.salary)
				assert.Error(t, err)
			})
		}
	})
}

func TestCustomerPresets(t *testing.T) {
	t.Run("high value preset", func(t *testing.T) {
		c, err := NewHighValueCustomer("Rich", "Client", "rich@example.com", "")
		require.NoError(t, err)
		assert.Equal(t, 800, c.CreditScore)
		assert.InDelta(t, 150_000, c.AnnualSalary, 1e-9)
		assert.True(t, c.IsHighValue())
	})

	t.Run("standard preset", func(t *testing.T) {
		c, err := NewStandardCustomer("Avg", "Client", "avg@example.com", "")
		require.NoError(t, err)
		assert.Equal(t, 650, c.CreditScore)
		assert.False(t, c.IsHighValue())
	})
}

func TestCustomer_ApplyUpdate(t *testing.T) {
	salary := func(v float64) *float64 { return &v }
	score := func(v int) *int { return &v }
	str := func(v string) *string { return &v }

	t.Run("partial update leaves absent fields untouched", func(t *testing.T) {
		c := validCustomer(t)
		c.ClearDomainEvents()

		require.NoError(t, c.ApplyUpdate(Update{AnnualSalary: salary(120_000)}))

		assert.Equal(t, "John", c.FirstName)
		assert.Equal(t, "Doe", c.LastName)
		assert.Equal(t, "john.doe@example.com", c.Email)
		assert.Equal(t, 720, c.CreditScore)
		assert.InDelta(t, 120_000, c.AnnualSalary, 1e-9)
	})

	t.Run("update recomputes the risk score", func(t *testing.T) {
		c := validCustomer(t)
		before := c.CreditRiskScore

		require.NoError(t, c.ApplyUpdate(Update{CreditScore: score(820)}))

		assert.InDelta(t, RiskScore(820, 85_000), c.CreditRiskScore, 1e-9)
		assert.Less(t, c.CreditRiskScore, before)
	})

	t.Run("update without score change emits only the updated event", func(t *testing.T) {
		c := validCustomer(t)
		c.ClearDomainEvents()

		require.NoError(t, c.ApplyUpdate(Update{FirstName: str("Johnny")}))

		events := c.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeUpdated, events[0].EventType())
	})

	t.Run("score change emits an additional score update event", func(t *testing.T) {
		c := validCustomer(t)
		c.ClearDomainEvents()

		require.NoError(t, c.ApplyUpdate(Update{CreditScore: score(680)}))

		events := c.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeUpdated, events[0].EventType())
		assert.Equal(t, EventTypeCreditScoreUpdated, events[1].EventType())
	})

	t.Run("invalid partial update is rejected without side effects", func(t *testing.T) {
		c := validCustomer(t)
		c.ClearDomainEvents()

		err := c.ApplyUpdate(Update{CreditScore: score(200)})
		assert.Error(t, err)
		assert.Equal(t, 720, c.CreditScore)
		assert.Empty(t, c.GetDomainEvents())
	})

	t.Run("update increments the aggregate version", func(t *testing.T) {
		c := validCustomer(t)
		version := c.GetVersion()
		require.NoError(t, c.ApplyUpdate(Update{Phone: str("+442071838750")}))
		assert.Equal(t, version+1, c.GetVersion())
	})
}

func TestCustomer_MarkDeleted(t *testing.T) {
	c := validCustomer(t)
	c.ClearDomainEvents()

	c.MarkDeleted()

	events := c.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeDeleted, events[0].EventType())
	assert.Equal(t, c.ID, events[0].AggregateID())
}
