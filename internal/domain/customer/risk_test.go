package customer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskScore(t *testing.T) {
	t.Run("worst profile scores maximum risk", func(t *testing.T) {
		assert.InDelta(t, 1.0, RiskScore(300, 0), 1e-9)
	})

	t.Run("best profile scores minimum risk", func(t *testing.T) {
		assert.InDelta(t, 0.0, RiskScore(850, 200_000), 1e-9)
	})

	t.Run("salary contribution is capped", func(t *testing.T) {
		atCap := RiskScore(700, 200_000)
		aboveCap := RiskScore(700, 5_000_000)
		assert.InDelta(t, atCap, aboveCap, 1e-9)
	})

	t.Run("score stays within unit interval for valid inputs", func(t *testing.T) {
		for _, score := range []int{300, 500, 700, 850} {
			for _, salary := range []float64{0, 50_000, 200_000, 10_000_000} {
				risk := RiskScore(score, salary)
				assert.GreaterOrEqual(t, risk, 0.0)
				assert.LessOrEqual(t, risk, 1.0)
			}
		}
	})

	t.Run("higher credit score lowers risk", func(t *testing.T) {
		assert.Less(t, RiskScore(800, 50_000), RiskScore(600, 50_000))
	})
}

func TestCreditRating(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "Not Rated"},
		{850, "Excellent"},
		{750, "Excellent"},
		{749, "Good"},
		{700, "Good"},
		{699, "Fair"},
		{650, "Fair"},
		{649, "Poor"},
		{600, "Poor"},
		{599, "Very Poor"},
		{300, "Very Poor"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CreditRating(tt.score), "score %d", tt.score)
	}
}

func TestIsHighValue(t *testing.T) {
	assert.True(t, IsHighValue(750, 100_000))
	assert.False(t, IsHighValue(749, 100_000))
	assert.False(t, IsHighValue(750, 99_999))
	assert.True(t, IsHighValue(850, 500_000))
}
