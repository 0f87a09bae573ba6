package planner

import (
	"math"
	"testing"
	"time"

	"nestsync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var classifyNow = time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

func classifyInput(available int, rate float64) ClassifyInput {
	return ClassifyInput{
		ChildID:           "child-1",
		ProductType:       models.ProductDiaper,
		AvailableQuantity: available,
		Rate:              RateEstimate{PerDay: rate, Confidence: models.ConfidenceHigh},
		Now:               classifyNow,
	}
}

func TestClassifyCriticalWithReorderSuggestion(t *testing.T) {
	// 12 diapers at 4/day: exactly 3 days left.
	status, err := Classify(classifyInput(12, 4), DefaultConfig())
	require.NoError(t, err)

	assert.InDelta(t, 3.0, status.DaysRemaining, 1e-9)
	assert.Equal(t, models.StatusCritical, status.StatusLevel)
	assert.Equal(t, 108, status.SuggestedReorderQuantity) // ceil(4*30) - 12
	assert.False(t, status.LowConfidence)
}

func TestClassifyStocked(t *testing.T) {
	status, err := Classify(classifyInput(48, 4), DefaultConfig())
	require.NoError(t, err)

	assert.InDelta(t, 12.0, status.DaysRemaining, 1e-9)
	assert.Equal(t, models.StatusStocked, status.StatusLevel)
	assert.Zero(t, status.SuggestedReorderQuantity)
}

func TestClassifyPendingDeliveryOverride(t *testing.T) {
	eta := classifyNow.Add(3 * 24 * time.Hour)
	in := classifyInput(20, 4)
	in.PendingOrderQuantity = 60
	in.PendingOrderETA = &eta

	status, err := Classify(in, DefaultConfig())
	require.NoError(t, err)

	// Raw 5 days remaining is LOW, but 60 more arriving within the
	// lookahead pushes it to 20 days, so no alarm.
	assert.InDelta(t, 5.0, status.DaysRemaining, 1e-9)
	assert.Equal(t, models.StatusPendingDelivery, status.StatusLevel)
	assert.Zero(t, status.SuggestedReorderQuantity)
}

func TestClassifyPendingOrderTooLateOrTooSmall(t *testing.T) {
	lateETA := classifyNow.Add(10 * 24 * time.Hour)
	in := classifyInput(20, 4)
	in.PendingOrderQuantity = 60
	in.PendingOrderETA = &lateETA

	status, err := Classify(in, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, models.StatusLow, status.StatusLevel)
	// Suggestion still nets out the on-order quantity.
	assert.Equal(t, 40, status.SuggestedReorderQuantity) // ceil(4*30) - 20 - 60

	soonETA := classifyNow.Add(2 * 24 * time.Hour)
	in.PendingOrderQuantity = 4 // one day of cover, not enough to clear LOW
	in.PendingOrderETA = &soonETA

	status, err = Classify(in, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, models.StatusLow, status.StatusLevel)
}

func TestClassifyZeroRateIsUnboundedStocked(t *testing.T) {
	in := classifyInput(5, 0)
	in.Rate.Confidence = models.ConfidenceLow

	status, err := Classify(in, DefaultConfig())
	require.NoError(t, err)

	assert.True(t, status.Unbounded)
	assert.True(t, math.IsInf(status.DaysRemaining, 1))
	assert.Equal(t, models.StatusStocked, status.StatusLevel)
	assert.True(t, status.LowConfidence)
	assert.Zero(t, status.SuggestedReorderQuantity)
}

func TestClassifyThresholdBoundary(t *testing.T) {
	// Exactly 3.0 days is critical; a hair above is low.
	status, err := Classify(classifyInput(12, 4), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, models.StatusCritical, status.StatusLevel)

	status, err = Classify(classifyInput(12, 3.9999999), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, models.StatusLow, status.StatusLevel)

	// Exactly 7.0 days is low; above is stocked.
	status, err = Classify(classifyInput(28, 4), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, models.StatusLow, status.StatusLevel)

	status, err = Classify(classifyInput(29, 4), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, models.StatusStocked, status.StatusLevel)
}

func TestClassifyRejectsNegativeInputs(t *testing.T) {
	var argErr *InvalidArgumentError

	_, err := Classify(classifyInput(-1, 4), DefaultConfig())
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "availableQuantity", argErr.Field)

	_, err = Classify(classifyInput(10, -0.5), DefaultConfig())
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "dailyUsageRate", argErr.Field)

	in := classifyInput(10, 4)
	in.PendingOrderQuantity = -3
	_, err = Classify(in, DefaultConfig())
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "pendingOrderQuantity", argErr.Field)
}

func TestClassifyIdempotent(t *testing.T) {
	in := classifyInput(17, 3.5)

	first, err := Classify(in, DefaultConfig())
	require.NoError(t, err)
	second, err := Classify(in, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClassifyMonotonicInAvailableQuantity(t *testing.T) {
	prevDays := -1.0
	prevUrgency := math.MaxInt32

	for qty := 0; qty <= 60; qty += 4 {
		status, err := Classify(classifyInput(qty, 4), DefaultConfig())
		require.NoError(t, err)

		assert.GreaterOrEqual(t, status.DaysRemaining, prevDays,
			"days remaining must not decrease as stock grows")
		assert.LessOrEqual(t, status.StatusLevel.Urgency(), prevUrgency,
			"status must not become more urgent as stock grows")

		prevDays = status.DaysRemaining
		prevUrgency = status.StatusLevel.Urgency()
	}
}

func TestClassifyPackSizeRounding(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PackSize = 24

	status, err := Classify(classifyInput(12, 4), cfg)
	require.NoError(t, err)

	// Raw suggestion 108 rounds up to the next pack multiple.
	assert.Equal(t, 120, status.SuggestedReorderQuantity)
}

func TestClassifyCustomThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CriticalThresholdDays = 5
	cfg.LowThresholdDays = 10

	status, err := Classify(classifyInput(20, 4), cfg)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCritical, status.StatusLevel)

	status, err = Classify(classifyInput(36, 4), cfg)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLow, status.StatusLevel)
}
