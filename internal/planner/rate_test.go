package planner

import (
	"testing"
	"time"

	"nestsync/internal/models"

	"github.com/stretchr/testify/assert"
)

func event(occurredAt time.Time, qty int) models.UsageEvent {
	return models.UsageEvent{
		ChildID:          "child-1",
		ProductType:      models.ProductDiaper,
		OccurredAt:       occurredAt,
		QuantityConsumed: qty,
	}
}

func TestEstimateUsageRateWindowAverage(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

	// 28 changes over the 14-day window is 2 per day.
	var events []models.UsageEvent
	for day := 0; day < 14; day++ {
		at := now.Add(-time.Duration(day*24) * time.Hour)
		events = append(events, event(at, 1), event(at.Add(-6*time.Hour), 1))
	}

	est := EstimateUsageRate(events, now, DefaultConfig())
	assert.InDelta(t, 2.0, est.PerDay, 1e-9)
	assert.Equal(t, models.ConfidenceHigh, est.Confidence)
}

func TestEstimateUsageRateBelowSampleThreshold(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

	events := []models.UsageEvent{
		event(now.Add(-24*time.Hour), 1),
		event(now.Add(-48*time.Hour), 1),
	}

	est := EstimateUsageRate(events, now, DefaultConfig())
	assert.InDelta(t, 2.0/14.0, est.PerDay, 1e-9)
	assert.Equal(t, models.ConfidenceLow, est.Confidence)
}

func TestEstimateUsageRateFallsBackToFullHistory(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

	// Cream applied occasionally, last tube used 20 days ago. A quiet
	// fortnight must not flip the rate to zero.
	events := []models.UsageEvent{
		event(now.Add(-20*24*time.Hour), 1),
		event(now.Add(-30*24*time.Hour), 1),
		event(now.Add(-40*24*time.Hour), 2),
	}

	est := EstimateUsageRate(events, now, DefaultConfig())
	assert.InDelta(t, 4.0/40.0, est.PerDay, 1e-9)
	assert.Equal(t, models.ConfidenceLow, est.Confidence)
}

func TestEstimateUsageRateNoHistory(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

	est := EstimateUsageRate(nil, now, DefaultConfig())
	assert.Zero(t, est.PerDay)
	assert.Equal(t, models.ConfidenceLow, est.Confidence)
}

func TestEstimateUsageRateIgnoresFutureEvents(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

	events := []models.UsageEvent{
		event(now.Add(-24*time.Hour), 1),
		event(now.Add(-36*time.Hour), 1),
		event(now.Add(-48*time.Hour), 1),
		event(now.Add(2*time.Hour), 5), // clock skew artifact
	}

	est := EstimateUsageRate(events, now, DefaultConfig())
	assert.InDelta(t, 3.0/14.0, est.PerDay, 1e-9)
}

func TestEstimateUsageRateDeterministic(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	events := []models.UsageEvent{
		event(now.Add(-24*time.Hour), 1),
		event(now.Add(-72*time.Hour), 2),
		event(now.Add(-96*time.Hour), 1),
	}

	first := EstimateUsageRate(events, now, DefaultConfig())
	second := EstimateUsageRate(events, now, DefaultConfig())
	assert.Equal(t, first, second)
}

func TestEstimateUsageRateCustomWindow(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

	events := []models.UsageEvent{
		event(now.Add(-24*time.Hour), 3),
		event(now.Add(-48*time.Hour), 4),
		event(now.Add(-10*24*time.Hour), 100), // outside the narrowed window
	}

	cfg := DefaultConfig()
	cfg.LookbackWindowDays = 7
	cfg.MinimumSampleCount = 2

	est := EstimateUsageRate(events, now, cfg)
	assert.InDelta(t, 7.0/7.0, est.PerDay, 1e-9)
	assert.Equal(t, models.ConfidenceHigh, est.Confidence)
}
