package planner

import (
	"time"

	"nestsync/internal/models"
)

const hoursPerDay = 24.0

// RateEstimate holds an estimated daily consumption rate and how much the
// caller should trust it
type RateEstimate struct {
	PerDay     float64
	Confidence models.RateConfidence
}

// EstimateUsageRate computes a representative daily consumption rate from a
// child's usage events for one product type. Recent behavior dominates: only
// events inside the lookback window count toward the primary average. With
// no events in the window the estimate falls back to the full-history
// average so a single quiet day cannot flip a low-frequency product to a
// zero rate. With no events at all the rate is 0 and the caller must treat
// it as "no signal", not "infinite supply confirmed".
//
// now is injected rather than read from the clock so the estimate is
// deterministic and testable.
func EstimateUsageRate(events []models.UsageEvent, now time.Time, cfg Config) RateEstimate {
	cfg = cfg.withDefaults()

	windowDays := float64(cfg.LookbackWindowDays)
	windowStart := now.Add(-time.Duration(cfg.LookbackWindowDays) * hoursPerDay * time.Hour)

	inWindow := 0
	consumedInWindow := 0
	totalConsumed := 0
	var oldest time.Time

	for i := range events {
		ev := &events[i]
		totalConsumed += ev.QuantityConsumed
		if oldest.IsZero() || ev.OccurredAt.Before(oldest) {
			oldest = ev.OccurredAt
		}
		if !ev.OccurredAt.Before(windowStart) && !ev.OccurredAt.After(now) {
			inWindow++
			consumedInWindow += ev.QuantityConsumed
		}
	}

	if inWindow == 0 {
		if totalConsumed == 0 || oldest.IsZero() {
			return RateEstimate{PerDay: 0, Confidence: models.ConfidenceLow}
		}
		ageDays := now.Sub(oldest).Hours() / hoursPerDay
		if ageDays <= 0 {
			return RateEstimate{PerDay: 0, Confidence: models.ConfidenceLow}
		}
		return RateEstimate{
			PerDay:     float64(totalConsumed) / ageDays,
			Confidence: models.ConfidenceLow,
		}
	}

	confidence := models.ConfidenceHigh
	if inWindow < cfg.MinimumSampleCount {
		confidence = models.ConfidenceLow
	}

	return RateEstimate{
		PerDay:     float64(consumedInWindow) / windowDays,
		Confidence: confidence,
	}
}
