package planner

import (
	"math"
	"time"

	"nestsync/internal/models"
)

// ClassifyInput carries everything the depletion classifier needs for one
// child + product-type pair. PendingOrderQuantity and PendingOrderETA come
// from the reorder tracker; their absence means no shipment en route.
type ClassifyInput struct {
	ChildID              string
	ProductType          models.ProductType
	AvailableQuantity    int
	Rate                 RateEstimate
	PendingOrderQuantity int
	PendingOrderETA      *time.Time
	Now                  time.Time
}

// Classify turns an available quantity and a usage rate into a days-remaining
// estimate, a status level, and a concrete reorder suggestion.
//
// A zero rate yields an unbounded days-remaining (never a division error) and
// classifies as STOCKED. Negative inputs are caller bugs and fail fast with
// an InvalidArgumentError. Pure: identical inputs always produce identical
// output, so the caller may recompute after any write without invalidation
// bookkeeping.
func Classify(in ClassifyInput, cfg Config) (models.DepletionStatus, error) {
	cfg = cfg.withDefaults()

	if in.AvailableQuantity < 0 {
		return models.DepletionStatus{}, &InvalidArgumentError{Field: "availableQuantity", Value: float64(in.AvailableQuantity)}
	}
	if in.Rate.PerDay < 0 {
		return models.DepletionStatus{}, &InvalidArgumentError{Field: "dailyUsageRate", Value: in.Rate.PerDay}
	}
	if in.PendingOrderQuantity < 0 {
		return models.DepletionStatus{}, &InvalidArgumentError{Field: "pendingOrderQuantity", Value: float64(in.PendingOrderQuantity)}
	}

	status := models.DepletionStatus{
		ChildID:           in.ChildID,
		ProductType:       in.ProductType,
		AvailableQuantity: in.AvailableQuantity,
		DailyUsageRate:    in.Rate.PerDay,
		LowConfidence:     in.Rate.Confidence == models.ConfidenceLow,
	}

	if in.Rate.PerDay == 0 {
		status.DaysRemaining = math.Inf(1)
		status.Unbounded = true
	} else {
		status.DaysRemaining = float64(in.AvailableQuantity) / in.Rate.PerDay
	}

	status.StatusLevel = classifyLevel(status.DaysRemaining, cfg)

	if pendingOverride(in, status.DaysRemaining, cfg) {
		status.StatusLevel = models.StatusPendingDelivery
	}

	if status.StatusLevel == models.StatusCritical || status.StatusLevel == models.StatusLow {
		status.SuggestedReorderQuantity = suggestReorder(in, cfg)
	}

	return status, nil
}

// classifyLevel applies the raw day thresholds. The critical boundary is
// inclusive: exactly criticalThresholdDays left is still critical.
func classifyLevel(daysRemaining float64, cfg Config) models.StatusLevel {
	switch {
	case daysRemaining <= float64(cfg.CriticalThresholdDays):
		return models.StatusCritical
	case daysRemaining <= float64(cfg.LowThresholdDays):
		return models.StatusLow
	default:
		return models.StatusStocked
	}
}

// pendingOverride reports whether an inbound shipment should suppress the
// alarm: the order must exist, arrive within the lookahead horizon, and be
// large enough to push days remaining above the low threshold once received.
func pendingOverride(in ClassifyInput, daysRemaining float64, cfg Config) bool {
	if in.PendingOrderQuantity <= 0 || in.PendingOrderETA == nil {
		return false
	}
	if daysRemaining > float64(cfg.LowThresholdDays) {
		// Already stocked; nothing to override.
		return false
	}
	lookahead := time.Duration(cfg.PendingOrderLookaheadDays) * hoursPerDay * time.Hour
	if in.PendingOrderETA.After(in.Now.Add(lookahead)) {
		return false
	}
	if in.Rate.PerDay == 0 {
		return true
	}
	afterDelivery := float64(in.AvailableQuantity+in.PendingOrderQuantity) / in.Rate.PerDay
	return afterDelivery > float64(cfg.LowThresholdDays)
}

// suggestReorder covers the target horizon net of stock on hand and stock
// already on order, rounded up to the seller pack size when configured.
func suggestReorder(in ClassifyInput, cfg Config) int {
	needed := int(math.Ceil(in.Rate.PerDay * float64(cfg.ReorderTargetHorizonDays)))
	suggested := needed - in.AvailableQuantity - in.PendingOrderQuantity
	if suggested < 0 {
		suggested = 0
	}
	if cfg.PackSize > 0 && suggested > 0 {
		if rem := suggested % cfg.PackSize; rem != 0 {
			suggested += cfg.PackSize - rem
		}
	}
	return suggested
}
