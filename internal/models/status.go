package models

import (
	"encoding/json"
	"math"
)

// StatusLevel represents the depletion classification for one
// child + product-type pair
type StatusLevel string

const (
	// Status levels
	StatusCritical        StatusLevel = "critical"
	StatusLow             StatusLevel = "low"
	StatusStocked         StatusLevel = "stocked"
	StatusPendingDelivery StatusLevel = "pending_delivery"
)

// Urgency ranks status levels from least to most urgent. PENDING_DELIVERY
// ranks with STOCKED since a shipment en route is not an alarm state.
func (s StatusLevel) Urgency() int {
	switch s {
	case StatusCritical:
		return 2
	case StatusLow:
		return 1
	default:
		return 0
	}
}

// RateConfidence represents how trustworthy an estimated usage rate is
type RateConfidence string

const (
	ConfidenceLow  RateConfidence = "low"
	ConfidenceHigh RateConfidence = "high"
)

// DepletionStatus represents the current planning state for one
// child + product-type pair. Derived on demand from inventory records and
// usage events, never persisted as source of truth.
type DepletionStatus struct {
	ChildID                  string      `json:"child_id"`
	ProductType              ProductType `json:"product_type"`
	AvailableQuantity        int         `json:"available_quantity"`
	DailyUsageRate           float64     `json:"daily_usage_rate"`
	DaysRemaining            float64     `json:"days_remaining"`
	Unbounded                bool        `json:"unbounded"`
	StatusLevel              StatusLevel `json:"status_level"`
	SuggestedReorderQuantity int         `json:"suggested_reorder_quantity"`
	LowConfidence            bool        `json:"low_confidence"`
}

// MarshalJSON emits null for days_remaining when the estimate is unbounded,
// since encoding/json cannot represent +Inf
func (d DepletionStatus) MarshalJSON() ([]byte, error) {
	type alias DepletionStatus
	out := struct {
		alias
		DaysRemaining *float64 `json:"days_remaining"`
	}{alias: alias(d)}
	if !d.Unbounded && !math.IsInf(d.DaysRemaining, 1) {
		days := d.DaysRemaining
		out.DaysRemaining = &days
	}
	return json.Marshal(out)
}

// SizeQuantity represents one entry of a per-size availability breakdown
type SizeQuantity struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}
