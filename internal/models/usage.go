package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

// ClockSkewTolerance is how far into the future an event timestamp may sit
// before it is rejected. Mobile clients report slightly skewed clocks.
const ClockSkewTolerance = 5 * time.Minute

// UsageEvent represents one discrete consumption action, e.g. a single
// diaper change. Events are immutable once created; corrections are made by
// deleting and re-logging, never by merging.
type UsageEvent struct {
	gorm.Model
	EventID          string      `gorm:"column:event_id;unique_index" json:"event_id"`
	ChildID          string      `gorm:"index" json:"child_id"`
	ProductType      ProductType `gorm:"index" json:"product_type"`
	OccurredAt       time.Time   `json:"occurred_at"`
	QuantityConsumed int         `json:"quantity_consumed"`
	WasWet           bool        `json:"was_wet"`
	WasSoiled        bool        `json:"was_soiled"`
}

// TableName sets the table name for UsageEvent
func (UsageEvent) TableName() string {
	return "usage_events"
}

// InFuture reports whether the event timestamp is beyond the allowed
// clock-skew tolerance relative to now
func (e *UsageEvent) InFuture(now time.Time) bool {
	return e.OccurredAt.After(now.Add(ClockSkewTolerance))
}

// PendingOrder represents a quantity of a product already ordered but not
// yet received. Fed into depletion classification so a shipment en route
// suppresses the low-stock alarm.
type PendingOrder struct {
	gorm.Model
	OrderID     string      `gorm:"column:order_id;unique_index" json:"order_id"`
	ChildID     string      `gorm:"index" json:"child_id"`
	ProductType ProductType `gorm:"index" json:"product_type"`
	Quantity    int         `json:"quantity"`
	ETA         *time.Time  `json:"eta,omitempty"`
	Received    bool        `json:"received"`
}

// TableName sets the table name for PendingOrder
func (PendingOrder) TableName() string {
	return "pending_orders"
}
