package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

// InventoryRecord represents one purchased package or batch of a product.
// Tracks total and remaining quantities, purchase and expiry dates, and
// whether the package has been opened, for depletion planning and history.
type InventoryRecord struct {
	gorm.Model
	RecordID          string      `gorm:"column:record_id;unique_index" json:"record_id"`
	ChildID           string      `gorm:"index" json:"child_id"`
	ProductType       ProductType `gorm:"index" json:"product_type"`
	Size              string      `json:"size"`
	QuantityTotal     int         `json:"quantity_total"`
	QuantityRemaining int         `json:"quantity_remaining"`
	PurchaseDate      time.Time   `json:"purchase_date"`
	ExpiryDate        *time.Time  `json:"expiry_date,omitempty"`
	IsOpened          bool        `json:"is_opened"`
}

// TableName sets the table name for InventoryRecord
func (InventoryRecord) TableName() string {
	return "inventory_records"
}

// Exhausted reports whether the package has nothing left. Exhausted records
// are excluded from available totals but kept for history.
func (r *InventoryRecord) Exhausted() bool {
	return r.QuantityRemaining <= 0
}

// Consistent reports whether the remaining quantity is within bounds.
// A remaining quantity above the package total is a data-integrity
// violation and must never be summed into an available total.
func (r *InventoryRecord) Consistent() bool {
	return r.QuantityRemaining >= 0 && r.QuantityRemaining <= r.QuantityTotal
}
