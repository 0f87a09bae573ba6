package planner

import (
	"sort"

	"nestsync/internal/models"
)

// AvailableQuantity sums the remaining quantity across a child's inventory
// records for one product type, optionally restricted to a single size.
// Exhausted records are skipped; an empty match yields 0, not an error.
// A record whose remaining quantity exceeds its total aborts the sum with a
// DataIntegrityError so a corrupt record can never inflate the answer.
func AvailableQuantity(records []models.InventoryRecord, productType models.ProductType, size string) (int, error) {
	total := 0
	for i := range records {
		rec := &records[i]
		if rec.ProductType != productType {
			continue
		}
		if size != "" && rec.Size != size {
			continue
		}
		if !rec.Consistent() {
			return 0, &DataIntegrityError{
				RecordID:          rec.RecordID,
				QuantityRemaining: rec.QuantityRemaining,
				QuantityTotal:     rec.QuantityTotal,
			}
		}
		if rec.Exhausted() {
			continue
		}
		total += rec.QuantityRemaining
	}
	return total, nil
}

// SizeBreakdown returns the per-size availability for one product type,
// ordered by the ordinal diaper scale where the product has one and
// alphabetically otherwise.
func SizeBreakdown(records []models.InventoryRecord, productType models.ProductType) ([]models.SizeQuantity, error) {
	totals := make(map[string]int)
	for i := range records {
		rec := &records[i]
		if rec.ProductType != productType {
			continue
		}
		if !rec.Consistent() {
			return nil, &DataIntegrityError{
				RecordID:          rec.RecordID,
				QuantityRemaining: rec.QuantityRemaining,
				QuantityTotal:     rec.QuantityTotal,
			}
		}
		if rec.Exhausted() {
			continue
		}
		totals[rec.Size] += rec.QuantityRemaining
	}

	breakdown := make([]models.SizeQuantity, 0, len(totals))
	for size, qty := range totals {
		breakdown = append(breakdown, models.SizeQuantity{Size: size, Quantity: qty})
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if productType.HasOrdinalSizes() {
			ri, _ := models.SizeRank(productType, breakdown[i].Size)
			rj, _ := models.SizeRank(productType, breakdown[j].Size)
			if ri != rj {
				return ri < rj
			}
			// Unknown sizes share a rank and fall through to name order.
		}
		return breakdown[i].Size < breakdown[j].Size
	})

	return breakdown, nil
}
