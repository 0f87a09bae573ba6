package planner

import (
	"testing"
	"time"

	"nestsync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(productType models.ProductType, size string, remaining, total int) models.InventoryRecord {
	return models.InventoryRecord{
		RecordID:          "rec-" + size,
		ChildID:           "child-1",
		ProductType:       productType,
		Size:              size,
		QuantityTotal:     total,
		QuantityRemaining: remaining,
		PurchaseDate:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestAvailableQuantity(t *testing.T) {
	records := []models.InventoryRecord{
		record(models.ProductDiaper, models.Size3, 40, 88),
		record(models.ProductDiaper, models.Size3, 12, 88),
		record(models.ProductDiaper, models.Size4, 88, 88),
		record(models.ProductWipes, "standard", 60, 72),
		record(models.ProductDiaper, models.Size3, 0, 88), // exhausted, kept for history
	}

	qty, err := AvailableQuantity(records, models.ProductDiaper, "")
	require.NoError(t, err)
	assert.Equal(t, 140, qty)

	qty, err = AvailableQuantity(records, models.ProductDiaper, models.Size3)
	require.NoError(t, err)
	assert.Equal(t, 52, qty)

	qty, err = AvailableQuantity(records, models.ProductWipes, "")
	require.NoError(t, err)
	assert.Equal(t, 60, qty)
}

func TestAvailableQuantityNoMatches(t *testing.T) {
	records := []models.InventoryRecord{
		record(models.ProductDiaper, models.Size3, 40, 88),
	}

	qty, err := AvailableQuantity(records, models.ProductCream, "")
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	qty, err = AvailableQuantity(nil, models.ProductDiaper, "")
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
}

func TestAvailableQuantityRejectsCorruptRecord(t *testing.T) {
	// Remaining above total must abort the sum, never be summed silently.
	records := []models.InventoryRecord{
		record(models.ProductDiaper, models.Size3, 10, 5),
	}

	_, err := AvailableQuantity(records, models.ProductDiaper, "")
	require.Error(t, err)

	var integrityErr *DataIntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, 10, integrityErr.QuantityRemaining)
	assert.Equal(t, 5, integrityErr.QuantityTotal)
}

func TestSizeBreakdownOrdinalOrder(t *testing.T) {
	records := []models.InventoryRecord{
		record(models.ProductDiaper, models.Size4, 30, 88),
		record(models.ProductDiaper, models.SizeNewborn, 12, 36),
		record(models.ProductDiaper, models.Size2, 50, 88),
		record(models.ProductDiaper, models.Size2, 10, 88),
	}

	breakdown, err := SizeBreakdown(records, models.ProductDiaper)
	require.NoError(t, err)

	// Ordinal diaper scale, not string sort order.
	assert.Equal(t, []models.SizeQuantity{
		{Size: models.SizeNewborn, Quantity: 12},
		{Size: models.Size2, Quantity: 60},
		{Size: models.Size4, Quantity: 30},
	}, breakdown)
}

func TestSizeBreakdownAlphabeticalForCategorical(t *testing.T) {
	records := []models.InventoryRecord{
		record(models.ProductWipes, "travel", 20, 24),
		record(models.ProductWipes, "standard", 60, 72),
	}

	breakdown, err := SizeBreakdown(records, models.ProductWipes)
	require.NoError(t, err)

	assert.Equal(t, []models.SizeQuantity{
		{Size: "standard", Quantity: 60},
		{Size: "travel", Quantity: 20},
	}, breakdown)
}
