package monitoring

import (
	"testing"

	"nestsync/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestStatusBoardUpdateAndGet(t *testing.T) {
	board := NewStatusBoard()

	status := models.DepletionStatus{
		ChildID:       "child-1",
		ProductType:   models.ProductDiaper,
		DaysRemaining: 5,
		StatusLevel:   models.StatusLow,
	}
	board.Update(status)

	got, exists := board.Get("child-1", models.ProductDiaper)
	assert.True(t, exists)
	assert.Equal(t, models.StatusLow, got.StatusLevel)

	_, exists = board.Get("child-1", models.ProductWipes)
	assert.False(t, exists)
}

func TestStatusBoardUpdateReplaces(t *testing.T) {
	board := NewStatusBoard()

	board.Update(models.DepletionStatus{
		ChildID: "child-1", ProductType: models.ProductDiaper, StatusLevel: models.StatusCritical,
	})
	board.Update(models.DepletionStatus{
		ChildID: "child-1", ProductType: models.ProductDiaper, StatusLevel: models.StatusStocked,
	})

	got, _ := board.Get("child-1", models.ProductDiaper)
	assert.Equal(t, models.StatusStocked, got.StatusLevel)
	assert.Len(t, board.Snapshot(), 1)
}

func TestStatusBoardSnapshotIsCopy(t *testing.T) {
	board := NewStatusBoard()
	board.Update(models.DepletionStatus{
		ChildID: "child-1", ProductType: models.ProductDiaper, StatusLevel: models.StatusStocked,
	})

	snapshot := board.Snapshot()
	snapshot[0].StatusLevel = models.StatusCritical

	got, _ := board.Get("child-1", models.ProductDiaper)
	assert.Equal(t, models.StatusStocked, got.StatusLevel)
}

func TestStatusBoardReset(t *testing.T) {
	board := NewStatusBoard()
	board.Update(models.DepletionStatus{
		ChildID: "child-1", ProductType: models.ProductDiaper,
	})

	board.Reset()
	assert.Empty(t, board.Snapshot())
}

func TestMetricsCollectorRecords(t *testing.T) {
	collector := NewMetricsCollector()

	collector.RecordStatusComputation(models.DepletionStatus{
		ChildID:       "child-1",
		ProductType:   models.ProductDiaper,
		DaysRemaining: 4.5,
		StatusLevel:   models.StatusLow,
	})
	collector.RecordUsageEvent(models.ProductDiaper)

	families, err := collector.Registry().Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["depletion_status_computations_total"])
	assert.True(t, names["depletion_days_remaining"])
	assert.True(t, names["usage_events_logged_total"])
}
