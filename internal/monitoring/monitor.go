package monitoring

import (
	"sync"
	"time"

	"nestsync/internal/models"
)

// StatusBoard holds the last computed depletion status per child and product
// type so overview endpoints and the websocket feed can serve a snapshot
// without recomputing.
type StatusBoard struct {
	statuses  map[string]models.DepletionStatus
	mu        sync.RWMutex
	startTime time.Time
}

// NewStatusBoard creates an empty status board
func NewStatusBoard() *StatusBoard {
	return &StatusBoard{
		statuses:  make(map[string]models.DepletionStatus),
		startTime: time.Now(),
	}
}

func key(childID string, productType models.ProductType) string {
	return childID + "/" + string(productType)
}

// Update stores the latest status for one child + product-type pair
func (b *StatusBoard) Update(status models.DepletionStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statuses[key(status.ChildID, status.ProductType)] = status
}

// Get returns the stored status for one child + product-type pair
func (b *StatusBoard) Get(childID string, productType models.ProductType) (models.DepletionStatus, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	status, exists := b.statuses[key(childID, productType)]
	return status, exists
}

// Snapshot returns a copy of every stored status
func (b *StatusBoard) Snapshot() []models.DepletionStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()

	// Copy to avoid handing out the internal map
	statuses := make([]models.DepletionStatus, 0, len(b.statuses))
	for _, s := range b.statuses {
		statuses = append(statuses, s)
	}
	return statuses
}

// Uptime reports how long the board has been alive
func (b *StatusBoard) Uptime() time.Duration {
	return time.Since(b.startTime)
}

// Reset clears all stored statuses
func (b *StatusBoard) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statuses = make(map[string]models.DepletionStatus)
}
