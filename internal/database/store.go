package database

import (
	"errors"
	"time"

	"nestsync/internal/models"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

// Store errors
var (
	ErrNotFound             = errors.New("record not found")
	ErrInsufficientQuantity = errors.New("not enough remaining quantity")
)

// Store wraps the gorm connection with the queries the planner and API need
type Store struct {
	db *gorm.DB
}

// NewStore creates a store over an initialized database connection
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateChild inserts a child profile and assigns its public id
func (s *Store) CreateChild(child *models.Child) error {
	if child.ChildID == "" {
		child.ChildID = uuid.New().String()
	}
	return s.db.Create(child).Error
}

// GetChild loads one child profile by public id
func (s *Store) GetChild(childID string) (*models.Child, error) {
	var child models.Child
	err := s.db.Where("child_id = ?", childID).First(&child).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &child, nil
}

// ListChildren returns all child profiles
func (s *Store) ListChildren() ([]models.Child, error) {
	var children []models.Child
	if err := s.db.Order("created_at").Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

// CreateInventoryRecord inserts a purchased package for a child
func (s *Store) CreateInventoryRecord(rec *models.InventoryRecord) error {
	if rec.RecordID == "" {
		rec.RecordID = uuid.New().String()
	}
	return s.db.Create(rec).Error
}

// GetInventoryRecord loads one inventory record by public id
func (s *Store) GetInventoryRecord(recordID string) (*models.InventoryRecord, error) {
	var rec models.InventoryRecord
	err := s.db.Where("record_id = ?", recordID).First(&rec).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListInventory returns a child's inventory records, optionally filtered by
// product type and size. Exhausted records are included; filtering them is
// the aggregator's job.
func (s *Store) ListInventory(childID string, productType models.ProductType, size string) ([]models.InventoryRecord, error) {
	query := s.db.Where("child_id = ?", childID)
	if productType != "" {
		query = query.Where("product_type = ?", productType)
	}
	if size != "" {
		query = query.Where("size = ?", size)
	}

	var records []models.InventoryRecord
	if err := query.Order("purchase_date").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// UpdateInventoryRecord saves user edits to an existing record
func (s *Store) UpdateInventoryRecord(rec *models.InventoryRecord) error {
	return s.db.Save(rec).Error
}

// DeleteInventoryRecord removes a record. Deletion is an explicit, confirmed
// user action; nothing in the planner deletes records implicitly.
func (s *Store) DeleteInventoryRecord(recordID string) error {
	result := s.db.Where("record_id = ?", recordID).Delete(&models.InventoryRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LogUsage records a consumption event and decrements the chosen inventory
// record in the same transaction. The decrement is a single guarded UPDATE
// so rapid logging from multiple devices cannot produce a lost update or a
// negative remaining quantity.
func (s *Store) LogUsage(event *models.UsageEvent, recordID string) error {
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.QuantityConsumed <= 0 {
		event.QuantityConsumed = 1
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if recordID != "" {
		result := tx.Model(&models.InventoryRecord{}).
			Where("record_id = ? AND quantity_remaining >= ?", recordID, event.QuantityConsumed).
			UpdateColumn("quantity_remaining", gorm.Expr("quantity_remaining - ?", event.QuantityConsumed))
		if result.Error != nil {
			tx.Rollback()
			return result.Error
		}
		if result.RowsAffected == 0 {
			tx.Rollback()
			var rec models.InventoryRecord
			if gorm.IsRecordNotFoundError(s.db.Where("record_id = ?", recordID).First(&rec).Error) {
				return ErrNotFound
			}
			return ErrInsufficientQuantity
		}
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// DeleteUsageEvent removes an event logged in error
func (s *Store) DeleteUsageEvent(eventID string) error {
	result := s.db.Where("event_id = ?", eventID).Delete(&models.UsageEvent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUsage returns a child's usage events for one product type, newest
// first, optionally restricted to events at or after since.
func (s *Store) ListUsage(childID string, productType models.ProductType, since *time.Time) ([]models.UsageEvent, error) {
	query := s.db.Where("child_id = ?", childID)
	if productType != "" {
		query = query.Where("product_type = ?", productType)
	}
	if since != nil {
		query = query.Where("occurred_at >= ?", *since)
	}

	var events []models.UsageEvent
	if err := query.Order("occurred_at desc").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// CreatePendingOrder inserts a tracked reorder for a child
func (s *Store) CreatePendingOrder(order *models.PendingOrder) error {
	if order.OrderID == "" {
		order.OrderID = uuid.New().String()
	}
	return s.db.Create(order).Error
}

// ListPendingOrders returns a child's unreceived orders, optionally filtered
// by product type
func (s *Store) ListPendingOrders(childID string, productType models.ProductType) ([]models.PendingOrder, error) {
	query := s.db.Where("child_id = ? AND received = ?", childID, false)
	if productType != "" {
		query = query.Where("product_type = ?", productType)
	}

	var orders []models.PendingOrder
	if err := query.Order("created_at").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// OpenOrderTotals collapses a child's unreceived orders for one product type
// into a total quantity and the earliest ETA, the shape the classifier
// consumes. No open orders is a normal state, not an error.
func (s *Store) OpenOrderTotals(childID string, productType models.ProductType) (int, *time.Time, error) {
	orders, err := s.ListPendingOrders(childID, productType)
	if err != nil {
		return 0, nil, err
	}

	total := 0
	var earliest *time.Time
	for i := range orders {
		total += orders[i].Quantity
		if orders[i].ETA == nil {
			continue
		}
		if earliest == nil || orders[i].ETA.Before(*earliest) {
			earliest = orders[i].ETA
		}
	}
	return total, earliest, nil
}

// MarkOrderReceived flags a pending order as delivered
func (s *Store) MarkOrderReceived(orderID string) error {
	result := s.db.Model(&models.PendingOrder{}).
		Where("order_id = ?", orderID).
		UpdateColumn("received", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
