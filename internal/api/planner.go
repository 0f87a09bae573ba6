package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"nestsync/internal/database"
	"nestsync/internal/models"
	"nestsync/internal/monitoring"
	"nestsync/internal/notify"
	"nestsync/internal/planner"

	"github.com/gin-gonic/gin"
)

// PlannerAPI represents the main API handler for depletion planning
type PlannerAPI struct {
	Router  *gin.Engine
	Store   *database.Store
	Config  planner.Config
	Metrics *monitoring.MetricsCollector
	Board   *monitoring.StatusBoard
	Hub     *notify.Hub
	// Now is injected so handlers never read the wall clock directly
	Now func() time.Time
}

// NewPlannerAPI creates a new planner API instance
func NewPlannerAPI(store *database.Store, cfg planner.Config, metrics *monitoring.MetricsCollector) *PlannerAPI {
	router := gin.Default()

	api := &PlannerAPI{
		Router:  router,
		Store:   store,
		Config:  cfg,
		Metrics: metrics,
		Board:   monitoring.NewStatusBoard(),
		Hub:     notify.NewHub(),
		Now:     time.Now,
	}

	router.Use(api.requestMetrics())
	api.setupRoutes()
	return api
}

// setupRoutes configures all API endpoints
func (p *PlannerAPI) setupRoutes() {
	// Health check
	p.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "uptime_seconds": p.Board.Uptime().Seconds()})
	})

	// Live status feed
	p.Router.GET("/ws/status", p.Hub.HandleWS)

	v1 := p.Router.Group("/api/v1")
	{
		// Child profiles
		v1.POST("/children", p.CreateChild)
		v1.GET("/children", p.ListChildren)
		v1.GET("/children/:id", p.GetChild)

		// Inventory management
		v1.POST("/children/:id/inventory", p.CreateInventory)
		v1.GET("/children/:id/inventory", p.ListInventory)
		v1.GET("/children/:id/inventory/breakdown", p.GetBreakdown)
		v1.PUT("/inventory/:record_id", p.UpdateInventory)
		v1.DELETE("/inventory/:record_id", p.DeleteInventory)

		// Usage logging
		v1.POST("/children/:id/usage", p.LogUsage)
		v1.GET("/children/:id/usage", p.ListUsage)

		// Reorder tracking
		v1.POST("/children/:id/orders", p.CreateOrder)
		v1.GET("/children/:id/orders", p.ListOrders)
		v1.POST("/orders/:order_id/received", p.MarkOrderReceived)

		// Depletion planning
		v1.GET("/children/:id/status", p.GetStatus)
	}
}

// requestMetrics observes request latency per route
func (p *PlannerAPI) requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		p.Metrics.RecordRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// Child profile handlers

func (p *PlannerAPI) CreateChild(c *gin.Context) {
	var child models.Child
	if err := c.ShouldBindJSON(&child); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := p.Store.CreateChild(&child); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, child)
}

func (p *PlannerAPI) ListChildren(c *gin.Context) {
	children, err := p.Store.ListChildren()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, children)
}

func (p *PlannerAPI) GetChild(c *gin.Context) {
	child, err := p.Store.GetChild(c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Child not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, child)
}

// Inventory management handlers

type inventoryRequest struct {
	ProductType       models.ProductType `json:"product_type"`
	Size              string             `json:"size"`
	QuantityTotal     int                `json:"quantity_total"`
	QuantityRemaining *int               `json:"quantity_remaining"`
	PurchaseDate      *time.Time         `json:"purchase_date"`
	ExpiryDate        *time.Time         `json:"expiry_date"`
	IsOpened          bool               `json:"is_opened"`
}

func (p *PlannerAPI) CreateInventory(c *gin.Context) {
	var req inventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.ProductType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown product type"})
		return
	}
	if req.QuantityTotal < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity_total must not be negative"})
		return
	}

	// A fresh package defaults to completely unused.
	remaining := req.QuantityTotal
	if req.QuantityRemaining != nil {
		remaining = *req.QuantityRemaining
	}
	if remaining < 0 || remaining > req.QuantityTotal {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity_remaining must be between 0 and quantity_total"})
		return
	}

	purchase := p.Now()
	if req.PurchaseDate != nil {
		purchase = *req.PurchaseDate
	}

	rec := models.InventoryRecord{
		ChildID:           c.Param("id"),
		ProductType:       req.ProductType,
		Size:              req.Size,
		QuantityTotal:     req.QuantityTotal,
		QuantityRemaining: remaining,
		PurchaseDate:      purchase,
		ExpiryDate:        req.ExpiryDate,
		IsOpened:          req.IsOpened,
	}
	if err := p.Store.CreateInventoryRecord(&rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	p.refreshStatus(rec.ChildID, rec.ProductType)
	c.JSON(http.StatusCreated, rec)
}

func (p *PlannerAPI) ListInventory(c *gin.Context) {
	records, err := p.Store.ListInventory(
		c.Param("id"),
		models.ProductType(c.Query("product_type")),
		c.Query("size"),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (p *PlannerAPI) GetBreakdown(c *gin.Context) {
	productType := models.ProductType(c.Query("product_type"))
	if !productType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown product type"})
		return
	}

	records, err := p.Store.ListInventory(c.Param("id"), productType, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	breakdown, err := planner.SizeBreakdown(records, productType)
	if err != nil {
		var integrityErr *planner.DataIntegrityError
		if errors.As(err, &integrityErr) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "record_id": integrityErr.RecordID})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product_type": productType, "sizes": breakdown})
}

func (p *PlannerAPI) UpdateInventory(c *gin.Context) {
	rec, err := p.Store.GetInventoryRecord(c.Param("record_id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory record not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req inventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.QuantityTotal > 0 {
		rec.QuantityTotal = req.QuantityTotal
	}
	if req.QuantityRemaining != nil {
		rec.QuantityRemaining = *req.QuantityRemaining
	}
	if req.Size != "" {
		rec.Size = req.Size
	}
	if req.ExpiryDate != nil {
		rec.ExpiryDate = req.ExpiryDate
	}
	rec.IsOpened = req.IsOpened

	if !rec.Consistent() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity_remaining must be between 0 and quantity_total"})
		return
	}

	if err := p.Store.UpdateInventoryRecord(rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	p.refreshStatus(rec.ChildID, rec.ProductType)
	c.JSON(http.StatusOK, rec)
}

func (p *PlannerAPI) DeleteInventory(c *gin.Context) {
	// Load first so the status refresh knows which pair to recompute.
	rec, err := p.Store.GetInventoryRecord(c.Param("record_id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory record not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := p.Store.DeleteInventoryRecord(rec.RecordID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	p.refreshStatus(rec.ChildID, rec.ProductType)
	c.JSON(http.StatusOK, gin.H{"message": "Inventory record deleted"})
}

// Usage logging handlers

type usageRequest struct {
	ProductType      models.ProductType `json:"product_type"`
	OccurredAt       *time.Time         `json:"occurred_at"`
	QuantityConsumed int                `json:"quantity_consumed"`
	RecordID         string             `json:"record_id"`
	WasWet           bool               `json:"was_wet"`
	WasSoiled        bool               `json:"was_soiled"`
}

func (p *PlannerAPI) LogUsage(c *gin.Context) {
	var req usageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.ProductType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown product type"})
		return
	}

	now := p.Now()
	occurredAt := now
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	event := models.UsageEvent{
		ChildID:          c.Param("id"),
		ProductType:      req.ProductType,
		OccurredAt:       occurredAt,
		QuantityConsumed: req.QuantityConsumed,
		WasWet:           req.WasWet,
		WasSoiled:        req.WasSoiled,
	}

	if event.InFuture(now) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "occurred_at is in the future"})
		return
	}

	err := p.Store.LogUsage(&event, req.RecordID)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory record not found"})
		return
	}
	if errors.Is(err, database.ErrInsufficientQuantity) {
		c.JSON(http.StatusConflict, gin.H{"error": "Not enough remaining quantity in the selected package"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	p.Metrics.RecordUsageEvent(event.ProductType)
	p.refreshStatus(event.ChildID, event.ProductType)
	c.JSON(http.StatusCreated, event)
}

func (p *PlannerAPI) ListUsage(c *gin.Context) {
	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be RFC3339"})
			return
		}
		since = &parsed
	}

	events, err := p.Store.ListUsage(c.Param("id"), models.ProductType(c.Query("product_type")), since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, events)
}

// Reorder tracking handlers

type orderRequest struct {
	ProductType models.ProductType `json:"product_type"`
	Quantity    int                `json:"quantity"`
	ETA         *time.Time         `json:"eta"`
}

func (p *PlannerAPI) CreateOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.ProductType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown product type"})
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
		return
	}

	order := models.PendingOrder{
		ChildID:     c.Param("id"),
		ProductType: req.ProductType,
		Quantity:    req.Quantity,
		ETA:         req.ETA,
	}
	if err := p.Store.CreatePendingOrder(&order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	p.refreshStatus(order.ChildID, order.ProductType)
	c.JSON(http.StatusCreated, order)
}

func (p *PlannerAPI) ListOrders(c *gin.Context) {
	orders, err := p.Store.ListPendingOrders(c.Param("id"), models.ProductType(c.Query("product_type")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (p *PlannerAPI) MarkOrderReceived(c *gin.Context) {
	err := p.Store.MarkOrderReceived(c.Param("order_id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order marked as received"})
}

// Depletion planning handlers

func (p *PlannerAPI) GetStatus(c *gin.Context) {
	childID := c.Param("id")

	if raw := c.Query("product_type"); raw != "" {
		productType := models.ProductType(raw)
		if !productType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown product type"})
			return
		}

		status, err := p.computeStatus(childID, productType)
		if err != nil {
			p.renderStatusError(c, err)
			return
		}
		c.JSON(http.StatusOK, status)
		return
	}

	// No filter: report every product type the child has any data for.
	statuses := make([]models.DepletionStatus, 0, len(models.ProductTypes))
	for _, productType := range models.ProductTypes {
		status, err := p.computeStatus(childID, productType)
		if err != nil {
			p.renderStatusError(c, err)
			return
		}
		if status.AvailableQuantity == 0 && status.DailyUsageRate == 0 {
			continue
		}
		statuses = append(statuses, status)
	}

	c.JSON(http.StatusOK, statuses)
}

func (p *PlannerAPI) renderStatusError(c *gin.Context, err error) {
	var integrityErr *planner.DataIntegrityError
	if errors.As(err, &integrityErr) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "record_id": integrityErr.RecordID})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// computeStatus recomputes the depletion status for one child+product pair
// from current inventory and usage state. Pure recomputation: safe to run
// after any write with no invalidation bookkeeping.
func (p *PlannerAPI) computeStatus(childID string, productType models.ProductType) (models.DepletionStatus, error) {
	records, err := p.Store.ListInventory(childID, productType, "")
	if err != nil {
		return models.DepletionStatus{}, err
	}

	available, err := planner.AvailableQuantity(records, productType, "")
	if err != nil {
		return models.DepletionStatus{}, err
	}

	events, err := p.Store.ListUsage(childID, productType, nil)
	if err != nil {
		return models.DepletionStatus{}, err
	}

	now := p.Now()
	rate := planner.EstimateUsageRate(events, now, p.Config)

	pendingQty, pendingETA, err := p.Store.OpenOrderTotals(childID, productType)
	if err != nil {
		return models.DepletionStatus{}, err
	}

	status, err := planner.Classify(planner.ClassifyInput{
		ChildID:              childID,
		ProductType:          productType,
		AvailableQuantity:    available,
		Rate:                 rate,
		PendingOrderQuantity: pendingQty,
		PendingOrderETA:      pendingETA,
		Now:                  now,
	}, p.Config)
	if err != nil {
		return models.DepletionStatus{}, err
	}

	p.Metrics.RecordStatusComputation(status)
	p.Board.Update(status)
	return status, nil
}

// refreshStatus recomputes after a write and pushes the result to
// subscribers. Failures only log; the write that triggered the refresh has
// already succeeded.
func (p *PlannerAPI) refreshStatus(childID string, productType models.ProductType) {
	status, err := p.computeStatus(childID, productType)
	if err != nil {
		log.Printf("status refresh failed for %s/%s: %v", childID, productType, err)
		return
	}
	p.Hub.Broadcast(status)
}
