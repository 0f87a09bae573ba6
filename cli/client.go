package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ApiClient handles API requests to the NestSync planner API
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewApiClient creates a new API client
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("NESTSYNC_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: baseURL,
	}
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}

	return true, nil
}

// Child represents a tracked child profile
type Child struct {
	ChildID string `json:"ChildID"`
	Name    string `json:"Name"`
}

// DepletionStatus represents the planning state for one product type
type DepletionStatus struct {
	ChildID                  string   `json:"child_id"`
	ProductType              string   `json:"product_type"`
	AvailableQuantity        int      `json:"available_quantity"`
	DailyUsageRate           float64  `json:"daily_usage_rate"`
	DaysRemaining            *float64 `json:"days_remaining"`
	Unbounded                bool     `json:"unbounded"`
	StatusLevel              string   `json:"status_level"`
	SuggestedReorderQuantity int      `json:"suggested_reorder_quantity"`
	LowConfidence            bool     `json:"low_confidence"`
}

// InventoryRecord represents one purchased package
type InventoryRecord struct {
	RecordID          string `json:"record_id"`
	ProductType       string `json:"product_type"`
	Size              string `json:"size"`
	QuantityTotal     int    `json:"quantity_total"`
	QuantityRemaining int    `json:"quantity_remaining"`
}

// UsageEvent represents one logged consumption action
type UsageEvent struct {
	EventID     string `json:"event_id"`
	ProductType string `json:"product_type"`
	RecordID    string `json:"record_id,omitempty"`
}

// GetChildren retrieves all child profiles
func (c *ApiClient) GetChildren() ([]Child, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/api/v1/children")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get children with status code: %d", resp.StatusCode)
	}

	var children []Child
	if err := json.NewDecoder(resp.Body).Decode(&children); err != nil {
		return nil, err
	}

	return children, nil
}

// CreateChild creates a new child profile
func (c *ApiClient) CreateChild(name string) (*Child, error) {
	data, err := json.Marshal(map[string]string{"Name": name})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", c.BaseURL+"/api/v1/children", bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to create child: %s", string(body))
	}

	var child Child
	if err := json.NewDecoder(resp.Body).Decode(&child); err != nil {
		return nil, err
	}

	return &child, nil
}

// GetStatuses retrieves the depletion status for every product type a child
// has data for
func (c *ApiClient) GetStatuses(childID string) ([]DepletionStatus, error) {
	resp, err := c.httpClient.Get(fmt.Sprintf("%s/api/v1/children/%s/status", c.BaseURL, childID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get statuses: %s", string(body))
	}

	var statuses []DepletionStatus
	if err := json.NewDecoder(resp.Body).Decode(&statuses); err != nil {
		return nil, err
	}

	return statuses, nil
}

// GetInventory retrieves a child's inventory records
func (c *ApiClient) GetInventory(childID string) ([]InventoryRecord, error) {
	resp, err := c.httpClient.Get(fmt.Sprintf("%s/api/v1/children/%s/inventory", c.BaseURL, childID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get inventory with status code: %d", resp.StatusCode)
	}

	var records []InventoryRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, err
	}

	return records, nil
}

// LogUsage records one consumption action for a child
func (c *ApiClient) LogUsage(childID, productType, recordID string) (*UsageEvent, error) {
	payload := map[string]string{"product_type": productType}
	if recordID != "" {
		payload["record_id"] = recordID
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/api/v1/children/%s/usage", c.BaseURL, childID), bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to log usage: %s", string(body))
	}

	var event UsageEvent
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return nil, err
	}

	return &event, nil
}
