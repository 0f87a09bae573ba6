package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

// Child represents one tracked child profile. A child exclusively owns its
// inventory records, usage events, and pending orders.
type Child struct {
	gorm.Model
	ChildID     string `gorm:"column:child_id;unique_index"`
	Name        string
	DateOfBirth *time.Time
	Notes       string
}

// TableName sets the table name for Child
func (Child) TableName() string {
	return "children"
}
