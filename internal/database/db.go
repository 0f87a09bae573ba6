package database

import (
	"fmt"
	"time"

	"nestsync/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL driver
	_ "github.com/jinzhu/gorm/dialects/sqlite"   // SQLite driver
)

var db *gorm.DB

// InitDB initializes the database connection. dialect is "sqlite3" or
// "postgres"; dsn is a file path for sqlite and a connection string for
// postgres.
func InitDB(dialect, dsn string) error {
	var err error
	db, err = gorm.Open(dialect, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	db.DB().SetMaxIdleConns(10)
	db.DB().SetMaxOpenConns(100)
	db.DB().SetConnMaxLifetime(time.Hour)

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}

// CloseDB closes the database connection
func CloseDB() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// Migrate creates and updates all required tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Child{},
		&models.InventoryRecord{},
		&models.UsageEvent{},
		&models.PendingOrder{},
	).Error
}
