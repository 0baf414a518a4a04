package database

import (
	"fmt"
	"os"

	"tms-backend/logger"
	"tms-backend/models/driver"
	"tms-backend/models/driverreport"
	"tms-backend/models/log"
	"tms-backend/models/order"
	"tms-backend/models/organization"
	"tms-backend/models/route"
	"tms-backend/models/trip"
	"tms-backend/models/user"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	// Get database configuration from environment variables
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	username := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE") // Optional: "disable", "require", etc.

	// Set default sslmode if not provided
	if sslmode == "" {
		sslmode = "disable"
	}

	// Build PostgreSQL DSN string
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, username, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := Migrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	// Create indexes for better performance
	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// Migrate runs auto migration for all models in dependency stages
func Migrate(db *gorm.DB) error {
	// Stage 1: Core foundation models
	stage1Models := []interface{}{
		&user.User{},
		&organization.OrganizationSetting{},
		&driverreport.DriverReport{},
		&route.Route{},
	}

	for _, model := range stage1Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: Models with dependencies on Stage 1
	stage2Models := []interface{}{
		&driver.Driver{},
		&order.Order{},
		&trip.OrderTrip{},
		&trip.OrderTripStatus{},
	}

	for _, model := range stage2Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: Remaining models
	remainingModels := []interface{}{
		// Logging
		&log.AccessLog{},
	}

	for _, model := range remainingModels {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	// Trip indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_order_trips_code ON order_trips(code)").Error; err != nil {
		return fmt.Errorf("failed to create trip code index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_order_trips_last_status_type ON order_trips(last_status_type)").Error; err != nil {
		return fmt.Errorf("failed to create trip last_status_type index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_order_trips_bol_received ON order_trips(bill_of_lading_received)").Error; err != nil {
		return fmt.Errorf("failed to create trip bill_of_lading_received index: %w", err)
	}

	// Status history indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_order_trip_statuses_trip_created ON order_trip_statuses(trip_id, created_at)").Error; err != nil {
		return fmt.Errorf("failed to create status trip_id/created_at index: %w", err)
	}

	// Driver report indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_driver_reports_org_order ON driver_reports(organization_id, display_order)").Error; err != nil {
		return fmt.Errorf("failed to create driver report organization/display_order index: %w", err)
	}

	// Access log indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_access_logs_created_at ON access_logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create access log created_at index: %w", err)
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
