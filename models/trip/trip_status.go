package trip

import (
	"time"

	"tms-backend/models/driverreport"
)

// OrderTripStatus is a single status event in a trip's history. Rows are
// append-only: they are never edited or deleted once written, and the most
// recent one (by created_at, ties broken by insertion order) defines the
// trip's current status.
type OrderTripStatus struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for trip relationship
	TripID uint `gorm:"not null;index" json:"trip_id"`

	// Foreign key for driver report (catalog step) relationship
	DriverReportID uint                      `gorm:"not null;index" json:"driver_report_id"`
	DriverReport   driverreport.DriverReport `gorm:"foreignKey:DriverReportID" json:"driver_report"`

	Notes     *string  `gorm:"type:text" json:"notes,omitempty"`
	Latitude  *float64 `gorm:"type:decimal(10,7)" json:"latitude,omitempty"`
	Longitude *float64 `gorm:"type:decimal(10,7)" json:"longitude,omitempty"`

	CreatedBy string    `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// TableName sets the table name for the OrderTripStatus model
func (OrderTripStatus) TableName() string {
	return "order_trip_statuses"
}
