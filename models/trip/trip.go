package trip

import (
	"time"

	"tms-backend/models/driver"
	"tms-backend/models/driverreport"
	"tms-backend/models/route"
)

// OrderTrip is a single vehicle/driver assignment fulfilling part or all of
// an order's transport.
type OrderTrip struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	OrganizationID uint   `gorm:"not null;index" json:"organization_id"`
	Code           string `gorm:"type:varchar(255);not null;unique" json:"code"`

	OrderID   uint   `gorm:"not null;index" json:"order_id"`
	OrderCode string `gorm:"type:varchar(255);not null" json:"order_code"`

	// Foreign key for driver relationship
	DriverID uint          `gorm:"not null" json:"driver_id"`
	Driver   driver.Driver `gorm:"foreignKey:DriverID" json:"driver"`

	VehicleNumber string `gorm:"type:varchar(50)" json:"vehicle_number"`

	// Foreign key for route relationship; nullable, a trip may be ad hoc
	RouteID *uint        `gorm:"index" json:"route_id,omitempty"`
	Route   *route.Route `gorm:"foreignKey:RouteID" json:"route,omitempty"`

	BillOfLadingReceived bool       `gorm:"type:bool;default:false" json:"bill_of_lading_received"`
	BillOfLadingNumber   *string    `gorm:"type:varchar(255)" json:"bill_of_lading_number,omitempty"`
	BillOfLadingDate     *time.Time `json:"bill_of_lading_date,omitempty"`

	// Derived from the most recent status event; maintained on every append
	// so list screens can filter without loading histories.
	LastStatusType driverreport.DriverReportType `gorm:"type:varchar(50);default:'UNKNOWN'" json:"last_status_type"`

	// History of status events, most-recent-first by convention. Callers must
	// not assume storage returns them pre-sorted.
	Statuses []OrderTripStatus `gorm:"foreignKey:TripID" json:"statuses"`

	CreatedBy string     `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"` // Soft delete field
}

// TableName sets the table name for the OrderTrip model
func (OrderTrip) TableName() string {
	return "order_trips"
}
