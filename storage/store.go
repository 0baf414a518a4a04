package storage

import (
	"errors"
	"time"

	"tms-backend/models/driverreport"
	"tms-backend/models/order"
	"tms-backend/models/organization"
	"tms-backend/models/trip"
	"tms-backend/models/user"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrExclusiveConflict is returned by mutating calls when the stored
	// version of a row no longer matches the caller's expected version.
	ErrExclusiveConflict = errors.New("record was modified by another writer")
)

// TripStore provides trip and status-history access.
type TripStore interface {
	GetTripByID(id uint) (*trip.OrderTrip, error)
	FindTripByCode(organizationID uint, code string) (*trip.OrderTrip, error)

	// FindTripsWithStaleStatusSince returns trips whose most recent status
	// event is at or after since and which have not yet submitted a bill of
	// lading. Driver (with linked user), route and status history are loaded.
	FindTripsWithStaleStatusSince(since time.Time) ([]trip.OrderTrip, error)

	// AppendStatus appends a status event to the trip's history and updates
	// the trip's derived last-status fields. The write is rejected with
	// ErrExclusiveConflict when the trip's UpdatedAt no longer equals
	// expectedUpdatedAt.
	AppendStatus(tripID uint, entry *trip.OrderTripStatus, expectedUpdatedAt time.Time) (*trip.OrderTripStatus, error)
}

// CatalogStore provides the driver-report status catalog.
type CatalogStore interface {
	DriverReportsByOrganization(organizationID uint) ([]driverreport.DriverReport, error)
	GetDriverReport(id uint) (*driverreport.DriverReport, error)
}

// SettingsStore provides reminder-window configuration.
type SettingsStore interface {
	GetOrganizationSetting(organizationID uint) (*organization.OrganizationSetting, error)

	// MaxRouteMinBOLDays returns the maximum route-level override across all
	// routes, or nil when no route configures one.
	MaxRouteMinBOLDays() (*int, error)

	// MaxOrganizationMinBOLDays returns the maximum organization-level
	// setting across all organizations, or nil when none is configured.
	MaxOrganizationMinBOLDays() (*int, error)
}

// OrderStore provides order lookup for share-link resolution.
type OrderStore interface {
	FindOrderByCode(organizationID uint, code string) (*order.Order, error)
}

// UserStore provides user lookup and notification bookkeeping.
type UserStore interface {
	GetUserByID(id uint) (*user.User, error)
	SetLastNotificationSentAt(userID uint, at time.Time) error
}

// Store aggregates all repository boundaries the core depends on.
type Store interface {
	TripStore
	CatalogStore
	SettingsStore
	OrderStore
	UserStore
}
