package driverreport

import (
	"time"
)

// DriverReport is a named workflow step definition for an organization.
// The set of driver reports forms the status catalog a trip walks through;
// DisplayOrder defines the forward-progress ordering.
type DriverReport struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	OrganizationID uint    `gorm:"not null;index" json:"organization_id"`
	Name           string  `gorm:"type:varchar(255);not null" json:"name"`
	Description    *string `gorm:"type:text" json:"description,omitempty"`

	Type         DriverReportType `gorm:"type:varchar(50);not null" json:"type"`
	DisplayOrder int              `gorm:"type:int;not null" json:"display_order"`
	IsSystem     bool             `gorm:"type:bool;default:false" json:"is_system"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the DriverReport model
func (DriverReport) TableName() string {
	return "driver_reports"
}
