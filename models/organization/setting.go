package organization

import (
	"time"
)

// OrganizationSetting holds per-organization workflow configuration; one row
// per organization.
type OrganizationSetting struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	OrganizationID uint `gorm:"not null;unique" json:"organization_id"`

	// Days after the last status event before a bill of lading reminder is
	// due. NULL disables the reminder for the organization unless a route
	// overrides it.
	MinBOLSubmitDays *int `gorm:"type:int" json:"min_bol_submit_days,omitempty"`

	MinVehicleDocumentReminderDays *int `gorm:"type:int" json:"min_vehicle_document_reminder_days,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the OrganizationSetting model
func (OrganizationSetting) TableName() string {
	return "organization_settings"
}
