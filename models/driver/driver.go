package driver

import (
	"time"

	"tms-backend/models/user"
)

// Driver is a person who operates vehicles for an organization. A driver may
// or may not have a linked application user account; without one they are
// unreachable via push notification.
type Driver struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	OrganizationID uint   `gorm:"not null;index" json:"organization_id"`
	FullName       string `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone          string `gorm:"type:varchar(20);not null" json:"phone"`

	// Linked user account, nullable
	UserID *uint      `gorm:"index" json:"user_id,omitempty"`
	User   *user.User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// HasLinkedAccount reports whether the driver can receive push notifications.
func (d *Driver) HasLinkedAccount() bool {
	return d.UserID != nil && *d.UserID != 0
}

// TableName sets the table name for the Driver model
func (Driver) TableName() string {
	return "drivers"
}
