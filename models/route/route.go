package route

import (
	"time"
)

// Route is a recurring transport lane for an organization. Its
// MinBOLSubmitDays overrides the organization-level setting per trip; 0 is a
// valid override, only NULL falls back to the organization setting.
type Route struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	OrganizationID uint   `gorm:"not null;index" json:"organization_id"`
	Code           string `gorm:"type:varchar(255);not null" json:"code"`
	Name           string `gorm:"type:varchar(255);not null" json:"name"`

	MinBOLSubmitDays *int `gorm:"type:int" json:"min_bol_submit_days,omitempty"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName sets the table name for the Route model
func (Route) TableName() string {
	return "routes"
}
