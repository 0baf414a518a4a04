package log

import (
	"time"
)

// AccessLog records every successful tracking share-link access. Writing it
// is part of the tracking endpoint contract, not optional telemetry.
type AccessLog struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID uint   `gorm:"not null;index" json:"organization_id"`
	TokenType      string `gorm:"type:varchar(20);not null" json:"token_type"`
	TargetCode     string `gorm:"type:varchar(255);not null" json:"target_code"`

	Device   string `gorm:"type:varchar(255)" json:"device"`
	OS       string `gorm:"type:varchar(255)" json:"os"`
	Browser  string `gorm:"type:varchar(255)" json:"browser"`
	Referrer string `gorm:"type:text" json:"referrer"`
	IP       string `gorm:"type:varchar(64)" json:"ip"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the AccessLog model
func (AccessLog) TableName() string {
	return "access_logs"
}
