package order

import (
	"time"
)

// Order is the parent transport order; an order may be fulfilled by many
// trips.
type Order struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	OrganizationID uint   `gorm:"not null;index" json:"organization_id"`
	Code           string `gorm:"type:varchar(255);not null;unique" json:"code"`
	CustomerName   string `gorm:"type:varchar(255)" json:"customer_name"`

	CreatedBy string     `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"` // Soft delete field
}

// TableName sets the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
