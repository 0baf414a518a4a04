package tracking

import (
	"github.com/go-playground/validator/v10"
)

// Share token target types.
const (
	TargetOrder = "ORDER"
	TargetTrip  = "TRIP"
)

// ShareTokenPayload is the plaintext carried inside an encrypted share
// token. Exactly one of OrderCode/TripCode is set depending on Type.
type ShareTokenPayload struct {
	Type           string `json:"type"`
	OrganizationID uint   `json:"organization_id"`
	OrderCode      string `json:"order_code,omitempty"`
	TripCode       string `json:"trip_code,omitempty"`
	Exp            int64  `json:"exp"`
}

// AccessRequest resolves a share token into its target.
type AccessRequest struct {
	Token string `json:"token" validate:"required"`
}

func (req *AccessRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}

// IssueRequest creates a share token for an order or trip.
type IssueRequest struct {
	Type       string `json:"type" validate:"required,oneof=ORDER TRIP"`
	TargetCode string `json:"target_code" validate:"required"`
	TTLHours   int    `json:"ttl_hours" validate:"omitempty,min=1,max=720"`
}

func (req *IssueRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}
