package trip

import "github.com/go-playground/validator/v10"

// RecordStatusRequest records a driver-report transition on a trip.
type RecordStatusRequest struct {
	DriverReportID uint     `json:"driver_report_id" validate:"required"`
	Notes          string   `json:"notes"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
}

func (req *RecordStatusRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}

// StepView is the per-step rendering state derived from a trip's history.
type StepView struct {
	DriverReportID uint   `json:"driver_report_id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	DisplayOrder   int    `json:"display_order"`
	Completed      bool   `json:"completed"`
	Reached        bool   `json:"reached"`
}
