package driverreport

// DriverReportType tags a workflow step with its semantic position in the
// trip lifecycle.
type DriverReportType string

const (
	TypeNew                    DriverReportType = "NEW"
	TypePendingConfirmation    DriverReportType = "PENDING_CONFIRMATION"
	TypeConfirmed              DriverReportType = "CONFIRMED"
	TypeWaitingForPickup       DriverReportType = "WAITING_FOR_PICKUP"
	TypeWarehouseGoingToPickup DriverReportType = "WAREHOUSE_GOING_TO_PICKUP"
	TypeWarehousePickedUp      DriverReportType = "WAREHOUSE_PICKED_UP"
	TypeWaitingForDelivery     DriverReportType = "WAITING_FOR_DELIVERY"
	TypeDelivered              DriverReportType = "DELIVERED"
	TypeCompleted              DriverReportType = "COMPLETED"
	TypeCanceled               DriverReportType = "CANCELED"

	// TypeUnknown is the derived state of a trip with no recorded status.
	// It never appears in the catalog.
	TypeUnknown DriverReportType = "UNKNOWN"
)

func (t DriverReportType) String() string {
	return string(t)
}

func (t DriverReportType) IsValid() bool {
	switch t {
	case TypeNew, TypePendingConfirmation, TypeConfirmed, TypeWaitingForPickup,
		TypeWarehouseGoingToPickup, TypeWarehousePickedUp, TypeWaitingForDelivery,
		TypeDelivered, TypeCompleted, TypeCanceled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further forward progress is possible.
func (t DriverReportType) IsTerminal() bool {
	return t == TypeCompleted || t == TypeCanceled
}

// InForwardSequence returns true if the step participates in the ordered
// forward-progress sequence. CANCELED is an escape hatch, not a forward step.
func (t DriverReportType) InForwardSequence() bool {
	return t.IsValid() && t != TypeCanceled
}

// AllDriverReportTypes returns every valid catalog step type.
func AllDriverReportTypes() []DriverReportType {
	return []DriverReportType{
		TypeNew,
		TypePendingConfirmation,
		TypeConfirmed,
		TypeWaitingForPickup,
		TypeWarehouseGoingToPickup,
		TypeWarehousePickedUp,
		TypeWaitingForDelivery,
		TypeDelivered,
		TypeCompleted,
		TypeCanceled,
	}
}
