package notification

import (
	"fmt"

	"tms-backend/logger"
	notificationModel "tms-backend/models/notification"
	"tms-backend/models/trip"
	"tms-backend/services/reminder"
)

// Summary reports how many reminder notifications a run actually pushed.
type Summary struct {
	DriverReminders     int
	AccountantReminders int
}

// tripDigest is one line of the accountant digest.
type tripDigest struct {
	TripCode   string `json:"trip_code"`
	DriverName string `json:"driver_name"`
	OrderCode  string `json:"order_code"`
}

// Dispatcher fans a reminder run out into per-recipient notifications:
// one direct push per driver with a linked account, then one role broadcast
// per organization with due trips. Failures are isolated per item; a failed
// push never blocks the rest of the run.
type Dispatcher struct {
	sink Sink
}

func NewDispatcher(sink Sink) *Dispatcher {
	return &Dispatcher{sink: sink}
}

// DispatchBOLReminders visits every due trip exactly once, so sends are
// idempotent within the run.
func (d *Dispatcher) DispatchBOLReminders(result *reminder.Result, createdByID uint) *Summary {
	summary := &Summary{}

	for orgID, dueTrips := range result.DueByOrganization {
		digest := make([]tripDigest, 0, len(dueTrips))

		for _, due := range dueTrips {
			t := due.Trip

			// The trip always appears in the accountant digest, reachable
			// driver or not.
			digest = append(digest, tripDigest{
				TripCode:   t.Code,
				DriverName: t.Driver.FullName,
				OrderCode:  t.OrderCode,
			})

			if !t.Driver.HasLinkedAccount() {
				logger.Warning(fmt.Sprintf("Trip %s: driver %s has no linked account, skipping push", t.Code, t.Driver.FullName))
				continue
			}

			n := &notificationModel.Notification{
				Type:           notificationModel.TypeBillOfLadingDriverReminder,
				OrganizationID: orgID,
				CreatedByID:    createdByID,
				TargetID:       t.ID,
				Receivers:      []uint{*t.Driver.UserID},
				Data: map[string]interface{}{
					"trip_id":    t.ID,
					"trip_code":  t.Code,
					"order_code": t.OrderCode,
				},
			}
			if err := d.push(n); err != nil {
				logger.Error(fmt.Sprintf("Failed to push driver reminder for trip %s", t.Code), err)
				continue
			}
			summary.DriverReminders++
		}

		if len(dueTrips) == 0 {
			continue
		}

		accountant := &notificationModel.Notification{
			Type:           notificationModel.TypeBillOfLadingAccountantReminder,
			OrganizationID: orgID,
			CreatedByID:    createdByID,
			TargetID:       orgID,
			OrgMemberRoles: []notificationModel.OrgMemberRole{notificationModel.RoleAccountant},
			Data: map[string]interface{}{
				"trips":                      digest,
				"bill_of_lading_submit_date": result.Today.Format("2006-01-02"),
			},
		}
		if err := d.push(accountant); err != nil {
			logger.Error(fmt.Sprintf("Failed to push accountant digest for organization %d", orgID), err)
			continue
		}
		summary.AccountantReminders++
	}

	return summary
}

// DispatchTripStatusChanged notifies a trip's participants that a new status
// event was recorded. Recipients are resolved by the push service from the
// trip's participant list; delivery is fire-and-forget and a failure never
// affects the already-persisted transition.
func (d *Dispatcher) DispatchTripStatusChanged(organizationID, createdByID uint, entry *trip.OrderTripStatus) {
	n := &notificationModel.Notification{
		Type:                 notificationModel.TypeTripStatusChanged,
		OrganizationID:       organizationID,
		CreatedByID:          createdByID,
		TargetID:             entry.TripID,
		IsSendToParticipants: true,
		Data: map[string]interface{}{
			"trip_id":          entry.TripID,
			"driver_report_id": entry.DriverReportID,
		},
	}
	if err := d.push(n); err != nil {
		logger.Error(fmt.Sprintf("Failed to push status change for trip %d", entry.TripID), err)
	}
}

func (d *Dispatcher) push(n *notificationModel.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	return d.sink.Push(n)
}
