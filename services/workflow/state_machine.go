package workflow

import (
	"sort"
	"time"

	"tms-backend/models/driverreport"
	"tms-backend/models/trip"
)

// Machine answers status questions for one trip from its driver-report
// catalog and recorded status history. It never mutates either; all mutation
// goes through Recorder.
type Machine struct {
	// catalog sorted by display order; CANCELED kept aside as the escape
	// hatch, excluded from the forward-progress sequence.
	forward  []driverreport.DriverReport
	canceled *driverreport.DriverReport
	byID     map[uint]driverreport.DriverReport

	// history in original insertion order; sorting happens on read.
	history []trip.OrderTripStatus
}

// NewMachine builds a Machine from an organization's catalog and a trip's
// status history. Neither slice is assumed to be pre-sorted.
func NewMachine(catalog []driverreport.DriverReport, history []trip.OrderTripStatus) *Machine {
	m := &Machine{
		byID:    make(map[uint]driverreport.DriverReport, len(catalog)),
		history: history,
	}
	for _, step := range catalog {
		m.byID[step.ID] = step
		if step.Type == driverreport.TypeCanceled {
			canceled := step
			m.canceled = &canceled
			continue
		}
		m.forward = append(m.forward, step)
	}
	sort.SliceStable(m.forward, func(i, j int) bool {
		return m.forward[i].DisplayOrder < m.forward[j].DisplayOrder
	})
	return m
}

// CurrentStatus returns the most recent history entry: maximum created_at,
// ties broken by insertion order. ok is false when the trip has no history.
func (m *Machine) CurrentStatus() (current trip.OrderTripStatus, ok bool) {
	for _, st := range m.history {
		// strictly After keeps the later insertion on equal timestamps
		if !ok || st.CreatedAt.After(current.CreatedAt) || st.CreatedAt.Equal(current.CreatedAt) {
			current = st
			ok = true
		}
	}
	return current, ok
}

// CurrentType returns the driver-report type of the current status, or
// UNKNOWN for an empty history.
func (m *Machine) CurrentType() driverreport.DriverReportType {
	current, ok := m.CurrentStatus()
	if !ok {
		return driverreport.TypeUnknown
	}
	step, found := m.byID[current.DriverReportID]
	if !found {
		return driverreport.TypeUnknown
	}
	return step.Type
}

// IsStepCompleted reports whether any history entry references the step.
func (m *Machine) IsStepCompleted(stepID uint) bool {
	for _, st := range m.history {
		if st.DriverReportID == stepID {
			return true
		}
	}
	return false
}

// IsStepReached reports whether progress has passed the step: its position in
// the forward sequence is at or before the current status's position. Reaching
// step N implies all steps before N are reached even without explicit events.
// CANCELED is reached only when explicitly recorded.
func (m *Machine) IsStepReached(stepID uint) bool {
	step, ok := m.byID[stepID]
	if !ok {
		return false
	}
	if step.Type == driverreport.TypeCanceled {
		return m.IsStepCompleted(stepID)
	}

	currentPos := m.currentPosition()
	if currentPos < 0 {
		return false
	}
	targetPos := m.forwardPosition(stepID)
	return targetPos >= 0 && targetPos <= currentPos
}

// CanTransitionTo reports whether recording the step is allowed: the step
// exists, progress has not already reached it, and the machine is not in a
// terminal state. CANCELED is allowed from any non-terminal state.
func (m *Machine) CanTransitionTo(stepID uint) bool {
	step, ok := m.byID[stepID]
	if !ok {
		return false
	}
	if m.CurrentType().IsTerminal() {
		return false
	}
	if step.Type == driverreport.TypeCanceled {
		return true
	}
	return !m.IsStepReached(stepID)
}

// PreviewTransition synthesizes the status list the trip would have after
// moving to the target step: every forward step up to and including the
// target, using the real recorded event where one exists and a synthetic
// timestamp offset by the step's display order in seconds otherwise. The
// projection is side-effect free and must never touch persisted history.
func (m *Machine) PreviewTransition(targetStepID uint) ([]trip.OrderTripStatus, error) {
	target, ok := m.byID[targetStepID]
	if !ok {
		return nil, ErrUnknownStep
	}
	if target.Type == driverreport.TypeCanceled {
		return nil, ErrInvalidTransition
	}

	base := time.Now()
	var preview []trip.OrderTripStatus
	for _, step := range m.forward {
		if step.DisplayOrder > target.DisplayOrder {
			break
		}
		if recorded, found := m.latestEventFor(step.ID); found {
			preview = append(preview, recorded)
			continue
		}
		preview = append(preview, trip.OrderTripStatus{
			DriverReportID: step.ID,
			DriverReport:   step,
			CreatedAt:      base.Add(time.Duration(step.DisplayOrder) * time.Second),
		})
	}
	return preview, nil
}

// latestEventFor returns the most recent recorded event for a step, ties
// broken by insertion order.
func (m *Machine) latestEventFor(stepID uint) (latest trip.OrderTripStatus, found bool) {
	for _, st := range m.history {
		if st.DriverReportID != stepID {
			continue
		}
		if !found || st.CreatedAt.After(latest.CreatedAt) || st.CreatedAt.Equal(latest.CreatedAt) {
			latest = st
			found = true
		}
	}
	return latest, found
}

// currentPosition is the forward-sequence index of the current status, or -1
// for empty/canceled-only histories.
func (m *Machine) currentPosition() int {
	current, ok := m.CurrentStatus()
	if !ok {
		return -1
	}
	return m.forwardPosition(current.DriverReportID)
}

func (m *Machine) forwardPosition(stepID uint) int {
	for i, step := range m.forward {
		if step.ID == stepID {
			return i
		}
	}
	return -1
}

// MaxCreatedAt returns the greatest created_at across the history; the zero
// time for an empty history.
func (m *Machine) MaxCreatedAt() time.Time {
	var max time.Time
	for _, st := range m.history {
		if st.CreatedAt.After(max) {
			max = st.CreatedAt
		}
	}
	return max
}
