package workflow

import (
	"sync"
	"time"

	"tms-backend/models/driverreport"
	"tms-backend/models/trip"
	"tms-backend/storage"
)

// Recorder is the only writer of trip status history. It serializes
// transitions per trip so two actors (driver app and dispatcher UI) cannot
// interleave appends, and backs that with the store's optimistic version
// check.
type Recorder struct {
	store storage.Store

	mu       sync.Mutex
	inFlight map[uint]bool
}

func NewRecorder(store storage.Store) *Recorder {
	return &Recorder{
		store:    store,
		inFlight: make(map[uint]bool),
	}
}

// TransitionInput carries the caller-supplied fields of a status event:
// free-text notes, the reporting device's coordinates and the acting user.
type TransitionInput struct {
	Notes     string
	Latitude  *float64
	Longitude *float64
	CreatedBy string
}

// RecordTransition validates the transition against the trip's catalog and
// history, then appends a new status event. History entries are never edited
// or removed; the new entry's timestamp never precedes existing ones.
func (r *Recorder) RecordTransition(tripID, targetStepID uint, input TransitionInput) (*trip.OrderTripStatus, error) {
	if !r.acquire(tripID) {
		return nil, ErrTransitionInFlight
	}
	defer r.release(tripID)

	t, err := r.store.GetTripByID(tripID)
	if err != nil {
		return nil, err
	}

	catalog, err := r.store.DriverReportsByOrganization(t.OrganizationID)
	if err != nil {
		return nil, err
	}

	step := findStep(catalog, targetStepID)
	if step == nil {
		return nil, ErrUnknownStep
	}

	machine := NewMachine(catalog, t.Statuses)
	if !machine.CanTransitionTo(targetStepID) {
		return nil, ErrInvalidTransition
	}

	createdAt := time.Now()
	// No time travel: the append must not sort before any prior entry.
	if last := machine.MaxCreatedAt(); createdAt.Before(last) {
		createdAt = last
	}

	entry := &trip.OrderTripStatus{
		TripID:         tripID,
		DriverReportID: targetStepID,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      createdAt,
	}
	if input.Notes != "" {
		notes := input.Notes
		entry.Notes = &notes
	}

	return r.store.AppendStatus(tripID, entry, t.UpdatedAt)
}

func (r *Recorder) acquire(tripID uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFlight[tripID] {
		return false
	}
	r.inFlight[tripID] = true
	return true
}

func (r *Recorder) release(tripID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, tripID)
}

func findStep(catalog []driverreport.DriverReport, id uint) *driverreport.DriverReport {
	for i := range catalog {
		if catalog[i].ID == id {
			return &catalog[i]
		}
	}
	return nil
}
