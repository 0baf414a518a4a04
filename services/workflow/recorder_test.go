package workflow

import (
	"testing"
	"time"

	"tms-backend/models/driverreport"
	"tms-backend/models/trip"
	"tms-backend/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecorderStore(t *testing.T) *storage.MemoryStore {
	t.Helper()

	store := storage.NewMemoryStore()
	for _, step := range testCatalog() {
		cp := step
		store.DriverReports[cp.ID] = &cp
	}
	store.Trips[1] = &trip.OrderTrip{
		ID:             1,
		OrganizationID: 1,
		Code:           "TRIP-001",
		UpdatedAt:      time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
	}
	return store
}

func TestRecordTransitionAppendsEvent(t *testing.T) {
	store := newRecorderStore(t)
	recorder := NewRecorder(store)

	entry, err := recorder.RecordTransition(1, 1, TransitionInput{Notes: "first report", CreatedBy: "7"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), entry.DriverReportID)
	assert.Equal(t, "7", entry.CreatedBy)
	require.NotNil(t, entry.Notes)
	assert.Equal(t, "first report", *entry.Notes)

	loaded, err := store.GetTripByID(1)
	require.NoError(t, err)
	require.Len(t, loaded.Statuses, 1)
	assert.Equal(t, driverreport.TypeNew, loaded.LastStatusType)
}

func TestRecordTransitionPersistsCoordinates(t *testing.T) {
	store := newRecorderStore(t)
	recorder := NewRecorder(store)

	lat, lon := 23.8103, 90.4125
	entry, err := recorder.RecordTransition(1, 1, TransitionInput{
		Latitude:  &lat,
		Longitude: &lon,
		CreatedBy: "7",
	})
	require.NoError(t, err)
	require.NotNil(t, entry.Latitude)
	require.NotNil(t, entry.Longitude)

	loaded, err := store.GetTripByID(1)
	require.NoError(t, err)
	require.Len(t, loaded.Statuses, 1)
	require.NotNil(t, loaded.Statuses[0].Latitude)
	require.NotNil(t, loaded.Statuses[0].Longitude)
	assert.Equal(t, lat, *loaded.Statuses[0].Latitude)
	assert.Equal(t, lon, *loaded.Statuses[0].Longitude)
}

func TestRecordTransitionHistoryIsAppendOnly(t *testing.T) {
	store := newRecorderStore(t)
	recorder := NewRecorder(store)

	_, err := recorder.RecordTransition(1, 1, TransitionInput{CreatedBy: "7"})
	require.NoError(t, err)
	_, err = recorder.RecordTransition(1, 2, TransitionInput{CreatedBy: "7"})
	require.NoError(t, err)
	_, err = recorder.RecordTransition(1, 3, TransitionInput{CreatedBy: "7"})
	require.NoError(t, err)

	loaded, err := store.GetTripByID(1)
	require.NoError(t, err)
	require.Len(t, loaded.Statuses, 3)
	assert.Equal(t, uint(1), loaded.Statuses[0].DriverReportID)
	assert.Equal(t, uint(2), loaded.Statuses[1].DriverReportID)
	assert.Equal(t, uint(3), loaded.Statuses[2].DriverReportID)
}

func TestRecordTransitionRejectsReachedStep(t *testing.T) {
	store := newRecorderStore(t)
	recorder := NewRecorder(store)

	_, err := recorder.RecordTransition(1, 3, TransitionInput{CreatedBy: "7"})
	require.NoError(t, err)

	_, err = recorder.RecordTransition(1, 3, TransitionInput{CreatedBy: "7"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = recorder.RecordTransition(1, 2, TransitionInput{CreatedBy: "7"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	loaded, err := store.GetTripByID(1)
	require.NoError(t, err)
	assert.Len(t, loaded.Statuses, 1, "rejected transitions leave no trace")
}

func TestRecordTransitionUnknownInputs(t *testing.T) {
	store := newRecorderStore(t)
	recorder := NewRecorder(store)

	_, err := recorder.RecordTransition(99, 1, TransitionInput{CreatedBy: "7"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = recorder.RecordTransition(1, 999, TransitionInput{CreatedBy: "7"})
	assert.ErrorIs(t, err, ErrUnknownStep)
}

func TestRecordTransitionNeverSortsBeforeHistory(t *testing.T) {
	store := newRecorderStore(t)

	// A clock-skewed event from the future already sits in the history.
	future := time.Now().Add(time.Hour)
	store.Statuses[1] = append(store.Statuses[1], trip.OrderTripStatus{
		ID:             100,
		TripID:         1,
		DriverReportID: 2,
		CreatedAt:      future,
	})

	recorder := NewRecorder(store)
	entry, err := recorder.RecordTransition(1, 3, TransitionInput{CreatedBy: "7"})
	require.NoError(t, err)

	assert.False(t, entry.CreatedAt.Before(future), "new entry must not sort before existing history")
}

// staleTripStore hands the recorder a trip snapshot whose version no longer
// matches the stored row, simulating a concurrent writer.
type staleTripStore struct {
	*storage.MemoryStore
}

func (s *staleTripStore) GetTripByID(id uint) (*trip.OrderTrip, error) {
	t, err := s.MemoryStore.GetTripByID(id)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt = t.UpdatedAt.Add(-time.Minute)
	return t, nil
}

func TestRecordTransitionDetectsConcurrentWrite(t *testing.T) {
	store := newRecorderStore(t)
	recorder := NewRecorder(&staleTripStore{MemoryStore: store})

	_, err := recorder.RecordTransition(1, 1, TransitionInput{CreatedBy: "7"})
	assert.ErrorIs(t, err, storage.ErrExclusiveConflict)

	loaded, err := store.GetTripByID(1)
	require.NoError(t, err)
	assert.Empty(t, loaded.Statuses)
}

// blockingStore parks the first read until released so a second transition
// can be attempted while the first is still in flight.
type blockingStore struct {
	*storage.MemoryStore
	entered chan struct{}
	release chan struct{}
}

func (s *blockingStore) GetTripByID(id uint) (*trip.OrderTrip, error) {
	select {
	case s.entered <- struct{}{}:
		<-s.release
	default:
	}
	return s.MemoryStore.GetTripByID(id)
}

func TestRecordTransitionSerializesPerTrip(t *testing.T) {
	store := &blockingStore{
		MemoryStore: newRecorderStore(t),
		entered:     make(chan struct{}, 1),
		release:     make(chan struct{}),
	}
	recorder := NewRecorder(store)

	done := make(chan error, 1)
	go func() {
		_, err := recorder.RecordTransition(1, 1, TransitionInput{CreatedBy: "7"})
		done <- err
	}()

	<-store.entered
	_, err := recorder.RecordTransition(1, 2, TransitionInput{CreatedBy: "7"})
	assert.ErrorIs(t, err, ErrTransitionInFlight)

	close(store.release)
	require.NoError(t, <-done)

	// The lock is released after the first transition settles.
	_, err = recorder.RecordTransition(1, 2, TransitionInput{CreatedBy: "7"})
	require.NoError(t, err)
}
