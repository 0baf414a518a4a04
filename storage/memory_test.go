package storage

import (
	"testing"
	"time"

	"tms-backend/models/driverreport"
	"tms-backend/models/trip"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreWithTrip() *MemoryStore {
	store := NewMemoryStore()
	store.DriverReports[1] = &driverreport.DriverReport{
		ID:             1,
		OrganizationID: 1,
		Name:           "New",
		Type:           driverreport.TypeNew,
		DisplayOrder:   1,
	}
	store.Trips[1] = &trip.OrderTrip{
		ID:             1,
		OrganizationID: 1,
		Code:           "TRIP-001",
		UpdatedAt:      time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
	}
	return store
}

func TestAppendStatusUpdatesDerivedFields(t *testing.T) {
	store := newStoreWithTrip()
	expected := store.Trips[1].UpdatedAt

	entry, err := store.AppendStatus(1, &trip.OrderTripStatus{
		DriverReportID: 1,
		CreatedAt:      time.Now(),
	}, expected)
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
	assert.Equal(t, uint(1), entry.TripID)

	loaded, err := store.GetTripByID(1)
	require.NoError(t, err)
	assert.Equal(t, driverreport.TypeNew, loaded.LastStatusType)
	assert.False(t, loaded.UpdatedAt.Equal(expected), "a successful append bumps the trip version")
	require.Len(t, loaded.Statuses, 1)
}

func TestAppendStatusRejectsStaleVersion(t *testing.T) {
	store := newStoreWithTrip()
	stale := store.Trips[1].UpdatedAt.Add(-time.Minute)

	_, err := store.AppendStatus(1, &trip.OrderTripStatus{
		DriverReportID: 1,
		CreatedAt:      time.Now(),
	}, stale)
	assert.ErrorIs(t, err, ErrExclusiveConflict)

	loaded, err := store.GetTripByID(1)
	require.NoError(t, err)
	assert.Empty(t, loaded.Statuses)
}

func TestFindTripsWithStaleStatusSince(t *testing.T) {
	store := newStoreWithTrip()
	since := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)

	// In window.
	store.Statuses[1] = []trip.OrderTripStatus{
		{TripID: 1, DriverReportID: 1, CreatedAt: since.Add(24 * time.Hour)},
	}

	// Last status before the window start.
	store.Trips[2] = &trip.OrderTrip{ID: 2, OrganizationID: 1, Code: "TRIP-OLD"}
	store.Statuses[2] = []trip.OrderTripStatus{
		{TripID: 2, DriverReportID: 1, CreatedAt: since.Add(-24 * time.Hour)},
	}

	// Bill of lading already submitted.
	store.Trips[3] = &trip.OrderTrip{ID: 3, OrganizationID: 1, Code: "TRIP-DONE", BillOfLadingReceived: true}
	store.Statuses[3] = []trip.OrderTripStatus{
		{TripID: 3, DriverReportID: 1, CreatedAt: since.Add(24 * time.Hour)},
	}

	// No history at all.
	store.Trips[4] = &trip.OrderTrip{ID: 4, OrganizationID: 1, Code: "TRIP-FRESH"}

	trips, err := store.FindTripsWithStaleStatusSince(since)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "TRIP-001", trips[0].Code)
	require.Len(t, trips[0].Statuses, 1, "history is loaded with the trip")
}
