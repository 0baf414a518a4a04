package reminder

import (
	"errors"
	"time"

	"tms-backend/models/trip"
	"tms-backend/storage"

	"github.com/jinzhu/now"
)

// ErrNoWindow means no route or organization configures a bill-of-lading
// submit window; the run has nothing to do. It is a short-circuit, not a
// failure.
var ErrNoWindow = errors.New("no bill of lading reminder window configured")

// DueTrip is a trip whose bill-of-lading reminder falls exactly on the run's
// calendar date.
type DueTrip struct {
	Trip         trip.OrderTrip
	LastStatusAt time.Time
}

// Result holds the run's due trips partitioned by organization for batched
// accountant digests.
type Result struct {
	Today             time.Time
	DueByOrganization map[uint][]DueTrip
}

// TotalDue returns the number of due trips across all organizations.
func (r *Result) TotalDue() int {
	total := 0
	for _, trips := range r.DueByOrganization {
		total += len(trips)
	}
	return total
}

// Calculator computes which trips are due for a bill-of-lading reminder on a
// given calendar date. It keeps no state between runs; the status history is
// the single source of truth, so re-running within the same day yields the
// same result.
type Calculator struct {
	store storage.Store
}

func NewCalculator(store storage.Store) *Calculator {
	return &Calculator{store: store}
}

// DueOn runs the calculation for the calendar date of at. A single canonical
// "today" is captured up front so the window fetch and the per-trip date
// comparisons cannot skew.
func (c *Calculator) DueOn(at time.Time) (*Result, error) {
	today := now.With(at).BeginningOfDay()

	maxDays, err := c.maxWindowDays()
	if err != nil {
		return nil, err
	}
	if maxDays <= 0 {
		return nil, ErrNoWindow
	}

	windowStart := today.AddDate(0, 0, -maxDays)
	trips, err := c.store.FindTripsWithStaleStatusSince(windowStart)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Today:             today,
		DueByOrganization: make(map[uint][]DueTrip),
	}

	// Organization settings are fetched once per org within a run.
	settingDays := make(map[uint]*int)

	for _, t := range trips {
		lastAt, ok := lastStatusAt(t.Statuses)
		if !ok {
			// no history, nothing to compute a deadline from
			continue
		}

		effective, err := c.effectiveMinDays(&t, settingDays)
		if err != nil {
			return nil, err
		}
		if effective == nil {
			continue
		}

		dueDate := now.With(lastAt.AddDate(0, 0, *effective)).BeginningOfDay()
		// Exact day match only: a trip reminded once is not re-flagged on
		// later days. The daily scheduler enforces exactly-once.
		if !dueDate.Equal(today) {
			continue
		}

		result.DueByOrganization[t.OrganizationID] = append(
			result.DueByOrganization[t.OrganizationID],
			DueTrip{Trip: t, LastStatusAt: lastAt},
		)
	}

	return result, nil
}

// effectiveMinDays resolves the route override against the organization
// setting. A route value of 0 is a valid override; only nil falls back.
func (c *Calculator) effectiveMinDays(t *trip.OrderTrip, cache map[uint]*int) (*int, error) {
	if t.Route != nil && t.Route.MinBOLSubmitDays != nil {
		return t.Route.MinBOLSubmitDays, nil
	}

	if days, ok := cache[t.OrganizationID]; ok {
		return days, nil
	}

	setting, err := c.store.GetOrganizationSetting(t.OrganizationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			cache[t.OrganizationID] = nil
			return nil, nil
		}
		return nil, err
	}
	cache[t.OrganizationID] = setting.MinBOLSubmitDays
	return setting.MinBOLSubmitDays, nil
}

func (c *Calculator) maxWindowDays() (int, error) {
	routeMax, err := c.store.MaxRouteMinBOLDays()
	if err != nil {
		return 0, err
	}
	orgMax, err := c.store.MaxOrganizationMinBOLDays()
	if err != nil {
		return 0, err
	}

	max := 0
	if routeMax != nil && *routeMax > max {
		max = *routeMax
	}
	if orgMax != nil && *orgMax > max {
		max = *orgMax
	}
	return max, nil
}

// lastStatusAt returns the greatest created_at in the history; storage order
// is not trusted.
func lastStatusAt(history []trip.OrderTripStatus) (time.Time, bool) {
	var last time.Time
	found := false
	for _, st := range history {
		if !found || st.CreatedAt.After(last) {
			last = st.CreatedAt
			found = true
		}
	}
	return last, found
}
