package storage

import (
	"sort"
	"sync"
	"time"

	"tms-backend/models/driverreport"
	"tms-backend/models/order"
	"tms-backend/models/organization"
	"tms-backend/models/trip"
	"tms-backend/models/user"
)

// MemoryStore is an in-memory Store implementation used by tests and local
// development.
type MemoryStore struct {
	mu sync.RWMutex

	Trips         map[uint]*trip.OrderTrip
	Statuses      map[uint][]trip.OrderTripStatus // keyed by trip ID, insertion order
	DriverReports map[uint]*driverreport.DriverReport
	Settings      map[uint]*organization.OrganizationSetting // keyed by organization ID
	Routes        map[uint]*organizationRoute
	Orders        map[uint]*order.Order
	Users         map[uint]*user.User

	nextStatusID uint
}

type organizationRoute struct {
	OrganizationID   uint
	MinBOLSubmitDays *int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Trips:         make(map[uint]*trip.OrderTrip),
		Statuses:      make(map[uint][]trip.OrderTripStatus),
		DriverReports: make(map[uint]*driverreport.DriverReport),
		Settings:      make(map[uint]*organization.OrganizationSetting),
		Routes:        make(map[uint]*organizationRoute),
		Orders:        make(map[uint]*order.Order),
		Users:         make(map[uint]*user.User),
		nextStatusID:  1,
	}
}

// AddRouteDays registers a route-level override for window computation.
func (s *MemoryStore) AddRouteDays(routeID, organizationID uint, minDays *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Routes[routeID] = &organizationRoute{OrganizationID: organizationID, MinBOLSubmitDays: minDays}
}

func (s *MemoryStore) GetTripByID(id uint) (*trip.OrderTrip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.Trips[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	cp.Statuses = append([]trip.OrderTripStatus(nil), s.Statuses[id]...)
	return &cp, nil
}

func (s *MemoryStore) FindTripByCode(organizationID uint, code string) (*trip.OrderTrip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, t := range s.Trips {
		if t.OrganizationID == organizationID && t.Code == code {
			cp := *t
			cp.Statuses = append([]trip.OrderTripStatus(nil), s.Statuses[id]...)
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindTripsWithStaleStatusSince(since time.Time) ([]trip.OrderTrip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []trip.OrderTrip
	ids := make([]uint, 0, len(s.Trips))
	for id := range s.Trips {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		t := s.Trips[id]
		if t.BillOfLadingReceived {
			continue
		}
		history := s.Statuses[id]
		if len(history) == 0 {
			continue
		}
		last := history[0].CreatedAt
		for _, st := range history {
			if st.CreatedAt.After(last) {
				last = st.CreatedAt
			}
		}
		if last.Before(since) {
			continue
		}
		cp := *t
		cp.Statuses = append([]trip.OrderTripStatus(nil), history...)
		out = append(out, cp)
	}
	return out, nil
}

func (s *MemoryStore) AppendStatus(tripID uint, entry *trip.OrderTripStatus, expectedUpdatedAt time.Time) (*trip.OrderTripStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.Trips[tripID]
	if !ok {
		return nil, ErrNotFound
	}
	if !t.UpdatedAt.Equal(expectedUpdatedAt) {
		return nil, ErrExclusiveConflict
	}
	rpt, ok := s.DriverReports[entry.DriverReportID]
	if !ok {
		return nil, ErrNotFound
	}

	entry.ID = s.nextStatusID
	s.nextStatusID++
	entry.TripID = tripID
	s.Statuses[tripID] = append(s.Statuses[tripID], *entry)

	t.LastStatusType = rpt.Type
	t.UpdatedAt = time.Now()
	return entry, nil
}

func (s *MemoryStore) DriverReportsByOrganization(organizationID uint) ([]driverreport.DriverReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var reports []driverreport.DriverReport
	for _, rpt := range s.DriverReports {
		if rpt.OrganizationID == organizationID {
			reports = append(reports, *rpt)
		}
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].DisplayOrder < reports[j].DisplayOrder })
	return reports, nil
}

func (s *MemoryStore) GetDriverReport(id uint) (*driverreport.DriverReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rpt, ok := s.DriverReports[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rpt
	return &cp, nil
}

func (s *MemoryStore) GetOrganizationSetting(organizationID uint) (*organization.OrganizationSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	setting, ok := s.Settings[organizationID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *setting
	return &cp, nil
}

func (s *MemoryStore) MaxRouteMinBOLDays() (*int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var max *int
	for _, r := range s.Routes {
		if r.MinBOLSubmitDays == nil {
			continue
		}
		if max == nil || *r.MinBOLSubmitDays > *max {
			v := *r.MinBOLSubmitDays
			max = &v
		}
	}
	return max, nil
}

func (s *MemoryStore) MaxOrganizationMinBOLDays() (*int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var max *int
	for _, setting := range s.Settings {
		if setting.MinBOLSubmitDays == nil {
			continue
		}
		if max == nil || *setting.MinBOLSubmitDays > *max {
			v := *setting.MinBOLSubmitDays
			max = &v
		}
	}
	return max, nil
}

func (s *MemoryStore) FindOrderByCode(organizationID uint, code string) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.Orders {
		if o.OrganizationID == organizationID && o.Code == code {
			cp := *o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetUserByID(id uint) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.Users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) SetLastNotificationSentAt(userID uint, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.Users[userID]
	if !ok {
		return ErrNotFound
	}
	u.LastNotificationSentAt = &at
	return nil
}

