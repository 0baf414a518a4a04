package storage

import (
	"errors"
	"time"

	"tms-backend/models/driverreport"
	"tms-backend/models/order"
	"tms-backend/models/organization"
	"tms-backend/models/route"
	"tms-backend/models/trip"
	"tms-backend/models/user"

	"gorm.io/gorm"
)

// GormStore is the PostgreSQL-backed Store implementation.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetTripByID(id uint) (*trip.OrderTrip, error) {
	var t trip.OrderTrip
	err := s.db.Preload("Driver").Preload("Driver.User").Preload("Route").
		Preload("Statuses").Preload("Statuses.DriverReport").
		First(&t, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) FindTripByCode(organizationID uint, code string) (*trip.OrderTrip, error) {
	var t trip.OrderTrip
	err := s.db.Preload("Driver").Preload("Statuses").Preload("Statuses.DriverReport").
		Where("organization_id = ? AND code = ?", organizationID, code).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) FindTripsWithStaleStatusSince(since time.Time) ([]trip.OrderTrip, error) {
	var trips []trip.OrderTrip
	err := s.db.
		Joins(`JOIN (SELECT trip_id, MAX(created_at) AS last_status_at
			FROM order_trip_statuses GROUP BY trip_id) latest
			ON latest.trip_id = order_trips.id`).
		Where("latest.last_status_at >= ?", since).
		Where("order_trips.bill_of_lading_received = ?", false).
		Preload("Driver").Preload("Driver.User").Preload("Route").
		Preload("Statuses").
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (s *GormStore) AppendStatus(tripID uint, entry *trip.OrderTripStatus, expectedUpdatedAt time.Time) (*trip.OrderTripStatus, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var rpt driverreport.DriverReport
		if err := tx.First(&rpt, entry.DriverReportID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Optimistic concurrency: the update only lands when the row still
		// carries the version the caller read.
		res := tx.Model(&trip.OrderTrip{}).
			Where("id = ? AND updated_at = ?", tripID, expectedUpdatedAt).
			Updates(map[string]interface{}{
				"last_status_type": rpt.Type,
				"updated_at":       time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrExclusiveConflict
		}

		entry.TripID = tripID
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *GormStore) DriverReportsByOrganization(organizationID uint) ([]driverreport.DriverReport, error) {
	var reports []driverreport.DriverReport
	err := s.db.Where("organization_id = ?", organizationID).
		Order("display_order ASC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *GormStore) GetDriverReport(id uint) (*driverreport.DriverReport, error) {
	var rpt driverreport.DriverReport
	if err := s.db.First(&rpt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rpt, nil
}

func (s *GormStore) GetOrganizationSetting(organizationID uint) (*organization.OrganizationSetting, error) {
	var setting organization.OrganizationSetting
	err := s.db.Where("organization_id = ?", organizationID).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

func (s *GormStore) MaxRouteMinBOLDays() (*int, error) {
	var max *int
	err := s.db.Model(&route.Route{}).
		Select("MAX(min_bol_submit_days)").
		Scan(&max).Error
	if err != nil {
		return nil, err
	}
	return max, nil
}

func (s *GormStore) MaxOrganizationMinBOLDays() (*int, error) {
	var max *int
	err := s.db.Model(&organization.OrganizationSetting{}).
		Select("MAX(min_bol_submit_days)").
		Scan(&max).Error
	if err != nil {
		return nil, err
	}
	return max, nil
}

func (s *GormStore) FindOrderByCode(organizationID uint, code string) (*order.Order, error) {
	var o order.Order
	err := s.db.Where("organization_id = ? AND code = ?", organizationID, code).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (s *GormStore) GetUserByID(id uint) (*user.User, error) {
	var u user.User
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *GormStore) SetLastNotificationSentAt(userID uint, at time.Time) error {
	return s.db.Model(&user.User{}).
		Where("id = ?", userID).
		Update("last_notification_sent_at", at).Error
}

