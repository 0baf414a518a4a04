package seeders

import (
	"log"

	"tms-backend/models/driverreport"
	"tms-backend/models/organization"

	"gorm.io/gorm"
)

const seedBatchSize = 100

// systemSteps is the default workflow catalog every organization starts
// with. CANCELED carries the highest display order but sits outside the
// forward-progress sequence.
var systemSteps = []struct {
	Name         string
	Type         driverreport.DriverReportType
	DisplayOrder int
}{
	{Name: "New", Type: driverreport.TypeNew, DisplayOrder: 1},
	{Name: "Pending confirmation", Type: driverreport.TypePendingConfirmation, DisplayOrder: 2},
	{Name: "Confirmed", Type: driverreport.TypeConfirmed, DisplayOrder: 3},
	{Name: "Waiting for pickup", Type: driverreport.TypeWaitingForPickup, DisplayOrder: 4},
	{Name: "Going to warehouse pickup", Type: driverreport.TypeWarehouseGoingToPickup, DisplayOrder: 5},
	{Name: "Picked up at warehouse", Type: driverreport.TypeWarehousePickedUp, DisplayOrder: 6},
	{Name: "Waiting for delivery", Type: driverreport.TypeWaitingForDelivery, DisplayOrder: 7},
	{Name: "Delivered", Type: driverreport.TypeDelivered, DisplayOrder: 8},
	{Name: "Completed", Type: driverreport.TypeCompleted, DisplayOrder: 9},
	{Name: "Canceled", Type: driverreport.TypeCanceled, DisplayOrder: 10},
}

// SeedDriverReports inserts the system status catalog for every organization
// that has a settings row but no catalog yet. Inserts run in chunks.
func SeedDriverReports(db *gorm.DB) {
	log.Printf("🔍 Checking driver report catalog integrity...")

	var settings []organization.OrganizationSetting
	if err := db.Find(&settings).Error; err != nil {
		log.Printf("❌ Failed to load organization settings: %v", err)
		return
	}

	var pending []driverreport.DriverReport
	for _, setting := range settings {
		var count int64
		if err := db.Model(&driverreport.DriverReport{}).
			Where("organization_id = ? AND is_system = ?", setting.OrganizationID, true).
			Count(&count).Error; err != nil {
			log.Printf("❌ Failed to count driver reports for organization %d: %v", setting.OrganizationID, err)
			continue
		}
		if count > 0 {
			continue
		}

		for _, step := range systemSteps {
			pending = append(pending, driverreport.DriverReport{
				OrganizationID: setting.OrganizationID,
				Name:           step.Name,
				Type:           step.Type,
				DisplayOrder:   step.DisplayOrder,
				IsSystem:       true,
			})
		}
	}

	if len(pending) == 0 {
		log.Printf("✅ Driver report catalog already seeded")
		return
	}

	if err := db.CreateInBatches(pending, seedBatchSize).Error; err != nil {
		log.Printf("❌ Failed to seed driver reports: %v", err)
		return
	}
	log.Printf("✅ Seeded %d driver report steps", len(pending))
}
