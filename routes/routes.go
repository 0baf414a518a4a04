package routes

import (
	"os"

	"tms-backend/constants"
	reminderController "tms-backend/controllers/reminder"
	trackingController "tms-backend/controllers/tracking"
	tripController "tms-backend/controllers/trip"
	pushService "tms-backend/httpServices/push"
	"tms-backend/logger"
	"tms-backend/middleware"
	notificationService "tms-backend/services/notification"
	"tms-backend/services/workflow"
	"tms-backend/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	store := storage.NewGormStore(db)
	asyncLogger := logger.NewAsyncLogger(db)
	recorder := workflow.NewRecorder(store)

	pushClient := pushService.NewClient(os.Getenv("PUSH_SERVICE_URL"), os.Getenv("PUSH_SERVICE_API_KEY"))
	dispatcher := notificationService.NewDispatcher(pushClient)

	tripCtrl := tripController.NewTripController(store, recorder, dispatcher)
	reminderCtrl := reminderController.NewReminderController(store, dispatcher)
	trackingCtrl := trackingController.NewTrackingController(store, asyncLogger)

	// Start the async access logger processing goroutine
	go asyncLogger.ProcessLog()

	api := app.Group("/api")

	/*=============================================================================
	| Trip workflow routes
	===============================================================================*/
	trips := api.Group("/trips").Use(middleware.RequireAnyPermission())
	trips.Get("/:id/statuses", tripCtrl.GetStatuses)
	trips.Get("/:id/statuses/preview", tripCtrl.Preview)
	trips.Post("/:id/statuses", middleware.RequirePermissions(constants.WorkflowWriterPermissions...), tripCtrl.RecordStatus)

	/*=============================================================================
	| Scheduled job routes (shared-secret gated)
	===============================================================================*/
	jobs := api.Group("/jobs").Use(middleware.RequireClientAPIKey())
	jobs.Post("/bill-of-lading-reminders", reminderCtrl.TriggerBOLReminders)

	/*=============================================================================
	| Tracking share-link routes
	===============================================================================*/
	trackingGroup := api.Group("/tracking")
	trackingGroup.Post("/access", trackingCtrl.Access)
	trackingGroup.Post("/share", middleware.RequireAnyPermission(), trackingCtrl.Issue)
}
