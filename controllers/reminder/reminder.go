package reminder

import (
	"errors"
	"fmt"
	"time"

	"tms-backend/logger"
	notificationService "tms-backend/services/notification"
	reminderService "tms-backend/services/reminder"
	"tms-backend/storage"
	"tms-backend/types"

	"github.com/gofiber/fiber/v2"
)

// ReminderController exposes the scheduled job trigger for bill-of-lading
// reminders.
type ReminderController struct {
	Store      storage.Store
	Dispatcher *notificationService.Dispatcher
}

// NewReminderController creates a new reminder controller
func NewReminderController(store storage.Store, dispatcher *notificationService.Dispatcher) *ReminderController {
	return &ReminderController{
		Store:      store,
		Dispatcher: dispatcher,
	}
}

// TriggerBOLReminders runs one reminder cycle. The route is gated by the
// client-api-key middleware; the external scheduler calls it once per day.
// Responses: 204 when there is no window or nothing due, 200 with
// [driverReminderCount, accountantReminderCount] otherwise.
func (rc *ReminderController) TriggerBOLReminders(c *fiber.Ctx) error {
	calculator := reminderService.NewCalculator(rc.Store)

	result, err := calculator.DueOn(time.Now())
	if err != nil {
		if errors.Is(err, reminderService.ErrNoWindow) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		logger.Error("Bill of lading reminder calculation failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Reminder calculation failed",
		})
	}

	if result.TotalDue() == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}

	summary := rc.Dispatcher.DispatchBOLReminders(result, 0)

	logger.Success(fmt.Sprintf("Bill of lading reminders sent: %d driver, %d accountant",
		summary.DriverReminders, summary.AccountantReminders))

	// Wire contract: a bare two-element count array.
	return c.Status(fiber.StatusOK).JSON([]int{summary.DriverReminders, summary.AccountantReminders})
}
