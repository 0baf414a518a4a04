package trip

import (
	"errors"
	"fmt"
	"strconv"

	"tms-backend/logger"
	notificationService "tms-backend/services/notification"
	"tms-backend/services/workflow"
	"tms-backend/storage"
	"tms-backend/types"
	tripTypes "tms-backend/types/trip"
	"tms-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// TripController handles trip status workflow HTTP requests
type TripController struct {
	Store      storage.Store
	Recorder   *workflow.Recorder
	Dispatcher *notificationService.Dispatcher
}

// NewTripController creates a new trip controller
func NewTripController(store storage.Store, recorder *workflow.Recorder, dispatcher *notificationService.Dispatcher) *TripController {
	return &TripController{
		Store:      store,
		Recorder:   recorder,
		Dispatcher: dispatcher,
	}
}

// GetStatuses returns a trip's status history plus the per-step
// completed/reached view derived from it.
func (tc *TripController) GetStatuses(c *fiber.Ctx) error {
	tripID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid trip id",
		})
	}

	t, err := tc.Store.GetTripByID(tripID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Trip not found",
			})
		}
		logger.Error("Failed to load trip", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	catalog, err := tc.Store.DriverReportsByOrganization(t.OrganizationID)
	if err != nil {
		logger.Error("Failed to load driver report catalog", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	machine := workflow.NewMachine(catalog, t.Statuses)

	steps := make([]tripTypes.StepView, 0, len(catalog))
	for _, step := range catalog {
		steps = append(steps, tripTypes.StepView{
			DriverReportID: step.ID,
			Name:           step.Name,
			Type:           step.Type.String(),
			DisplayOrder:   step.DisplayOrder,
			Completed:      machine.IsStepCompleted(step.ID),
			Reached:        machine.IsStepReached(step.ID),
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Trip statuses retrieved successfully",
		Data: fiber.Map{
			"current_status_type": machine.CurrentType(),
			"statuses":            t.Statuses,
			"steps":               steps,
		},
	})
}

// Preview returns the hypothetical status list for a candidate target step.
// It is a pure projection; nothing is persisted.
func (tc *TripController) Preview(c *fiber.Ctx) error {
	tripID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid trip id",
		})
	}

	stepID, err := strconv.ParseUint(c.Query("step"), 10, 64)
	if err != nil || stepID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid step id",
		})
	}

	t, err := tc.Store.GetTripByID(tripID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Trip not found",
			})
		}
		logger.Error("Failed to load trip", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	catalog, err := tc.Store.DriverReportsByOrganization(t.OrganizationID)
	if err != nil {
		logger.Error("Failed to load driver report catalog", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	machine := workflow.NewMachine(catalog, t.Statuses)
	preview, err := machine.PreviewTransition(uint(stepID))
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, workflow.ErrUnknownStep) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(types.ApiResponse{
			Status:  status,
			Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Preview computed successfully",
		Data:    preview,
	})
}

// RecordStatus appends a new status event to the trip's history.
func (tc *TripController) RecordStatus(c *fiber.Ctx) error {
	tripID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid trip id",
		})
	}

	var req tripTypes.RecordStatusRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	userID, organizationID, err := utils.AuthIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}

	entry, err := tc.Recorder.RecordTransition(tripID, req.DriverReportID, workflow.TransitionInput{
		Notes:     req.Notes,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		CreatedBy: strconv.FormatUint(uint64(userID), 10),
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Trip not found",
			})
		case errors.Is(err, workflow.ErrUnknownStep):
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Unknown driver report step",
			})
		case errors.Is(err, workflow.ErrInvalidTransition):
			return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "Status was already reached, nothing changed",
			})
		case errors.Is(err, workflow.ErrTransitionInFlight), errors.Is(err, storage.ErrExclusiveConflict):
			return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "Trip was modified by another request, please retry",
			})
		}
		logger.Error("Failed to record status transition", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to record status",
		})
	}

	logger.Success(fmt.Sprintf("Trip %d moved to driver report %d", tripID, req.DriverReportID))

	tc.Dispatcher.DispatchTripStatusChanged(organizationID, userID, entry)

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Status recorded successfully",
		Data:    entry,
	})
}

func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return uint(id), nil
}
