package tracking

import (
	"errors"
	"fmt"
	"time"

	"tms-backend/logger"
	"tms-backend/storage"
	"tms-backend/types"
	trackingTypes "tms-backend/types/tracking"
	"tms-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/mileusna/useragent"
)

// StatusTokenExpired is the non-standard status the tracking API uses for
// expired share tokens.
const StatusTokenExpired = 498

const defaultShareTTLHours = 72

// TrackingController resolves and issues encrypted share tokens for public
// order/trip tracking links.
type TrackingController struct {
	Store  storage.Store
	Logger *logger.AsyncLogger
}

// NewTrackingController creates a new tracking controller
func NewTrackingController(store storage.Store, asyncLogger *logger.AsyncLogger) *TrackingController {
	return &TrackingController{
		Store:  store,
		Logger: asyncLogger,
	}
}

// Access decrypts a share token and returns the referenced order or trip.
// Every successful access is recorded in the access log with the parsed
// user agent, referrer and IP; that side effect is part of the contract.
func (tc *TrackingController) Access(c *fiber.Ctx) error {
	var req trackingTypes.AccessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Token is required",
		})
	}

	payload, err := utils.DecryptShareToken(req.Token)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid token",
		})
	}

	if payload.OrganizationID == 0 || payload.Exp == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid token",
		})
	}
	if payload.Type != trackingTypes.TargetOrder && payload.Type != trackingTypes.TargetTrip {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid token",
		})
	}

	if time.Now().Unix() > payload.Exp {
		return c.Status(StatusTokenExpired).JSON(types.ApiResponse{
			Status:  StatusTokenExpired,
			Message: "Token was expired.",
		})
	}

	var data interface{}
	var targetCode string

	switch payload.Type {
	case trackingTypes.TargetOrder:
		if payload.OrderCode == "" {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Invalid token",
			})
		}
		targetCode = payload.OrderCode
		o, err := tc.Store.FindOrderByCode(payload.OrganizationID, payload.OrderCode)
		if err != nil {
			return tc.lookupError(c, err)
		}
		data = o
	case trackingTypes.TargetTrip:
		if payload.TripCode == "" {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Invalid token",
			})
		}
		targetCode = payload.TripCode
		t, err := tc.Store.FindTripByCode(payload.OrganizationID, payload.TripCode)
		if err != nil {
			return tc.lookupError(c, err)
		}
		data = t
	}

	tc.logAccess(c, payload, targetCode)

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Tracking data retrieved successfully",
		Data:    data,
	})
}

// Issue creates a share token for an order or trip owned by the caller's
// organization.
func (tc *TrackingController) Issue(c *fiber.Ctx) error {
	var req trackingTypes.IssueRequest
	if err := c.BodyParser(&req); err != nil {
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

	_, organizationID, err := utils.AuthIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}

	// The target must exist before a link is handed out.
	switch req.Type {
	case trackingTypes.TargetOrder:
		if _, err := tc.Store.FindOrderByCode(organizationID, req.TargetCode); err != nil {
			return tc.lookupError(c, err)
		}
	case trackingTypes.TargetTrip:
		if _, err := tc.Store.FindTripByCode(organizationID, req.TargetCode); err != nil {
			return tc.lookupError(c, err)
		}
	}

	ttl := req.TTLHours
	if ttl == 0 {
		ttl = defaultShareTTLHours
	}

	payload := trackingTypes.ShareTokenPayload{
		Type:           req.Type,
		OrganizationID: organizationID,
		Exp:            time.Now().Add(time.Duration(ttl) * time.Hour).Unix(),
	}
	if req.Type == trackingTypes.TargetOrder {
		payload.OrderCode = req.TargetCode
	} else {
		payload.TripCode = req.TargetCode
	}

	token, err := utils.EncryptShareToken(payload)
	if err != nil {
		logger.Error("Failed to encrypt share token", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create share token",
		})
	}

	logger.Success(fmt.Sprintf("Share token issued for %s %s", req.Type, req.TargetCode))

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Share token created successfully",
		Data: fiber.Map{
			"token":      token,
			"expires_at": payload.Exp,
		},
	})
}

func (tc *TrackingController) lookupError(c *fiber.Ctx, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Record not found",
		})
	}
	logger.Error("Tracking lookup failed", err)
	return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
		Status:  fiber.StatusInternalServerError,
		Message: "Internal server error",
	})
}

func (tc *TrackingController) logAccess(c *fiber.Ctx, payload *trackingTypes.ShareTokenPayload, targetCode string) {
	ua := useragent.Parse(c.Get("User-Agent"))

	tc.Logger.Log(types.AccessLogEntry{
		OrganizationID: payload.OrganizationID,
		TokenType:      payload.Type,
		TargetCode:     targetCode,
		Device:         ua.Device,
		OS:             ua.OS,
		Browser:        ua.Name,
		Referrer:       c.Get("Referer"),
		IP:             utils.ClientIP(c),
		CreatedAt:      time.Now(),
	})
}
