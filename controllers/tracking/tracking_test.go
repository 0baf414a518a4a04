package tracking

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"tms-backend/logger"
	"tms-backend/models/order"
	"tms-backend/models/trip"
	"tms-backend/storage"
	"tms-backend/types"
	trackingTypes "tms-backend/types/tracking"
	"tms-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEncryptionKey(t *testing.T) {
	t.Helper()
	t.Setenv("ENCRYPTION_KEY", base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")))
}

func newTrackingStore() *storage.MemoryStore {
	store := storage.NewMemoryStore()
	store.Orders[1] = &order.Order{
		ID:             1,
		OrganizationID: 1,
		Code:           "ORD-001",
		CustomerName:   "Acme Traders",
	}
	store.Trips[1] = &trip.OrderTrip{
		ID:             1,
		OrganizationID: 1,
		Code:           "TRIP-001",
		OrderCode:      "ORD-001",
	}
	return store
}

func newTrackingApp(store storage.Store) *fiber.App {
	app := fiber.New()
	ctrl := NewTrackingController(store, logger.NewAsyncLogger(nil))

	app.Post("/api/tracking/access", ctrl.Access)
	app.Post("/api/tracking/share", func(c *fiber.Ctx) error {
		c.Locals("user", jwt.MapClaims{
			"user_id":         float64(7),
			"organization_id": float64(1),
		})
		return c.Next()
	}, ctrl.Issue)
	return app
}

func doAccess(t *testing.T, app *fiber.App, token string) (int, types.ApiResponse) {
	t.Helper()

	body, err := json.Marshal(fiber.Map{"token": token})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/tracking/access", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	var parsed types.ApiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp.StatusCode, parsed
}

func makeToken(t *testing.T, payload trackingTypes.ShareTokenPayload) string {
	t.Helper()
	token, err := utils.EncryptShareToken(payload)
	require.NoError(t, err)
	return token
}

func TestAccessMissingToken(t *testing.T) {
	setEncryptionKey(t)
	app := newTrackingApp(newTrackingStore())

	status, body := doAccess(t, app, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Token is required", body.Message)
}

func TestAccessUndecryptableToken(t *testing.T) {
	setEncryptionKey(t)
	app := newTrackingApp(newTrackingStore())

	status, body := doAccess(t, app, "not-a-real-token")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid token", body.Message)
}

func TestAccessExpiredToken(t *testing.T) {
	setEncryptionKey(t)
	app := newTrackingApp(newTrackingStore())

	token := makeToken(t, trackingTypes.ShareTokenPayload{
		Type:           trackingTypes.TargetOrder,
		OrganizationID: 1,
		OrderCode:      "ORD-001",
		Exp:            time.Now().Add(-time.Hour).Unix(),
	})

	status, body := doAccess(t, app, token)
	assert.Equal(t, StatusTokenExpired, status)
	assert.Equal(t, "Token was expired.", body.Message)
}

func TestAccessUnknownTarget(t *testing.T) {
	setEncryptionKey(t)
	app := newTrackingApp(newTrackingStore())

	token := makeToken(t, trackingTypes.ShareTokenPayload{
		Type:           trackingTypes.TargetOrder,
		OrganizationID: 1,
		OrderCode:      "ORD-MISSING",
		Exp:            time.Now().Add(time.Hour).Unix(),
	})

	status, body := doAccess(t, app, token)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Record not found", body.Message)
}

func TestAccessTokenBoundToOrganization(t *testing.T) {
	setEncryptionKey(t)
	app := newTrackingApp(newTrackingStore())

	// The code exists, but under a different organization than the token.
	token := makeToken(t, trackingTypes.ShareTokenPayload{
		Type:           trackingTypes.TargetOrder,
		OrganizationID: 2,
		OrderCode:      "ORD-001",
		Exp:            time.Now().Add(time.Hour).Unix(),
	})

	status, _ := doAccess(t, app, token)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestAccessIncompletePayload(t *testing.T) {
	setEncryptionKey(t)
	app := newTrackingApp(newTrackingStore())

	cases := []trackingTypes.ShareTokenPayload{
		{Type: trackingTypes.TargetOrder, OrderCode: "ORD-001", Exp: time.Now().Add(time.Hour).Unix()}, // no organization
		{Type: trackingTypes.TargetOrder, OrganizationID: 1, OrderCode: "ORD-001"},                     // no expiry
		{Type: "BOGUS", OrganizationID: 1, OrderCode: "ORD-001", Exp: time.Now().Add(time.Hour).Unix()},
		{Type: trackingTypes.TargetOrder, OrganizationID: 1, Exp: time.Now().Add(time.Hour).Unix()}, // no code
	}

	for i, payload := range cases {
		status, body := doAccess(t, app, makeToken(t, payload))
		assert.Equal(t, fiber.StatusBadRequest, status, "case %d", i)
		assert.Equal(t, "Invalid token", body.Message, "case %d", i)
	}
}

func TestAccessOrderToken(t *testing.T) {
	setEncryptionKey(t)
	app := newTrackingApp(newTrackingStore())

	token := makeToken(t, trackingTypes.ShareTokenPayload{
		Type:           trackingTypes.TargetOrder,
		OrganizationID: 1,
		OrderCode:      "ORD-001",
		Exp:            time.Now().Add(time.Hour).Unix(),
	})

	status, body := doAccess(t, app, token)
	assert.Equal(t, fiber.StatusOK, status)

	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ORD-001", data["code"])
}

func TestAccessTripToken(t *testing.T) {
	setEncryptionKey(t)
	app := newTrackingApp(newTrackingStore())

	token := makeToken(t, trackingTypes.ShareTokenPayload{
		Type:           trackingTypes.TargetTrip,
		OrganizationID: 1,
		TripCode:       "TRIP-001",
		Exp:            time.Now().Add(time.Hour).Unix(),
	})

	status, body := doAccess(t, app, token)
	assert.Equal(t, fiber.StatusOK, status)

	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "TRIP-001", data["code"])
}

func TestIssueAndAccessRoundTrip(t *testing.T) {
	setEncryptionKey(t)
	app := newTrackingApp(newTrackingStore())

	body, err := json.Marshal(trackingTypes.IssueRequest{
		Type:       trackingTypes.TargetTrip,
		TargetCode: "TRIP-001",
		TTLHours:   24,
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/tracking/share", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var issued types.ApiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&issued))
	data := issued.Data.(map[string]interface{})
	token, ok := data["token"].(string)
	require.True(t, ok)

	payload, err := utils.DecryptShareToken(token)
	require.NoError(t, err)
	assert.Equal(t, trackingTypes.TargetTrip, payload.Type)
	assert.Equal(t, uint(1), payload.OrganizationID)
	assert.Equal(t, "TRIP-001", payload.TripCode)

	status, _ := doAccess(t, app, token)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestIssueUnknownTarget(t *testing.T) {
	setEncryptionKey(t)
	app := newTrackingApp(newTrackingStore())

	body, err := json.Marshal(trackingTypes.IssueRequest{
		Type:       trackingTypes.TargetOrder,
		TargetCode: "ORD-MISSING",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/tracking/share", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
