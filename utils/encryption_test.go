package utils

import (
	"encoding/base64"
	"testing"
	"time"

	"tms-backend/types/tracking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setKey(t *testing.T, raw string) {
	t.Helper()
	t.Setenv("ENCRYPTION_KEY", base64.StdEncoding.EncodeToString([]byte(raw)))
}

func TestShareTokenRoundTrip(t *testing.T) {
	setKey(t, "0123456789abcdef0123456789abcdef")

	payload := tracking.ShareTokenPayload{
		Type:           tracking.TargetTrip,
		OrganizationID: 3,
		TripCode:       "TRIP-001",
		Exp:            time.Now().Add(time.Hour).Unix(),
	}

	token, err := EncryptShareToken(payload)
	require.NoError(t, err)
	assert.NotContains(t, token, "TRIP-001", "the payload must be opaque")

	decrypted, err := DecryptShareToken(token)
	require.NoError(t, err)
	assert.Equal(t, payload, *decrypted)
}

func TestShareTokenUniquePerEncryption(t *testing.T) {
	setKey(t, "0123456789abcdef0123456789abcdef")

	payload := tracking.ShareTokenPayload{Type: tracking.TargetOrder, OrganizationID: 1, OrderCode: "ORD-1", Exp: 100}

	a, err := EncryptShareToken(payload)
	require.NoError(t, err)
	b, err := EncryptShareToken(payload)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "a fresh nonce must make every token distinct")
}

func TestDecryptRejectsTamperedToken(t *testing.T) {
	setKey(t, "0123456789abcdef0123456789abcdef")

	token, err := EncryptShareToken(tracking.ShareTokenPayload{
		Type:           tracking.TargetOrder,
		OrganizationID: 1,
		OrderCode:      "ORD-1",
		Exp:            100,
	})
	require.NoError(t, err)

	raw, err := base64.URLEncoding.DecodeString(token)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.URLEncoding.EncodeToString(raw)

	_, err = DecryptShareToken(tampered)
	assert.Error(t, err)
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	setKey(t, "0123456789abcdef0123456789abcdef")
	token, err := EncryptShareToken(tracking.ShareTokenPayload{
		Type:           tracking.TargetOrder,
		OrganizationID: 1,
		OrderCode:      "ORD-1",
		Exp:            100,
	})
	require.NoError(t, err)

	setKey(t, "ffffffffffffffffffffffffffffffff")
	_, err = DecryptShareToken(token)
	assert.Error(t, err)
}

func TestMissingKeyFails(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "")

	_, err := EncryptShareToken(tracking.ShareTokenPayload{})
	assert.Error(t, err)
}
