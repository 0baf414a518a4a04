package realtime

import (
	"time"

	"tms-backend/logger"
	"tms-backend/storage"
)

// markerHandler writes the last-notified-at marker through the user store in
// addition to whatever the wrapped handler does with it.
type markerHandler struct {
	Handler
	users  storage.UserStore
	userID uint
}

// WithPersistentMarker decorates a handler so every delivered notification
// also records the marker on the user row. A failed write is logged and
// dropped; delivery already happened and must not be rolled back.
func WithPersistentMarker(h Handler, users storage.UserStore, userID uint) Handler {
	return &markerHandler{Handler: h, users: users, userID: userID}
}

func (m *markerHandler) UpdateLastNotifiedAt(at time.Time) {
	if err := m.users.SetLastNotificationSentAt(m.userID, at); err != nil {
		logger.Error("Failed to persist last-notified-at marker", err)
	}
	m.Handler.UpdateLastNotifiedAt(at)
}
