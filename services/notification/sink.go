package notification

import (
	notificationModel "tms-backend/models/notification"
)

// Sink delivers notifications to recipients. Implementations own retry and
// delivery guarantees; the dispatcher treats Push as fire-and-forget and
// never rolls back on failure.
type Sink interface {
	Push(n *notificationModel.Notification) error
}
