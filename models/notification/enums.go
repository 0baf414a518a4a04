package notification

import "errors"

// NotificationType tags a pushed notification with its payload shape and
// recipient-resolution strategy.
type NotificationType string

const (
	TypeBillOfLadingDriverReminder     NotificationType = "BILL_OF_LADING_DRIVER_REMINDER"
	TypeBillOfLadingAccountantReminder NotificationType = "BILL_OF_LADING_ACCOUNTANT_REMINDER"
	TypeTripStatusChanged              NotificationType = "TRIP_STATUS_CHANGED"

	// TypeTripNewMessage is only received over the delivery channel; the
	// messaging backend publishes it, this service never does.
	TypeTripNewMessage NotificationType = "TRIP_NEW_MESSAGE"

	// TypeConnectionTest is exchanged during channel handshakes and never
	// delivered to the user.
	TypeConnectionTest NotificationType = "CONNECTION_TEST"
)

// OrgMemberRole names a role used for broadcast addressing.
type OrgMemberRole string

const (
	RoleAccountant OrgMemberRole = "ACCOUNTANT"
	RoleDispatcher OrgMemberRole = "DISPATCHER"
	RoleDriver     OrgMemberRole = "DRIVER"
)

// RecipientStrategy determines how recipients are resolved for a type.
type RecipientStrategy int

const (
	RecipientDirect RecipientStrategy = iota
	RecipientRoleBroadcast
	RecipientParticipants
)

var (
	ErrUnknownType   = errors.New("unknown notification type")
	ErrBadRecipients = errors.New("recipient fields do not match the type's strategy")
)

// recipientStrategies is the exhaustive type registry. Adding a new
// notification type without registering it here makes Validate fail, which
// the dispatcher tests catch.
var recipientStrategies = map[NotificationType]RecipientStrategy{
	TypeBillOfLadingDriverReminder:     RecipientDirect,
	TypeBillOfLadingAccountantReminder: RecipientRoleBroadcast,
	TypeTripStatusChanged:              RecipientParticipants,
	TypeTripNewMessage:                 RecipientParticipants,
}

func (t NotificationType) String() string {
	return string(t)
}

// IsDeliverable reports whether a pushed message of this type should be
// surfaced to the user. Connection tests and unregistered types are not.
func (t NotificationType) IsDeliverable() bool {
	if t == TypeConnectionTest {
		return false
	}
	_, ok := recipientStrategies[t]
	return ok
}
