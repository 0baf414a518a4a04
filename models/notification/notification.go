package notification

import (
	"time"
)

// Notification is an outgoing push payload handed to the notification sink.
// Exactly one of Receivers or OrgMemberRoles must be set, matching the
// recipient strategy registered for the type.
type Notification struct {
	Type           NotificationType       `json:"type"`
	OrganizationID uint                   `json:"organization_id"`
	CreatedByID    uint                   `json:"created_by_id"`
	TargetID       uint                   `json:"target_id"`
	Data           map[string]interface{} `json:"data,omitempty"`

	// Explicit user recipients
	Receivers []uint `json:"receivers,omitempty"`

	// Broadcast to every organization member holding one of these roles
	OrgMemberRoles []OrgMemberRole `json:"org_member_roles,omitempty"`

	IsSendToParticipants bool `json:"is_send_to_participants"`
}

// Message is a pushed notification as received by the delivery channel.
type Message struct {
	Type   NotificationType       `json:"type"`
	Title  string                 `json:"title,omitempty"`
	Body   string                 `json:"body,omitempty"`
	Data   map[string]interface{} `json:"data,omitempty"`
	SentAt time.Time              `json:"sent_at"`
}

// Validate checks the payload against the recipient strategy registered for
// its type.
func (n *Notification) Validate() error {
	strategy, ok := recipientStrategies[n.Type]
	if !ok {
		return ErrUnknownType
	}

	hasReceivers := len(n.Receivers) > 0
	hasRoles := len(n.OrgMemberRoles) > 0

	switch strategy {
	case RecipientDirect:
		if !hasReceivers || hasRoles {
			return ErrBadRecipients
		}
	case RecipientRoleBroadcast:
		if hasReceivers || !hasRoles {
			return ErrBadRecipients
		}
	case RecipientParticipants:
		if hasReceivers || hasRoles {
			return ErrBadRecipients
		}
	}
	return nil
}
