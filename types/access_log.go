package types

import "time"

// AccessLogEntry is a tracking access record to be stored in the database
type AccessLogEntry struct {
	OrganizationID uint
	TokenType      string
	TargetCode     string
	Device         string
	OS             string
	Browser        string
	Referrer       string
	IP             string
	CreatedAt      time.Time
}
