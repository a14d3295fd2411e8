// Package domain provides core business rules for the leads bounded context.
package domain

import "strings"

// Status is the sales pipeline position of a stored lead.
type Status string

const (
	StatusNew                  Status = "new"
	StatusQualified            Status = "qualified"
	StatusContactedViaWhatsApp Status = "contacted_via_whatsapp"
	StatusContacted            Status = "contacted"
)

var knownStatuses = map[Status]struct{}{
	StatusNew:                  {},
	StatusQualified:            {},
	StatusContactedViaWhatsApp: {},
	StatusContacted:            {},
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := knownStatuses[s]
	return ok
}

// ParseStatus normalizes case and surrounding spaces. The second result is false for
// unknown values.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// InitialStatus is the status a lead is stored with after submission.
func InitialStatus(qualified bool) Status {
	if qualified {
		return StatusQualified
	}
	return StatusNew
}

// IsContacted reports whether sales has already reached the lead.
func (s Status) IsContacted() bool {
	return s == StatusContactedViaWhatsApp || s == StatusContacted
}
