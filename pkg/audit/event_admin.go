package audit

import "fmt"

// ResourceEvent records an admin action on a conference, survey or export
type ResourceEvent struct {
	Admin     string
	ClientIP  string
	Kind      string // conference, survey, attendee, export
	ID        uint
	Operation string // create, delete, activate, deactivate, download
	Detail    string
	// ConferenceID scopes surveys, attendees and exports; a conference is
	// its own scope
	ConferenceID uint
}

func (e ResourceEvent) MessageID() string {
	return e.Kind
}

func (e ResourceEvent) Message() string {
	msg := fmt.Sprintf("%s performed %s on %s %d", e.Admin, e.Operation, e.Kind, e.ID)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e ResourceEvent) Severity() Severity {
	if e.Operation == "delete" {
		return SeverityNotice
	}
	return SeverityInfo
}

func (e ResourceEvent) Facility() int {
	return FacilityLocal0
}

func (e ResourceEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Admin,
		},
		SDIDSubject: {
			e.Kind: fmt.Sprint(e.ID),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    "success",
		},
	}
	if e.Kind != "conference" && e.ConferenceID != 0 {
		sd[SDIDSubject]["conference"] = fmt.Sprint(e.ConferenceID)
	}
	return sd
}
