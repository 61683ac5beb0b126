package audit

import "fmt"

// AuthenticateEvent records an admin or attendee login attempt
type AuthenticateEvent struct {
	Email         string
	Authenticator string // "admin" or "attendee"
	ConferenceID  uint
	ClientIP      string
	Success       bool
	ErrorMessage  string
}

func (e AuthenticateEvent) MessageID() string {
	return "authn"
}

func (e AuthenticateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated as %s", e.Email, e.Authenticator)
	}
	msg := fmt.Sprintf("%s failed to authenticate as %s", e.Email, e.Authenticator)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AuthenticateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthenticateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"authenticator": e.Authenticator,
			"user":          e.Email,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "authenticate",
			"result":    result(e.Success),
		},
	}
	if e.ConferenceID != 0 {
		sd[SDIDSubject] = map[string]string{"conference": fmt.Sprint(e.ConferenceID)}
	}
	return sd
}

// LockoutEvent records an attendee being locked or unlocked
type LockoutEvent struct {
	Email        string
	ConferenceID uint
	ClientIP     string
	Locked       bool
	Until        string
	// UnlockedBy is the admin who lifted the lock; empty when it expired
	UnlockedBy string
}

func (e LockoutEvent) MessageID() string {
	return "lockout"
}

func (e LockoutEvent) Message() string {
	if e.Locked {
		return fmt.Sprintf("%s locked out until %s after repeated failed logins", e.Email, e.Until)
	}
	if e.UnlockedBy != "" {
		return fmt.Sprintf("%s unlocked by %s", e.Email, e.UnlockedBy)
	}
	return fmt.Sprintf("%s lockout expired", e.Email)
}

func (e LockoutEvent) Severity() Severity {
	if e.Locked {
		return SeverityWarning
	}
	return SeverityNotice
}

func (e LockoutEvent) Facility() int {
	return FacilityAuthPriv
}

func (e LockoutEvent) StructuredData() map[string]map[string]string {
	operation := "unlock"
	if e.Locked {
		operation = "lock"
	}
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Email,
		},
		SDIDSubject: {
			"conference": fmt.Sprint(e.ConferenceID),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": operation,
			"result":    "success",
		},
	}
	if e.Until != "" {
		sd[SDIDSubject]["until"] = e.Until
	}
	if e.UnlockedBy != "" {
		sd[SDIDAuth]["admin"] = e.UnlockedBy
	}
	return sd
}
