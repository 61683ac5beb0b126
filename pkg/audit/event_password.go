package audit

import "fmt"

// Password operations
const (
	PasswordResetRequest = "reset-request"
	PasswordReset        = "reset"
	PasswordChange       = "change"
	PasswordResend       = "resend"
)

// PasswordEvent records password changes, resets and resends
type PasswordEvent struct {
	Subject      string
	Target       string // account whose password changed, when not Subject
	ClientIP     string
	Operation    string
	Success      bool
	ErrorMessage string
}

func (e PasswordEvent) MessageID() string {
	return "password"
}

func (e PasswordEvent) Message() string {
	target := "their password"
	if e.Target != "" && e.Target != e.Subject {
		target = "password of " + e.Target
	}
	if e.Success {
		return fmt.Sprintf("%s performed password %s on %s", e.Subject, e.Operation, target)
	}
	msg := fmt.Sprintf("%s failed password %s on %s", e.Subject, e.Operation, target)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e PasswordEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e PasswordEvent) Facility() int {
	return FacilityAuthPriv
}

func (e PasswordEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Subject,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "password-" + e.Operation,
			"result":    result(e.Success),
		},
	}
	if e.Target != "" {
		sd[SDIDSubject] = map[string]string{"account": e.Target}
	}
	return sd
}
