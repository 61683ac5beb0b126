// Package audit provides audit logging for security-relevant operations.
//
// Events are written to stdout in RFC5424 syslog format and, when
// AUDIT_DATABASE_URL is set, persisted to the audit_messages table with
// actor, operation, result, client IP and conference as columns.
//
// # Event Types
//
//   - AuthenticateEvent: admin and attendee logins
//   - LockoutEvent: attendee lockout and unlock
//   - PasswordEvent: password change, reset and resend
//   - ResourceEvent: conference deletion, survey activation, exports
//
// # Usage
//
//	audit.Log(audit.AuthenticateEvent{
//	    Email:         "guest@example.com",
//	    Authenticator: "attendee",
//	    ClientIP:      clientIP,
//	    Success:       false,
//	    ErrorMessage:  "invalid credentials",
//	})
//
// Set AUDIT_ENABLED=false to disable audit output.
package audit
