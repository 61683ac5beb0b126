// Package auth holds the credential primitives shared by both login flows:
// bcrypt password hashing, generated attendee passwords, HS256 access tokens
// and the attendee lockout state machine.
//
// # Lockout
//
// Attendees are locked after Policy.MaxAttempts consecutive failures. The
// lock lifts by itself once Policy.Duration has elapsed; the attendee returns
// to first_login or active depending on whether the generated password was
// ever changed.
package auth
