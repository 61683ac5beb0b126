// Package authenticator defines the interface for login authenticators.
//
// The server supports two login flows, each implemented in a subpackage and
// registered by name in a [Registry]:
//
//   - admin: organizer email and password, see [github.com/pmcoe-ai1/conference-app/pkg/authenticator/authn]
//   - attendee: conference code, email and password with lockout, see [github.com/pmcoe-ai1/conference-app/pkg/authenticator/authn_attendee]
//
// Authenticators return an [identity.Identity] on success. Wrong credentials
// are reported as a [*FailedError] wrapping [auth.ErrInvalidCredentials]; a
// locked attendee gets an [*auth.LockedError].
//
// [identity.Identity]: github.com/pmcoe-ai1/conference-app/pkg/identity
// [auth.ErrInvalidCredentials]: github.com/pmcoe-ai1/conference-app/pkg/auth
// [*auth.LockedError]: github.com/pmcoe-ai1/conference-app/pkg/auth
package authenticator
