// Package identity carries the authenticated principal through a request.
//
// An Identity is either an admin or an attendee. Attendee identities are
// scoped to the conference they registered for.
//
//	ctx = identity.Set(ctx, identity.NewAttendee(attendeeID, conferenceID, email))
//
//	id, ok := identity.Get(ctx)
//	if !ok || !id.IsAdmin() {
//	    // reject
//	}
//
// Token subjects encode the role and primary key as "role:id".
package identity
