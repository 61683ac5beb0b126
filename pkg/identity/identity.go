package identity

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Role distinguishes organizers from conference participants.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAttendee Role = "attendee"
)

// Identity represents the authenticated principal for a request.
type Identity struct {
	Role Role
	// ID is the admin or attendee primary key, depending on Role
	ID uint
	// ConferenceID is set for attendees only
	ConferenceID uint
	Email        string
	IssuedAt     time.Time
	ExpiresAt    time.Time

	// Request context
	RemoteIP net.IP
}

func NewAdmin(id uint, email string) *Identity {
	return &Identity{Role: RoleAdmin, ID: id, Email: email}
}

func NewAttendee(id, conferenceID uint, email string) *Identity {
	return &Identity{Role: RoleAttendee, ID: id, ConferenceID: conferenceID, Email: email}
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

func (i *Identity) IsAttendee() bool {
	return i.Role == RoleAttendee
}

// Subject returns the token subject, e.g. "admin:12" or "attendee:40".
func (i *Identity) Subject() string {
	return Subject(i.Role, i.ID)
}

func Subject(role Role, id uint) string {
	return string(role) + ":" + strconv.FormatUint(uint64(id), 10)
}

// ParseSubject splits a token subject into role and id.
func ParseSubject(sub string) (Role, uint, error) {
	parts := strings.SplitN(sub, ":", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("malformed subject %q", sub)
	}
	role := Role(parts[0])
	if role != RoleAdmin && role != RoleAttendee {
		return "", 0, fmt.Errorf("unknown role %q", parts[0])
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || id == 0 {
		return "", 0, fmt.Errorf("malformed subject id %q", parts[1])
	}
	return role, uint(id), nil
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
