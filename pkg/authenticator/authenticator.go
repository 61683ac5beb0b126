package authenticator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/pmcoe-ai1/conference-app/pkg/identity"
)

// Names of the built-in authenticators
const (
	Admin    = "admin"
	Attendee = "attendee"
)

// ErrNotEnabled is returned by Authenticate for unknown or disabled authenticators
var ErrNotEnabled = errors.New("authenticator is not enabled")

// Authenticator defines the interface for all authenticators
type Authenticator interface {
	// Name returns the authenticator name (e.g., "admin", "attendee")
	Name() string

	// Authenticate validates credentials and returns the identity on success
	Authenticate(ctx context.Context, input Input) (*identity.Identity, error)
}

// Input contains the input for authentication
type Input struct {
	// URLCode selects the conference; attendees only
	URLCode  string
	Email    string
	Password string
	ClientIP string
}

// FailedError is returned when credentials are wrong but the account is not
// locked yet. Remaining is the number of attempts left, or -1 when the
// authenticator does not count attempts.
type FailedError struct {
	Remaining int
	Err       error
}

func (e *FailedError) Error() string {
	return e.Err.Error()
}

func (e *FailedError) Unwrap() error {
	return e.Err
}

// Registry holds all registered authenticators
type Registry struct {
	mu             sync.RWMutex
	authenticators map[string]Authenticator
	enabled        map[string]bool
}

// NewRegistry creates a new authenticator registry
func NewRegistry() *Registry {
	return &Registry{
		authenticators: make(map[string]Authenticator),
		enabled:        make(map[string]bool),
	}
}

// Register adds an authenticator to the registry
func (r *Registry) Register(auth Authenticator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authenticators[auth.Name()] = auth
}

// Enable enables an authenticator by name
func (r *Registry) Enable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authenticators[name]; !ok {
		return fmt.Errorf("authenticator %q not found", name)
	}
	r.enabled[name] = true
	return nil
}

// Disable disables an authenticator by name
func (r *Registry) Disable(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.enabled, name)
}

// Get returns an authenticator by name
func (r *Registry) Get(name string) (Authenticator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	auth, ok := r.authenticators[name]
	return auth, ok
}

// IsEnabled checks if an authenticator is enabled
func (r *Registry) IsEnabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[name]
}

// Authenticate runs the named authenticator if it is enabled
func (r *Registry) Authenticate(ctx context.Context, name string, input Input) (*identity.Identity, error) {
	r.mu.RLock()
	auth, ok := r.authenticators[name]
	enabled := r.enabled[name]
	r.mu.RUnlock()

	if !ok || !enabled {
		return nil, fmt.Errorf("%w: %s", ErrNotEnabled, name)
	}
	return auth.Authenticate(ctx, input)
}

// Installed returns all installed authenticator names, sorted
func (r *Registry) Installed() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.authenticators))
	for name := range r.authenticators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Enabled returns all enabled authenticator names, sorted
func (r *Registry) Enabled() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.enabled))
	for name := range r.enabled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
