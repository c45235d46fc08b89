package secauth

import (
	"sort"
	"sync/atomic"
	"time"
)

const (
	contextActive int32 = iota
	contextLoggedOut
	contextExpired
)

// Context is the handle returned by a successful Authenticate. It carries a
// snapshot of the principal's roles and resolved permissions frozen at login;
// later role-graph mutations do not alter an existing Context.
//
// A Context is safe for concurrent use. Once it expires or is logged out it
// never becomes active again.
type Context struct {
	// ID is the session identifier, distinct from any token.
	ID string
	// PrincipalID is the stable identifier of the authenticated principal.
	PrincipalID string
	// Username is the name the principal authenticated as.
	Username string

	IssuedAt   time.Time
	ValidUntil time.Time

	roles       []string
	permissions map[string]struct{}

	state atomic.Int32
}

// HasRole reports whether the snapshot carries the named role.
func (c *Context) HasRole(name string) bool {
	for _, r := range c.roles {
		if r == name {
			return true
		}
	}
	return false
}

// Roles returns a copy of the role names frozen at login.
func (c *Context) Roles() []string {
	out := make([]string, len(c.roles))
	copy(out, c.roles)
	return out
}

// HasPermission reports whether the frozen snapshot contains the permission.
// It consults only the snapshot, never the live role graph.
func (c *Context) HasPermission(permission string) bool {
	_, ok := c.permissions[permission]
	return ok
}

// Permissions returns the frozen permission set in sorted order.
func (c *Context) Permissions() []string {
	out := make([]string, 0, len(c.permissions))
	for p := range c.permissions {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Active reports whether the context has neither expired nor been logged out.
// It does not check the clock; the engine owns expiry.
func (c *Context) Active() bool {
	return c.state.Load() == contextActive
}

// markLoggedOut transitions active -> logged out. Reports whether this call
// performed the transition.
func (c *Context) markLoggedOut() bool {
	return c.state.CompareAndSwap(contextActive, contextLoggedOut)
}

// markExpired transitions active -> expired. Reports whether this call
// performed the transition, so exactly one caller emits the expiry event.
func (c *Context) markExpired() bool {
	return c.state.CompareAndSwap(contextActive, contextExpired)
}
