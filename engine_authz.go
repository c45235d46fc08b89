package secauth

import (
	"github.com/sirupsen/logrus"

	"github.com/heymumford/secauth/cache"
	"github.com/heymumford/secauth/role"
)

// HasRole reports whether the session's snapshot carries the role. Returns
// false, never an error, when the context is nil, logged out, or expired.
func (e *Engine) HasRole(sc *Context, name string) bool {
	return e.liveContext(sc) && sc.HasRole(name)
}

// HasAnyRole reports whether the session carries at least one of the roles.
func (e *Engine) HasAnyRole(sc *Context, names ...string) bool {
	if !e.liveContext(sc) {
		return false
	}
	for _, name := range names {
		if sc.HasRole(name) {
			return true
		}
	}
	return false
}

// HasAllRoles reports whether the session carries every one of the roles.
func (e *Engine) HasAllRoles(sc *Context, names ...string) bool {
	if !e.liveContext(sc) {
		return false
	}
	for _, name := range names {
		if !sc.HasRole(name) {
			return false
		}
	}
	return true
}

// HasPermission reports whether the session's frozen snapshot contains the
// permission. It never consults the live role graph; mutations after login
// do not affect an existing session.
func (e *Engine) HasPermission(sc *Context, permission string) bool {
	return e.liveContext(sc) && sc.HasPermission(permission)
}

// HasAnyPermission reports whether the snapshot contains at least one of the
// permissions.
func (e *Engine) HasAnyPermission(sc *Context, permissions ...string) bool {
	if !e.liveContext(sc) {
		return false
	}
	for _, p := range permissions {
		if sc.HasPermission(p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the snapshot contains every one of the
// permissions.
func (e *Engine) HasAllPermissions(sc *Context, permissions ...string) bool {
	if !e.liveContext(sc) {
		return false
	}
	for _, p := range permissions {
		if !sc.HasPermission(p) {
			return false
		}
	}
	return true
}

// CheckResourceAccess answers whether the identity may perform the operation
// on the resource, independent of any session. The identity may be a
// principal id, a username, or an unregistered component id; unregistered
// identities are checked against the COMPONENT role. Unknown operation names
// are ErrInvalidOperation; a denial is ErrInsufficientPermission.
func (e *Engine) CheckResourceAccess(identity, resource, operation string) error {
	if !e.ready() {
		return ErrNotInitialized
	}

	op, ok := role.ParseOperation(operation)
	if !ok {
		e.log.WithFields(logrus.Fields{
			"identity":  identity,
			"operation": operation,
		}).Warn("access check with unknown operation")
		return ErrInvalidOperation
	}

	e.metrics.Inc(MetricPermissionCheck)
	granted := e.resolveCached(identity, resource, op.String())

	details := map[string]string{
		"identity":  identity,
		"resource":  resource,
		"operation": op.String(),
	}
	if !granted {
		e.metrics.Inc(MetricAccessDenied)
		e.emitEvent(EventAccessDenied, identity, false, details)
		e.log.WithFields(logrus.Fields{
			"identity": identity,
			"resource": resource,
		}).Warn("access denied")
		return ErrInsufficientPermission
	}

	e.metrics.Inc(MetricAccessGranted)
	e.emitEvent(EventAccessGranted, identity, true, details)
	return nil
}

// resolveCached memoizes role-graph resolution per (identity, resource,
// operation). The generation read before resolving makes a concurrent
// invalidation discard the write, so a stale grant is never cached.
func (e *Engine) resolveCached(identity, resource, operation string) bool {
	key := cache.PermissionKey(identity, resource, operation)
	if granted, ok := e.permCache.Get(key); ok {
		e.metrics.Inc(MetricPermissionCacheHit)
		return granted
	}

	gen := e.permCache.Generation()
	granted := e.graph.ResolveAny(e.rolesForIdentity(identity), resource, operation)
	e.permCache.Put(key, granted, gen)
	return granted
}

// rolesForIdentity maps an identity to its role set: a registered principal
// by id or username, otherwise the COMPONENT role used for service-to-service
// checks.
func (e *Engine) rolesForIdentity(identity string) []string {
	if p, found := e.principals.FindByID(identity); found {
		return p.Roles
	}
	if p, found := e.principals.FindByUsername(identity); found {
		return p.Roles
	}
	return []string{"COMPONENT"}
}

// GrantPermission adds resource:operation to the session's primary role. The
// permission cache is invalidated synchronously, so a check issued after this
// returns sees the new grant.
func (e *Engine) GrantPermission(sc *Context, resource, operation string) error {
	if !e.ready() {
		return ErrNotInitialized
	}
	if !e.liveContext(sc) {
		return ErrNoActiveSession
	}
	if len(sc.roles) == 0 {
		return ErrNoRoles
	}

	target := sc.roles[0]
	e.graph.Grant(target, resource, operation)

	e.emitEvent(EventPermissionChanged, sc.Username, true, map[string]string{
		"action":     "grant",
		"role":       target,
		"permission": role.Permission(resource, operation),
	})
	e.log.WithFields(logrus.Fields{
		"role":       target,
		"permission": role.Permission(resource, operation),
	}).Info("permission granted")
	return nil
}

// RevokePermission removes resource:operation from every role the session
// carries.
func (e *Engine) RevokePermission(sc *Context, resource, operation string) error {
	if !e.ready() {
		return ErrNotInitialized
	}
	if !e.liveContext(sc) {
		return ErrNoActiveSession
	}

	for _, r := range sc.roles {
		e.graph.Revoke(r, resource, operation)
	}

	e.emitEvent(EventPermissionChanged, sc.Username, true, map[string]string{
		"action":     "revoke",
		"permission": role.Permission(resource, operation),
	})
	e.log.WithFields(logrus.Fields{
		"username":   sc.Username,
		"permission": role.Permission(resource, operation),
	}).Info("permission revoked")
	return nil
}

// GrantRolePermission adds resource:operation to the named role directly,
// creating the role if absent. Administrative surface, not session-bound.
func (e *Engine) GrantRolePermission(roleName, resource, operation string) error {
	if !e.ready() {
		return ErrNotInitialized
	}

	e.graph.Grant(roleName, resource, operation)
	e.emitEvent(EventPermissionChanged, "", true, map[string]string{
		"action":     "grant",
		"role":       roleName,
		"permission": role.Permission(resource, operation),
	})
	return nil
}

// RevokeRolePermission removes resource:operation from the named role.
func (e *Engine) RevokeRolePermission(roleName, resource, operation string) error {
	if !e.ready() {
		return ErrNotInitialized
	}

	e.graph.Revoke(roleName, resource, operation)
	e.emitEvent(EventPermissionChanged, "", true, map[string]string{
		"action":     "revoke",
		"role":       roleName,
		"permission": role.Permission(resource, operation),
	})
	return nil
}

// SetRoleParents declares the role's inheritance edges. Cycles are tolerated
// by resolution, not rejected here.
func (e *Engine) SetRoleParents(roleName string, parents []string) error {
	if !e.ready() {
		return ErrNotInitialized
	}

	e.graph.SetParents(roleName, parents)
	e.emitEvent(EventConfigChanged, "", true, map[string]string{
		"action": "set_role_parents",
		"role":   roleName,
	})
	return nil
}
