package secauth

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/heymumford/secauth/cache"
	"github.com/heymumford/secauth/internal/limiters"
	"github.com/heymumford/secauth/principal"
	"github.com/heymumford/secauth/role"
	"github.com/heymumford/secauth/token"
)

// Engine is the authorization and token engine. It is safe for concurrent
// use; each state domain (principals, role graph, tokens, caches, audit
// trail) locks independently, so unrelated keys do not serialize against
// each other.
//
// Construct with [New] and call Initialize before use.
type Engine struct {
	config Config
	log    logrus.FieldLogger
	clock  clockwork.Clock

	principals principal.Store
	tokens     token.Store
	compare    CredentialComparator

	lockouts  *limiters.LockoutTracker
	authCache *cache.AuthCache
	permCache *cache.PermissionCache
	graph     *role.Graph

	auditLog *auditLog
	audit    *auditDispatcher
	metrics  *Metrics

	initMu      sync.Mutex
	initialized bool
}

// Initialize seeds the default roles and arms the engine. Calling it a second
// time logs a warning and returns nil.
func (e *Engine) Initialize() error {
	e.initMu.Lock()
	defer e.initMu.Unlock()

	if e.initialized {
		e.log.Warn("engine already initialized")
		return nil
	}

	e.seedDefaultRoles()
	e.initialized = true

	e.emitEvent(EventConfigChanged, "", true, map[string]string{
		"action": "initialize",
	})
	e.log.Info("authorization engine initialized")
	return nil
}

// seedDefaultRoles installs the stock ADMIN, USER and GUEST roles. USER
// inherits GUEST, so every user can reach the public grants.
func (e *Engine) seedDefaultRoles() {
	e.graph.Grant("ADMIN", "users", "manage")
	e.graph.Grant("ADMIN", "roles", "manage")
	e.graph.Grant("ADMIN", "all", "view")
	e.graph.Grant("ADMIN", "all", "edit")

	e.graph.Grant("USER", "own", "view")
	e.graph.Grant("USER", "own", "edit")

	e.graph.Grant("GUEST", "public", "view")

	e.graph.SetParents("USER", []string{"GUEST"})

	e.log.Debug("default roles initialized: ADMIN, USER, GUEST")
}

// Shutdown clears tokens and caches and disarms the engine. Returns
// ErrNotInitialized when the engine is not initialized, including after a
// prior Shutdown.
func (e *Engine) Shutdown() error {
	e.initMu.Lock()
	defer e.initMu.Unlock()

	if !e.initialized {
		e.log.Warn("engine not initialized")
		return ErrNotInitialized
	}

	if err := e.tokens.Purge(); err != nil {
		e.log.WithError(err).Error("token purge failed during shutdown")
		return err
	}
	e.authCache.Purge()
	e.permCache.Invalidate()
	e.initialized = false

	e.emitEvent(EventConfigChanged, "", true, map[string]string{
		"action": "shutdown",
	})
	e.log.Info("authorization engine shut down")
	return nil
}

// Close stops the audit dispatcher, draining buffered events. The engine is
// unusable afterwards. Call after Shutdown when an audit sink is configured.
func (e *Engine) Close() {
	if e.audit != nil {
		e.audit.Close()
	}
}

func (e *Engine) ready() bool {
	e.initMu.Lock()
	defer e.initMu.Unlock()
	return e.initialized
}

// Authenticate verifies the credentials and, on success, returns a fresh
// session context carrying the principal's roles and a frozen permission
// snapshot. Failures are reported as ErrInvalidCredentials without
// distinguishing an unknown username from a wrong secret; an active lockout
// is ErrAccountLocked and does not count as a further failure.
func (e *Engine) Authenticate(username, secret string) (*Context, error) {
	if !e.ready() {
		return nil, ErrNotInitialized
	}
	start := e.clock.Now()

	if e.lockouts.IsLocked(username) {
		e.metrics.Inc(MetricAuthLocked)
		e.emitEvent(EventLoginFailure, username, false, map[string]string{
			"reason": "account locked",
		})
		e.log.WithField("username", username).Warn("authentication rejected: account locked")
		return nil, ErrAccountLocked
	}

	verified := e.authCache.Lookup(username, secret)
	if verified {
		e.metrics.Inc(MetricAuthCacheHit)
	} else {
		e.metrics.Inc(MetricAuthCacheMiss)
	}

	p, found := e.principals.FindByUsername(username)
	if !found {
		return nil, e.failAuthentication(username, "unknown username")
	}
	if !verified && !e.compare(secret, p.Secret) {
		return nil, e.failAuthentication(username, "invalid secret")
	}

	e.authCache.Remember(username, secret)
	e.lockouts.Clear(username)

	ctx := e.newContext(p)
	e.metrics.Inc(MetricAuthSuccess)
	e.metrics.Observe(MetricAuthenticateLatency, e.clock.Now().Sub(start))
	e.emitEvent(EventLoginSuccess, username, true, map[string]string{
		"method":     "credentials",
		"context_id": ctx.ID,
	})
	e.log.WithFields(logrus.Fields{
		"username":   username,
		"context_id": ctx.ID,
	}).Info("authentication succeeded")
	return ctx, nil
}

func (e *Engine) failAuthentication(username, reason string) error {
	count := e.lockouts.RecordFailure(username)
	e.metrics.Inc(MetricAuthFailure)
	e.emitEvent(EventLoginFailure, username, false, map[string]string{
		"reason": reason,
	})
	e.log.WithFields(logrus.Fields{
		"username": username,
		"failures": count,
	}).Warn("authentication failed")
	// Generic error: callers must not learn whether the username exists.
	return ErrInvalidCredentials
}

// AuthenticateWithToken resumes a session from a previously issued token.
// The returned context carries the token's frozen permission snapshot and
// stays valid until the token's own expiry.
func (e *Engine) AuthenticateWithToken(tokenID string) (*Context, error) {
	if !e.ready() {
		return nil, ErrNotInitialized
	}

	rec, err := e.tokens.Get(tokenID)
	if err != nil {
		return nil, e.failTokenAuthentication(tokenID, err)
	}

	roles := []string{}
	if p, found := e.principals.FindByID(rec.PrincipalID); found {
		roles = p.Roles
	}

	perms := make(map[string]struct{}, len(rec.Permissions))
	for _, perm := range rec.Permissions {
		perms[perm] = struct{}{}
	}
	ctx := &Context{
		ID:          uuid.NewString(),
		PrincipalID: rec.PrincipalID,
		Username:    rec.Username,
		IssuedAt:    e.clock.Now(),
		ValidUntil:  rec.ExpiresAt,
		roles:       roles,
		permissions: perms,
	}

	if err := e.tokens.Touch(tokenID); err != nil {
		e.log.WithError(err).WithField("token_id", tokenID).Debug("token touch failed")
	}

	e.metrics.Inc(MetricAuthSuccess)
	e.emitEvent(EventLoginSuccess, rec.Username, true, map[string]string{
		"method":     "token",
		"token_id":   tokenID,
		"context_id": ctx.ID,
	})
	return ctx, nil
}

func (e *Engine) failTokenAuthentication(tokenID string, err error) error {
	e.metrics.Inc(MetricAuthFailure)
	switch {
	case errors.Is(err, token.ErrExpired):
		e.metrics.Inc(MetricTokenExpired)
		e.emitEvent(EventTokenExpired, "", false, map[string]string{
			"token_id": tokenID,
		})
		return ErrTokenExpired
	default:
		e.emitEvent(EventLoginFailure, "", false, map[string]string{
			"reason":   "invalid token",
			"token_id": tokenID,
		})
		return ErrTokenInvalid
	}
}

// Logout terminates the session. Returns ErrNoActiveSession when the context
// is nil, already logged out, or already expired.
func (e *Engine) Logout(sc *Context) error {
	if !e.ready() {
		return ErrNotInitialized
	}
	if sc == nil || !e.liveContext(sc) {
		return ErrNoActiveSession
	}
	if !sc.markLoggedOut() {
		return ErrNoActiveSession
	}

	e.metrics.Inc(MetricLogout)
	e.emitEvent(EventLogout, sc.Username, true, map[string]string{
		"context_id": sc.ID,
	})
	e.log.WithField("username", sc.Username).Info("logged out")
	return nil
}

// liveContext reports whether the context is still usable, detecting session
// expiry lazily. The first caller to observe expiry performs the transition
// and emits the single SESSION_EXPIRED event for the context.
func (e *Engine) liveContext(sc *Context) bool {
	if sc == nil || !sc.Active() {
		return false
	}
	if !e.clock.Now().After(sc.ValidUntil) {
		return true
	}
	if sc.markExpired() {
		e.metrics.Inc(MetricSessionExpired)
		e.emitEvent(EventSessionExpired, sc.Username, false, map[string]string{
			"context_id": sc.ID,
		})
		e.log.WithField("username", sc.Username).Info("session expired")
	}
	return false
}

// AuditDropped reports how many events the audit dispatcher discarded
// because its buffer was full. Zero when no sink is configured.
func (e *Engine) AuditDropped() uint64 {
	if e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	return e.metrics.Snapshot()
}

func (e *Engine) newContext(p principal.Principal) *Context {
	now := e.clock.Now()
	snapshot := e.graph.Snapshot(p.Roles)
	perms := make(map[string]struct{}, len(snapshot))
	for _, perm := range snapshot {
		perms[perm] = struct{}{}
	}
	return &Context{
		ID:          uuid.NewString(),
		PrincipalID: p.ID,
		Username:    p.Username,
		IssuedAt:    now,
		ValidUntil:  now.Add(e.config.Session.Validity),
		roles:       p.Roles,
		permissions: perms,
	}
}
