package secauth

import (
	"crypto/subtle"
	"time"
)

// CredentialComparator decides whether a provided secret matches the stored
// one. The default compares in constant time; callers whose stores hold
// hashed secrets supply a comparator that wraps their hash verification.
type CredentialComparator func(provided, stored string) bool

func defaultComparator(provided, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(provided), []byte(stored)) == 1
}

// TokenInfo is returned by [Engine.ValidateToken]. Permissions reflect the
// snapshot frozen at issuance, not the principal's current grants.
type TokenInfo struct {
	TokenID     string
	PrincipalID string
	Username    string
	Permissions []string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	LastAccess  time.Time
}

// EventType classifies a security event.
type EventType string

const (
	// EventLoginSuccess records a successful authentication.
	EventLoginSuccess EventType = "LOGIN_SUCCESS"
	// EventLoginFailure records a failed or rejected authentication attempt.
	EventLoginFailure EventType = "LOGIN_FAILURE"
	// EventLogout records an explicit logout.
	EventLogout EventType = "LOGOUT"
	// EventSessionExpired records the lazy detection of an expired context.
	EventSessionExpired EventType = "SESSION_EXPIRED"
	// EventAccessGranted records a successful resource access check.
	EventAccessGranted EventType = "ACCESS_GRANTED"
	// EventAccessDenied records a denied resource access check.
	EventAccessDenied EventType = "ACCESS_DENIED"
	// EventTokenIssued records token issuance.
	EventTokenIssued EventType = "TOKEN_ISSUED"
	// EventTokenValidated records a successful token validation.
	EventTokenValidated EventType = "TOKEN_VALIDATED"
	// EventTokenExpired records the lazy detection of an expired token.
	EventTokenExpired EventType = "TOKEN_EXPIRED"
	// EventPermissionChanged records a grant or revoke on a role.
	EventPermissionChanged EventType = "PERMISSION_CHANGED"
	// EventConfigChanged records registrations, role updates, hierarchy
	// declarations, token revocations, and engine lifecycle changes.
	EventConfigChanged EventType = "SECURITY_CONFIG_CHANGED"
)

// SecurityEvent is one entry in the audit trail.
type SecurityEvent struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Type      EventType         `json:"type"`
	Actor     string            `json:"actor"`
	Success   bool              `json:"success"`
	Details   map[string]string `json:"details,omitempty"`
}
