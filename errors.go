package secauth

import "errors"

var (
	// ErrNotInitialized is returned when an Engine operation is invoked before
	// Initialize or after Shutdown.
	ErrNotInitialized = errors.New("engine not initialized")
	// ErrInvalidCredentials is returned for any credential failure. It does not
	// distinguish an unknown username from a wrong secret.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked is returned while a principal is inside an active lockout window.
	ErrAccountLocked = errors.New("account locked")
	// ErrNoActiveSession is returned by Logout when no live context is held.
	ErrNoActiveSession = errors.New("no active session")
	// ErrNotAuthenticated is returned by GenerateToken without a live context.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrTokenInvalid is returned for a token that is not in the registry.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned for a token past its expiry instant.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenNotFound is returned by RevokeToken and TouchToken for an absent token.
	ErrTokenNotFound = errors.New("token not found")
	// ErrUserNotFound is returned by role-update operations for an unknown principal.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUsername is returned by RegisterUser when the username is taken.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrInsufficientPermission is returned by CheckResourceAccess on denial.
	ErrInsufficientPermission = errors.New("insufficient permission")
	// ErrInvalidOperation is returned for an operation name outside the known set.
	ErrInvalidOperation = errors.New("invalid operation type")
	// ErrNoRoles is returned when an operation needs at least one role and
	// none was supplied or held.
	ErrNoRoles = errors.New("no roles")
)
