package secauth

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/heymumford/secauth/principal"
)

// RegisterUser creates a principal with the given roles and returns its id.
// Usernames are unique; a duplicate is ErrDuplicateUsername.
func (e *Engine) RegisterUser(username, secret string, roles []string) (string, error) {
	if !e.ready() {
		return "", ErrNotInitialized
	}
	if len(roles) == 0 {
		return "", ErrNoRoles
	}

	p, err := e.principals.Register(username, secret, roles)
	if err != nil {
		if errors.Is(err, principal.ErrDuplicateUsername) {
			e.log.WithField("username", username).Warn("registration rejected: duplicate username")
			return "", ErrDuplicateUsername
		}
		return "", err
	}

	e.metrics.Inc(MetricUserRegistered)
	e.emitEvent(EventConfigChanged, username, true, map[string]string{
		"action": "register_user",
		"roles":  strings.Join(roles, ","),
	})
	e.log.WithFields(logrus.Fields{
		"username":     username,
		"principal_id": p.ID,
	}).Info("user registered")
	return p.ID, nil
}

// UpdateUserRoles replaces the principal's role set. Already-issued tokens
// and live session contexts keep their frozen snapshots; only new
// authentications and resource-access checks see the change.
func (e *Engine) UpdateUserRoles(principalID string, roles []string) error {
	if !e.ready() {
		return ErrNotInitialized
	}
	if len(roles) == 0 {
		return ErrNoRoles
	}

	if err := e.principals.ReplaceRoles(principalID, roles); err != nil {
		if errors.Is(err, principal.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// A role-set change has the same non-local effect as a graph mutation:
	// every memoized decision for this principal may now be wrong.
	e.permCache.Invalidate()

	e.emitEvent(EventConfigChanged, "", true, map[string]string{
		"action":       "update_roles",
		"principal_id": principalID,
		"roles":        strings.Join(roles, ","),
	})
	e.log.WithFields(logrus.Fields{
		"principal_id": principalID,
		"roles":        strings.Join(roles, ","),
	}).Info("user roles updated")
	return nil
}
