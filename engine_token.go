package secauth

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/heymumford/secauth/internal"
	"github.com/heymumford/secauth/token"
)

// GenerateToken issues an opaque bearer token for the session. The token
// carries the session's permission snapshot frozen at issuance; later role
// changes do not alter it. A zero validity uses the configured default.
func (e *Engine) GenerateToken(sc *Context, validity time.Duration) (string, error) {
	if !e.ready() {
		return "", ErrNotInitialized
	}
	if !e.liveContext(sc) {
		return "", ErrNotAuthenticated
	}
	if validity <= 0 {
		validity = e.config.Token.DefaultValidity
	}

	id, err := internal.NewTokenID()
	if err != nil {
		return "", err
	}

	now := e.clock.Now()
	rec := token.Record{
		ID:          id,
		PrincipalID: sc.PrincipalID,
		Username:    sc.Username,
		Permissions: sc.Permissions(),
		IssuedAt:    now,
		ExpiresAt:   now.Add(validity),
		LastAccess:  now,
	}
	if err := e.tokens.Save(rec); err != nil {
		return "", err
	}

	e.metrics.Inc(MetricTokenIssued)
	e.emitEvent(EventTokenIssued, sc.Username, true, map[string]string{
		"token_id": id,
		"validity": validity.String(),
	})
	e.log.WithFields(logrus.Fields{
		"username": sc.Username,
		"token_id": id,
	}).Info("token issued")
	return id, nil
}

// ValidateToken looks up the token and returns its details. An expired token
// is evicted as a side effect and reported as ErrTokenExpired; repeating the
// call then yields ErrTokenInvalid. Validation refreshes the last-access
// stamp but never extends expiry.
func (e *Engine) ValidateToken(tokenID string) (TokenInfo, error) {
	if !e.ready() {
		return TokenInfo{}, ErrNotInitialized
	}

	rec, err := e.tokens.Get(tokenID)
	if err != nil {
		return TokenInfo{}, e.failTokenValidation(tokenID, err)
	}

	if err := e.tokens.Touch(tokenID); err != nil {
		e.log.WithError(err).WithField("token_id", tokenID).Debug("token touch failed")
	}

	e.metrics.Inc(MetricTokenValidated)
	e.emitEvent(EventTokenValidated, rec.Username, true, map[string]string{
		"token_id": tokenID,
	})
	return TokenInfo{
		TokenID:     rec.ID,
		PrincipalID: rec.PrincipalID,
		Username:    rec.Username,
		Permissions: rec.Permissions,
		IssuedAt:    rec.IssuedAt,
		ExpiresAt:   rec.ExpiresAt,
		LastAccess:  rec.LastAccess,
	}, nil
}

func (e *Engine) failTokenValidation(tokenID string, err error) error {
	if errors.Is(err, token.ErrExpired) {
		e.metrics.Inc(MetricTokenExpired)
		e.emitEvent(EventTokenExpired, "", false, map[string]string{
			"token_id": tokenID,
		})
		e.log.WithField("token_id", tokenID).Info("token expired")
		return ErrTokenExpired
	}
	e.emitEvent(EventLoginFailure, "", false, map[string]string{
		"reason":   "invalid token",
		"token_id": tokenID,
	})
	return ErrTokenInvalid
}

// RevokeToken removes the token immediately, regardless of expiry state.
// An unknown id is ErrTokenNotFound.
func (e *Engine) RevokeToken(tokenID string) error {
	if !e.ready() {
		return ErrNotInitialized
	}

	rec, err := e.tokens.Delete(tokenID)
	if err != nil {
		return ErrTokenNotFound
	}

	e.metrics.Inc(MetricTokenRevoked)
	e.emitEvent(EventConfigChanged, rec.Username, true, map[string]string{
		"action":   "token_revoked",
		"token_id": tokenID,
	})
	e.log.WithFields(logrus.Fields{
		"username": rec.Username,
		"token_id": tokenID,
	}).Info("token revoked")
	return nil
}

// TouchToken refreshes the token's last-access stamp for diagnostics. Expiry
// is absolute from issuance; a touch never extends it.
func (e *Engine) TouchToken(tokenID string) error {
	if !e.ready() {
		return ErrNotInitialized
	}

	err := e.tokens.Touch(tokenID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, token.ErrExpired):
		return ErrTokenExpired
	default:
		return ErrTokenInvalid
	}
}
