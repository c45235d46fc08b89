package token

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned for a token id absent from the registry.
	ErrNotFound = errors.New("token not found")
	// ErrExpired is returned when a lookup finds the token past its expiry.
	// The record has been evicted by the time the error is returned.
	ErrExpired = errors.New("token expired")
)

// Record is one issued token. Permissions are frozen at issuance.
type Record struct {
	ID          string    `json:"id"`
	PrincipalID string    `json:"principal_id"`
	Username    string    `json:"username"`
	Permissions []string  `json:"permissions"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	LastAccess  time.Time `json:"last_access"`
}

// Store is the token registry contract. Implementations must be safe for
// concurrent use and must evict lazily: a Get or Touch that observes an
// expired record removes it and returns ErrExpired.
type Store interface {
	// Save inserts or replaces the record under its ID.
	Save(rec Record) error
	// Get returns the live record for id.
	Get(id string) (Record, error)
	// Touch refreshes the record's last-access stamp. It never extends expiry.
	Touch(id string) error
	// Delete removes the record regardless of expiry state, returning it.
	Delete(id string) (Record, error)
	// Purge removes every record.
	Purge() error
}
