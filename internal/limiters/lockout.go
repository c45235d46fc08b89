package limiters

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// LockoutConfig holds the lockout policy parameters.
type LockoutConfig struct {
	Threshold int
	Duration  time.Duration
}

type failureRecord struct {
	count       int
	lastFailure time.Time
}

// LockoutTracker tracks consecutive failed authentication attempts per
// username and answers whether a principal is inside a lockout window.
type LockoutTracker struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	config  LockoutConfig
	records map[string]*failureRecord
}

// NewLockoutTracker creates a tracker with the given policy.
func NewLockoutTracker(clock clockwork.Clock, cfg LockoutConfig) *LockoutTracker {
	return &LockoutTracker{
		clock:   clock,
		config:  cfg,
		records: make(map[string]*failureRecord),
	}
}

// RecordFailure increments the failure count for username and stamps the
// failure time. Returns the new count.
func (t *LockoutTracker) RecordFailure(username string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[username]
	if !ok {
		rec = &failureRecord{}
		t.records[username] = rec
	}
	rec.count++
	rec.lastFailure = t.clock.Now()
	return rec.count
}

// Clear removes the failure record for username.
func (t *LockoutTracker) Clear(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, username)
}

// IsLocked reports whether username is inside an active lockout window.
// A record whose window has elapsed is cleared as a side effect, so the
// stale count cannot re-trigger lockout after a single future failure.
func (t *LockoutTracker) IsLocked(username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[username]
	if !ok || rec.count < t.config.Threshold {
		return false
	}

	if t.clock.Now().Before(rec.lastFailure.Add(t.config.Duration)) {
		return true
	}
	delete(t.records, username)
	return false
}

// FailureCount returns the current consecutive failure count for username.
func (t *LockoutTracker) FailureCount(username string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[username]
	if !ok {
		return 0
	}
	return rec.count
}
