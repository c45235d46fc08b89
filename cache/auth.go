package cache

import (
	"crypto/sha256"
	"crypto/subtle"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"
)

type authEntry struct {
	secretSum    [sha256.Size]byte
	lastVerified time.Time
}

// AuthCache is a bounded cache of verified (username, secret) pairs. A hit
// means the pair was verified within the validity window and the expensive
// comparator can be skipped. Validity is a sliding window from the last
// successful use; each hit refreshes it.
type AuthCache struct {
	mu    sync.Mutex
	clock clockwork.Clock
	ttl   time.Duration
	lru   *lru.Cache[string, authEntry]
}

// NewAuthCache creates an AuthCache holding at most capacity entries, each
// valid for ttl from its last successful use.
func NewAuthCache(clock clockwork.Clock, capacity int, ttl time.Duration) (*AuthCache, error) {
	inner, err := lru.New[string, authEntry](capacity)
	if err != nil {
		return nil, err
	}
	return &AuthCache{clock: clock, ttl: ttl, lru: inner}, nil
}

// Lookup reports whether the pair matches a live cache entry. A hit refreshes
// the entry's validity window; an expired entry is evicted on sight.
func (c *AuthCache) Lookup(username, secret string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lru.Get(username)
	if !ok {
		return false
	}
	if c.clock.Now().After(entry.lastVerified.Add(c.ttl)) {
		c.lru.Remove(username)
		return false
	}

	sum := sha256.Sum256([]byte(secret))
	if subtle.ConstantTimeCompare(sum[:], entry.secretSum[:]) != 1 {
		return false
	}

	entry.lastVerified = c.clock.Now()
	c.lru.Add(username, entry)
	return true
}

// Remember records a verified pair. At capacity the least-recently-used
// entry is evicted to make room.
func (c *AuthCache) Remember(username, secret string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(username, authEntry{
		secretSum:    sha256.Sum256([]byte(secret)),
		lastVerified: c.clock.Now(),
	})
}

// Forget drops the entry for username, if any.
func (c *AuthCache) Forget(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(username)
}

// Purge drops every entry.
func (c *AuthCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

// Len returns the number of resident entries, expired or not.
func (c *AuthCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
