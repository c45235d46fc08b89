package secauth

import (
	"errors"
	"time"
)

// Config carries the engine's tuning parameters. Zero-valued fields are
// filled with defaults by [Builder.Build]; explicit negative values fail
// validation.
type Config struct {
	Lockout   LockoutConfig
	AuthCache AuthCacheConfig
	Token     TokenConfig
	Session   SessionConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

// LockoutConfig is the consecutive-failure lockout policy.
type LockoutConfig struct {
	// MaxFailedAttempts is the consecutive-failure threshold at which
	// authentication is rejected.
	MaxFailedAttempts int
	// LockoutDuration is how long rejection lasts after the last failure.
	LockoutDuration time.Duration
}

// AuthCacheConfig tunes the verified-credential cache.
type AuthCacheConfig struct {
	// Capacity is the maximum number of cached entries; the least-recently
	// used entry is evicted at capacity.
	Capacity int
	// TTL is the sliding validity window, measured from an entry's last
	// successful use and refreshed on each hit.
	TTL time.Duration
}

// TokenConfig tunes token issuance.
type TokenConfig struct {
	// DefaultValidity applies when GenerateToken is called with a
	// non-positive validity.
	DefaultValidity time.Duration
	// RedisPrefix is the key prefix used by the Redis-backed token store.
	RedisPrefix string
}

// SessionConfig tunes authentication contexts.
type SessionConfig struct {
	// Validity is how long a context stays live after authentication.
	Validity time.Duration
}

// AuditConfig tunes the audit trail and its export dispatcher.
type AuditConfig struct {
	// MaxEvents bounds the retained trail; the oldest event is evicted
	// first once the bound is reached.
	MaxEvents int
	// BufferSize is the dispatcher's channel depth for sink forwarding.
	BufferSize int
	// DropIfFull makes the dispatcher drop events instead of blocking when
	// the buffer is full. Drops are counted and reported by AuditDropped.
	DropIfFull bool
}

// MetricsConfig tunes the engine counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Lockout: LockoutConfig{
			MaxFailedAttempts: 5,
			LockoutDuration:   15 * time.Minute,
		},
		AuthCache: AuthCacheConfig{
			Capacity: 1000,
			TTL:      time.Hour,
		},
		Token: TokenConfig{
			DefaultValidity: time.Hour,
			RedisPrefix:     "tok:",
		},
		Session: SessionConfig{
			Validity: 4 * time.Hour,
		},
		Audit: AuditConfig{
			MaxEvents:  10000,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func (c *Config) applyDefaults() {
	def := defaultConfig()

	if c.Lockout.MaxFailedAttempts == 0 {
		c.Lockout.MaxFailedAttempts = def.Lockout.MaxFailedAttempts
	}
	if c.Lockout.LockoutDuration == 0 {
		c.Lockout.LockoutDuration = def.Lockout.LockoutDuration
	}
	if c.AuthCache.Capacity == 0 {
		c.AuthCache.Capacity = def.AuthCache.Capacity
	}
	if c.AuthCache.TTL == 0 {
		c.AuthCache.TTL = def.AuthCache.TTL
	}
	if c.Token.DefaultValidity == 0 {
		c.Token.DefaultValidity = def.Token.DefaultValidity
	}
	if c.Token.RedisPrefix == "" {
		c.Token.RedisPrefix = def.Token.RedisPrefix
	}
	if c.Session.Validity == 0 {
		c.Session.Validity = def.Session.Validity
	}
	if c.Audit.MaxEvents == 0 {
		c.Audit.MaxEvents = def.Audit.MaxEvents
	}
	if c.Audit.BufferSize == 0 {
		c.Audit.BufferSize = def.Audit.BufferSize
	}
}

// Validate rejects configurations the engine cannot honor.
func (c Config) Validate() error {
	if c.Lockout.MaxFailedAttempts < 1 {
		return errors.New("lockout threshold must be at least 1")
	}
	if c.Lockout.LockoutDuration < 0 {
		return errors.New("lockout duration must not be negative")
	}
	if c.AuthCache.Capacity < 1 {
		return errors.New("auth cache capacity must be at least 1")
	}
	if c.AuthCache.TTL <= 0 {
		return errors.New("auth cache ttl must be positive")
	}
	if c.Token.DefaultValidity <= 0 {
		return errors.New("token default validity must be positive")
	}
	if c.Session.Validity <= 0 {
		return errors.New("session validity must be positive")
	}
	if c.Audit.MaxEvents < 1 {
		return errors.New("audit retention must be at least 1 event")
	}
	return nil
}
