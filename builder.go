package secauth

import (
	"errors"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/heymumford/secauth/cache"
	"github.com/heymumford/secauth/internal/limiters"
	"github.com/heymumford/secauth/principal"
	"github.com/heymumford/secauth/role"
	"github.com/heymumford/secauth/token"
)

// Builder assembles an [Engine]. A Builder is single-use: Build returns an
// error on the second call.
type Builder struct {
	config Config

	logger     logrus.FieldLogger
	clock      clockwork.Clock
	principals principal.Store
	tokens     token.Store
	redis      redis.UniversalClient
	auditSink  AuditSink
	compare    CredentialComparator

	built bool
}

// New creates a Builder with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration. Zero-valued fields are filled with
// defaults at Build time.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithLogger sets the leveled logging sink. Defaults to a fresh logrus logger.
func (b *Builder) WithLogger(logger logrus.FieldLogger) *Builder {
	b.logger = logger
	return b
}

// WithClock sets the time source. Defaults to the real clock; tests inject
// a fake to drive expiry and lockout windows.
func (b *Builder) WithClock(clock clockwork.Clock) *Builder {
	b.clock = clock
	return b
}

// WithPrincipalStore sets the principal repository. Defaults to the in-memory
// store.
func (b *Builder) WithPrincipalStore(store principal.Store) *Builder {
	b.principals = store
	return b
}

// WithTokenStore sets the token registry. Defaults to the in-memory store,
// or to a Redis-backed store when WithRedis was called.
func (b *Builder) WithTokenStore(store token.Store) *Builder {
	b.tokens = store
	return b
}

// WithRedis backs the token registry with Redis, so issued tokens survive a
// process restart. Ignored when WithTokenStore was also called.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink sets the export sink for security events. Without one, events
// are only retained in the queryable in-engine trail.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithComparator sets the credential comparator. Defaults to a constant-time
// equality check; stores holding hashed secrets supply their own.
func (b *Builder) WithComparator(compare CredentialComparator) *Builder {
	b.compare = compare
	return b
}

// WithMetricsEnabled toggles the engine counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the authenticate-path latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build assembles the Engine. The Engine is inert until Initialize is called.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	cfg := b.config
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clock := b.clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	logger := b.logger
	if logger == nil {
		logger = logrus.New()
	}
	principals := b.principals
	if principals == nil {
		principals = principal.NewMemoryStore()
	}
	tokens := b.tokens
	if tokens == nil {
		if b.redis != nil {
			tokens = token.NewRedisStore(b.redis, clock, cfg.Token.RedisPrefix)
		} else {
			tokens = token.NewMemoryStore(clock)
		}
	}
	compare := b.compare
	if compare == nil {
		compare = defaultComparator
	}

	authCache, err := cache.NewAuthCache(clock, cfg.AuthCache.Capacity, cfg.AuthCache.TTL)
	if err != nil {
		return nil, err
	}

	permCache := cache.NewPermissionCache()

	e := &Engine{
		config:     cfg,
		log:        logger,
		clock:      clock,
		principals: principals,
		tokens:     tokens,
		compare:    compare,
		lockouts: limiters.NewLockoutTracker(clock, limiters.LockoutConfig{
			Threshold: cfg.Lockout.MaxFailedAttempts,
			Duration:  cfg.Lockout.LockoutDuration,
		}),
		authCache: authCache,
		permCache: permCache,
		// Invalidation runs under the graph's write lock so a reader can
		// never cache a stale grant after the mutation returns.
		graph:    role.NewGraph(permCache.Invalidate),
		auditLog: newAuditLog(cfg.Audit.MaxEvents),
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:  NewMetrics(cfg.Metrics),
	}
	return e, nil
}
