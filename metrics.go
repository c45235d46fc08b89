package secauth

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one engine counter.
type MetricID uint16

const (
	// MetricAuthSuccess counts successful authentications.
	MetricAuthSuccess MetricID = iota
	// MetricAuthFailure counts failed authentication attempts.
	MetricAuthFailure
	// MetricAuthLocked counts authentications rejected by an active lockout.
	MetricAuthLocked
	// MetricAuthCacheHit counts authentications served from the credential cache.
	MetricAuthCacheHit
	// MetricAuthCacheMiss counts authentications that fell through to the comparator.
	MetricAuthCacheMiss
	// MetricTokenIssued counts issued tokens.
	MetricTokenIssued
	// MetricTokenValidated counts successful token validations.
	MetricTokenValidated
	// MetricTokenExpired counts tokens evicted on expiry detection.
	MetricTokenExpired
	// MetricTokenRevoked counts explicit token revocations.
	MetricTokenRevoked
	// MetricPermissionCheck counts resource access resolutions.
	MetricPermissionCheck
	// MetricPermissionCacheHit counts resolutions served from the permission cache.
	MetricPermissionCacheHit
	// MetricAccessGranted counts granted resource access checks.
	MetricAccessGranted
	// MetricAccessDenied counts denied resource access checks.
	MetricAccessDenied
	// MetricSessionExpired counts contexts lazily detected as expired.
	MetricSessionExpired
	// MetricLogout counts explicit logouts.
	MetricLogout
	// MetricUserRegistered counts registered principals.
	MetricUserRegistered
	// MetricEventLogged counts audit trail appends.
	MetricEventLogged
	// MetricAuthenticateLatency is the authenticate-path latency histogram.
	MetricAuthenticateLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is the engine's lock-free counter table.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histogram     metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all counters and, when latency
// histograms are enabled, the authenticate-path latency buckets.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics creates a Metrics table per the config.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counting is on.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether the latency histogram is on.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc increments the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records an authenticate-path latency sample.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || id != MetricAuthenticateLatency {
		return
	}
	atomic.AddUint64(&m.histogram.buckets[bucketIndex(d)], 1)
}

// Value returns the current count for id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter, and the latency buckets when enabled.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histogram.buckets[i])
		}
		s.Histograms[MetricAuthenticateLatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
