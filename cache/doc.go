// Package cache holds the two decision caches in front of the expensive
// authentication and authorization paths.
//
// [AuthCache] remembers recently verified credentials so repeated logins skip
// the credential comparator. Entries live for a sliding window from their last
// successful use (refreshed on hit) and the least-recently-used entry is
// evicted at capacity. The staleness trade-off is deliberate: a changed secret
// may keep authenticating from cache until the window elapses.
//
// [PermissionCache] memoizes role-graph resolutions keyed by
// (context, resource, operation). It is only ever invalidated in bulk:
// hierarchy changes have non-local effects, so no individual key can know
// which upstream mutation invalidates it. A generation counter makes the
// invalidation race-free: a Put computed against an older generation is
// dropped, so a stale "true" is never observable after a mutation completes.
//
// # What this package must NOT do
//
//   - Store plaintext secrets. AuthCache keys hold a SHA-256 digest only.
//   - Run eviction timers. Expiry is checked lazily on lookup.
package cache
