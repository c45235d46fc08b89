// Package secauth provides an embedded authorization and token engine: principal
// registration and authentication, role-hierarchy permission resolution, opaque
// bearer tokens with frozen permission snapshots, failure lockout, and a
// time-queryable security audit trail.
//
// The package is designed for concurrent in-process callers: Engine methods are
// safe to call from multiple goroutines after construction through [Builder.Build]
// and a successful [Engine.Initialize].
//
// # Architecture boundaries
//
// secauth is the public surface. It exposes [Engine], [Builder], [Config], and
// value types ([Context], [TokenInfo], [SecurityEvent]). Domain state lives in
// focused sub-packages (role graph, caches, token registry, principal store),
// each behind its own lock so unrelated keys never serialize against each other.
//
// # What this package must NOT do
//
//   - Perform network or disk I/O in any Engine method. The only stateful
//     external collaborator is an optional Redis-backed token store.
//   - Schedule background sweeps. Token, cache, and lockout expiry are checked
//     lazily on access.
//   - Sign tokens cryptographically. Tokens are opaque server-held identifiers;
//     their authority comes from registry membership, not from their contents.
package secauth
