// Package token is the registry of issued bearer tokens. A token is an opaque
// server-held identifier: its permission snapshot is frozen at issuance and
// later role or grant changes never alter it; revocation is the mechanism to
// force re-issue.
//
// Expiry is absolute from issuance and detected lazily: any Get or Touch that
// finds a record past its expiry evicts it and reports [ErrExpired]. Repeated
// calls on the same expired id stay cheap and idempotent, degrading to
// [ErrNotFound] once the record is gone. No background sweeper exists.
//
// [MemoryStore] is the default registry. [RedisStore] implements the same
// [Store] contract against Redis for callers that want tokens to survive a
// process restart; it keeps a server-side TTL slightly past the logical
// expiry so the expired-versus-unknown distinction survives the handoff.
//
// # What this package must NOT do
//
//   - Extend expiry on access. Touch refreshes the diagnostic last-access
//     stamp only; validity never slides.
//   - Interpret permission strings. Snapshots are carried, not evaluated.
package token
