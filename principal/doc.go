// Package principal holds registered principals and the repository-style
// [Store] interface behind which persistence, if any, lives. The bundled
// [MemoryStore] is process-memory only; a durable implementation can be
// substituted without touching the engine.
//
// # What this package must NOT do
//
//   - Hash or compare secrets. Credential comparison is the engine's
//     pluggable comparator; the store only holds what it is given.
//   - Return aliased role slices. Reads copy, so a caller can never observe
//     a half-written principal.
package principal
