// Package role implements the role graph: named roles carrying sets of
// resource:operation grants, plus a directed child-to-parents inheritance
// relation. The relation is a general directed graph: multiple parents are
// allowed and cycles introduced by misconfiguration are tolerated, never
// rejected. Traversal is iterative with an explicit visited set, so a
// revisited role contributes no new information instead of recursing forever.
//
// # Architecture boundaries
//
// The graph owns exactly one lock. Mutations (Grant, Revoke, SetParents) take
// it exclusively, bump the generation counter, and run the invalidation hook
// before releasing it, so downstream caches are never observably stale-true.
//
// # What this package must NOT do
//
//   - Know about principals, tokens, sessions, or audit events.
//   - Validate acyclicity. Cycle tolerance is the contract, not an accident.
package role
