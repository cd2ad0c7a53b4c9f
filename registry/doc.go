// Package registry implements the typed opaque-handle registry: a
// per-context record store, a single-parent tag hierarchy and the
// registration protocol tying them together.
//
// # Registry Lifecycle
//
// A Registry is scoped to one owning context (an interpreter, a session,
// an instance). Create one with New, thread it explicitly through calls,
// and tear it down with Close when the context ends. Registries are
// never shared implicitly; callers that want sharing pass the same
// instance.
//
// # Registration Modes
//
// A handle is registered in one of three modes:
//
//	Exclusive - single-owner; re-registering counted is a conflict
//	Counted   - reference counted; removed after balanced unregistration
//	Pinned    - always valid; unaffected by Unregister, removed only by
//	            Invalidate, Clear or Close
//
// # Type Compatibility
//
// Verification and release check the record's tag against the caller's
// expectation through the tag hierarchy: an expectation matches the
// exact tag or any ancestor reachable within ten hops. The hierarchy is
// not checked for cycles; the hop cap bounds resolution instead.
//
// # Concurrency
//
// All operations on one Registry are safe for concurrent use; every
// mutation is a single critical section and enumeration snapshots under
// the same lock. Nothing blocks: every operation is in-memory
// computation.
package registry
