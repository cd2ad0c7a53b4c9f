package registry

import (
	"go.uber.org/zap"

	handleregistry "github.com/wippyai/handle-registry"
	regerr "github.com/wippyai/handle-registry/errors"
)

// maxTagDepth caps ancestor resolution. The hierarchy is not checked
// for cycles; tags further apart than this are treated as unrelated.
const maxTagDepth = 10

// Edge is one subtag -> supertag link in the hierarchy.
type Edge struct {
	Sub   handleregistry.Tag
	Super handleregistry.Tag
}

// DefineSubtag records super as the single direct supertag of sub.
// Defining an edge to the untyped tag or to sub itself is a no-op
// (every tag already has the untyped tag as implicit supertype).
// Defining the identical edge again is a no-op; pointing sub at a
// different supertag fails with a conflict - remove the edge first.
func (r *Registry) DefineSubtag(sub, super handleregistry.Tag) error {
	if super.IsUntyped() || sub.IsUntyped() || sub == super {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	if existing, ok := r.edges[sub]; ok {
		if existing == super {
			return nil
		}
		return regerr.EdgeConflict(sub, existing, super)
	}
	r.edges[sub] = super

	Logger().Debug("defined subtag",
		zap.String("sub", string(sub)),
		zap.String("super", string(super)))
	return nil
}

// RemoveSubtag removes the outgoing edge for sub, if any. It never
// fails.
func (r *Registry) RemoveSubtag(sub handleregistry.Tag) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	delete(r.edges, sub)
}

// Subtags returns a snapshot of every (sub, super) edge. Order is
// unspecified.
func (r *Registry) Subtags() []Edge {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Edge, 0, len(r.edges))
	for sub, super := range r.edges {
		out = append(out, Edge{Sub: sub, Super: super})
	}
	return out
}

// Compatible reports whether tag satisfies an expectation of expected:
// true when they are equal or expected is untyped, or when expected is
// an ancestor of tag reachable within maxTagDepth hops.
func (r *Registry) Compatible(tag, expected handleregistry.Tag) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.compatibleLocked(tag, expected)
}

func (r *Registry) compatibleLocked(tag, expected handleregistry.Tag) bool {
	if tag == expected || expected.IsUntyped() {
		return true
	}
	// an untyped tag has no ancestors to walk
	if tag.IsUntyped() {
		return false
	}
	for i := 0; i < maxTagDepth; i++ {
		super, ok := r.edges[tag]
		if !ok {
			return false
		}
		if super == expected {
			return true
		}
		tag = super
	}
	return false
}

// Relation is the diagnostic relation between a tag and an expectation,
// finer-grained than Compatible. It is informational only; all
// enforcement goes through Compatible.
type Relation uint8

const (
	// RelationExact means the tags are equal (or the expectation is
	// untyped).
	RelationExact Relation = iota
	// RelationDerived means the expectation is a proper ancestor.
	RelationDerived
	// RelationMismatch means the tags are unrelated.
	RelationMismatch
)

// String returns the relation name.
func (rel Relation) String() string {
	switch rel {
	case RelationExact:
		return "exact"
	case RelationDerived:
		return "derived"
	default:
		return "mismatch"
	}
}

// Relate classifies tag against expected using the same bounded walk as
// Compatible.
func (r *Registry) Relate(tag, expected handleregistry.Tag) Relation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.relateLocked(tag, expected)
}

func (r *Registry) relateLocked(tag, expected handleregistry.Tag) Relation {
	if tag == expected || expected.IsUntyped() {
		return RelationExact
	}
	if r.compatibleLocked(tag, expected) {
		return RelationDerived
	}
	return RelationMismatch
}
