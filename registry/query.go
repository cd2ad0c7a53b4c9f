package registry

import (
	"go.uber.org/zap"

	handleregistry "github.com/wippyai/handle-registry"
	"github.com/wippyai/handle-registry/box"
	regerr "github.com/wippyai/handle-registry/errors"
)

// Cast re-tags a boxed handle. The cast must be along the hierarchy in
// either direction (upcast or downcast). If the handle is currently
// registered, its record must carry exactly the box's tag and is
// atomically retagged to newTag, keeping mode and count. The box itself
// is immutable; a new box carrying newTag is returned.
func (r *Registry) Cast(b box.Box, newTag handleregistry.Tag) (box.Box, error) {
	h := b.Handle()
	oldTag := b.Tag()

	r.mu.Lock()
	rec := r.records[h]
	if rec != nil && rec.tag != oldTag {
		// registered, but not as what the box claims
		registered := rec.tag
		r.mu.Unlock()
		return box.Box{}, regerr.TagMismatch(regerr.PhaseCast, h, registered, oldTag)
	}
	if !r.compatibleLocked(oldTag, newTag) && !r.compatibleLocked(newTag, oldTag) {
		r.mu.Unlock()
		return box.Box{}, regerr.CastIncompatible(h, oldTag, newTag)
	}
	if rec != nil {
		rec.tag = newTag
	}
	r.mu.Unlock()

	Logger().Debug("cast handle",
		zap.Uint64("handle", uint64(h)),
		zap.String("from", string(oldTag)),
		zap.String("to", string(newTag)))
	return box.Wrap(h, newTag), nil
}

// Info is the read-only diagnostic view of a box against the registry.
type Info struct {
	// Tag is the tag carried by the box itself.
	Tag handleregistry.Tag
	// RegisteredTag is the record's tag; meaningful only when
	// Registration is not RegistrationNone.
	RegisteredTag handleregistry.Tag
	// Registration is the handle's current registration state.
	Registration Registration
	// Match relates the box tag to the registered tag.
	Match Relation
	// Refs is the reference count for counted registrations.
	Refs int
}

// Describe reports the registration state of a boxed handle without
// mutating anything.
func (r *Registry) Describe(b box.Box) Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info := Info{Tag: b.Tag()}
	rec, ok := r.records[b.Handle()]
	if !ok {
		return info
	}
	info.Registration = rec.mode.registration()
	info.RegisteredTag = rec.tag
	info.Match = r.relateLocked(b.Tag(), rec.tag)
	if rec.mode == ModeCounted {
		info.Refs = rec.refs
	}
	return info
}

// Unwrap extracts the handle from a box after checking the box's tag
// against expected through the hierarchy. It consults no records: a box
// for an unregistered handle unwraps fine. The tag gate is skipped for
// an untyped expectation and for an untyped nil box.
func (r *Registry) Unwrap(b box.Box, expected handleregistry.Tag) (handleregistry.Handle, error) {
	if !expected.IsUntyped() && (!b.IsNil() || !b.Tag().IsUntyped()) {
		r.mu.RLock()
		ok := r.compatibleLocked(b.Tag(), expected)
		r.mu.RUnlock()
		if !ok {
			return handleregistry.Nil, regerr.TagMismatch(regerr.PhaseQuery, b.Handle(), b.Tag(), expected)
		}
	}
	return b.Handle(), nil
}

// UnwrapAny unwraps a box against a finite sequence of acceptable tags,
// returning the handle and the first tag that matched.
func (r *Registry) UnwrapAny(b box.Box, tags []handleregistry.Tag) (handleregistry.Handle, handleregistry.Tag, error) {
	for _, tag := range tags {
		if h, err := r.Unwrap(b, tag); err == nil {
			return h, tag, nil
		}
	}
	return handleregistry.Nil, handleregistry.Untyped,
		regerr.TagMismatch(regerr.PhaseQuery, b.Handle(), b.Tag(), handleregistry.Untyped)
}

// VerifyBox unwraps a box and verifies the handle's registration
// against expected. Nil handles fail with an invalid-value error.
func (r *Registry) VerifyBox(b box.Box, expected handleregistry.Tag) (handleregistry.Handle, error) {
	h, err := r.Unwrap(b, expected)
	if err != nil {
		return handleregistry.Nil, err
	}
	if h.IsNil() {
		return handleregistry.Nil, regerr.NilHandle(regerr.PhaseVerify)
	}
	if err := r.Verify(h, expected); err != nil {
		return handleregistry.Nil, err
	}
	return h, nil
}

// VerifyBoxAny is VerifyBox against a finite sequence of acceptable
// tags, returning the tag that matched.
func (r *Registry) VerifyBoxAny(b box.Box, tags []handleregistry.Tag) (handleregistry.Handle, handleregistry.Tag, error) {
	h, tag, err := r.UnwrapAny(b, tags)
	if err != nil {
		return handleregistry.Nil, handleregistry.Untyped, err
	}
	if h.IsNil() {
		return handleregistry.Nil, handleregistry.Untyped, regerr.NilHandle(regerr.PhaseVerify)
	}
	if err := r.Verify(h, tag); err != nil {
		return handleregistry.Nil, handleregistry.Untyped, err
	}
	return h, tag, nil
}

// UnregisterBox unwraps a box and unregisters the handle. A nil handle
// is silently ignored.
func (r *Registry) UnregisterBox(b box.Box, expected handleregistry.Tag) (handleregistry.Handle, error) {
	h, err := r.Unwrap(b, expected)
	if err != nil {
		return handleregistry.Nil, err
	}
	if h.IsNil() {
		return handleregistry.Nil, nil
	}
	if err := r.Unregister(h, expected); err != nil {
		return handleregistry.Nil, err
	}
	return h, nil
}

// UnregisterBoxAny is UnregisterBox against a finite sequence of
// acceptable tags.
func (r *Registry) UnregisterBoxAny(b box.Box, tags []handleregistry.Tag) (handleregistry.Handle, handleregistry.Tag, error) {
	h, tag, err := r.UnwrapAny(b, tags)
	if err != nil {
		return handleregistry.Nil, handleregistry.Untyped, err
	}
	if h.IsNil() {
		return handleregistry.Nil, tag, nil
	}
	if err := r.Unregister(h, tag); err != nil {
		return handleregistry.Nil, handleregistry.Untyped, err
	}
	return h, tag, nil
}
