package registry

import (
	"sync"

	"go.uber.org/zap"

	handleregistry "github.com/wippyai/handle-registry"
	"github.com/wippyai/handle-registry/box"
	regerr "github.com/wippyai/handle-registry/errors"
)

// Registry is the source of truth for which handles are currently valid
// and under which tag. One Registry belongs to one owning context; it
// owns its record store and tag hierarchy exclusively, and never the
// native resources the handles refer to.
type Registry struct {
	records   map[handleregistry.Handle]*record
	edges     map[handleregistry.Tag]handleregistry.Tag
	mu        sync.RWMutex
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		records: make(map[handleregistry.Handle]*record),
		edges:   make(map[handleregistry.Tag]handleregistry.Tag),
	}
}

// Register registers a handle as a single-owner (exclusive) reference
// under tag and returns a freshly boxed value. Registering an already
// registered handle is a no-op when tag and mode match, and a conflict
// otherwise.
func (r *Registry) Register(h handleregistry.Handle, tag handleregistry.Tag) (box.Box, error) {
	return r.register(h, tag, ModeExclusive)
}

// RegisterCounted registers a handle as a counted reference under tag.
// Each successful call increments the reference count; Unregister
// decrements it.
func (r *Registry) RegisterCounted(h handleregistry.Handle, tag handleregistry.Tag) (box.Box, error) {
	return r.register(h, tag, ModeCounted)
}

func (r *Registry) register(h handleregistry.Handle, tag handleregistry.Tag, mode Mode) (box.Box, error) {
	if h.IsNil() {
		return box.Box{}, regerr.NilHandle(regerr.PhaseRegister)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return box.Box{}, ErrClosed
	}

	ev := Event{Type: EventRegistered, Handle: h, Tag: tag, Mode: mode, Refs: 1}
	rec, ok := r.records[h]
	if !ok {
		r.records[h] = &record{tag: tag, mode: mode, refs: 1}
	} else {
		if err := r.recheckLocked(h, rec, tag, mode); err != nil {
			r.mu.Unlock()
			return box.Box{}, err
		}
		if mode == ModeCounted {
			rec.refs++
			ev = Event{Type: EventRetained, Handle: h, Tag: tag, Mode: mode, Refs: rec.refs}
		} else {
			// exclusive re-registration with matching tag: no-op
			r.mu.Unlock()
			return box.Wrap(h, tag), nil
		}
	}
	r.mu.Unlock()

	Logger().Debug("registered handle",
		zap.Uint64("handle", uint64(h)),
		zap.String("tag", string(tag)),
		zap.String("mode", mode.String()))
	r.notify(ev)
	return box.Wrap(h, tag), nil
}

// recheckLocked enforces the re-registration consistency rules against
// an existing record: same tag by value, same reference mode.
func (r *Registry) recheckLocked(h handleregistry.Handle, rec *record, tag handleregistry.Tag, mode Mode) error {
	if rec.mode == ModePinned {
		return regerr.ModeConflict(h, rec.mode.String(), mode.String())
	}
	if rec.tag != tag {
		return regerr.TagConflict(h, rec.tag, tag)
	}
	if rec.mode != mode {
		return regerr.ModeConflict(h, rec.mode.String(), mode.String())
	}
	return nil
}

// Pin registers a handle as pinned: it stays valid against any expected
// tag and is unaffected by Unregister until Invalidate removes it. The
// handle may already be registered in any mode; its record is converted.
// The pinned registration itself is tagless; the returned box still
// carries tag.
func (r *Registry) Pin(h handleregistry.Handle, tag handleregistry.Tag) (box.Box, error) {
	if h.IsNil() {
		return box.Box{}, regerr.NilHandle(regerr.PhaseRegister)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return box.Box{}, ErrClosed
	}
	if rec, ok := r.records[h]; ok {
		rec.tag = handleregistry.Untyped
		rec.mode = ModePinned
		rec.refs = 1
	} else {
		r.records[h] = &record{mode: ModePinned, refs: 1}
	}
	r.mu.Unlock()

	Logger().Debug("pinned handle", zap.Uint64("handle", uint64(h)))
	r.notify(Event{Type: EventPinned, Handle: h, Tag: tag, Mode: ModePinned, Refs: 1})
	return box.Wrap(h, tag), nil
}

// Unregister releases one registration of a handle. The record's tag
// must be compatible with expected. Counted records are decremented and
// removed at zero; exclusive records are removed immediately; pinned
// records are untouched.
func (r *Registry) Unregister(h handleregistry.Handle, expected handleregistry.Tag) error {
	r.mu.Lock()
	rec, ok := r.records[h]
	if !ok {
		r.mu.Unlock()
		return regerr.NotRegistered(regerr.PhaseUnregister, h, expected)
	}
	if err := r.gateLocked(regerr.PhaseUnregister, h, rec, expected); err != nil {
		r.mu.Unlock()
		return err
	}

	var ev Event
	switch {
	case rec.mode == ModePinned:
		// pinned registrations ignore unregistration
		r.mu.Unlock()
		return nil
	case rec.mode == ModeCounted && rec.refs > 1:
		rec.refs--
		ev = Event{Type: EventReleased, Handle: h, Tag: rec.tag, Mode: rec.mode, Refs: rec.refs}
	default:
		delete(r.records, h)
		ev = Event{Type: EventRemoved, Handle: h, Tag: rec.tag, Mode: rec.mode}
	}
	r.mu.Unlock()

	Logger().Debug("unregistered handle",
		zap.Uint64("handle", uint64(h)),
		zap.String("tag", string(ev.Tag)),
		zap.Int("refs", ev.Refs))
	r.notify(ev)
	return nil
}

// Invalidate removes a handle's record regardless of mode and reference
// count. It succeeds when the handle has no record; it fails only when
// the record's tag is incompatible with expected.
func (r *Registry) Invalidate(h handleregistry.Handle, expected handleregistry.Tag) error {
	r.mu.Lock()
	rec, ok := r.records[h]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	if err := r.gateLocked(regerr.PhaseUnregister, h, rec, expected); err != nil {
		r.mu.Unlock()
		return err
	}
	delete(r.records, h)
	r.mu.Unlock()

	Logger().Debug("invalidated handle", zap.Uint64("handle", uint64(h)))
	r.notify(Event{Type: EventInvalidated, Handle: h, Tag: rec.tag, Mode: rec.mode})
	return nil
}

// Verify checks that a handle is currently registered with a tag
// compatible with expected. It never mutates state.
func (r *Registry) Verify(h handleregistry.Handle, expected handleregistry.Tag) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[h]
	if !ok {
		return regerr.NotRegistered(regerr.PhaseVerify, h, expected)
	}
	return r.gateLocked(regerr.PhaseVerify, h, rec, expected)
}

// Registered reports whether a handle currently has a record, without
// any tag check.
func (r *Registry) Registered(h handleregistry.Handle) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.records[h]
	return ok
}

// gateLocked is the single type gate for verify, unregister and
// invalidate. Pinned records pass against any expectation.
func (r *Registry) gateLocked(phase regerr.Phase, h handleregistry.Handle, rec *record, expected handleregistry.Tag) error {
	if rec.mode == ModePinned {
		return nil
	}
	if !r.compatibleLocked(rec.tag, expected) {
		return regerr.TagMismatch(phase, h, rec.tag, expected)
	}
	return nil
}

// Enumerate returns a snapshot of all registered handles whose tag
// equals filter, boxed with their registered tags. The untyped filter
// matches every record. Order is unspecified.
func (r *Registry) Enumerate(filter handleregistry.Tag) []box.Box {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []box.Box
	for h, rec := range r.records {
		if filter.IsUntyped() || rec.tag == filter {
			out = append(out, box.Wrap(h, rec.tag))
		}
	}
	return out
}

// Len returns the number of currently registered handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Clear removes every record and hierarchy edge. The registry remains
// usable.
func (r *Registry) Clear() {
	r.mu.Lock()
	removed := r.records
	r.records = make(map[handleregistry.Handle]*record)
	r.edges = make(map[handleregistry.Tag]handleregistry.Tag)
	r.mu.Unlock()

	for h, rec := range removed {
		r.notify(Event{Type: EventRemoved, Handle: h, Tag: rec.tag, Mode: rec.mode})
	}
}

// Close tears the registry down, releasing all records and edges, and
// stops accepting operations.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.records = nil
	r.edges = nil
	r.mu.Unlock()
	return nil
}
