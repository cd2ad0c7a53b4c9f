package registry

import (
	handleregistry "github.com/wippyai/handle-registry"
)

// EventType identifies a registration lifecycle event.
type EventType uint8

const (
	// EventRegistered fires when a new record is created.
	EventRegistered EventType = iota
	// EventRetained fires when a counted registration is incremented.
	EventRetained
	// EventReleased fires when a counted registration is decremented
	// but the record stays live.
	EventReleased
	// EventRemoved fires when a record is deleted by unregistration or
	// Clear.
	EventRemoved
	// EventPinned fires when a handle is pinned.
	EventPinned
	// EventInvalidated fires when a record is force-removed.
	EventInvalidated
)

// Event describes one registration lifecycle event.
type Event struct {
	Tag    handleregistry.Tag
	Handle handleregistry.Handle
	Refs   int
	Mode   Mode
	Type   EventType
}

// Observer receives notifications about registration lifecycle events.
// Observers run after the mutation, outside the registry lock, and
// cannot affect registry state.
type Observer interface {
	OnRegistryEvent(Event)
}

// Subscribe adds an observer for lifecycle events.
func (r *Registry) Subscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.observers = append(r.observers, o)
}

// Unsubscribe removes an observer.
func (r *Registry) Unsubscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	for i, obs := range r.observers {
		if obs == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

func (r *Registry) notify(e Event) {
	r.obsMu.RLock()
	defer r.obsMu.RUnlock()
	for _, o := range r.observers {
		o.OnRegistryEvent(e)
	}
}
