package registry

import (
	"errors"

	handleregistry "github.com/wippyai/handle-registry"
)

// ErrClosed is returned for operations on a closed registry.
var ErrClosed = errors.New("handle registry closed")

// Mode is the reference mode a handle was registered under.
type Mode uint8

const (
	// ModeExclusive allows a single live reference.
	ModeExclusive Mode = iota
	// ModeCounted tracks balanced register/unregister pairs.
	ModeCounted
	// ModePinned keeps the handle valid until explicitly invalidated.
	ModePinned
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeExclusive:
		return "exclusive"
	case ModeCounted:
		return "counted"
	case ModePinned:
		return "pinned"
	default:
		return "unknown"
	}
}

// record tracks one registered handle. refs is meaningful only for
// ModeCounted.
type record struct {
	tag  handleregistry.Tag
	mode Mode
	refs int
}

// Registration is the registration state reported by Describe.
type Registration uint8

const (
	// RegistrationNone means the handle has no current record.
	RegistrationNone Registration = iota
	// RegistrationExclusive is a single-owner registration.
	RegistrationExclusive
	// RegistrationCounted is a reference-counted registration.
	RegistrationCounted
	// RegistrationPinned is a pinned registration.
	RegistrationPinned
)

// String returns the registration state name.
func (r Registration) String() string {
	switch r {
	case RegistrationExclusive:
		return "exclusive"
	case RegistrationCounted:
		return "counted"
	case RegistrationPinned:
		return "pinned"
	default:
		return "none"
	}
}

func (m Mode) registration() Registration {
	switch m {
	case ModeExclusive:
		return RegistrationExclusive
	case ModeCounted:
		return RegistrationCounted
	default:
		return RegistrationPinned
	}
}
