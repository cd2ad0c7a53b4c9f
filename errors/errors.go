package errors

import (
	"fmt"
	"strings"

	handleregistry "github.com/wippyai/handle-registry"
)

// Phase indicates which registry operation the error occurred in
type Phase string

const (
	PhaseRegister   Phase = "register"   // handle registration
	PhaseUnregister Phase = "unregister" // handle release
	PhaseVerify     Phase = "verify"     // validity checks
	PhaseCast       Phase = "cast"       // re-tagging a boxed handle
	PhaseDecode     Phase = "decode"     // canonical text parsing
	PhaseHierarchy  Phase = "hierarchy"  // subtag edge maintenance
	PhaseQuery      Phase = "query"      // unwrap/introspection
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidValue Kind = "invalid_value" // malformed text form or nil handle
	KindNotFound     Kind = "not_found"     // handle has no current record
	KindTypeMismatch Kind = "type_mismatch" // tag incompatible with expectation
	KindConflict     Kind = "conflict"      // re-registration or edge redefinition clash
)

// Error is the structured error type used throughout the registry
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Handle   handleregistry.Handle
	Tag      handleregistry.Tag
	Expected handleregistry.Tag
	Text     string
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Handle != handleregistry.Nil {
		fmt.Fprintf(&b, " handle %x", uintptr(e.Handle))
	}
	if e.Text != "" {
		fmt.Fprintf(&b, " %q", e.Text)
	}
	if e.Tag != handleregistry.Untyped || e.Expected != handleregistry.Untyped {
		fmt.Fprintf(&b, ": tag %q", string(e.Tag))
		if e.Expected != handleregistry.Untyped {
			fmt.Fprintf(&b, ", expected %q", string(e.Expected))
		}
	}

	if e.Detail != "" {
		if e.Tag != handleregistry.Untyped || e.Expected != handleregistry.Untyped {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Kinds must match;
// the Phase is compared only when the target specifies one.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase != "" && e.Phase != t.Phase {
			return false
		}
		return e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Handle sets the offending handle
func (b *Builder) Handle(h handleregistry.Handle) *Builder {
	b.err.Handle = h
	return b
}

// Tag sets the tag found on the box or record
func (b *Builder) Tag(t handleregistry.Tag) *Builder {
	b.err.Tag = t
	return b
}

// Expected sets the tag the caller asked for
func (b *Builder) Expected(t handleregistry.Tag) *Builder {
	b.err.Expected = t
	return b
}

// Text sets the offending text form
func (b *Builder) Text(s string) *Builder {
	b.err.Text = s
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NilHandle creates an invalid-value error for the nil handle
func NilHandle(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidValue,
		Detail: "handle is nil",
	}
}

// InvalidFormat creates an invalid-value error for malformed text
func InvalidFormat(text string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidValue,
		Text:   text,
		Detail: "invalid handle format",
	}
}

// NotRegistered creates a not-found error for an unknown handle
func NotRegistered(phase Phase, h handleregistry.Handle, expected handleregistry.Tag) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindNotFound,
		Handle:   h,
		Expected: expected,
		Detail:   "handle is not registered",
	}
}

// TagMismatch creates a type-mismatch error between a found tag and an
// expectation
func TagMismatch(phase Phase, h handleregistry.Handle, tag, expected handleregistry.Tag) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Handle:   h,
		Tag:      tag,
		Expected: expected,
		Detail:   "tag does not match registered tag",
	}
}

// CastIncompatible creates a type-mismatch error for a cast that is not
// along the hierarchy in either direction
func CastIncompatible(h handleregistry.Handle, oldTag, newTag handleregistry.Tag) *Error {
	return &Error{
		Phase:    PhaseCast,
		Kind:     KindTypeMismatch,
		Handle:   h,
		Tag:      oldTag,
		Expected: newTag,
		Detail:   "tags are not compatible for casting",
	}
}

// TagConflict creates a conflict error for re-registration under a
// different tag
func TagConflict(h handleregistry.Handle, registered, tag handleregistry.Tag) *Error {
	return &Error{
		Phase:    PhaseRegister,
		Kind:     KindConflict,
		Handle:   h,
		Tag:      registered,
		Expected: tag,
		Detail:   "handle already registered under a different tag",
	}
}

// ModeConflict creates a conflict error for re-registration under a
// different reference mode
func ModeConflict(h handleregistry.Handle, registered, attempted string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindConflict,
		Handle: h,
		Detail: fmt.Sprintf("registered %s handle: attempt to register a %s reference", registered, attempted),
	}
}

// EdgeConflict creates a conflict error for redefining a subtag edge
func EdgeConflict(sub, existing, super handleregistry.Tag) *Error {
	return &Error{
		Phase:    PhaseHierarchy,
		Kind:     KindConflict,
		Tag:      sub,
		Expected: super,
		Detail:   fmt.Sprintf("subtag already has supertag %q", string(existing)),
	}
}

// Kind predicates

// IsInvalidValue reports whether err is a registry error of kind invalid_value
func IsInvalidValue(err error) bool { return isKind(err, KindInvalidValue) }

// IsNotFound reports whether err is a registry error of kind not_found
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsTypeMismatch reports whether err is a registry error of kind type_mismatch
func IsTypeMismatch(err error) bool { return isKind(err, KindTypeMismatch) }

// IsConflict reports whether err is a registry error of kind conflict
func IsConflict(err error) bool { return isKind(err, KindConflict) }

func isKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
