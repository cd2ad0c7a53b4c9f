package handleregistry

// Handle is an opaque fixed-width identifier standing in for a native
// address or OS handle. Handles are compared by bit pattern and never
// dereferenced. Handle 0 is the nil handle and is never valid.
type Handle uintptr

// Nil is the zero Handle.
const Nil Handle = 0

// IsNil reports whether h is the nil handle.
func (h Handle) IsNil() bool { return h == Nil }

// Tag is the type identifier attached to a handle for safety checks.
// Tags are immutable and compared by exact text equality, never
// case-insensitively. The empty Tag is the distinguished "untyped" tag.
type Tag string

// Untyped is the absent tag. An untyped expectation matches any tag.
const Untyped Tag = ""

// IsUntyped reports whether t is the untyped tag.
func (t Tag) IsUntyped() bool { return t == Untyped }
