package box

import (
	handleregistry "github.com/wippyai/handle-registry"
)

// Box is an immutable boxed handle: the handle value, its tag and the
// cached canonical text rendering. The zero Box is the nil handle with
// no tag.
type Box struct {
	handle handleregistry.Handle
	tag    handleregistry.Tag
	text   string
}

// Wrap boxes a handle with a tag. It performs no registration or
// validity checks; use it for handles that are deliberately unchecked.
func Wrap(h handleregistry.Handle, tag handleregistry.Tag) Box {
	return Box{handle: h, tag: tag, text: Encode(h, tag)}
}

// Handle returns the boxed handle value.
func (b Box) Handle() handleregistry.Handle { return b.handle }

// Tag returns the boxed tag.
func (b Box) Tag() handleregistry.Tag { return b.tag }

// IsNil reports whether the boxed handle is the nil handle.
func (b Box) IsNil() bool { return b.handle.IsNil() }

// String returns the canonical text form.
func (b Box) String() string {
	if b.text == "" {
		// zero Box, text never cached
		return Encode(b.handle, b.tag)
	}
	return b.text
}

// Ordering is the result of comparing two boxes.
type Ordering int

const (
	// Distinct means the handles differ.
	Distinct Ordering = iota
	// Equal means handle and tag both match.
	Equal
	// SameHandle means the handles match but the tags differ.
	SameHandle
)

// String returns the ordering name.
func (o Ordering) String() string {
	switch o {
	case Equal:
		return "equal"
	case SameHandle:
		return "same-handle"
	default:
		return "distinct"
	}
}

// Compare compares two boxes by handle identity first, tag second.
func Compare(a, b Box) Ordering {
	if a.handle != b.handle {
		return Distinct
	}
	if a.tag == b.tag {
		return Equal
	}
	return SameHandle
}
