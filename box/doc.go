// Package box implements the boxed handle value and its canonical text
// codec.
//
// A Box is the (handle, tag) pair exchanged across the trust boundary.
// It is pure data: boxing never consults a registry, and a Box can exist
// for a handle that was never registered. That makes Wrap the explicit
// escape hatch for raw, unchecked handles.
//
// # Canonical Text Form
//
// The only external serialization is the text form
//
//	<address>^<tag>
//
// where <address> is the handle rendered as lowercase hex and <tag> is
// the tag text, empty when untyped. The nil handle with no tag renders
// as the literal "NULL". The form is stable and round-trips:
//
//	box.Wrap(0x1000, "Widget").String() // "1000^Widget"
//	box.Parse("1000^Widget")            // same box
//	box.Parse("NULL")                   // nil box
//
// The tag text is not escaped; Parse splits at the first '^', so a tag
// containing '^' still round-trips.
package box
