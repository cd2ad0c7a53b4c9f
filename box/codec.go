package box

import (
	"strconv"
	"strings"

	handleregistry "github.com/wippyai/handle-registry"
	"github.com/wippyai/handle-registry/errors"
)

// nullText is the rendering of the nil handle with no tag.
const nullText = "NULL"

// Encode renders a (handle, tag) pair in the canonical text form:
// "NULL" for the untyped nil handle, otherwise "<hex-address>^<tag>".
func Encode(h handleregistry.Handle, tag handleregistry.Tag) string {
	if h.IsNil() && tag.IsUntyped() {
		return nullText
	}
	return strconv.FormatUint(uint64(h), 16) + "^" + string(tag)
}

// Parse decodes the canonical text form into a Box. The address part
// may carry a 0x or 0X prefix; the tag is everything after the first
// '^', empty meaning untyped. Any other input fails with an
// invalid-value error.
func Parse(text string) (Box, error) {
	if text == nullText {
		return Box{text: nullText}, nil
	}

	addr, tag, found := strings.Cut(text, "^")
	if !found {
		return Box{}, errors.InvalidFormat(text)
	}
	if len(addr) > 2 && (addr[:2] == "0x" || addr[:2] == "0X") {
		addr = addr[2:]
	}
	if addr == "" {
		return Box{}, errors.InvalidFormat(text)
	}
	v, err := strconv.ParseUint(addr, 16, 64)
	if err != nil {
		return Box{}, errors.InvalidFormat(text)
	}

	return Wrap(handleregistry.Handle(uintptr(v)), handleregistry.Tag(tag)), nil
}
