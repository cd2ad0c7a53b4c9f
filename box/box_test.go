package box

import (
	"testing"

	handleregistry "github.com/wippyai/handle-registry"
)

func TestWrapAccessors(t *testing.T) {
	b := Wrap(0x1000, "Widget")
	if b.Handle() != 0x1000 {
		t.Errorf("Handle() = %x, want 1000", uintptr(b.Handle()))
	}
	if b.Tag() != "Widget" {
		t.Errorf("Tag() = %q, want Widget", b.Tag())
	}
	if b.IsNil() {
		t.Error("IsNil() = true for non-nil handle")
	}
	if b.String() != "1000^Widget" {
		t.Errorf("String() = %q, want 1000^Widget", b.String())
	}
}

func TestZeroBox(t *testing.T) {
	var b Box
	if !b.IsNil() {
		t.Error("zero Box should be nil")
	}
	if b.String() != "NULL" {
		t.Errorf("zero Box String() = %q, want NULL", b.String())
	}
}

func TestWrapNeverConsultsRegistry(t *testing.T) {
	// Boxing is pure data construction: a handle that was never
	// registered anywhere still boxes and renders.
	b := Wrap(0xdead, "Raw")
	if b.String() != "dead^Raw" {
		t.Errorf("String() = %q, want dead^Raw", b.String())
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Box
		want Ordering
	}{
		{"equal", Wrap(0x1000, "Widget"), Wrap(0x1000, "Widget"), Equal},
		{"equal untyped", Wrap(0x1000, ""), Wrap(0x1000, ""), Equal},
		{"same handle different tag", Wrap(0x1000, "Widget"), Wrap(0x1000, "Gadget"), SameHandle},
		{"same handle one untyped", Wrap(0x1000, "Widget"), Wrap(0x1000, ""), SameHandle},
		{"different handles", Wrap(0x1000, "Widget"), Wrap(0x2000, "Widget"), Distinct},
		{"both nil", Wrap(handleregistry.Nil, ""), Wrap(handleregistry.Nil, ""), Equal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Compare(tc.a, tc.b); got != tc.want {
				t.Errorf("Compare(%s, %s) = %s, want %s", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestOrderingString(t *testing.T) {
	tests := []struct {
		want string
		o    Ordering
	}{
		{"equal", Equal},
		{"same-handle", SameHandle},
		{"distinct", Distinct},
	}
	for _, tc := range tests {
		if got := tc.o.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
