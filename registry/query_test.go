package registry

import (
	"testing"

	handleregistry "github.com/wippyai/handle-registry"
	"github.com/wippyai/handle-registry/box"
	regerr "github.com/wippyai/handle-registry/errors"
)

func TestCastAlongHierarchy(t *testing.T) {
	r := New()
	defer r.Close()

	if err := r.DefineSubtag("Derived", "Base"); err != nil {
		t.Fatalf("DefineSubtag failed: %v", err)
	}
	b, err := r.Register(0x1000, "Derived")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// upcast retags both the box and the record
	up, err := r.Cast(b, "Base")
	if err != nil {
		t.Fatalf("upcast failed: %v", err)
	}
	if up.Tag() != "Base" || up.Handle() != 0x1000 {
		t.Errorf("upcast box = %s, want 1000^Base", up)
	}
	if err := r.Verify(0x1000, "Derived"); !regerr.IsTypeMismatch(err) {
		t.Errorf("Verify(Derived) after upcast = %v, want type_mismatch", err)
	}
	if err := r.Verify(0x1000, "Base"); err != nil {
		t.Errorf("Verify(Base) after upcast failed: %v", err)
	}

	// the original box is immutable
	if b.Tag() != "Derived" {
		t.Errorf("original box tag = %q, want Derived", b.Tag())
	}

	// downcast goes back
	down, err := r.Cast(up, "Derived")
	if err != nil {
		t.Fatalf("downcast failed: %v", err)
	}
	if down.Tag() != "Derived" {
		t.Errorf("downcast box tag = %q, want Derived", down.Tag())
	}
	if err := r.Verify(0x1000, "Derived"); err != nil {
		t.Errorf("Verify(Derived) after downcast failed: %v", err)
	}
}

func TestCastErrors(t *testing.T) {
	r := New()
	defer r.Close()

	if err := r.DefineSubtag("Derived", "Base"); err != nil {
		t.Fatalf("DefineSubtag failed: %v", err)
	}
	if _, err := r.Register(0x1000, "Derived"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// box tag must match the record exactly, hierarchy does not help here
	if _, err := r.Cast(box.Wrap(0x1000, "Base"), "Derived"); !regerr.IsTypeMismatch(err) {
		t.Errorf("Cast with stale box tag = %v, want type_mismatch", err)
	}

	// unrelated tags are rejected in both directions
	if _, err := r.Cast(box.Wrap(0x1000, "Derived"), "Unrelated"); !regerr.IsTypeMismatch(err) {
		t.Errorf("Cast to unrelated tag = %v, want type_mismatch", err)
	}
}

func TestCastUnregisteredHandle(t *testing.T) {
	r := New()
	defer r.Close()

	if err := r.DefineSubtag("Derived", "Base"); err != nil {
		t.Fatalf("DefineSubtag failed: %v", err)
	}

	// casting consults the hierarchy only; no record is required
	b, err := r.Cast(box.Wrap(0x2000, "Derived"), "Base")
	if err != nil {
		t.Fatalf("Cast of unregistered handle failed: %v", err)
	}
	if b.Tag() != "Base" {
		t.Errorf("box tag = %q, want Base", b.Tag())
	}
	if r.Registered(0x2000) {
		t.Error("Cast created a record")
	}
}

func TestDescribe(t *testing.T) {
	r := New()
	defer r.Close()

	if err := r.DefineSubtag("Derived", "Base"); err != nil {
		t.Fatalf("DefineSubtag failed: %v", err)
	}

	t.Run("unregistered", func(t *testing.T) {
		info := r.Describe(box.Wrap(0x1, "Widget"))
		if info.Registration != RegistrationNone {
			t.Errorf("Registration = %s, want none", info.Registration)
		}
		if info.Tag != "Widget" {
			t.Errorf("Tag = %q, want Widget", info.Tag)
		}
	})

	t.Run("counted with refs", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			if _, err := r.RegisterCounted(0x2, "Widget"); err != nil {
				t.Fatalf("RegisterCounted failed: %v", err)
			}
		}
		info := r.Describe(box.Wrap(0x2, "Widget"))
		if info.Registration != RegistrationCounted {
			t.Errorf("Registration = %s, want counted", info.Registration)
		}
		if info.Refs != 3 {
			t.Errorf("Refs = %d, want 3", info.Refs)
		}
		if info.Match != RelationExact {
			t.Errorf("Match = %s, want exact", info.Match)
		}
	})

	t.Run("derived match", func(t *testing.T) {
		if _, err := r.Register(0x3, "Base"); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		info := r.Describe(box.Wrap(0x3, "Derived"))
		if info.RegisteredTag != "Base" {
			t.Errorf("RegisteredTag = %q, want Base", info.RegisteredTag)
		}
		if info.Match != RelationDerived {
			t.Errorf("Match = %s, want derived", info.Match)
		}
	})

	t.Run("pinned", func(t *testing.T) {
		if _, err := r.Pin(0x4, "Widget"); err != nil {
			t.Fatalf("Pin failed: %v", err)
		}
		info := r.Describe(box.Wrap(0x4, "Widget"))
		if info.Registration != RegistrationPinned {
			t.Errorf("Registration = %s, want pinned", info.Registration)
		}
	})
}

func TestUnwrap(t *testing.T) {
	r := New()
	defer r.Close()

	if err := r.DefineSubtag("Derived", "Base"); err != nil {
		t.Fatalf("DefineSubtag failed: %v", err)
	}

	tests := []struct {
		name     string
		b        box.Box
		expected handleregistry.Tag
		handle   handleregistry.Handle
		wantErr  bool
	}{
		{"exact", box.Wrap(0x1000, "Base"), "Base", 0x1000, false},
		{"derived", box.Wrap(0x1000, "Derived"), "Base", 0x1000, false},
		{"untyped expectation", box.Wrap(0x1000, "Base"), handleregistry.Untyped, 0x1000, false},
		{"untyped nil box", box.Wrap(handleregistry.Nil, handleregistry.Untyped), "Base", handleregistry.Nil, false},
		{"mismatch", box.Wrap(0x1000, "Base"), "Derived", handleregistry.Nil, true},
		{"typed nil box mismatch", box.Wrap(handleregistry.Nil, "Other"), "Base", handleregistry.Nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, err := r.Unwrap(tc.b, tc.expected)
			if tc.wantErr {
				if !regerr.IsTypeMismatch(err) {
					t.Errorf("Unwrap = %v, want type_mismatch", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unwrap failed: %v", err)
			}
			if h != tc.handle {
				t.Errorf("handle = %x, want %x", uintptr(h), uintptr(tc.handle))
			}
		})
	}
}

func TestUnwrapAny(t *testing.T) {
	r := New()
	defer r.Close()

	b := box.Wrap(0x1000, "Gadget")

	h, tag, err := r.UnwrapAny(b, []handleregistry.Tag{"Widget", "Gadget"})
	if err != nil {
		t.Fatalf("UnwrapAny failed: %v", err)
	}
	if h != 0x1000 || tag != "Gadget" {
		t.Errorf("UnwrapAny = (%x, %q), want (1000, Gadget)", uintptr(h), tag)
	}

	if _, _, err := r.UnwrapAny(b, []handleregistry.Tag{"Widget", "Sprocket"}); !regerr.IsTypeMismatch(err) {
		t.Errorf("UnwrapAny with no matching tag = %v, want type_mismatch", err)
	}
}

func TestVerifyBox(t *testing.T) {
	r := New()
	defer r.Close()

	if _, err := r.Register(0x1000, "Widget"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	h, err := r.VerifyBox(box.Wrap(0x1000, "Widget"), "Widget")
	if err != nil {
		t.Fatalf("VerifyBox failed: %v", err)
	}
	if h != 0x1000 {
		t.Errorf("handle = %x, want 1000", uintptr(h))
	}

	if _, err := r.VerifyBox(box.Wrap(handleregistry.Nil, handleregistry.Untyped), handleregistry.Untyped); !regerr.IsInvalidValue(err) {
		t.Errorf("VerifyBox(nil box) = %v, want invalid_value", err)
	}
	if _, err := r.VerifyBox(box.Wrap(0x2000, "Widget"), "Widget"); !regerr.IsNotFound(err) {
		t.Errorf("VerifyBox(unregistered) = %v, want not_found", err)
	}
}

func TestVerifyBoxAny(t *testing.T) {
	r := New()
	defer r.Close()

	if _, err := r.Register(0x1000, "Gadget"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	h, tag, err := r.VerifyBoxAny(box.Wrap(0x1000, "Gadget"), []handleregistry.Tag{"Widget", "Gadget"})
	if err != nil {
		t.Fatalf("VerifyBoxAny failed: %v", err)
	}
	if h != 0x1000 || tag != "Gadget" {
		t.Errorf("VerifyBoxAny = (%x, %q), want (1000, Gadget)", uintptr(h), tag)
	}
}

func TestUnregisterBox(t *testing.T) {
	r := New()
	defer r.Close()

	b, err := r.Register(0x1000, "Widget")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	h, err := r.UnregisterBox(b, "Widget")
	if err != nil {
		t.Fatalf("UnregisterBox failed: %v", err)
	}
	if h != 0x1000 {
		t.Errorf("handle = %x, want 1000", uintptr(h))
	}
	if r.Registered(0x1000) {
		t.Error("handle still registered")
	}

	// a nil box is silently ignored
	if _, err := r.UnregisterBox(box.Wrap(handleregistry.Nil, handleregistry.Untyped), handleregistry.Untyped); err != nil {
		t.Errorf("UnregisterBox(nil box) = %v, want nil", err)
	}
}

func TestUnregisterBoxAny(t *testing.T) {
	r := New()
	defer r.Close()

	b, err := r.Register(0x1000, "Gadget")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	h, tag, err := r.UnregisterBoxAny(b, []handleregistry.Tag{"Widget", "Gadget"})
	if err != nil {
		t.Fatalf("UnregisterBoxAny failed: %v", err)
	}
	if h != 0x1000 || tag != "Gadget" {
		t.Errorf("UnregisterBoxAny = (%x, %q), want (1000, Gadget)", uintptr(h), tag)
	}
	if r.Registered(0x1000) {
		t.Error("handle still registered")
	}
}
