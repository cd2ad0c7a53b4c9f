// Package handleregistry provides a typed opaque-handle registry.
//
// Native code frequently hands out raw memory addresses or OS handles to
// less-trusted callers - a script interpreter, a plugin, a WASM guest.
// This library tracks those handles so that three classes of error are
// caught at the boundary instead of corrupting the process: use of a
// stale or freed handle, use of a handle at the wrong type, and
// double-release.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	handleregistry/      Root package with the Handle and Tag primitives
//	├── registry/        Record store, tag hierarchy, registration
//	│                    protocol and introspection
//	├── box/             Boxed (handle, tag) values and the canonical
//	│                    text codec
//	├── errors/          Structured error types for debugging
//	└── wazerohost/      wazero host module exposing a registry to
//	                     WASM guests
//
// # Quick Start
//
// Create a registry per owning context (one per interpreter, session or
// instance - it is never shared implicitly):
//
//	reg := registry.New()
//	defer reg.Close()
//
//	// Hand a native address to the caller.
//	b, err := reg.Register(handleregistry.Handle(p), "Widget")
//	send(b.String()) // "1000^Widget"
//
//	// Later, the caller passes the box back.
//	b, err = box.Parse(input)
//	h, err := reg.VerifyBox(b, "Widget")
//
//	// Balanced release.
//	err = reg.Unregister(h, "Widget")
//
// # Type Safety
//
// Tags are plain strings compared by value. A single-parent hierarchy
// lets a handle registered under a derived tag pass verification against
// a base tag:
//
//	reg.DefineSubtag("TextWidget", "Widget")
//	reg.Register(h, "TextWidget")
//	reg.Verify(h, "Widget") // ok
//
// # Ownership
//
// The registry never frees the native resource behind a handle; that
// remains the caller's responsibility. It only refuses to re-verify a
// handle once it has been released.
package handleregistry
