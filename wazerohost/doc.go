// Package wazerohost exposes a handle registry to WebAssembly guests as
// a wazero host module.
//
// A WASM guest is exactly the kind of less-trusted caller the registry
// exists for: the host hands it addresses of native resources and wants
// stale use, wrong-type use and double-release caught at the boundary.
//
// Guests cannot share Go strings, so tags cross the boundary as small
// integer ids. The host interns the tag vocabulary up front:
//
//	h := wazerohost.New(reg)
//	widget := h.InternTag("Widget")
//
//	mod, err := h.Instantiate(ctx, rt)
//
// and the guest imports functions from "wippy:handle/registry":
//
//	register(addr: i64, tag: i32, counted: i32) -> i32
//	pin(addr: i64, tag: i32) -> i32
//	unregister(addr: i64, tag: i32) -> i32
//	invalidate(addr: i64, tag: i32) -> i32
//	verify(addr: i64, tag: i32) -> i32
//	registered(addr: i64) -> i32
//	define-subtag(sub: i32, super: i32) -> i32
//	remove-subtag(sub: i32) -> i32
//	count() -> i32
//
// Every function returns a status code mapping one-to-one onto the
// registry error kinds; 0 is success. Tag id 0 is the untyped tag.
package wazerohost
