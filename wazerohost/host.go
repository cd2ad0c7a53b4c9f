package wazerohost

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	handleregistry "github.com/wippyai/handle-registry"
	"github.com/wippyai/handle-registry/errors"
	"github.com/wippyai/handle-registry/registry"
)

// ModuleName is the import namespace guests use.
const ModuleName = "wippy:handle/registry"

// Status codes returned to guests, one per registry error kind.
const (
	StatusOK uint32 = iota
	StatusInvalidValue
	StatusNotFound
	StatusTypeMismatch
	StatusConflict
	StatusUnknownTag
	StatusInternal
)

// UntypedTag is the reserved tag id for the untyped tag.
const UntypedTag uint32 = 0

// Host binds one registry to a wazero host module. The tag interner is
// shared by every module instantiated from this Host.
type Host struct {
	reg  *registry.Registry
	ids  map[handleregistry.Tag]uint32
	tags []handleregistry.Tag
	mu   sync.RWMutex
}

// New creates a Host over reg. Tag id 0 is pre-interned as the untyped
// tag.
func New(reg *registry.Registry) *Host {
	return &Host{
		reg:  reg,
		tags: []handleregistry.Tag{handleregistry.Untyped},
		ids:  map[handleregistry.Tag]uint32{handleregistry.Untyped: UntypedTag},
	}
}

// InternTag assigns a stable id to tag, returning the existing id if it
// was interned before.
func (h *Host) InternTag(tag handleregistry.Tag) uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()

	if id, ok := h.ids[tag]; ok {
		return id
	}
	id := uint32(len(h.tags))
	h.tags = append(h.tags, tag)
	h.ids[tag] = id
	return id
}

// TagOf resolves an interned id back to its tag.
func (h *Host) TagOf(id uint32) (handleregistry.Tag, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if int(id) >= len(h.tags) {
		return handleregistry.Untyped, false
	}
	return h.tags[id], true
}

// Instantiate builds and instantiates the host module on rt.
func (h *Host) Instantiate(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	b := rt.NewHostModuleBuilder(ModuleName)

	b.NewFunctionBuilder().WithFunc(h.register).Export("register")
	b.NewFunctionBuilder().WithFunc(h.pin).Export("pin")
	b.NewFunctionBuilder().WithFunc(h.unregister).Export("unregister")
	b.NewFunctionBuilder().WithFunc(h.invalidate).Export("invalidate")
	b.NewFunctionBuilder().WithFunc(h.verify).Export("verify")
	b.NewFunctionBuilder().WithFunc(h.registered).Export("registered")
	b.NewFunctionBuilder().WithFunc(h.defineSubtag).Export("define-subtag")
	b.NewFunctionBuilder().WithFunc(h.removeSubtag).Export("remove-subtag")
	b.NewFunctionBuilder().WithFunc(h.count).Export("count")

	return b.Instantiate(ctx)
}

func (h *Host) register(_ context.Context, addr uint64, tagID uint32, counted uint32) uint32 {
	tag, ok := h.TagOf(tagID)
	if !ok {
		return StatusUnknownTag
	}
	var err error
	if counted != 0 {
		_, err = h.reg.RegisterCounted(handleregistry.Handle(uintptr(addr)), tag)
	} else {
		_, err = h.reg.Register(handleregistry.Handle(uintptr(addr)), tag)
	}
	return statusOf(err)
}

func (h *Host) pin(_ context.Context, addr uint64, tagID uint32) uint32 {
	tag, ok := h.TagOf(tagID)
	if !ok {
		return StatusUnknownTag
	}
	_, err := h.reg.Pin(handleregistry.Handle(uintptr(addr)), tag)
	return statusOf(err)
}

func (h *Host) unregister(_ context.Context, addr uint64, tagID uint32) uint32 {
	tag, ok := h.TagOf(tagID)
	if !ok {
		return StatusUnknownTag
	}
	return statusOf(h.reg.Unregister(handleregistry.Handle(uintptr(addr)), tag))
}

func (h *Host) invalidate(_ context.Context, addr uint64, tagID uint32) uint32 {
	tag, ok := h.TagOf(tagID)
	if !ok {
		return StatusUnknownTag
	}
	return statusOf(h.reg.Invalidate(handleregistry.Handle(uintptr(addr)), tag))
}

func (h *Host) verify(_ context.Context, addr uint64, tagID uint32) uint32 {
	tag, ok := h.TagOf(tagID)
	if !ok {
		return StatusUnknownTag
	}
	return statusOf(h.reg.Verify(handleregistry.Handle(uintptr(addr)), tag))
}

func (h *Host) registered(_ context.Context, addr uint64) uint32 {
	if h.reg.Registered(handleregistry.Handle(uintptr(addr))) {
		return 1
	}
	return 0
}

func (h *Host) defineSubtag(_ context.Context, subID, superID uint32) uint32 {
	sub, ok := h.TagOf(subID)
	if !ok {
		return StatusUnknownTag
	}
	super, ok := h.TagOf(superID)
	if !ok {
		return StatusUnknownTag
	}
	return statusOf(h.reg.DefineSubtag(sub, super))
}

func (h *Host) removeSubtag(_ context.Context, subID uint32) uint32 {
	sub, ok := h.TagOf(subID)
	if !ok {
		return StatusUnknownTag
	}
	h.reg.RemoveSubtag(sub)
	return StatusOK
}

func (h *Host) count(_ context.Context) uint32 {
	return uint32(h.reg.Len())
}

func statusOf(err error) uint32 {
	switch {
	case err == nil:
		return StatusOK
	case errors.IsInvalidValue(err):
		return StatusInvalidValue
	case errors.IsNotFound(err):
		return StatusNotFound
	case errors.IsTypeMismatch(err):
		return StatusTypeMismatch
	case errors.IsConflict(err):
		return StatusConflict
	default:
		return StatusInternal
	}
}
