package caps

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
)

// Registration phases of a Registry.
const (
	phaseOpen uint32 = iota
	phaseRegistering
	phaseClosed
)

// Registry holds every capability of a server, by kind and name, and owns the
// provider registration window. Create one with NewRegistry at startup and
// pass it to whatever creates, registers or queries capabilities.
//
// Creating capabilities is safe for concurrent use. Providers may only be
// registered through the RegisterEvent handed out by Register.
type Registry struct {
	blocks   capabilityRegistry
	entities capabilityRegistry
	items    capabilityRegistry

	// phase is one of phaseOpen, phaseRegistering and phaseClosed
	phase atomic.Uint32
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		blocks:   capabilityRegistry{kind: KindBlock},
		entities: capabilityRegistry{kind: KindEntity},
		items:    capabilityRegistry{kind: KindItem},
	}
}

// Register runs fn with the registration event. It may only be called once:
// providers can be registered while fn runs and never afterwards.
func (r *Registry) Register(fn func(ev *RegisterEvent) error) error {
	if !r.phase.CompareAndSwap(phaseOpen, phaseRegistering) {
		return ErrAlreadyRegistered
	}
	defer r.phase.Store(phaseClosed)

	ev := &RegisterEvent{registry: r}
	defer func() { ev.done = true }()

	return fn(ev)
}

// Registering reports whether the registration window is currently open.
func (r *Registry) Registering() bool {
	return r.phase.Load() == phaseRegistering
}

// BlockCapabilities returns a snapshot of all block capabilities, sorted by name.
func (r *Registry) BlockCapabilities() []Capability {
	return r.blocks.all()
}

// EntityCapabilities returns a snapshot of all entity capabilities, sorted by name.
func (r *Registry) EntityCapabilities() []Capability {
	return r.entities.all()
}

// ItemCapabilities returns a snapshot of all item capabilities, sorted by name.
func (r *Registry) ItemCapabilities() []Capability {
	return r.items.all()
}

// Find returns the capabilities of every kind whose name matches the glob
// pattern, for example "caps:*" or "**/battery". Results are sorted by kind,
// then by name.
func (r *Registry) Find(pattern string) ([]Capability, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("find %q: %w", pattern, doublestar.ErrBadPattern)
	}
	var result []Capability
	for _, kind := range []*capabilityRegistry{&r.blocks, &r.entities, &r.items} {
		for _, c := range kind.all() {
			if ok, _ := doublestar.Match(pattern, c.Name().String()); ok {
				result = append(result, c)
			}
		}
	}
	return result, nil
}

// capabilityRegistry maps names to the capabilities of one kind.
// sync.Map gives lock-free reads on the common path where a capability is
// requested again after its first creation.
type capabilityRegistry struct {
	kind    Kind
	entries sync.Map // map[Name]Capability
}

// create returns the capability registered under name, creating it with
// newCap if it does not exist yet. The stored capability must have the
// requested type and context type.
func (r *capabilityRegistry) create(reg *Registry, name Name, typ, ctx reflect.Type, newCap func(base capability) Capability) (Capability, error) {
	// Fast path: already created
	if c, ok := r.entries.Load(name); ok {
		return r.validate(c.(Capability), typ, ctx)
	}

	// Slow path: LoadOrStore makes sure only one goroutine wins if several
	// create the same name at once. Losers validate against the winner.
	candidate := newCap(capability{registry: reg, name: name, typ: typ, ctx: ctx})
	actual, loaded := r.entries.LoadOrStore(name, candidate)
	if loaded {
		return r.validate(actual.(Capability), typ, ctx)
	}

	slog.Debug("caps: created capability",
		"kind", r.kind,
		"capability", name.String(),
		"type", typ,
		"context", ctx)
	return candidate, nil
}

// validate checks that c was created with the same type and context type.
func (r *capabilityRegistry) validate(c Capability, typ, ctx reflect.Type) (Capability, error) {
	if c.Type() != typ || c.Context() != ctx {
		return nil, fmt.Errorf("%w: %s capability %s is registered with type %v and context %v, requested type %v and context %v",
			ErrCapabilityConflict, r.kind, c.Name(), c.Type(), c.Context(), typ, ctx)
	}
	return c, nil
}

// all returns the capabilities sorted by name.
func (r *capabilityRegistry) all() []Capability {
	var result []Capability
	r.entries.Range(func(_, value any) bool {
		result = append(result, value.(Capability))
		return true
	})
	slices.SortFunc(result, func(a, b Capability) int {
		return strings.Compare(a.Name().String(), b.Name().String())
	})
	return result
}
