package caps

import (
	"fmt"
	"reflect"

	"github.com/df-mc/dragonfly/server/world"
)

// EntityRef is anything that knows its entity type. Both world.Entity and
// *world.EntityHandle satisfy it, so capabilities can be queried inside and
// outside of a transaction.
type EntityRef interface {
	Type() world.EntityType
}

// EntityCapability gives access to objects of type T attached to entities,
// with extra query context C. Providers are registered per entity type with
// RegisterEntity.
type EntityCapability[T, C any] struct {
	capability

	// providers maps entity type -> providers in registration order
	providers map[reflect.Type][]EntityProvider[T, C]
}

// NewEntityCapability creates the entity capability with the given name, or
// returns it if it already exists.
func NewEntityCapability[T, C any](r *Registry, name string) (*EntityCapability[T, C], error) {
	n, err := ParseName(name)
	if err != nil {
		return nil, err
	}
	c, err := r.entities.create(r, n, reflect.TypeFor[T](), reflect.TypeFor[C](), func(base capability) Capability {
		return &EntityCapability[T, C]{
			capability: base,
			providers:  make(map[reflect.Type][]EntityProvider[T, C]),
		}
	})
	if err != nil {
		return nil, err
	}
	return c.(*EntityCapability[T, C]), nil
}

// NewEntityCapabilityVoid creates or gets an entity capability that takes no
// query context.
func NewEntityCapabilityVoid[T any](r *Registry, name string) (*EntityCapability[T, Void], error) {
	return NewEntityCapability[T, Void](r, name)
}

// NewEntityCapabilitySided creates or gets an entity capability queried from
// a side. The side may be nil.
func NewEntityCapabilitySided[T any](r *Registry, name string) (*EntityCapability[T, Side], error) {
	return NewEntityCapability[T, Side](r, name)
}

// Kind returns KindEntity.
func (*EntityCapability[T, C]) Kind() Kind {
	return KindEntity
}

// String returns a string representation of the capability for debugging.
func (c *EntityCapability[T, C]) String() string {
	return fmt.Sprintf("EntityCapability{Name: %s, Type: %v, Context: %v}", c.name, c.typ, c.ctx)
}

// Capability queries the capability of entity e. It returns false if no
// provider offers one.
func (c *EntityCapability[T, C]) Capability(e EntityRef, ctx C) (T, bool) {
	var zero T
	if e == nil {
		return zero, false
	}
	t := e.Type()
	if t == nil {
		return zero, false
	}
	for _, provider := range c.providers[reflect.TypeOf(t)] {
		if v, ok := provider(e, ctx); ok {
			return v, true
		}
	}
	return zero, false
}
