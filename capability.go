package caps

import (
	"reflect"

	"github.com/df-mc/dragonfly/server/block/cube"
)

// Void is the context type of capabilities that take no query context.
type Void struct{}

// Side is the context type of sided capabilities. A nil Side means the
// query does not come from a specific face.
type Side = *cube.Face

// FaceSide returns the Side for face f.
func FaceSide(f cube.Face) Side {
	return &f
}

// Kind is the kind of object a capability is queried on.
type Kind uint8

const (
	// KindBlock capabilities are queried on blocks in a Level.
	KindBlock Kind = iota
	// KindEntity capabilities are queried on entities.
	KindEntity
	// KindItem capabilities are queried on item stacks.
	KindItem
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindEntity:
		return "entity"
	case KindItem:
		return "item"
	default:
		return "unknown"
	}
}

// Capability is the type-erased view of a block, entity or item capability.
// There is at most one Capability per kind and name in a Registry.
type Capability interface {
	// Name returns the unique name of the capability.
	Name() Name
	// Type returns the type of the objects the capability gives access to.
	Type() reflect.Type
	// Context returns the type of the extra query context.
	Context() reflect.Type
	// Kind returns the kind of objects the capability is queried on.
	Kind() Kind
}

// capability holds the identity shared by all capability kinds.
type capability struct {
	registry *Registry
	name     Name
	typ      reflect.Type
	ctx      reflect.Type
}

// Name returns the unique name of the capability.
func (c *capability) Name() Name {
	return c.name
}

// Type returns the type of the objects the capability gives access to.
func (c *capability) Type() reflect.Type {
	return c.typ
}

// Context returns the type of the extra query context.
func (c *capability) Context() reflect.Type {
	return c.ctx
}

// Must panics if err is non-nil and returns v otherwise. It is meant for
// capabilities created in package-level variables or init code:
//
//	var Energy = caps.Must(caps.NewBlockCapabilitySided[EnergyHandler](reg, "mymod:energy"))
func Must[V any](v V, err error) V {
	if err != nil {
		panic("caps: " + err.Error())
	}
	return v
}
