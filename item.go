package caps

import (
	"fmt"
	"reflect"

	"github.com/df-mc/dragonfly/server/item"
)

// ItemCapability gives access to objects of type T attached to item stacks,
// with extra query context C. Providers are registered per item with
// RegisterItem.
//
// Query it with a pointer to the stack so providers can write changes, such
// as consumed energy, back to it.
type ItemCapability[T, C any] struct {
	capability

	// providers maps item type -> providers in registration order
	providers map[reflect.Type][]ItemProvider[T, C]
}

// NewItemCapability creates the item capability with the given name, or
// returns it if it already exists.
func NewItemCapability[T, C any](r *Registry, name string) (*ItemCapability[T, C], error) {
	n, err := ParseName(name)
	if err != nil {
		return nil, err
	}
	c, err := r.items.create(r, n, reflect.TypeFor[T](), reflect.TypeFor[C](), func(base capability) Capability {
		return &ItemCapability[T, C]{
			capability: base,
			providers:  make(map[reflect.Type][]ItemProvider[T, C]),
		}
	})
	if err != nil {
		return nil, err
	}
	return c.(*ItemCapability[T, C]), nil
}

// NewItemCapabilityVoid creates or gets an item capability that takes no
// query context.
func NewItemCapabilityVoid[T any](r *Registry, name string) (*ItemCapability[T, Void], error) {
	return NewItemCapability[T, Void](r, name)
}

// Kind returns KindItem.
func (*ItemCapability[T, C]) Kind() Kind {
	return KindItem
}

// String returns a string representation of the capability for debugging.
func (c *ItemCapability[T, C]) String() string {
	return fmt.Sprintf("ItemCapability{Name: %s, Type: %v, Context: %v}", c.name, c.typ, c.ctx)
}

// Capability queries the capability of the stack. Empty stacks never have
// capabilities, and no provider is called for them.
func (c *ItemCapability[T, C]) Capability(stack *item.Stack, ctx C) (T, bool) {
	var zero T
	if stack == nil || stack.Empty() {
		return zero, false
	}
	for _, provider := range c.providers[reflect.TypeOf(stack.Item())] {
		if v, ok := provider(stack, ctx); ok {
			return v, true
		}
	}
	return zero, false
}
