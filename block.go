package caps

import (
	"fmt"
	"reflect"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
)

// BlockCapability gives access to objects of type T located in a Level, with
// extra query context C.
//
// Query it with Capability, or use a BlockCache for repeated queries at the
// same position. Providers are registered with RegisterBlock and
// RegisterBlockEntity.
//
// If a previously returned instance is not valid anymore, or if a new one is
// available, Level.Listeners().InvalidatePos must be called to notify caches.
// Plain blocks must do so whenever they change, including on placement and
// removal.
type BlockCapability[T, C any] struct {
	capability

	// providers maps block type -> providers in registration order
	providers map[reflect.Type][]BlockProvider[T, C]
}

// NewBlockCapability creates the block capability with the given name, or
// returns it if it already exists. It fails if the existing capability has a
// different type or context type.
func NewBlockCapability[T, C any](r *Registry, name string) (*BlockCapability[T, C], error) {
	n, err := ParseName(name)
	if err != nil {
		return nil, err
	}
	c, err := r.blocks.create(r, n, reflect.TypeFor[T](), reflect.TypeFor[C](), func(base capability) Capability {
		return &BlockCapability[T, C]{
			capability: base,
			providers:  make(map[reflect.Type][]BlockProvider[T, C]),
		}
	})
	if err != nil {
		return nil, err
	}
	return c.(*BlockCapability[T, C]), nil
}

// NewBlockCapabilityVoid creates or gets a block capability that takes no
// query context.
func NewBlockCapabilityVoid[T any](r *Registry, name string) (*BlockCapability[T, Void], error) {
	return NewBlockCapability[T, Void](r, name)
}

// NewBlockCapabilitySided creates or gets a block capability queried from a
// side of the block. The side may be nil.
func NewBlockCapabilitySided[T any](r *Registry, name string) (*BlockCapability[T, Side], error) {
	return NewBlockCapability[T, Side](r, name)
}

// Kind returns KindBlock.
func (*BlockCapability[T, C]) Kind() Kind {
	return KindBlock
}

// String returns a string representation of the capability for debugging.
func (c *BlockCapability[T, C]) String() string {
	return fmt.Sprintf("BlockCapability{Name: %s, Type: %v, Context: %v}", c.name, c.typ, c.ctx)
}

// Capability queries the capability of the block at pos. It returns false if
// no provider offers one.
func (c *BlockCapability[T, C]) Capability(l Level, pos cube.Pos, ctx C) (T, bool) {
	return c.CapabilityAt(l, pos, nil, nil, ctx)
}

// CapabilityAt queries the capability of the block at pos, reusing the block
// and block entity if the caller already has them. Both may be nil, in which
// case they are read from the level.
func (c *BlockCapability[T, C]) CapabilityAt(l Level, pos cube.Pos, b world.Block, be BlockEntity, ctx C) (T, bool) {
	if be == nil {
		if b == nil {
			b = l.Block(pos)
		}
		be, _ = b.(BlockEntity)
	} else if b == nil {
		b = be
	}

	for _, provider := range c.providers[reflect.TypeOf(b)] {
		if v, ok := provider(l, pos, b, be, ctx); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// BlockEntityType describes a kind of block entity and the blocks that can
// hold it.
type BlockEntityType struct {
	name   string
	blocks []world.Block
}

// NewBlockEntityType creates a block entity type valid for the given blocks.
func NewBlockEntityType(name string, blocks ...world.Block) *BlockEntityType {
	return &BlockEntityType{name: name, blocks: blocks}
}

// Name returns the name of the block entity type.
func (t *BlockEntityType) Name() string {
	return t.name
}

// Blocks returns the blocks that can hold this block entity type.
func (t *BlockEntityType) Blocks() []world.Block {
	blocks := make([]world.Block, len(t.blocks))
	copy(blocks, t.blocks)
	return blocks
}

// BlockEntity is a block that carries additional state, such as an inventory.
// In dragonfly the block value is its own block entity, so a block entity is
// simply a world.Block that reports its BlockEntityType.
type BlockEntity interface {
	world.Block
	BlockEntityType() *BlockEntityType
}
