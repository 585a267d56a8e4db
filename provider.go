package caps

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
)

// Providers answer whether a specific object exposes a capability, and with
// which instance. They return false when it does not. Providers for the same
// object kind are asked in registration order and the first one returning
// true wins, so a provider must not rely on running after an unrelated one.

// BlockProvider provides a block capability. be is nil when the block has no
// block entity.
//
// If a previously returned instance is not valid anymore, or a new one is
// available, the level must be notified with InvalidatePos so caches re-query.
type BlockProvider[T, C any] func(l Level, pos cube.Pos, b world.Block, be BlockEntity, ctx C) (T, bool)

// BlockEntityProvider provides a block capability for block entities of type BE.
type BlockEntityProvider[T, C any, BE BlockEntity] func(be BE, ctx C) (T, bool)

// EntityProvider provides an entity capability.
type EntityProvider[T, C any] func(e EntityRef, ctx C) (T, bool)

// ItemProvider provides an item capability. stack is never empty. Providers
// may keep the pointer to write changes back to the queried stack.
type ItemProvider[T, C any] func(stack *item.Stack, ctx C) (T, bool)

// cacheOptions configures a BlockCache.
type cacheOptions struct {
	// isValid reports whether the cache owner still wants notifications.
	// Default: always true.
	isValid func() bool

	// onInvalidate is called whenever the cached capability might have changed.
	// Default: no-op.
	onInvalidate func()
}

// defaultCacheOptions returns the options of a cache without owner.
func defaultCacheOptions() cacheOptions {
	return cacheOptions{
		isValid:      func() bool { return true },
		onInvalidate: func() {},
	}
}

// CacheOption configures a BlockCache.
type CacheOption func(*cacheOptions)

// WithValidity sets the function used to check whether the cache owner still
// wants to receive invalidation notifications. A typical example is a block
// that returns false once it was removed from the world. Once it returns
// false the cache stops being notified and must not be queried anymore.
func WithValidity(isValid func() bool) CacheOption {
	return func(o *cacheOptions) {
		if isValid != nil {
			o.isValid = isValid
		}
	}
}

// OnInvalidate sets the function called whenever the capability of the
// cache might have changed.
//
// Calling BlockCache.Capability from fn is not supported and panics: the
// invalidated block might not be ready to be queried again yet. Wait until
// later, for example the next tick of the owner, before querying again.
// fn should also not access the level: it might be called for a chunk that
// is being unloaded.
//
// fn is not called again until Capability has been called after an
// invalidation.
func OnInvalidate(fn func()) CacheOption {
	return func(o *cacheOptions) {
		if fn != nil {
			o.onInvalidate = fn
		}
	}
}
