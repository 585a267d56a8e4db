package caps

import (
	"github.com/df-mc/dragonfly/server/block/cube"
)

// BlockCache caches the result of a block capability query at a fixed
// position and context. Use it instead of BlockCapability.Capability when
// the same capability is queried repeatedly, for example by a block that
// pushes items into its neighbour every tick.
//
// The cache registers itself with the listener holder of the level when it
// is created and re-queries lazily after each invalidation. It is held
// weakly by the level: drop the cache once it is not needed anymore.
//
// A BlockCache is confined to the goroutine of its level.
type BlockCache[T, C any] struct {
	capability *BlockCapability[T, C]
	level      Level
	pos        cube.Pos
	ctx        C
	opts       cacheOptions

	// cacheValid is false whenever the cached value might be stale.
	cacheValid bool
	cached     T
	present    bool

	// canQuery is false while the invalidation callback runs, and forever
	// once the owner reported itself invalid.
	canQuery bool

	// listener is only referenced weakly by the level. The cache keeps it
	// alive for as long as the cache itself is alive.
	listener *Listener
}

// NewBlockCache creates a cache of capability c at pos in level l, queried
// with ctx.
func NewBlockCache[T, C any](c *BlockCapability[T, C], l Level, pos cube.Pos, ctx C, opts ...CacheOption) *BlockCache[T, C] {
	if c == nil {
		panic("caps: nil block capability")
	}
	if l == nil {
		panic("caps: nil level")
	}
	options := defaultCacheOptions()
	for _, opt := range opts {
		opt(&options)
	}

	cache := &BlockCache[T, C]{
		capability: c,
		level:      l,
		pos:        pos,
		ctx:        ctx,
		opts:       options,
		canQuery:   true,
	}
	cache.listener = NewListener(cache.invalidate)
	l.Listeners().AddListener(pos, cache.listener)
	return cache
}

// Level returns the level of the cache.
func (c *BlockCache[T, C]) Level() Level {
	return c.level
}

// Pos returns the position of the cache.
func (c *BlockCache[T, C]) Pos() cube.Pos {
	return c.pos
}

// Context returns the query context of the cache.
func (c *BlockCache[T, C]) Context() C {
	return c.ctx
}

// Capability returns the capability at the position of the cache, or false
// if there is none. Positions that are not loaded have no capability.
//
// Capability panics with ErrQueryDuringInvalidation when called from the
// invalidation callback.
func (c *BlockCache[T, C]) Capability() (T, bool) {
	if !c.canQuery {
		panic(ErrQueryDuringInvalidation)
	}

	if !c.cacheValid {
		if !c.level.Loaded(c.pos) {
			var zero T
			c.cached, c.present = zero, false
		} else {
			c.cached, c.present = c.capability.Capability(c.level, c.pos, c.ctx)
		}
		c.cacheValid = true
	}
	return c.cached, c.present
}

// invalidate is the listener of the cache.
func (c *BlockCache[T, C]) invalidate() bool {
	if !c.cacheValid {
		// Not queried since the last invalidation: nothing to forget.
		return c.opts.isValid()
	}

	c.canQuery = false
	c.cacheValid = false
	var zero T
	c.cached, c.present = zero, false

	if !c.opts.isValid() {
		return false
	}
	c.opts.onInvalidate()
	c.canQuery = true
	return true
}
