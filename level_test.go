package caps

import (
	"runtime"
	"testing"
	"time"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestWorld creates an empty world closed at the end of the test.
func newTestWorld(t *testing.T) *world.World {
	t.Helper()
	w := world.Config{}.New()
	t.Cleanup(func() { _ = w.Close() })
	return w
}

// newHeat creates a capability provided by stone.
func newHeat(t *testing.T) (*BlockCapability[int, Void], *int) {
	t.Helper()
	lookups := new(int)
	r := NewRegistry()
	heat := Must(NewBlockCapabilityVoid[int](r, "test:heat"))
	register(t, r, func(ev *RegisterEvent) error {
		return RegisterBlock(ev, heat, func(Level, cube.Pos, world.Block, BlockEntity, Void) (int, bool) {
			*lookups++
			return 1200, true
		}, block.Stone{})
	})
	return heat, lookups
}

func TestWorldLevelOutsideTransaction(t *testing.T) {
	l := NewWorldLevel(new(world.World))

	assert.Nil(t, l.Tx())
	assert.NotNil(t, l.Listeners())
	assert.PanicsWithValue(t, ErrNoTransaction, func() { l.Block(cube.Pos{0, 64, 0}) })
	assert.PanicsWithValue(t, ErrNoTransaction, func() { l.Loaded(cube.Pos{0, 64, 0}) })

	// Binding nil keeps the level outside a transaction.
	unbind := l.Bind(nil)
	assert.Nil(t, l.Tx())
	unbind()
}

func TestWorldLevelChunkHooks(t *testing.T) {
	l := NewWorldLevel(new(world.World))
	var calls int
	listener := NewListener(func() bool {
		calls++
		return true
	})
	pos := cube.Pos{-20, 70, 33}
	cp := world.ChunkPos{-2, 2}
	l.Listeners().AddListener(pos, listener)

	l.ChunkUnloaded(cp)
	assert.Equal(t, 1, calls)
	assert.Contains(t, l.unloaded, cp)

	l.ChunkLoaded(cp)
	assert.Equal(t, 2, calls)
	assert.NotContains(t, l.unloaded, cp)

	l.InvalidatePos(pos)
	l.InvalidateChunk(cp)
	assert.Equal(t, 4, calls)

	l.InvalidateChunk(world.ChunkPos{0, 0})
	assert.Equal(t, 4, calls)
	assert.Zero(t, l.Clean())
	runtime.KeepAlive(listener)
}

func TestWorldLevelInTransaction(t *testing.T) {
	heat, _ := newHeat(t)
	l := NewWorldLevel(newTestWorld(t))
	pos := cube.Pos{3, 64, 3}

	var (
		b                      world.Block
		bound                  bool
		loaded, outside        bool
		unloaded, reloaded     bool
		value                  int
		found, foundInUnloaded bool
	)
	<-l.Exec(func(tx *world.Tx) {
		tx.SetBlock(pos, block.Stone{}, nil)
		bound = l.Tx() == tx
		b = l.Block(pos)
		loaded = l.Loaded(pos)
		outside = l.Loaded(cube.Pos{3, 4096, 3})
		value, found = heat.Capability(l, pos, Void{})

		l.ChunkUnloaded(chunkPos(pos))
		unloaded = l.Loaded(pos)
		_, foundInUnloaded = NewBlockCache(heat, l, pos, Void{}).Capability()
		l.ChunkLoaded(chunkPos(pos))
		reloaded = l.Loaded(pos)
	})

	assert.True(t, bound)
	assert.Nil(t, l.Tx())
	assert.Equal(t, block.Stone{}, b)
	assert.True(t, loaded)
	assert.False(t, outside)
	assert.True(t, found)
	assert.Equal(t, 1200, value)
	assert.False(t, unloaded)
	assert.False(t, foundInUnloaded)
	assert.True(t, reloaded)
}

func TestWorldLevelCacheOutsideTransaction(t *testing.T) {
	heat, lookups := newHeat(t)
	l := NewWorldLevel(newTestWorld(t))
	pos := cube.Pos{3, 64, 3}
	cache := NewBlockCache(heat, l, pos, Void{})

	// A query outside a transaction must not leave a stale answer behind.
	assert.PanicsWithValue(t, ErrNoTransaction, func() { cache.Capability() })

	var (
		value int
		found bool
	)
	<-l.Exec(func(tx *world.Tx) {
		tx.SetBlock(pos, block.Stone{}, nil)
		value, found = cache.Capability()
	})
	assert.True(t, found)
	assert.Equal(t, 1200, value)
	assert.Equal(t, 1, *lookups)
}

func TestWorldLevelSweep(t *testing.T) {
	heat, _ := newHeat(t)
	l := NewWorldLevel(newTestWorld(t))
	pos := cube.Pos{3, 64, 3}

	<-l.Exec(func(tx *world.Tx) {
		tx.SetBlock(pos, block.Stone{}, nil)
		_, _ = NewBlockCache(heat, l, pos, Void{}).Capability()
	})

	require.Eventually(t, func() bool {
		runtime.GC()
		l.Sweep()
		var n int
		// Transactions run in order, so the sweep ran before this one.
		<-l.Exec(func(*world.Tx) { n = l.Listeners().Len() })
		return n == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWorldLevelSweepClosedWorld(t *testing.T) {
	w := world.Config{}.New()
	l := NewWorldLevel(w)
	require.NoError(t, w.Close())

	// Nothing runs the queued sweep anymore, so no second one is queued.
	assert.True(t, l.Sweep())
	for range 1000 {
		assert.False(t, l.Sweep())
	}
}

func TestWorldLevelChestItemHandler(t *testing.T) {
	m, err := NewBuilder().Vanilla().Build()
	require.NoError(t, err)
	w := newTestWorld(t)
	l := m.AddWorld(w)
	pos := cube.Pos{0, 64, 0}

	var (
		found bool
		slots int
		rest  item.Stack
		first item.Stack
	)
	<-l.Exec(func(tx *world.Tx) {
		tx.SetBlock(pos, block.NewChest(), nil)
		h, ok := m.Capabilities().ItemHandlerBlock.Capability(l, pos, nil)
		if found = ok; !ok {
			return
		}
		slots = h.Slots()
		rest = h.Insert(0, item.NewStack(item.Apple{}, 10), false)
		first = h.Stack(0)
	})

	require.True(t, found)
	assert.Equal(t, 27, slots)
	assert.True(t, rest.Empty())
	assert.Equal(t, 10, first.Count())
	_, isApple := first.Item().(item.Apple)
	assert.True(t, isApple)
}
