package caps

import (
	"log/slog"
	"sync/atomic"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// Level is the world view block capabilities are queried in. It owns the
// listener holder that block caches register with.
type Level interface {
	// Block returns the block at pos.
	Block(pos cube.Pos) world.Block
	// Loaded reports whether pos can currently be read.
	Loaded(pos cube.Pos) bool
	// Listeners returns the capability listeners of the level.
	Listeners() *ListenerHolder
}

// WorldLevel is the Level of a dragonfly world.
//
// Blocks can only be read inside a transaction. Run queries through Exec, or
// Bind a transaction the caller already holds, for example in a block's tick.
// Reading the level outside a transaction panics with ErrNoTransaction.
//
// Dragonfly loads chunks on demand, so every position in range is loaded
// unless the host reported its chunk as unloaded with ChunkUnloaded.
//
// A WorldLevel is confined to the world goroutine, like its transactions.
type WorldLevel struct {
	id        uuid.UUID
	w         *world.World
	listeners *ListenerHolder

	// unloaded holds the chunks reported unloaded by the host
	unloaded map[world.ChunkPos]struct{}

	// tx is the transaction bound by Exec or Bind, nil outside of one
	tx *world.Tx

	// sweepPending is set while a sweep is queued on the world. A closed
	// world never drains its queue, so at most one sweep may wait in it.
	sweepPending atomic.Bool
}

// NewWorldLevel creates the level of w.
func NewWorldLevel(w *world.World) *WorldLevel {
	return &WorldLevel{
		id:        uuid.New(),
		w:         w,
		listeners: NewListenerHolder(),
		unloaded:  make(map[world.ChunkPos]struct{}),
	}
}

// ID returns the unique id of the level.
func (l *WorldLevel) ID() uuid.UUID {
	return l.id
}

// World returns the world of the level.
func (l *WorldLevel) World() *world.World {
	return l.w
}

// Tx returns the bound transaction, or nil outside of one. Providers use it
// to reach block entity state such as inventories.
func (l *WorldLevel) Tx() *world.Tx {
	return l.tx
}

// Listeners returns the capability listeners of the level.
func (l *WorldLevel) Listeners() *ListenerHolder {
	return l.listeners
}

// Bind binds tx to the level until the returned function is called.
// Bindings nest: unbinding restores the previous transaction.
func (l *WorldLevel) Bind(tx *world.Tx) (unbind func()) {
	prev := l.tx
	l.tx = tx
	return func() { l.tx = prev }
}

// Exec runs fn in a transaction of the world with the transaction bound to
// the level. Like world.World.Exec, it does not wait for fn to run: the
// returned channel is closed once it did.
func (l *WorldLevel) Exec(fn func(tx *world.Tx)) <-chan struct{} {
	return l.w.Exec(func(tx *world.Tx) {
		unbind := l.Bind(tx)
		defer unbind()
		fn(tx)
	})
}

// Block returns the block at pos. It panics with ErrNoTransaction outside a
// transaction.
func (l *WorldLevel) Block(pos cube.Pos) world.Block {
	return l.mustTx().Block(pos)
}

// Loaded reports whether pos can be read: pos must be inside the world range
// and its chunk must not be unloaded. It panics with ErrNoTransaction
// outside a transaction, since nothing would invalidate a cache that
// remembered the answer.
func (l *WorldLevel) Loaded(pos cube.Pos) bool {
	tx := l.mustTx()
	if _, ok := l.unloaded[chunkPos(pos)]; ok {
		return false
	}
	return !pos.OutOfBounds(tx.Range())
}

// mustTx returns the bound transaction.
func (l *WorldLevel) mustTx() *world.Tx {
	if l.tx == nil {
		panic(ErrNoTransaction)
	}
	return l.tx
}

// ChunkLoaded must be called by the host when a chunk is loaded. It
// invalidates the capabilities of the chunk.
func (l *WorldLevel) ChunkLoaded(cp world.ChunkPos) {
	delete(l.unloaded, cp)
	l.listeners.InvalidateChunk(cp)
}

// ChunkUnloaded must be called by the host when a chunk is unloaded. It
// invalidates the capabilities of the chunk.
func (l *WorldLevel) ChunkUnloaded(cp world.ChunkPos) {
	l.unloaded[cp] = struct{}{}
	l.listeners.InvalidateChunk(cp)
}

// InvalidatePos invalidates the capabilities at pos. Blocks must call it
// whenever their capabilities change, including placement and removal.
func (l *WorldLevel) InvalidatePos(pos cube.Pos) {
	l.listeners.InvalidatePos(pos)
}

// InvalidateChunk invalidates the capabilities of every position in the chunk.
func (l *WorldLevel) InvalidateChunk(cp world.ChunkPos) {
	l.listeners.InvalidateChunk(cp)
}

// Clean removes the listeners of collected caches. It must run on the world
// goroutine; use Sweep from other goroutines.
func (l *WorldLevel) Clean() int {
	return l.listeners.Clean()
}

// Sweep schedules Clean on the world goroutine. It reports false, and
// schedules nothing, while an earlier sweep has not run yet.
func (l *WorldLevel) Sweep() bool {
	if !l.sweepPending.CompareAndSwap(false, true) {
		return false
	}
	l.w.Exec(func(*world.Tx) {
		l.sweepPending.Store(false)
		if removed := l.listeners.Clean(); removed > 0 {
			slog.Debug("caps: swept dead capability listeners",
				"level", l.id,
				"removed", removed)
		}
	})
	return true
}
