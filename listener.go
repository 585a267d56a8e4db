package caps

import (
	"runtime"
	"sync"
	"weak"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
)

// Listener is notified when the capabilities at the position it was added
// for might have changed. Listeners are compared by identity.
type Listener struct {
	fn func() bool
}

// NewListener creates a listener calling fn on invalidation. fn returns
// whether the listener is still valid; returning false removes it from the
// holder.
func NewListener(fn func() bool) *Listener {
	if fn == nil {
		panic("caps: nil listener function")
	}
	return &Listener{fn: fn}
}

// OnInvalidate notifies the listener and reports whether it stays registered.
func (l *Listener) OnInvalidate() bool {
	return l.fn()
}

// listenerSet holds the listeners of one block position.
type listenerSet map[weak.Pointer[Listener]]struct{}

// deadRef is queued by the garbage collector once a listener is collected.
type deadRef struct {
	pos cube.Pos
	ref weak.Pointer[Listener]
}

// ListenerHolder stores the capability listeners of a level, indexed by
// chunk then by block position. Chunk loads and unloads invalidate every
// listener of a chunk at once, which the chunk level of the index keeps
// proportional to the listeners in that chunk.
//
// Listeners are held weakly: the holder never keeps a listener alive. Once a
// listener is collected its entry is removed by the next call to Clean.
//
// A ListenerHolder is not safe for concurrent use, except for the collection
// queue written by the garbage collector. Use it from the world goroutine.
type ListenerHolder struct {
	byChunkThenBlock map[world.ChunkPos]map[cube.Pos]listenerSet

	deadMu sync.Mutex
	dead   []deadRef
}

// NewListenerHolder creates an empty listener holder.
func NewListenerHolder() *ListenerHolder {
	return &ListenerHolder{
		byChunkThenBlock: make(map[world.ChunkPos]map[cube.Pos]listenerSet),
	}
}

// AddListener adds l at pos. Adding the same listener at the same position
// twice is a no-op.
func (h *ListenerHolder) AddListener(pos cube.Pos, l *Listener) {
	if l == nil {
		panic("caps: nil listener")
	}
	cp := chunkPos(pos)
	byBlock, ok := h.byChunkThenBlock[cp]
	if !ok {
		byBlock = make(map[cube.Pos]listenerSet)
		h.byChunkThenBlock[cp] = byBlock
	}
	set, ok := byBlock[pos]
	if !ok {
		set = make(listenerSet)
		byBlock[pos] = set
	}

	ref := weak.Make(l)
	if _, exists := set[ref]; exists {
		return
	}
	set[ref] = struct{}{}
	runtime.AddCleanup(l, h.enqueueDead, deadRef{pos: pos, ref: ref})
}

// enqueueDead runs on the cleanup goroutine once a listener was collected.
func (h *ListenerHolder) enqueueDead(d deadRef) {
	h.deadMu.Lock()
	h.dead = append(h.dead, d)
	h.deadMu.Unlock()
}

// InvalidatePos notifies every listener at pos. Listeners that were
// collected or report themselves invalid are removed.
func (h *ListenerHolder) InvalidatePos(pos cube.Pos) {
	cp := chunkPos(pos)
	byBlock, ok := h.byChunkThenBlock[cp]
	if !ok {
		return
	}
	set, ok := byBlock[pos]
	if !ok {
		return
	}
	notify(set)
	if len(set) == 0 {
		delete(byBlock, pos)
	}
	if len(byBlock) == 0 {
		delete(h.byChunkThenBlock, cp)
	}
}

// InvalidateChunk notifies every listener in the chunk. Listeners that were
// collected or report themselves invalid are removed.
func (h *ListenerHolder) InvalidateChunk(cp world.ChunkPos) {
	byBlock, ok := h.byChunkThenBlock[cp]
	if !ok {
		return
	}
	for pos, set := range byBlock {
		notify(set)
		if len(set) == 0 {
			delete(byBlock, pos)
		}
	}
	if len(byBlock) == 0 {
		delete(h.byChunkThenBlock, cp)
	}
}

// notify calls the live listeners of set and drops the rest.
func notify(set listenerSet) {
	for ref := range set {
		l := ref.Value()
		if l == nil || !l.OnInvalidate() {
			delete(set, ref)
		}
	}
}

// Clean removes the entries of collected listeners and returns how many were
// removed. It must be called periodically, from the goroutine that uses the
// holder, to bound the memory of the index.
func (h *ListenerHolder) Clean() int {
	h.deadMu.Lock()
	dead := h.dead
	h.dead = nil
	h.deadMu.Unlock()

	removed := 0
	for _, d := range dead {
		cp := chunkPos(d.pos)
		byBlock, ok := h.byChunkThenBlock[cp]
		if !ok {
			continue
		}
		set, ok := byBlock[d.pos]
		if !ok {
			continue
		}
		if _, ok := set[d.ref]; ok && d.ref.Value() == nil {
			delete(set, d.ref)
			removed++
		}
		if len(set) == 0 {
			delete(byBlock, d.pos)
		}
		if len(byBlock) == 0 {
			delete(h.byChunkThenBlock, cp)
		}
	}
	return removed
}

// Len returns the number of registered listener references, including the
// ones collected since the last Clean.
func (h *ListenerHolder) Len() int {
	n := 0
	for _, byBlock := range h.byChunkThenBlock {
		for _, set := range byBlock {
			n += len(set)
		}
	}
	return n
}

// Positions returns the positions that have at least one listener reference.
func (h *ListenerHolder) Positions() []cube.Pos {
	var positions []cube.Pos
	for _, byBlock := range h.byChunkThenBlock {
		for pos := range byBlock {
			positions = append(positions, pos)
		}
	}
	return positions
}

// Chunks returns the chunks that have at least one listener reference.
func (h *ListenerHolder) Chunks() []world.ChunkPos {
	chunks := make([]world.ChunkPos, 0, len(h.byChunkThenBlock))
	for cp := range h.byChunkThenBlock {
		chunks = append(chunks, cp)
	}
	return chunks
}

// chunkPos returns the position of the chunk containing pos.
func chunkPos(pos cube.Pos) world.ChunkPos {
	return world.ChunkPos{int32(pos[0] >> 4), int32(pos[2] >> 4)}
}
