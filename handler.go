package caps

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
)

// WorldHandler is a world.Handler that invalidates block capabilities when
// the world itself changes blocks: liquids, fire, crops, leaves and
// explosions. Every event is forwarded to the wrapped handler first, and
// nothing is invalidated if it cancels the event.
//
// Blocks changed by players or plugins are not seen by the world handler:
// call WorldLevel.InvalidatePos for those.
type WorldHandler struct {
	world.Handler

	level   *WorldLevel
	manager *Manager
}

// NewWorldHandler creates the handler of level l, wrapping next. next may be
// nil. m may be nil; otherwise the level is removed from it when the world
// closes.
//
//	w.Handle(caps.NewWorldHandler(mngr, mngr.Level(w), nil))
func NewWorldHandler(m *Manager, l *WorldLevel, next world.Handler) *WorldHandler {
	if l == nil {
		panic("caps: nil level")
	}
	if next == nil {
		next = world.NopHandler{}
	}
	return &WorldHandler{Handler: next, level: l, manager: m}
}

// Compile-time check that WorldHandler implements world.Handler.
var _ world.Handler = (*WorldHandler)(nil)

// Level returns the level the handler invalidates.
func (h *WorldHandler) Level() *WorldLevel {
	return h.level
}

// HandleLiquidFlow handles a liquid flowing into a block.
func (h *WorldHandler) HandleLiquidFlow(ctx *world.Context, from, into cube.Pos, liquid world.Liquid, replaced world.Block) {
	h.Handler.HandleLiquidFlow(ctx, from, into, liquid, replaced)
	if !ctx.Cancelled() {
		h.level.InvalidatePos(into)
	}
}

// HandleLiquidDecay handles a liquid decaying.
func (h *WorldHandler) HandleLiquidDecay(ctx *world.Context, pos cube.Pos, before, after world.Liquid) {
	h.Handler.HandleLiquidDecay(ctx, pos, before, after)
	if !ctx.Cancelled() {
		h.level.InvalidatePos(pos)
	}
}

// HandleLiquidHarden handles a liquid hardening into a block.
func (h *WorldHandler) HandleLiquidHarden(ctx *world.Context, hardenedPos cube.Pos, liquidHardened, otherLiquid, newBlock world.Block) {
	h.Handler.HandleLiquidHarden(ctx, hardenedPos, liquidHardened, otherLiquid, newBlock)
	if !ctx.Cancelled() {
		h.level.InvalidatePos(hardenedPos)
	}
}

// HandleFireSpread handles fire spreading to a block.
func (h *WorldHandler) HandleFireSpread(ctx *world.Context, from, to cube.Pos) {
	h.Handler.HandleFireSpread(ctx, from, to)
	if !ctx.Cancelled() {
		h.level.InvalidatePos(to)
	}
}

// HandleBlockBurn handles a block burning away.
func (h *WorldHandler) HandleBlockBurn(ctx *world.Context, pos cube.Pos) {
	h.Handler.HandleBlockBurn(ctx, pos)
	if !ctx.Cancelled() {
		h.level.InvalidatePos(pos)
	}
}

// HandleCropTrample handles a crop being trampled.
func (h *WorldHandler) HandleCropTrample(ctx *world.Context, pos cube.Pos) {
	h.Handler.HandleCropTrample(ctx, pos)
	if !ctx.Cancelled() {
		h.level.InvalidatePos(pos)
	}
}

// HandleLeavesDecay handles leaves decaying.
func (h *WorldHandler) HandleLeavesDecay(ctx *world.Context, pos cube.Pos) {
	h.Handler.HandleLeavesDecay(ctx, pos)
	if !ctx.Cancelled() {
		h.level.InvalidatePos(pos)
	}
}

// HandleExplosion invalidates every block the explosion destroys, after the
// wrapped handler had the chance to change the list.
func (h *WorldHandler) HandleExplosion(ctx *world.Context, position mgl64.Vec3, entities *[]world.Entity, blocks *[]cube.Pos, itemDropChance *float64, spawnFire *bool) {
	h.Handler.HandleExplosion(ctx, position, entities, blocks, itemDropChance, spawnFire)
	if ctx.Cancelled() || blocks == nil {
		return
	}
	for _, pos := range *blocks {
		h.level.InvalidatePos(pos)
	}
}

// HandleClose removes the level from the manager.
func (h *WorldHandler) HandleClose(tx *world.Tx) {
	h.Handler.HandleClose(tx)
	if h.manager != nil {
		h.manager.RemoveWorld(h.level.World())
	}
}
