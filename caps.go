// Package caps provides capabilities for Dragonfly servers: typed, named
// lookups through which blocks, entities and items expose behaviour such as
// an inventory or an energy buffer, without knowing who asks.
//
// caps provides:
//   - A Registry with at most one capability per kind and name
//   - Block, entity and item capabilities with ordered provider dispatch
//   - Block caches that memoize a query and re-resolve after invalidation
//   - Per-world listener holders that never keep a cache alive
//   - Standard item handler and energy capabilities
//
// # Quick Start
//
// Register providers in a bundle and initialize the manager in your server
// setup:
//
//	bundle := caps.NewBundle("Machines").
//	    Register(func(ev *caps.RegisterEvent, c *caps.Capabilities) error {
//	        return caps.RegisterBlock(ev, c.EnergyBlock, batteryEnergy, Battery{})
//	    })
//
//	mngr := caps.NewBuilder().
//	    Vanilla().
//	    Bundle(bundle).
//	    Init(srv.World())
//
//	level := mngr.Level(srv.World())
//	srv.World().Handle(caps.NewWorldHandler(mngr, level, nil))
//
// # Queries
//
// Query a capability directly inside a transaction:
//
//	level.Exec(func(tx *world.Tx) {
//	    energy, ok := mngr.Capabilities().EnergyBlock.Capability(level, pos, caps.FaceSide(cube.FaceUp))
//	})
//
// Or keep a cache for repeated queries at one position:
//
//	cache := caps.NewBlockCache(c.ItemHandlerBlock, level, below, caps.FaceSide(cube.FaceUp),
//	    caps.WithValidity(func() bool { return !m.removed }),
//	    caps.OnInvalidate(func() { m.dirty = true }))
//
// # Invalidation
//
// Whenever the capabilities at a position change, including placement and
// removal of blocks, call WorldLevel.InvalidatePos. Chunk loads and unloads
// invalidate whole chunks through WorldLevel.ChunkLoaded and ChunkUnloaded.
// The WorldHandler invalidates blocks changed by the world itself.
package caps

// Version is the caps version.
const Version = "1.0.0"
