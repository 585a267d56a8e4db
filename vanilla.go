package caps

import (
	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/item/inventory"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
)

// txLevel is a Level that can hand out its bound transaction.
type txLevel interface {
	Tx() *world.Tx
}

// inventoryHolder is implemented by container blocks.
type inventoryHolder interface {
	Inventory(tx *world.Tx, pos cube.Pos) *inventory.Inventory
}

// entityInventory is implemented by entities carrying an inventory.
type entityInventory interface {
	Inventory() *inventory.Inventory
}

// vanillaContainers are the blocks whose inventory is exposed on every side.
var vanillaContainers = []world.Block{
	block.Chest{},
	block.Barrel{},
	block.Furnace{},
	block.BlastFurnace{},
	block.Smoker{},
	block.Hopper{},
	block.BrewingStand{},
}

// RegisterVanilla registers the providers of vanilla objects: the
// inventories of containers and players.
func RegisterVanilla(ev *RegisterEvent, c *Capabilities) error {
	if err := RegisterBlock(ev, c.ItemHandlerBlock, containerItemHandler, vanillaContainers...); err != nil {
		return err
	}
	return RegisterEntity(ev, c.ItemHandlerEntity, player.Type, func(e EntityRef, _ Void) (ItemHandler, bool) {
		holder, ok := e.(entityInventory)
		if !ok {
			return nil, false
		}
		return NewInventoryHandler(holder.Inventory()), true
	})
}

// containerItemHandler exposes the inventory of a container block on every
// side. Containers can only be read in a transaction.
func containerItemHandler(l Level, pos cube.Pos, b world.Block, _ BlockEntity, _ Side) (ItemHandler, bool) {
	tl, ok := l.(txLevel)
	if !ok || tl.Tx() == nil {
		return nil, false
	}
	holder, ok := b.(inventoryHolder)
	if !ok {
		return nil, false
	}
	inv := holder.Inventory(tl.Tx(), pos)
	if inv == nil {
		return nil, false
	}
	return NewInventoryHandler(inv), true
}
