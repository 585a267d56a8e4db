package caps

import "fmt"

// Capabilities holds the standard capabilities every manager creates. Bundles
// receive them in their registration functions.
type Capabilities struct {
	// ItemHandlerBlock exposes the items of a block, queried from a side.
	ItemHandlerBlock *BlockCapability[ItemHandler, Side]

	// ItemHandlerEntity exposes the items of an entity, such as the
	// inventory of a player.
	ItemHandlerEntity *EntityCapability[ItemHandler, Void]
	// ItemHandlerEntityAutomation exposes the items of an entity to
	// automation, such as hoppers, from a side.
	ItemHandlerEntityAutomation *EntityCapability[ItemHandler, Side]

	// ItemHandlerItem exposes the items stored in an item, such as a bundle.
	ItemHandlerItem *ItemCapability[ItemHandler, Void]

	// EnergyBlock exposes the energy of a block, queried from a side.
	EnergyBlock *BlockCapability[EnergyHandler, Side]
	// EnergyEntity exposes the energy of an entity.
	EnergyEntity *EntityCapability[EnergyHandler, Void]
	// EnergyItem exposes the energy stored in an item.
	EnergyItem *ItemCapability[EnergyHandler, Void]
}

// NewCapabilities creates the standard capabilities in r, or returns them if
// they already exist.
func NewCapabilities(r *Registry) (*Capabilities, error) {
	var (
		c   Capabilities
		err error
	)
	if c.ItemHandlerBlock, err = NewBlockCapabilitySided[ItemHandler](r, "caps:item_handler"); err != nil {
		return nil, fmt.Errorf("item handler block: %w", err)
	}
	if c.ItemHandlerEntity, err = NewEntityCapabilityVoid[ItemHandler](r, "caps:item_handler"); err != nil {
		return nil, fmt.Errorf("item handler entity: %w", err)
	}
	if c.ItemHandlerEntityAutomation, err = NewEntityCapabilitySided[ItemHandler](r, "caps:item_handler_automation"); err != nil {
		return nil, fmt.Errorf("item handler entity automation: %w", err)
	}
	if c.ItemHandlerItem, err = NewItemCapabilityVoid[ItemHandler](r, "caps:item_handler"); err != nil {
		return nil, fmt.Errorf("item handler item: %w", err)
	}
	if c.EnergyBlock, err = NewBlockCapabilitySided[EnergyHandler](r, "caps:energy"); err != nil {
		return nil, fmt.Errorf("energy block: %w", err)
	}
	if c.EnergyEntity, err = NewEntityCapabilityVoid[EnergyHandler](r, "caps:energy"); err != nil {
		return nil, fmt.Errorf("energy entity: %w", err)
	}
	if c.EnergyItem, err = NewItemCapabilityVoid[EnergyHandler](r, "caps:energy"); err != nil {
		return nil, fmt.Errorf("energy item: %w", err)
	}
	return &c, nil
}
