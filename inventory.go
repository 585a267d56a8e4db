package caps

import (
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/item/inventory"
)

// ItemHandler gives slot based access to items.
//
// Insert and Extract never modify the stack passed in. With simulate set,
// they report the result without changing the handler.
type ItemHandler interface {
	// Slots returns the number of slots.
	Slots() int
	// Stack returns the stack in slot. It must not be modified.
	Stack(slot int) item.Stack
	// Insert inserts stack into slot and returns the part that did not fit.
	Insert(slot int, stack item.Stack, simulate bool) item.Stack
	// Extract removes up to amount items from slot and returns them.
	Extract(slot, amount int, simulate bool) item.Stack
	// SlotLimit returns the maximum count of a stack in slot, regardless of
	// the max count of the item.
	SlotLimit(slot int) int
}

// defaultSlotLimit is the slot limit of inventories.
const defaultSlotLimit = 64

// slotStore is the slot access of an inventory.
type slotStore interface {
	Size() int
	Item(slot int) (item.Stack, error)
	SetItem(slot int, stack item.Stack) error
}

// InventoryHandler is the ItemHandler of a dragonfly inventory. Invalid slots
// are empty and accept nothing.
type InventoryHandler struct {
	inv   *inventory.Inventory
	slots slotStore
}

// NewInventoryHandler creates the item handler of inv.
func NewInventoryHandler(inv *inventory.Inventory) *InventoryHandler {
	return &InventoryHandler{inv: inv, slots: inv}
}

// Inventory returns the wrapped inventory.
func (h *InventoryHandler) Inventory() *inventory.Inventory {
	return h.inv
}

// Slots returns the size of the inventory.
func (h *InventoryHandler) Slots() int {
	return h.slots.Size()
}

// Stack returns the stack in slot.
func (h *InventoryHandler) Stack(slot int) item.Stack {
	s, err := h.slots.Item(slot)
	if err != nil {
		return item.Stack{}
	}
	return s
}

// Insert inserts stack into slot and returns the part that did not fit.
func (h *InventoryHandler) Insert(slot int, stack item.Stack, simulate bool) item.Stack {
	if stack.Empty() {
		return item.Stack{}
	}
	existing, err := h.slots.Item(slot)
	if err != nil {
		return stack
	}

	limit := min(h.SlotLimit(slot), stack.MaxCount())
	if !existing.Empty() {
		if !existing.Comparable(stack) {
			return stack
		}
		limit -= existing.Count()
	}
	if limit <= 0 {
		return stack
	}

	reachedLimit := stack.Count() > limit
	if !simulate {
		var updated item.Stack
		switch {
		case existing.Empty() && reachedLimit:
			updated = stack.Grow(limit - stack.Count())
		case existing.Empty():
			updated = stack
		default:
			updated = existing.Grow(min(limit, stack.Count()))
		}
		if err := h.slots.SetItem(slot, updated); err != nil {
			return stack
		}
	}
	if reachedLimit {
		return stack.Grow(-limit)
	}
	return item.Stack{}
}

// Extract removes up to amount items from slot, at most one full stack, and
// returns them.
func (h *InventoryHandler) Extract(slot, amount int, simulate bool) item.Stack {
	if amount <= 0 {
		return item.Stack{}
	}
	existing, err := h.slots.Item(slot)
	if err != nil || existing.Empty() {
		return item.Stack{}
	}

	toExtract := min(amount, existing.MaxCount())
	if existing.Count() <= toExtract {
		if !simulate {
			if err := h.slots.SetItem(slot, item.Stack{}); err != nil {
				return item.Stack{}
			}
		}
		return existing
	}
	if !simulate {
		if err := h.slots.SetItem(slot, existing.Grow(-toExtract)); err != nil {
			return item.Stack{}
		}
	}
	return existing.Grow(toExtract - existing.Count())
}

// SlotLimit returns 64 for every slot.
func (h *InventoryHandler) SlotLimit(int) int {
	return defaultSlotLimit
}
