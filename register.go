package caps

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
)

// RegisterEvent is handed out by Registry.Register. Providers can only be
// registered through it while the registration function runs; afterwards
// every registration fails with ErrRegistrationClosed.
//
// Registration is not safe for concurrent use: register from the goroutine
// that runs the registration function.
type RegisterEvent struct {
	registry *Registry
	done     bool
}

// Registry returns the registry the event registers into.
func (ev *RegisterEvent) Registry() *Registry {
	return ev.registry
}

// check returns an error if providers for a capability of reg cannot be
// registered right now.
func (ev *RegisterEvent) check(reg *Registry) error {
	if ev == nil || ev.done || ev.registry.phase.Load() != phaseRegistering {
		return ErrRegistrationClosed
	}
	if reg != ev.registry {
		return ErrForeignCapability
	}
	return nil
}

// RegisterBlock registers a provider of c for the given blocks. Providers are
// keyed by block type, so any state of a block shares its providers.
func RegisterBlock[T, C any](ev *RegisterEvent, c *BlockCapability[T, C], p BlockProvider[T, C], blocks ...world.Block) error {
	if err := ev.check(c.registry); err != nil {
		return fmt.Errorf("register block %s: %w", c.name, err)
	}
	if p == nil {
		return fmt.Errorf("register block %s: %w", c.name, ErrNilProvider)
	}
	if len(blocks) == 0 {
		return fmt.Errorf("register block %s: %w", c.name, ErrNoTargets)
	}
	for i, b := range blocks {
		if b == nil {
			return fmt.Errorf("register block %s: block %d: %w", c.name, i, ErrNilTarget)
		}
	}

	for _, b := range blocks {
		t := reflect.TypeOf(b)
		c.providers[t] = append(c.providers[t], p)
	}
	slog.Debug("caps: registered block provider",
		"capability", c.name.String(),
		"blocks", len(blocks))
	return nil
}

// RegisterBlockEntity registers a provider of c for block entities of type t.
// The provider is only called with block entities that report t and are of
// type BE.
func RegisterBlockEntity[T, C any, BE BlockEntity](ev *RegisterEvent, c *BlockCapability[T, C], t *BlockEntityType, p BlockEntityProvider[T, C, BE]) error {
	if err := ev.check(c.registry); err != nil {
		return fmt.Errorf("register block entity %s: %w", c.name, err)
	}
	if p == nil {
		return fmt.Errorf("register block entity %s: %w", c.name, ErrNilProvider)
	}
	if t == nil {
		return fmt.Errorf("register block entity %s: %w", c.name, ErrNilTarget)
	}
	if len(t.blocks) == 0 {
		// Nothing can hold the block entity, so nothing will ever be queried.
		slog.Warn("caps: block entity type has no valid blocks",
			"capability", c.name.String(),
			"block_entity_type", t.name)
		return nil
	}

	adapted := func(_ Level, _ cube.Pos, _ world.Block, be BlockEntity, ctx C) (T, bool) {
		var zero T
		if be == nil || be.BlockEntityType() != t {
			return zero, false
		}
		typed, ok := be.(BE)
		if !ok {
			return zero, false
		}
		return p(typed, ctx)
	}
	return RegisterBlock(ev, c, adapted, t.blocks...)
}

// RegisterEntity registers a provider of c for entities of type t.
func RegisterEntity[T, C any](ev *RegisterEvent, c *EntityCapability[T, C], t world.EntityType, p EntityProvider[T, C]) error {
	if err := ev.check(c.registry); err != nil {
		return fmt.Errorf("register entity %s: %w", c.name, err)
	}
	if p == nil {
		return fmt.Errorf("register entity %s: %w", c.name, ErrNilProvider)
	}
	if t == nil {
		return fmt.Errorf("register entity %s: %w", c.name, ErrNilTarget)
	}

	key := reflect.TypeOf(t)
	c.providers[key] = append(c.providers[key], p)
	slog.Debug("caps: registered entity provider",
		"capability", c.name.String(),
		"entity_type", key)
	return nil
}

// RegisterItem registers a provider of c for the given items.
func RegisterItem[T, C any](ev *RegisterEvent, c *ItemCapability[T, C], p ItemProvider[T, C], items ...world.Item) error {
	if err := ev.check(c.registry); err != nil {
		return fmt.Errorf("register item %s: %w", c.name, err)
	}
	if p == nil {
		return fmt.Errorf("register item %s: %w", c.name, ErrNilProvider)
	}
	if len(items) == 0 {
		return fmt.Errorf("register item %s: %w", c.name, ErrNoTargets)
	}
	for i, it := range items {
		if it == nil {
			return fmt.Errorf("register item %s: item %d: %w", c.name, i, ErrNilTarget)
		}
	}

	for _, it := range items {
		t := reflect.TypeOf(it)
		c.providers[t] = append(c.providers[t], p)
	}
	slog.Debug("caps: registered item provider",
		"capability", c.name.String(),
		"items", len(items))
	return nil
}

// IsBlockRegistered reports whether c has at least one provider for b.
func IsBlockRegistered[T, C any](c *BlockCapability[T, C], b world.Block) bool {
	return b != nil && len(c.providers[reflect.TypeOf(b)]) > 0
}

// IsEntityRegistered reports whether c has at least one provider for t.
func IsEntityRegistered[T, C any](c *EntityCapability[T, C], t world.EntityType) bool {
	return t != nil && len(c.providers[reflect.TypeOf(t)]) > 0
}

// IsItemRegistered reports whether c has at least one provider for it.
func IsItemRegistered[T, C any](c *ItemCapability[T, C], it world.Item) bool {
	return it != nil && len(c.providers[reflect.TypeOf(it)]) > 0
}
