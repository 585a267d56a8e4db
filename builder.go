package caps

import (
	"fmt"
	"time"

	"github.com/df-mc/dragonfly/server/world"
)

// Builder configures capabilities before initialization.
// Use NewBuilder() to create a builder and chain configuration methods.
type Builder struct {
	bundles       []*Bundle
	vanilla       bool
	sweepInterval time.Duration
	registry      *Registry
}

// NewBuilder creates a new capability builder.
func NewBuilder() *Builder {
	return &Builder{sweepInterval: defaultSweepInterval}
}

// Bundle adds a bundle to the builder.
func (b *Builder) Bundle(bundle *Bundle) *Builder {
	b.bundles = append(b.bundles, bundle)
	return b
}

// Vanilla registers the providers of vanilla blocks, such as the inventories
// of chests and barrels, before any bundle.
func (b *Builder) Vanilla() *Builder {
	b.vanilla = true
	return b
}

// SweepInterval sets how often dead listeners are removed from levels.
// Defaults to one tick.
func (b *Builder) SweepInterval(d time.Duration) *Builder {
	if d > 0 {
		b.sweepInterval = d
	}
	return b
}

// Registry sets the registry to use, for capabilities created before the
// builder. Defaults to a new registry.
func (b *Builder) Registry(r *Registry) *Builder {
	b.registry = r
	return b
}

// Build creates the standard capabilities, runs the registration window and
// returns the manager. The manager is not started.
func (b *Builder) Build() (*Manager, error) {
	r := b.registry
	if r == nil {
		r = NewRegistry()
	}
	c, err := NewCapabilities(r)
	if err != nil {
		return nil, fmt.Errorf("create capabilities: %w", err)
	}

	err = r.Register(func(ev *RegisterEvent) error {
		if b.vanilla {
			if err := RegisterVanilla(ev, c); err != nil {
				return fmt.Errorf("vanilla: %w", err)
			}
		}
		for _, bundle := range b.bundles {
			if err := bundle.register(ev, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m := newManager(r, c, b.sweepInterval)
	m.bundles = b.bundles
	return m, nil
}

// Init initializes capabilities with the configured settings and adds the
// given worlds. Returns the started Manager.
// Init panics if registration fails: a server must not run with half of its
// providers.
func (b *Builder) Init(ws ...*world.World) *Manager {
	m, err := b.Build()
	if err != nil {
		panic("caps: failed to register capabilities: " + err.Error())
	}

	for _, w := range ws {
		m.AddWorld(w)
	}

	// Start the sweeper
	m.Start()

	for _, bundle := range m.bundles {
		for _, hook := range bundle.postInitHooks {
			hook(m)
		}
	}

	return m
}
