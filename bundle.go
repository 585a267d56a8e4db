package caps

import (
	"fmt"
	"log/slog"
)

// Bundle groups the provider registrations of one feature, for example a
// plugin adding machines. Bundles are added to the Builder and registered in
// the order they were added.
type Bundle struct {
	name string

	// registrations run during the registration window
	registrations []func(ev *RegisterEvent, c *Capabilities) error

	postInitHooks []func(*Manager)
}

// NewBundle creates a new bundle with the given name.
func NewBundle(name string) *Bundle {
	return &Bundle{name: name}
}

// Name returns the bundle name.
func (b *Bundle) Name() string {
	return b.name
}

// Register adds a registration function to the bundle. fn receives the
// registration event and the standard capabilities of the manager.
//
// Example:
//
//	bundle.Register(func(ev *caps.RegisterEvent, c *caps.Capabilities) error {
//	    return caps.RegisterBlock(ev, c.EnergyBlock, batteryProvider, Battery{})
//	})
func (b *Bundle) Register(fn func(ev *RegisterEvent, c *Capabilities) error) *Bundle {
	b.registrations = append(b.registrations, fn)
	return b
}

// PostInit adds a hook run once the manager is initialized and started.
func (b *Bundle) PostInit(hook func(*Manager)) *Bundle {
	b.postInitHooks = append(b.postInitHooks, hook)
	return b
}

// register runs the registrations of the bundle. Errors carry the bundle
// name so that the failing feature can be identified.
func (b *Bundle) register(ev *RegisterEvent, c *Capabilities) error {
	for _, fn := range b.registrations {
		if fn == nil {
			continue
		}
		if err := fn(ev, c); err != nil {
			return fmt.Errorf("bundle %s: %w", b.name, err)
		}
	}
	slog.Debug("caps: registered bundle", "bundle", b.name, "registrations", len(b.registrations))
	return nil
}
