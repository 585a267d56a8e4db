package caps

import (
	"errors"
	"testing"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batteryProvider(Level, cube.Pos, world.Block, BlockEntity, Side) (EnergyHandler, bool) {
	return stubEnergy(), true
}

func TestBuilderBuild(t *testing.T) {
	bundle := NewBundle("Machines").
		Register(func(ev *RegisterEvent, c *Capabilities) error {
			return RegisterBlock(ev, c.EnergyBlock, batteryProvider, block.Furnace{})
		})

	m, err := NewBuilder().Bundle(bundle).Build()
	require.NoError(t, err)

	assert.True(t, IsBlockRegistered(m.Capabilities().EnergyBlock, block.Furnace{}))
	assert.False(t, IsBlockRegistered(m.Capabilities().ItemHandlerBlock, block.Chest{}))
	assert.False(t, m.Registry().Registering())
	assert.Len(t, m.Registry().BlockCapabilities(), 2)
}

func TestBuilderBundleErrorAttribution(t *testing.T) {
	ok := NewBundle("Working").
		Register(func(ev *RegisterEvent, c *Capabilities) error {
			return RegisterBlock(ev, c.EnergyBlock, batteryProvider, block.Furnace{})
		})
	broken := NewBundle("Broken").
		Register(func(ev *RegisterEvent, c *Capabilities) error {
			return RegisterBlock(ev, c.EnergyBlock, batteryProvider)
		})

	_, err := NewBuilder().Bundle(ok).Bundle(broken).Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoTargets)
	assert.Contains(t, err.Error(), "bundle Broken")
	assert.NotContains(t, err.Error(), "Working")
}

func TestBuilderSharedRegistry(t *testing.T) {
	r := NewRegistry()
	heat := Must(NewBlockCapabilityVoid[int](r, "test:heat"))

	bundle := NewBundle("Heat").Register(func(ev *RegisterEvent, _ *Capabilities) error {
		return RegisterBlock(ev, heat, func(Level, cube.Pos, world.Block, BlockEntity, Void) (int, bool) {
			return 1200, true
		}, block.Furnace{})
	})
	m, err := NewBuilder().Registry(r).Bundle(bundle).Build()
	require.NoError(t, err)
	assert.Same(t, r, m.Registry())
	assert.True(t, IsBlockRegistered(heat, block.Furnace{}))

	// The registration window of a registry only opens once.
	_, err = NewBuilder().Registry(r).Build()
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestBuilderConflictingRegistry(t *testing.T) {
	r := NewRegistry()
	Must(NewBlockCapabilityVoid[int](r, "caps:energy"))

	_, err := NewBuilder().Registry(r).Build()
	assert.ErrorIs(t, err, ErrCapabilityConflict)
}

func TestBuilderVanilla(t *testing.T) {
	m, err := NewBuilder().Vanilla().Build()
	require.NoError(t, err)

	c := m.Capabilities()
	for _, b := range []world.Block{
		block.Chest{}, block.Barrel{}, block.Furnace{}, block.BlastFurnace{},
		block.Smoker{}, block.Hopper{}, block.BrewingStand{},
	} {
		assert.True(t, IsBlockRegistered(c.ItemHandlerBlock, b), "%T", b)
	}
	assert.False(t, IsBlockRegistered(c.ItemHandlerBlock, block.Stone{}))
	assert.True(t, IsEntityRegistered(c.ItemHandlerEntity, player.Type))

	// Containers need a transaction to be read.
	l := newTestLevel()
	l.blocks[cube.Pos{}] = block.NewChest()
	_, ok := c.ItemHandlerBlock.Capability(l, cube.Pos{}, nil)
	assert.False(t, ok)
}

func TestBuilderInit(t *testing.T) {
	var order []string
	first := NewBundle("First").PostInit(func(*Manager) { order = append(order, "first") })
	second := NewBundle("Second").PostInit(func(*Manager) { order = append(order, "second") })

	m := NewBuilder().SweepInterval(0).Bundle(first).Bundle(second).Init()
	defer m.Shutdown()

	assert.Equal(t, []string{"first", "second"}, order)
	assert.True(t, m.sweeper.Running())
	assert.Equal(t, defaultSweepInterval, m.sweeper.interval)
}

func TestBuilderInitPanics(t *testing.T) {
	broken := NewBundle("Broken").Register(func(*RegisterEvent, *Capabilities) error {
		return errors.New("boom")
	})
	assert.PanicsWithValue(t, "caps: failed to register capabilities: bundle Broken: boom", func() {
		NewBuilder().Bundle(broken).Init()
	})
}

func TestBundle(t *testing.T) {
	b := NewBundle("Machines").Register(nil)
	assert.Equal(t, "Machines", b.Name())

	r := NewRegistry()
	c, err := NewCapabilities(r)
	require.NoError(t, err)
	register(t, r, func(ev *RegisterEvent) error {
		return b.register(ev, c)
	})
}

func TestManagerCommand(t *testing.T) {
	m, err := NewBuilder().Build()
	require.NoError(t, err)

	command := m.Command()
	assert.Equal(t, "caps", command.Name())
	assert.NotPanics(t, func() {
		capsCommand{manager: m}.Run(nil, &cmd.Output{}, nil)
	})
}
