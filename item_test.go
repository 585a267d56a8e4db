package caps

import (
	"testing"

	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemEmptyStackHasNoCapability(t *testing.T) {
	r := NewRegistry()
	c := Must(NewItemCapabilityVoid[string](r, "test:name"))

	var calls int
	register(t, r, func(ev *RegisterEvent) error {
		return RegisterItem(ev, c, func(*item.Stack, Void) (string, bool) {
			calls++
			return "apple", true
		}, item.Apple{})
	})

	empty := item.Stack{}
	_, ok := c.Capability(&empty, Void{})
	assert.False(t, ok)
	_, ok = c.Capability(nil, Void{})
	assert.False(t, ok)
	assert.Zero(t, calls)

	stack := item.NewStack(item.Apple{}, 3)
	v, ok := c.Capability(&stack, Void{})
	assert.True(t, ok)
	assert.Equal(t, "apple", v)
	assert.Equal(t, 1, calls)
}

func TestItemProvidersAreKeyedByItem(t *testing.T) {
	r := NewRegistry()
	c := Must(NewItemCapabilityVoid[int](r, "test:count"))

	register(t, r, func(ev *RegisterEvent) error {
		return RegisterItem(ev, c, func(s *item.Stack, _ Void) (int, bool) {
			return s.Count(), true
		}, item.Apple{}, item.Stick{})
	})

	apples := item.NewStack(item.Apple{}, 5)
	v, ok := c.Capability(&apples, Void{})
	assert.True(t, ok)
	assert.Equal(t, 5, v)

	diamonds := item.NewStack(item.Diamond{}, 1)
	_, ok = c.Capability(&diamonds, Void{})
	assert.False(t, ok)

	assert.True(t, IsItemRegistered(c, item.Stick{}))
	assert.False(t, IsItemRegistered(c, item.Diamond{}))
}

func TestItemEnergyCapability(t *testing.T) {
	r := NewRegistry()
	c, err := NewCapabilities(r)
	require.NoError(t, err)

	register(t, r, func(ev *RegisterEvent) error {
		return RegisterItem(ev, c.EnergyItem, func(s *item.Stack, _ Void) (EnergyHandler, bool) {
			return NewItemEnergy(s, "energy", 100, 10, 10), true
		}, item.Diamond{})
	})

	stack := item.NewStack(item.Diamond{}, 1)
	energy, ok := c.EnergyItem.Capability(&stack, Void{})
	require.True(t, ok)
	assert.Equal(t, 10, energy.Insert(50, false))

	// The energy was written to the queried stack.
	again, ok := c.EnergyItem.Capability(&stack, Void{})
	require.True(t, ok)
	assert.Equal(t, 10, again.Amount())
}

func TestRegisterItemErrors(t *testing.T) {
	r := NewRegistry()
	c := Must(NewItemCapabilityVoid[string](r, "test:name"))
	provider := func(*item.Stack, Void) (string, bool) { return "", true }

	register(t, r, func(ev *RegisterEvent) error {
		assert.ErrorIs(t, RegisterItem(ev, c, provider), ErrNoTargets)
		assert.ErrorIs(t, RegisterItem(ev, c, nil, item.Apple{}), ErrNilProvider)
		assert.ErrorIs(t, RegisterItem(ev, c, provider, item.Apple{}, world.Item(nil)), ErrNilTarget)
		return nil
	})
	assert.False(t, IsItemRegistered(c, item.Apple{}))
}
