package caps

import (
	"testing"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/stretchr/testify/require"
)

// testLevel is a Level backed by a map of blocks.
type testLevel struct {
	blocks    map[cube.Pos]world.Block
	unloaded  map[world.ChunkPos]bool
	listeners *ListenerHolder
}

func newTestLevel() *testLevel {
	return &testLevel{
		blocks:    make(map[cube.Pos]world.Block),
		unloaded:  make(map[world.ChunkPos]bool),
		listeners: NewListenerHolder(),
	}
}

func (l *testLevel) Block(pos cube.Pos) world.Block {
	if b, ok := l.blocks[pos]; ok {
		return b
	}
	return block.Air{}
}

func (l *testLevel) Loaded(pos cube.Pos) bool {
	return !l.unloaded[chunkPos(pos)]
}

func (l *testLevel) Listeners() *ListenerHolder {
	return l.listeners
}

// setBlock places b at pos and invalidates pos, like a block placement would.
func (l *testLevel) setBlock(pos cube.Pos, b world.Block) {
	l.blocks[pos] = b
	l.listeners.InvalidatePos(pos)
}

// machineType is the block entity type of testMachine.
var machineType = NewBlockEntityType("test:machine", testMachine{})

// testMachine is a block entity storing energy.
type testMachine struct {
	block.Stone
	storage *EnergyStorage
}

func (testMachine) BlockEntityType() *BlockEntityType {
	return machineType
}

// otherMachine reports machineType without being a testMachine.
type otherMachine struct {
	block.Dirt
}

func (otherMachine) BlockEntityType() *BlockEntityType {
	return machineType
}

// cowType and pigType are distinct entity types for tests.
type cowType struct{ world.EntityType }
type pigType struct{ world.EntityType }

// fakeEntity is an EntityRef of a fixed type.
type fakeEntity struct {
	t world.EntityType
}

func (e fakeEntity) Type() world.EntityType {
	return e.t
}

// register runs fn as the registration window of r.
func register(t *testing.T, r *Registry, fn func(ev *RegisterEvent) error) {
	t.Helper()
	require.NoError(t, r.Register(fn))
}

// stubEnergy is a distinguishable EnergyHandler.
func stubEnergy() *EnergyStorage {
	return NewEnergyStorage(1000, 100, 100, 500)
}
