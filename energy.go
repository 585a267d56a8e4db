package caps

import (
	"math"

	"github.com/df-mc/dragonfly/server/item"
)

// EnergyHandler stores energy. Amounts are never negative.
//
// Insert and Extract return how much energy was, or with simulate set would
// have been, transferred.
type EnergyHandler interface {
	// Insert adds up to amount energy.
	Insert(amount int, simulate bool) int
	// Extract removes up to amount energy.
	Extract(amount int, simulate bool) int
	// Amount returns the stored energy.
	Amount() int
	// Limit returns the maximum energy that can be stored.
	Limit() int
	// CanInsert reports whether Insert can ever add energy. It does not take
	// the stored amount into account.
	CanInsert() bool
	// CanExtract reports whether Extract can ever remove energy.
	CanExtract() bool
}

// EnergyStorage is an in-memory EnergyHandler with a capacity and per-call
// transfer limits.
type EnergyStorage struct {
	energy     int
	capacity   int
	maxInsert  int
	maxExtract int
}

// NewEnergyStorage creates a storage holding energy, clamped to capacity.
func NewEnergyStorage(capacity, maxInsert, maxExtract, energy int) *EnergyStorage {
	return &EnergyStorage{
		energy:     clamp(energy, 0, capacity),
		capacity:   capacity,
		maxInsert:  maxInsert,
		maxExtract: maxExtract,
	}
}

// Insert adds up to amount energy, limited by the free space and the max
// insert rate.
func (s *EnergyStorage) Insert(amount int, simulate bool) int {
	if !s.CanInsert() || amount <= 0 {
		return 0
	}
	inserted := clamp(s.capacity-s.energy, 0, min(s.maxInsert, amount))
	if !simulate {
		s.energy += inserted
	}
	return inserted
}

// Extract removes up to amount energy, limited by the stored energy and the
// max extract rate.
func (s *EnergyStorage) Extract(amount int, simulate bool) int {
	if !s.CanExtract() || amount <= 0 {
		return 0
	}
	extracted := min(s.energy, s.maxExtract, amount)
	if !simulate {
		s.energy -= extracted
	}
	return extracted
}

// Amount returns the stored energy.
func (s *EnergyStorage) Amount() int {
	return s.energy
}

// Limit returns the capacity.
func (s *EnergyStorage) Limit() int {
	return s.capacity
}

// CanInsert reports whether the max insert rate is positive.
func (s *EnergyStorage) CanInsert() bool {
	return s.maxInsert > 0
}

// CanExtract reports whether the max extract rate is positive.
func (s *EnergyStorage) CanExtract() bool {
	return s.maxExtract > 0
}

// ItemEnergy is an EnergyHandler that stores its energy in a value of an
// item stack, so that the energy moves with the item. Changes are written to
// the stack the handler was created with.
type ItemEnergy struct {
	stack      *item.Stack
	key        string
	capacity   int
	maxInsert  int
	maxExtract int
}

// NewItemEnergy creates the energy handler of stack, stored under key. The
// energy is stored as an int32, so capacity is limited to math.MaxInt32.
func NewItemEnergy(stack *item.Stack, key string, capacity, maxInsert, maxExtract int) *ItemEnergy {
	return &ItemEnergy{
		stack:      stack,
		key:        key,
		capacity:   min(capacity, math.MaxInt32),
		maxInsert:  maxInsert,
		maxExtract: maxExtract,
	}
}

// Insert adds up to amount energy to the stack.
func (e *ItemEnergy) Insert(amount int, simulate bool) int {
	if !e.CanInsert() || amount <= 0 {
		return 0
	}
	energy := e.Amount()
	inserted := clamp(e.capacity-energy, 0, min(e.maxInsert, amount))
	if !simulate && inserted > 0 {
		e.setEnergy(energy + inserted)
	}
	return inserted
}

// Extract removes up to amount energy from the stack.
func (e *ItemEnergy) Extract(amount int, simulate bool) int {
	if !e.CanExtract() || amount <= 0 {
		return 0
	}
	energy := e.Amount()
	extracted := min(energy, e.maxExtract, amount)
	if !simulate && extracted > 0 {
		e.setEnergy(energy - extracted)
	}
	return extracted
}

// Amount returns the energy stored in the stack, clamped to the capacity.
func (e *ItemEnergy) Amount() int {
	v, ok := e.stack.Value(e.key)
	if !ok {
		return 0
	}
	var energy int
	switch v := v.(type) {
	case int32:
		energy = int(v)
	case int64:
		energy = int(v)
	case int:
		energy = v
	}
	return clamp(energy, 0, e.capacity)
}

// Limit returns the capacity.
func (e *ItemEnergy) Limit() int {
	return e.capacity
}

// CanInsert reports whether the max insert rate is positive.
func (e *ItemEnergy) CanInsert() bool {
	return e.maxInsert > 0
}

// CanExtract reports whether the max extract rate is positive.
func (e *ItemEnergy) CanExtract() bool {
	return e.maxExtract > 0
}

// setEnergy writes energy to the stack. Item values are saved as NBT, which
// has no platform sized integers.
func (e *ItemEnergy) setEnergy(energy int) {
	*e.stack = e.stack.WithValue(e.key, int32(clamp(energy, 0, e.capacity)))
}

// clamp returns v limited to [lo, hi].
func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
