package caps

import (
	"log/slog"
	"sync"
	"time"

	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// Manager is the central capability coordinator.
// It owns the registry, the standard capabilities and the level of every
// world, and sweeps dead listeners in the background.
// Multiple Manager instances can coexist in the same process for running
// multiple isolated servers.
type Manager struct {
	// registry holds the capabilities of this manager
	registry *Registry

	// caps holds the standard capabilities
	caps *Capabilities

	// bundles holds all registered bundles
	bundles []*Bundle

	// levels holds the level of every world
	levels map[*world.World]*WorldLevel

	// levelsByID provides ID-based level lookup
	levelsByID map[uuid.UUID]*WorldLevel
	levelsMu   sync.RWMutex

	// sweeper cleans dead listeners of all levels
	sweeper *sweeper
}

// newManager creates a new manager.
func newManager(r *Registry, c *Capabilities, sweepInterval time.Duration) *Manager {
	m := &Manager{
		registry:   r,
		caps:       c,
		levels:     make(map[*world.World]*WorldLevel),
		levelsByID: make(map[uuid.UUID]*WorldLevel),
	}
	m.sweeper = newSweeper(sweepInterval, m.sweepAll)
	return m
}

// Registry returns the capability registry of the manager.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Capabilities returns the standard capabilities of the manager.
func (m *Manager) Capabilities() *Capabilities {
	return m.caps
}

// AddWorld creates the level of w, or returns it if w was already added.
// Returns nil if w is nil.
func (m *Manager) AddWorld(w *world.World) *WorldLevel {
	if w == nil {
		return nil
	}

	m.levelsMu.Lock()
	defer m.levelsMu.Unlock()

	if l, ok := m.levels[w]; ok {
		return l
	}
	l := NewWorldLevel(w)
	m.levels[w] = l
	m.levelsByID[l.ID()] = l

	slog.Info("caps: added level", "level", l.ID())
	return l
}

// Level returns the level of w, or nil if w was not added.
func (m *Manager) Level(w *world.World) *WorldLevel {
	m.levelsMu.RLock()
	defer m.levelsMu.RUnlock()
	return m.levels[w]
}

// LevelByID returns the level with the given id, or nil.
func (m *Manager) LevelByID(id uuid.UUID) *WorldLevel {
	m.levelsMu.RLock()
	defer m.levelsMu.RUnlock()
	return m.levelsByID[id]
}

// RemoveWorld removes the level of w. It reports whether w had a level.
func (m *Manager) RemoveWorld(w *world.World) bool {
	m.levelsMu.Lock()
	defer m.levelsMu.Unlock()

	l, ok := m.levels[w]
	if !ok {
		slog.Warn("caps: remove of unknown world")
		return false
	}
	delete(m.levels, w)
	delete(m.levelsByID, l.ID())

	slog.Info("caps: removed level", "level", l.ID())
	return true
}

// Levels returns a snapshot of all levels.
func (m *Manager) Levels() []*WorldLevel {
	m.levelsMu.RLock()
	defer m.levelsMu.RUnlock()

	levels := make([]*WorldLevel, 0, len(m.levels))
	for _, l := range m.levels {
		levels = append(levels, l)
	}
	return levels
}

// Start starts sweeping dead listeners.
func (m *Manager) Start() {
	m.sweeper.Start()
}

// Shutdown stops sweeping dead listeners.
func (m *Manager) Shutdown() {
	m.sweeper.Stop()
}

// sweepAll schedules a sweep on every level.
func (m *Manager) sweepAll() {
	for _, l := range m.Levels() {
		l.Sweep()
	}
}
