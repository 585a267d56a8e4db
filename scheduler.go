package caps

import (
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// defaultSweepInterval is one server tick.
const defaultSweepInterval = 50 * time.Millisecond

// sweeper periodically removes the listeners of collected caches from every
// level.
type sweeper struct {
	interval time.Duration
	sweep    func()

	// mu serialises Start and Stop
	mu      sync.Mutex
	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// newSweeper creates a sweeper calling sweep every interval.
func newSweeper(interval time.Duration, sweep func()) *sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &sweeper{
		interval: interval,
		sweep:    sweep,
	}
}

// Start begins sweeping. It is a no-op if the sweeper is running.
func (s *sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Swap(true) {
		return // Already running
	}
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.loop(s.stopCh, s.doneCh)
}

// Stop stops sweeping and waits for the current sweep to return. It is a
// no-op if the sweeper is not running.
func (s *sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.Swap(false) {
		return // Not running
	}
	close(s.stopCh)
	<-s.doneCh
}

// Running reports whether the sweeper is running.
func (s *sweeper) Running() bool {
	return s.running.Load()
}

// loop is the sweeper goroutine.
func (s *sweeper) loop(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.run()
		}
	}
}

// run calls sweep, recovering from panics so that one bad level does not
// stop sweeping for the others.
func (s *sweeper) run() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("caps: panic in listener sweep",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	s.sweep()
}
