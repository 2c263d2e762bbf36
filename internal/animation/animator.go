// Package animation provides the shared progress clock that drives frame
// transitions. An Animator runs at most one animation at a time, reporting
// monotonically increasing progress in [0,1] followed by a terminal
// notification that distinguishes natural completion from an early stop.
package animation

import (
	"sync"
	"time"
)

// DefaultTickInterval is the step cadence used when no interval is given.
const DefaultTickInterval = 16 * time.Millisecond

// Animator drives a single animation run against the wall clock.
//
// Step and done notifications are delivered from the run's goroutine and
// carry the run token returned by Start, so a consumer can discard stale
// deliveries from a superseded run. The stopped notification is delivered
// synchronously on the goroutine that calls Stop, before Stop returns; this
// lets the orchestrator finish bookkeeping for an interrupted run before it
// arms the next one.
type Animator struct {
	mu       sync.Mutex
	interval time.Duration
	run      uint64
	running  bool
	cancel   chan struct{}

	onStep    func(run uint64, progress float64)
	onDone    func(run uint64)
	onStopped func()
}

// New returns an Animator stepping every interval. A non-positive interval
// selects DefaultTickInterval. Any callback may be nil.
func New(interval time.Duration, onStep func(uint64, float64), onDone func(uint64), onStopped func()) *Animator {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Animator{
		interval:  interval,
		onStep:    onStep,
		onDone:    onDone,
		onStopped: onStopped,
	}
}

// Start begins a run of the given duration and returns its token. A run
// already in flight is stopped first, delivering its stopped notification
// before the new run is armed. A non-positive duration completes on the
// first step.
func (a *Animator) Start(d time.Duration) uint64 {
	a.mu.Lock()
	if a.running {
		a.stopLocked()
		a.mu.Unlock()
		if a.onStopped != nil {
			a.onStopped()
		}
		a.mu.Lock()
	}
	a.run++
	a.running = true
	a.cancel = make(chan struct{})
	run, cancel := a.run, a.cancel
	a.mu.Unlock()

	go a.loop(run, d, cancel)
	return run
}

// Stop terminates the current run, if any, and synchronously delivers the
// stopped notification. Stopping an idle animator is a no-op.
func (a *Animator) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.stopLocked()
	a.mu.Unlock()

	if a.onStopped != nil {
		a.onStopped()
	}
}

// Running reports whether a run is in flight.
func (a *Animator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

func (a *Animator) stopLocked() {
	a.running = false
	close(a.cancel)
	a.cancel = nil
}

func (a *Animator) loop(run uint64, d time.Duration, cancel chan struct{}) {
	if d <= 0 {
		a.finish(run)
		return
	}

	start := time.Now()
	tick := time.NewTicker(a.interval)
	defer tick.Stop()

	for {
		select {
		case <-cancel:
			return
		case now := <-tick.C:
			progress := float64(now.Sub(start)) / float64(d)
			if progress >= 1 {
				a.finish(run)
				return
			}
			a.step(run, progress)
		}
	}
}

// step delivers a progress notification unless the run has been superseded.
func (a *Animator) step(run uint64, progress float64) {
	a.mu.Lock()
	current := a.running && a.run == run
	a.mu.Unlock()
	if current && a.onStep != nil {
		a.onStep(run, progress)
	}
}

// finish marks the run complete and delivers the final step and the done
// notification, unless the run was stopped in the meantime.
func (a *Animator) finish(run uint64) {
	a.mu.Lock()
	if !a.running || a.run != run {
		a.mu.Unlock()
		return
	}
	a.running = false
	a.cancel = nil
	a.mu.Unlock()

	if a.onStep != nil {
		a.onStep(run, 1)
	}
	if a.onDone != nil {
		a.onDone(run)
	}
}
