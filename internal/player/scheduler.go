package player

import "time"

// Scheduler arms single-shot timers for auto-advance. The indirection keeps
// the state machine testable without waiting on the wall clock.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a handle to an armed timer. Stop reports whether the timer was
// stopped before firing; stopping an already-fired timer is a no-op.
type Timer interface {
	Stop() bool
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// SystemScheduler returns a Scheduler backed by time.AfterFunc.
func SystemScheduler() Scheduler { return systemScheduler{} }
