// Package player implements the playback orchestrator: it owns navigation
// state, computes transition parameters, drives the animation clock, applies
// interpolated camera states to the viewport, manages the auto-advance
// timer, and notifies observers of frame changes.
package player

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"presentation-orchestrator/internal/animation"
	"presentation-orchestrator/internal/presentation"
	"presentation-orchestrator/internal/viewport"
)

// Clock is the animation progress source. Start returns a run token that
// step and done notifications carry back, so deliveries from a superseded
// run can be discarded. Stop delivers the stopped notification synchronously
// before returning and is a no-op when idle. See internal/animation.
type Clock interface {
	Start(d time.Duration) uint64
	Stop()
	Running() bool
}

// Player is the playback orchestrator. All public methods are safe for
// concurrent use; internally every command, timer fire, and clock
// notification is serialized through one mutex, so each handler runs to
// completion before the next.
type Player struct {
	mu    sync.Mutex
	pres  *presentation.Presentation
	vp    *viewport.Viewport
	clock Clock
	sched Scheduler
	log   *slog.Logger

	current        int
	target         int
	playing        bool
	waitingTimeout bool
	timer          Timer
	transitions    []Transition
	clockRun       uint64

	events *Notifier
}

// New returns a player for the given presentation and viewport, driving a
// real animation clock that steps every tick. The presentation must have at
// least one frame and the viewport must carry a camera for every layer the
// presentation uses.
func New(pres *presentation.Presentation, vp *viewport.Viewport, tick time.Duration, log *slog.Logger) (*Player, error) {
	if pres.FrameCount() == 0 {
		return nil, fmt.Errorf("player: %w", presentation.ErrNoFrames)
	}
	for _, layer := range pres.Layers {
		if vp.Camera(layer) == nil {
			return nil, fmt.Errorf("player: viewport has no camera for layer %d", layer)
		}
	}
	if log == nil {
		log = slog.Default()
	}

	p := &Player{
		pres:   pres,
		vp:     vp,
		sched:  SystemScheduler(),
		log:    log,
		events: NewNotifier(),
	}
	p.clock = animation.New(tick, p.clockStep, p.clockDone, p.clockStopped)
	return p, nil
}

// Events returns the frame-change notifier.
func (p *Player) Events() *Notifier { return p.events }

// PlayFrom starts playback at frame i: the frame is rendered instantly, a
// frame change is emitted, and the auto-advance timer is armed if the frame
// has a timeout.
func (p *Player) PlayFrom(i int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playFromLocked(p.wrap(i))
}

// Pause freezes playback: any in-flight animation is stopped, the
// auto-advance timer is cancelled, and a not-yet-completed target is
// discarded. Idempotent.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauseLocked()
}

// Resume restarts playback at the current frame.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playFromLocked(p.current)
}

// JumpTo moves to frame i instantly, without animation. Playback pauses.
func (p *Player) JumpTo(i int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jumpToLocked(p.wrap(i))
}

// JumpFirst jumps to the first frame.
func (p *Player) JumpFirst() { p.JumpTo(0) }

// JumpLast jumps to the last frame.
func (p *Player) JumpLast() { p.JumpTo(p.pres.FrameCount() - 1) }

// JumpPrevious jumps to the display-adjacent previous frame. Unlike
// MovePrevious it does not skip zero-timeout pass-through frames.
func (p *Player) JumpPrevious() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jumpToLocked(p.previousIndexLocked())
}

// JumpNext jumps to the display-adjacent next frame.
func (p *Player) JumpNext() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jumpToLocked(p.nextIndexLocked())
}

// MoveTo animates to frame i. Adjacent targets use the frame-authored
// transition parameters; any other target uses defaults. The player is left
// playing even when invoked while paused, which is how a single animated
// step is issued without entering autoplay: no timer is armed unless the
// landing frame has a timeout.
func (p *Player) MoveTo(i int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.moveToLocked(p.wrap(i))
}

// MoveFirst animates to the first frame.
func (p *Player) MoveFirst() { p.MoveTo(0) }

// MoveLast animates to the last frame.
func (p *Player) MoveLast() { p.MoveTo(p.pres.FrameCount() - 1) }

// MoveNext animates one step forward.
func (p *Player) MoveNext() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.moveToLocked(p.nextIndexLocked())
}

// MovePrevious animates backward to the nearest frame that is not a
// zero-timeout pass-through frame, wrapping past the start if needed.
func (p *Player) MovePrevious() {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.previousIndexLocked()
	for n := 0; n < p.pres.FrameCount()-1; n++ {
		f := p.pres.Frame(i)
		if !(f.TimeoutEnable && f.TimeoutMs == 0) {
			break
		}
		i = p.wrap(i - 1)
	}
	p.moveToLocked(i)
}

// MoveCurrent replays the transition into the current frame. With no other
// navigation pending this is a no-op transition that still emits a frame
// change on completion.
func (p *Player) MoveCurrent() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.moveToLocked(p.current)
}

// Preview animates to frame i using only default transition parameters,
// ignoring frame-authored layer properties and paths, and without touching
// the playing flag. Intended for non-sequential, editor-style jumps.
func (p *Player) Preview(i int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i = p.wrap(i)
	p.vp.SetBlank(false)
	p.cancelTimerLocked()
	p.stopClockLocked()
	p.target = i
	p.armTransitionsLocked(i, defaultParams(p.pres.Layers))
	p.clockRun = p.clock.Start(DefaultTransitionDuration)
}

// ToggleBlank flips the blank-screen overlay. Entering the blank state
// pauses playback; any subsequent navigation un-blanks the view.
func (p *Player) ToggleBlank() {
	p.mu.Lock()
	defer p.mu.Unlock()

	on := !p.vp.Blank()
	p.vp.SetBlank(on)
	if on {
		p.pauseLocked()
	}
}

// navigation internals; all require p.mu held.

func (p *Player) playFromLocked(i int) {
	p.playing = true
	p.cancelTimerLocked()
	p.current, p.target = i, i
	p.showCurrentLocked()
	p.emitLocked()
	p.waitTimeoutLocked()
}

func (p *Player) pauseLocked() {
	p.stopClockLocked()
	p.cancelTimerLocked()
	p.playing = false
	p.target = p.current
}

func (p *Player) jumpToLocked(i int) {
	p.vp.SetBlank(false)
	p.pauseLocked()
	p.current, p.target = i, i
	p.showCurrentLocked()
	p.emitLocked()
}

func (p *Player) moveToLocked(i int) {
	p.vp.SetBlank(false)
	p.cancelTimerLocked()

	// Parameters are resolved against the pre-stop state: adjacency is
	// anchored on the in-flight target when animating, while a backward
	// step reads the not-yet-snapped current frame's properties.
	dur, params := p.resolveLocked(i)

	p.stopClockLocked()
	p.target = i
	p.armTransitionsLocked(i, params)
	p.playing = true
	p.clockRun = p.clock.Start(dur)
}

// waitTimeoutLocked arms the auto-advance timer if the current frame is
// configured for it. Only called with playing set.
func (p *Player) waitTimeoutLocked() {
	f := p.pres.Frame(p.current)
	if !f.TimeoutEnable {
		return
	}
	p.waitingTimeout = true
	p.timer = p.sched.AfterFunc(time.Duration(f.TimeoutMs)*time.Millisecond, p.timeoutFired)
	p.log.Debug("auto-advance armed",
		slog.Int("frame", p.current),
		slog.Int("timeout_ms", f.TimeoutMs),
	)
}

// timeoutFired is the auto-advance timer callback.
func (p *Player) timeoutFired() {
	p.mu.Lock()
	defer p.mu.Unlock()

	// A fire racing a cancellation loses.
	if !p.waitingTimeout {
		return
	}
	p.waitingTimeout = false
	p.timer = nil
	p.moveToLocked(p.nextIndexLocked())
}

func (p *Player) cancelTimerLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.waitingTimeout = false
}

// stopClockLocked terminates an in-flight animation. The clock delivers its
// stopped notification synchronously, so clockStopped's bookkeeping (discard
// transitions, snap current to target, emit) completes before this returns.
func (p *Player) stopClockLocked() {
	p.clock.Stop()
}

func (p *Player) showCurrentLocked() {
	p.vp.SetAtStates(p.pres.Frame(p.current).Cameras)
	p.vp.Update()
}

func (p *Player) emitLocked() {
	f := p.pres.Frame(p.current)
	p.events.publish(FrameChange{Index: p.current, Name: f.Name})
	p.log.Debug("frame change",
		slog.Int("frame", p.current),
		slog.String("name", f.Name),
		slog.Bool("playing", p.playing),
	)
}

// clock notifications.

// clockStep reapplies all live transitions at the reported progress.
func (p *Player) clockStep(run uint64, progress float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if run != p.clockRun || len(p.transitions) == 0 {
		return
	}
	for i := range p.transitions {
		tr := &p.transitions[i]
		tr.Camera.Interpolate(tr.Initial, tr.Final, progress, tr.Timing, tr.RelativeZoom, tr.Path, tr.Reverse)
	}
	p.vp.Update()
}

// clockDone handles natural completion: the frame settles and, if still
// playing, autoplay continues via the auto-advance timer.
func (p *Player) clockDone(run uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if run != p.clockRun {
		return
	}
	p.settleLocked(true)
}

// clockStopped handles an interrupted run. It is delivered synchronously
// from within clock.Stop, which the player only calls with p.mu held, so it
// must not lock.
func (p *Player) clockStopped() {
	if p.clockRun == 0 {
		return
	}
	p.settleLocked(false)
}

// settleLocked finishes a terminal animation outcome: transitions are
// discarded, the current index snaps to the target, and a frame change is
// emitted. Completion additionally re-arms the auto-advance timer when
// still playing; a stop never does, since stopping means the run was
// preempted by a new request.
func (p *Player) settleLocked(completed bool) {
	p.transitions = nil
	p.clockRun = 0
	p.current = p.target
	p.emitLocked()
	if completed && p.playing {
		p.waitTimeoutLocked()
	}
}

// index arithmetic.

func (p *Player) wrap(i int) int {
	n := p.pres.FrameCount()
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// anchorLocked is the index adjacency is computed from: the in-flight
// target while animating, else the current frame. Rapid repeated navigation
// during a transition chains off the in-flight target.
func (p *Player) anchorLocked() int {
	if len(p.transitions) > 0 {
		return p.target
	}
	return p.current
}

func (p *Player) nextIndexLocked() int     { return p.wrap(p.anchorLocked() + 1) }
func (p *Player) previousIndexLocked() int { return p.wrap(p.anchorLocked() - 1) }
