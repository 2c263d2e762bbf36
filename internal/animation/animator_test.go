package animation

import (
	"sync"
	"testing"
	"time"
)

// recorder collects animator notifications for assertions.
type recorder struct {
	mu      sync.Mutex
	steps   []float64
	runs    []uint64
	done    chan uint64
	stopped int
}

func newRecorder() *recorder {
	return &recorder{done: make(chan uint64, 4)}
}

func (r *recorder) onStep(run uint64, p float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, p)
	r.runs = append(r.runs, run)
}

func (r *recorder) onDone(run uint64) { r.done <- run }

func (r *recorder) onStopped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped++
}

func (r *recorder) stoppedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

func (r *recorder) snapshot() ([]float64, []uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.steps...), append([]uint64(nil), r.runs...)
}

func TestAnimator_completes_with_monotonic_progress(t *testing.T) {
	rec := newRecorder()
	a := New(2*time.Millisecond, rec.onStep, rec.onDone, rec.onStopped)

	run := a.Start(30 * time.Millisecond)

	select {
	case doneRun := <-rec.done:
		if doneRun != run {
			t.Errorf("done run: got %d, want %d", doneRun, run)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("animation did not complete")
	}

	if a.Running() {
		t.Error("Running() true after completion")
	}

	steps, runs := rec.snapshot()
	if len(steps) == 0 {
		t.Fatal("no steps delivered")
	}
	if last := steps[len(steps)-1]; last != 1 {
		t.Errorf("final step progress: got %v, want 1", last)
	}
	for i := 1; i < len(steps); i++ {
		if steps[i] < steps[i-1] {
			t.Errorf("progress not monotonic: %v after %v", steps[i], steps[i-1])
		}
	}
	for _, r := range runs {
		if r != run {
			t.Errorf("step carried run %d, want %d", r, run)
		}
	}
	if rec.stoppedCount() != 0 {
		t.Errorf("stopped count: got %d, want 0", rec.stoppedCount())
	}
}

func TestAnimator_stop_is_synchronous_and_idempotent(t *testing.T) {
	rec := newRecorder()
	a := New(time.Millisecond, rec.onStep, rec.onDone, rec.onStopped)

	a.Start(time.Hour)
	if !a.Running() {
		t.Fatal("Running() false after Start")
	}

	a.Stop()
	if rec.stoppedCount() != 1 {
		t.Fatal("stopped notification not delivered before Stop returned")
	}
	if a.Running() {
		t.Error("Running() true after Stop")
	}

	a.Stop()
	if rec.stoppedCount() != 1 {
		t.Error("second Stop must be a no-op")
	}

	select {
	case <-rec.done:
		t.Error("done delivered for a stopped run")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestAnimator_start_preempts_running_animation(t *testing.T) {
	rec := newRecorder()
	a := New(time.Millisecond, rec.onStep, rec.onDone, rec.onStopped)

	first := a.Start(time.Hour)
	second := a.Start(10 * time.Millisecond)
	if second == first {
		t.Fatal("second run should have a fresh token")
	}
	if rec.stoppedCount() != 1 {
		t.Errorf("preemption should stop the first run: stopped=%d", rec.stoppedCount())
	}

	select {
	case doneRun := <-rec.done:
		if doneRun != second {
			t.Errorf("done run: got %d, want %d", doneRun, second)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("second run did not complete")
	}
}

func TestAnimator_zero_duration_completes_immediately(t *testing.T) {
	rec := newRecorder()
	a := New(time.Millisecond, rec.onStep, rec.onDone, rec.onStopped)

	run := a.Start(0)
	select {
	case doneRun := <-rec.done:
		if doneRun != run {
			t.Errorf("done run: got %d, want %d", doneRun, run)
		}
	case <-time.After(time.Second):
		t.Fatal("zero-duration run did not complete")
	}

	steps, _ := rec.snapshot()
	if len(steps) != 1 || steps[0] != 1 {
		t.Errorf("zero-duration steps: got %v, want [1]", steps)
	}
}
