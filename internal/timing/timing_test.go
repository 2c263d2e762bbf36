package timing

import (
	"math"
	"testing"
)

func TestLookup_known_names(t *testing.T) {
	names := []string{
		"linear", "ease", "ease-in", "ease-out", "ease-in-out",
		"step-start", "step-end", "step-middle",
	}
	for _, name := range names {
		if _, ok := Lookup(name); !ok {
			t.Errorf("Lookup(%q): not found", name)
		}
	}
}

func TestLookup_aliases(t *testing.T) {
	fn, ok := Lookup("easeIn")
	if !ok {
		t.Fatal("Lookup(easeIn): not found")
	}
	canonical, _ := Lookup("ease-in")
	for _, x := range []float64{0, 0.25, 0.5, 0.75, 1} {
		if fn.At(x) != canonical.At(x) {
			t.Errorf("easeIn alias diverges from ease-in at %v", x)
		}
	}
}

func TestLookup_unknown(t *testing.T) {
	if _, ok := Lookup("bounce"); ok {
		t.Error("Lookup(bounce): expected not found")
	}
}

func TestFunction_endpoints(t *testing.T) {
	for name := range map[string]bool{"linear": true, "ease": true, "ease-in": true, "ease-out": true, "ease-in-out": true} {
		fn, _ := Lookup(name)
		if got := fn.At(0); got != 0 {
			t.Errorf("%s.At(0) = %v, want 0", name, got)
		}
		if got := fn.At(1); got != 1 {
			t.Errorf("%s.At(1) = %v, want 1", name, got)
		}
	}
}

func TestFunction_ease_monotonic(t *testing.T) {
	fn, _ := Lookup("ease")
	prev := fn.At(0)
	for i := 1; i <= 100; i++ {
		v := fn.At(float64(i) / 100)
		if v < prev {
			t.Fatalf("ease not monotonic at %d/100: %v < %v", i, v, prev)
		}
		prev = v
	}
}

func TestReverse_mirror(t *testing.T) {
	fn, _ := Lookup("ease-in")
	rev := fn.Reverse()
	for _, x := range []float64{0, 0.1, 0.3, 0.5, 0.8, 1} {
		want := 1 - fn.At(1-x)
		if got := rev.At(x); math.Abs(got-want) > 1e-12 {
			t.Errorf("reverse(ease-in).At(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestReverse_involution(t *testing.T) {
	fn, _ := Lookup("ease-out")
	rr := fn.Reverse().Reverse()
	for _, x := range []float64{0, 0.2, 0.5, 0.9, 1} {
		if got, want := rr.At(x), fn.At(x); math.Abs(got-want) > 1e-12 {
			t.Errorf("reverse(reverse(ease-out)).At(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestReverse_step_pairing(t *testing.T) {
	stepStart, _ := Lookup("step-start")
	stepEnd, _ := Lookup("step-end")
	rev := stepStart.Reverse()
	// reverse(step-start) behaves like step-end: 0 everywhere before t=1.
	for _, x := range []float64{0, 0.5, 0.99, 1} {
		if got, want := rev.At(x), stepEnd.At(x); got != want {
			t.Errorf("reverse(step-start).At(%v) = %v, want %v (step-end)", x, got, want)
		}
	}
}
