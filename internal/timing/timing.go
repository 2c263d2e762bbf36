// Package timing provides the named easing functions used for frame
// transitions. Every function has a reverse counterpart so that a backward
// navigation step can replay the forward easing mirrored in time.
package timing

// Function maps raw animation progress in [0,1] to eased progress.
type Function interface {
	// At returns the eased value for progress t in [0,1].
	At(t float64) float64
	// Reverse returns the time-mirrored counterpart:
	// Reverse(f)(t) = 1 - f(1-t).
	Reverse() Function
}

type easing struct {
	name string
	f    func(float64) float64
}

func (e easing) At(t float64) float64 { return e.f(t) }

func (e easing) Reverse() Function {
	f := e.f
	return easing{
		name: e.name + "-reverse",
		f:    func(t float64) float64 { return 1 - f(1-t) },
	}
}

// Name returns the registered name of the function, with a "-reverse"
// suffix for derived reverse functions.
func (e easing) Name() string { return e.name }

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

var functions = map[string]easing{
	"linear":      {"linear", func(t float64) float64 { return t }},
	"ease":        {"ease", easeInOutCubic},
	"ease-in":     {"ease-in", func(t float64) float64 { return t * t * t }},
	"ease-out":    {"ease-out", func(t float64) float64 { u := 1 - t; return 1 - u*u*u }},
	"ease-in-out": {"ease-in-out", easeInOutCubic},
	"step-start":  {"step-start", func(t float64) float64 { return step(t > 0) }},
	"step-end":    {"step-end", func(t float64) float64 { return step(t >= 1) }},
	"step-middle": {"step-middle", func(t float64) float64 { return step(t >= 0.5) }},
}

// aliases accepts the camelCase spellings used by some authoring tools.
var aliases = map[string]string{
	"easeIn":     "ease-in",
	"easeOut":    "ease-out",
	"easeInOut":  "ease-in-out",
	"stepStart":  "step-start",
	"stepEnd":    "step-end",
	"stepMiddle": "step-middle",
}

func step(on bool) float64 {
	if on {
		return 1
	}
	return 0
}

// Lookup returns the easing function registered under name.
// The ok return is false if the name is unknown.
func Lookup(name string) (Function, bool) {
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	e, ok := functions[name]
	if !ok {
		return nil, false
	}
	return e, true
}

// Default is the easing used when a frame does not name one.
func Default() Function { return functions["ease"] }
