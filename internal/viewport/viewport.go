// Package viewport models the rendered view of a presentation: one camera
// per visual layer, each holding a committed state and a pending state that
// interpolation writes into. The orchestrator never mutates camera states
// directly; it requests interpolation and commits with Update.
package viewport

import (
	"fmt"
	"sort"

	"presentation-orchestrator/internal/timing"
)

// CameraState is an immutable snapshot of one layer's visual transform.
type CameraState struct {
	X     float64 // view center, presentation coordinates
	Y     float64
	Zoom  float64 // scale factor, 1 = natural size
	Angle float64 // rotation in degrees
}

// DefaultState is the state a camera starts in before any frame is shown.
var DefaultState = CameraState{Zoom: 1}

// Camera renders one layer. Interpolate writes a pending state; Update
// commits it so State observes it.
type Camera struct {
	layer     int
	committed CameraState
	pending   CameraState
}

// NewCamera returns a camera for the given layer, committed at state.
func NewCamera(layer int, state CameraState) *Camera {
	return &Camera{layer: layer, committed: state, pending: state}
}

// Layer returns the layer index this camera renders.
func (c *Camera) Layer() int { return c.layer }

// State returns the last committed state.
func (c *Camera) State() CameraState { return c.committed }

// SetAtState stages state as the pending state.
func (c *Camera) SetAtState(state CameraState) { c.pending = state }

// Update commits the pending state to the display.
func (c *Camera) Update() { c.committed = c.pending }

// Interpolate stages the state between from and to at the given raw progress.
// fn eases the progress; relativeZoom bulges the zoom curve mid-transition,
// vanishing at both endpoints; a non-empty path routes the view center along
// its waypoints instead of the straight line, traversed backward when reverse
// is set. The result is pending until Update commits it.
func (c *Camera) Interpolate(from, to CameraState, progress float64, fn timing.Function, relativeZoom float64, path Path, reverse bool) {
	if fn == nil {
		fn = timing.Default()
	}
	t := fn.At(progress)

	s := CameraState{
		Zoom:  lerp(from.Zoom, to.Zoom, t),
		Angle: lerp(from.Angle, to.Angle, t),
	}
	if relativeZoom != 0 {
		s.Zoom *= zoomArc(relativeZoom, t)
	}

	if len(path) > 0 {
		s.X, s.Y = path.withEndpoints(from, to, reverse).At(t)
	} else {
		s.X = lerp(from.X, to.X, t)
		s.Y = lerp(from.Y, to.Y, t)
	}

	c.pending = s
}

// Viewport is the set of cameras plus the blank-screen overlay flag.
type Viewport struct {
	layers  []int
	cameras map[int]*Camera
	blank   bool
}

// New returns a viewport with one camera per listed layer, each committed
// at DefaultState. Duplicate layer indices are an error.
func New(layers []int) (*Viewport, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("viewport: no layers")
	}
	cameras := make(map[int]*Camera, len(layers))
	ordered := make([]int, 0, len(layers))
	for _, l := range layers {
		if _, dup := cameras[l]; dup {
			return nil, fmt.Errorf("viewport: duplicate layer %d", l)
		}
		cameras[l] = NewCamera(l, DefaultState)
		ordered = append(ordered, l)
	}
	sort.Ints(ordered)
	return &Viewport{layers: ordered, cameras: cameras}, nil
}

// Layers returns the layer indices in ascending order.
func (v *Viewport) Layers() []int { return v.layers }

// Camera returns the camera for the given layer, or nil if the layer is
// unknown.
func (v *Viewport) Camera(layer int) *Camera { return v.cameras[layer] }

// SetAtStates stages the given per-layer states. Layers without an entry
// keep their pending state.
func (v *Viewport) SetAtStates(states map[int]CameraState) {
	for layer, s := range states {
		if c := v.cameras[layer]; c != nil {
			c.SetAtState(s)
		}
	}
}

// Update commits the pending state of every camera.
func (v *Viewport) Update() {
	for _, c := range v.cameras {
		c.Update()
	}
}

// SetBlank shows or hides the blank-screen overlay.
func (v *Viewport) SetBlank(on bool) { v.blank = on }

// Blank reports whether the blank-screen overlay is shown.
func (v *Viewport) Blank() bool { return v.blank }

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
