// Package presentation holds the read-only document model: an ordered list
// of frames, each carrying per-layer target camera states and timing
// metadata. Documents are loaded from YAML once at startup and never
// mutated afterwards.
package presentation

import (
	"presentation-orchestrator/internal/viewport"
)

// DefaultTransitionDurationMs is used when a frame does not set its own
// transition duration.
const DefaultTransitionDurationMs = 500

// LayerProperties are the transition parameters a frame contributes for one
// layer when it is the entry or exit point of an adjacent step.
type LayerProperties struct {
	// RelativeZoom is an extra zoom factor applied across the transition
	// arc, independent of start and end scale. Negative values pull the
	// view out mid-flight.
	RelativeZoom float64

	// TimingFunction names an easing from the timing package. Validated at
	// load time.
	TimingFunction string

	// Path optionally routes the view center along waypoints instead of a
	// straight line.
	Path viewport.Path
}

// Frame is one waypoint of the presentation.
type Frame struct {
	// Name identifies the frame for observers; it has no navigation role.
	Name string

	// TimeoutEnable and TimeoutMs configure auto-advance: when the frame is
	// reached while playing, a timer of TimeoutMs milliseconds moves on to
	// the next frame. A zero timeout marks a pass-through frame that manual
	// backward navigation skips over.
	TimeoutEnable bool
	TimeoutMs     int

	// TransitionDurationMs is the duration used when this frame is the
	// entry point of a forward step.
	TransitionDurationMs int

	// Cameras holds the frame's target camera state per layer. Every frame
	// defines a state for every layer of the presentation.
	Cameras map[int]viewport.CameraState

	// LayerProperties holds per-layer transition parameters for adjacent
	// steps into or out of this frame.
	LayerProperties map[int]LayerProperties
}

// Properties returns the frame's layer properties for the given layer.
// Frames without an explicit entry fall back to defaults: zero relative
// zoom, the default easing, no path.
func (f *Frame) Properties(layer int) LayerProperties {
	if p, ok := f.LayerProperties[layer]; ok {
		return p
	}
	return LayerProperties{}
}

// Presentation is the loaded document.
type Presentation struct {
	Title  string
	Frames []Frame

	// Layers is the ascending set of layer indices used by the frames.
	Layers []int
}

// FrameCount returns the number of frames.
func (p *Presentation) FrameCount() int { return len(p.Frames) }

// Frame returns the frame at index i. The index must be in range; the
// orchestrator keeps its indices in range by modulo arithmetic.
func (p *Presentation) Frame(i int) *Frame { return &p.Frames[i] }
