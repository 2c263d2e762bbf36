package player

import (
	"time"

	"presentation-orchestrator/internal/presentation"
	"presentation-orchestrator/internal/timing"
	"presentation-orchestrator/internal/viewport"
)

// DefaultTransitionDuration is used for non-adjacent jumps and previews.
const DefaultTransitionDuration = 500 * time.Millisecond

// Transition is one layer's interpolation job for the animation in flight.
// Initial is a snapshot of the camera's committed state at setup time, so a
// transition replacing an interrupted one starts from wherever the viewport
// visually is. While animating there is exactly one Transition per layer;
// while idle there are none.
type Transition struct {
	Camera       *viewport.Camera
	Initial      viewport.CameraState
	Final        viewport.CameraState
	Timing       timing.Function
	RelativeZoom float64
	Path         viewport.Path
	Reverse      bool
}

// transitionParams are the resolved per-layer parameters of a navigation,
// before initial states are captured.
type transitionParams struct {
	timing       timing.Function
	relativeZoom float64
	path         viewport.Path
	reverse      bool
}

// defaultParams returns default parameters for every layer: default easing,
// zero relative zoom, no path, forward.
func defaultParams(layers []int) map[int]transitionParams {
	params := make(map[int]transitionParams, len(layers))
	for _, layer := range layers {
		params[layer] = transitionParams{timing: timing.Default()}
	}
	return params
}

// resolveLocked computes the duration and per-layer parameters for an
// animated move to target.
//
// A forward step (target is the next adjacent frame) draws duration and
// layer properties from the target frame. A backward step draws them from
// the current frame, with the easing reversed and the path traversed
// backward. Any other target gets defaults on every layer. Adjacency is
// anchored per anchorLocked, and the current frame is read before the
// in-flight clock is stopped, so a backward step resolved mid-animation
// uses the frame the viewport is visually leaving.
func (p *Player) resolveLocked(target int) (time.Duration, map[int]transitionParams) {
	switch target {
	case p.nextIndexLocked():
		frame := p.pres.Frame(target)
		return frameDuration(frame), frameParams(frame, p.pres.Layers, false)
	case p.previousIndexLocked():
		frame := p.pres.Frame(p.current)
		return frameDuration(frame), frameParams(frame, p.pres.Layers, true)
	default:
		return DefaultTransitionDuration, defaultParams(p.pres.Layers)
	}
}

func frameDuration(f *presentation.Frame) time.Duration {
	return time.Duration(f.TransitionDurationMs) * time.Millisecond
}

// frameParams maps a frame's layer properties to transition parameters.
// For a backward step the easing is the reverse counterpart of the named
// function and the path is flagged for backward traversal.
func frameParams(f *presentation.Frame, layers []int, backward bool) map[int]transitionParams {
	params := make(map[int]transitionParams, len(layers))
	for _, layer := range layers {
		props := f.Properties(layer)

		fn, ok := timing.Lookup(props.TimingFunction)
		if !ok {
			fn = timing.Default()
		}
		if backward {
			fn = fn.Reverse()
		}

		params[layer] = transitionParams{
			timing:       fn,
			relativeZoom: props.RelativeZoom,
			path:         props.Path,
			reverse:      backward,
		}
	}
	return params
}

// armTransitionsLocked replaces the live transition set with one entry per
// layer, targeting the given frame's camera states and starting from each
// camera's committed state.
func (p *Player) armTransitionsLocked(target int, params map[int]transitionParams) {
	frame := p.pres.Frame(target)
	transitions := make([]Transition, 0, len(p.pres.Layers))
	for _, layer := range p.pres.Layers {
		cam := p.vp.Camera(layer)
		tp := params[layer]
		transitions = append(transitions, Transition{
			Camera:       cam,
			Initial:      cam.State(),
			Final:        frame.Cameras[layer],
			Timing:       tp.timing,
			RelativeZoom: tp.relativeZoom,
			Path:         tp.path,
			Reverse:      tp.reverse,
		})
	}
	p.transitions = transitions
}
