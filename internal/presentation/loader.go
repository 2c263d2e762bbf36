package presentation

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"presentation-orchestrator/internal/timing"
	"presentation-orchestrator/internal/viewport"
)

// ErrNoFrames is returned for a document without frames. A presentation
// with zero frames cannot be played; this fails at load rather than at the
// first navigation.
var ErrNoFrames = errors.New("presentation has no frames")

// document is the YAML wire form of a presentation.
type document struct {
	Title  string     `yaml:"title"`
	Frames []frameDoc `yaml:"frames"`
}

type frameDoc struct {
	Name                 string          `yaml:"name"`
	TimeoutEnable        bool            `yaml:"timeout_enable"`
	TimeoutMs            int             `yaml:"timeout_ms"`
	TransitionDurationMs *int            `yaml:"transition_duration_ms"`
	Cameras              []cameraDoc     `yaml:"cameras"`
	LayerProperties      []layerPropsDoc `yaml:"layer_properties"`
}

type cameraDoc struct {
	Layer int      `yaml:"layer"`
	X     float64  `yaml:"x"`
	Y     float64  `yaml:"y"`
	Zoom  *float64 `yaml:"zoom"`
	Angle float64  `yaml:"angle"`
}

type layerPropsDoc struct {
	Layer          int        `yaml:"layer"`
	RelativeZoom   float64    `yaml:"relative_zoom"`
	TimingFunction string     `yaml:"timing_function"`
	Path           []pointDoc `yaml:"path"`
}

type pointDoc struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Load reads and validates a presentation document from path.
func Load(path string) (*Presentation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presentation: %w", err)
	}
	return Parse(data)
}

// Parse validates and converts a YAML presentation document.
func Parse(data []byte) (*Presentation, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse presentation: %w", err)
	}

	if len(doc.Frames) == 0 {
		return nil, ErrNoFrames
	}

	layers, err := collectLayers(doc.Frames)
	if err != nil {
		return nil, err
	}

	p := &Presentation{
		Title:  doc.Title,
		Frames: make([]Frame, 0, len(doc.Frames)),
		Layers: layers,
	}

	for i, fd := range doc.Frames {
		frame, err := convertFrame(i, fd, layers)
		if err != nil {
			return nil, err
		}
		p.Frames = append(p.Frames, frame)
	}

	return p, nil
}

// collectLayers returns the ascending union of camera layers across all
// frames.
func collectLayers(frames []frameDoc) ([]int, error) {
	set := make(map[int]bool)
	for _, fd := range frames {
		for _, cd := range fd.Cameras {
			set[cd.Layer] = true
		}
	}
	if len(set) == 0 {
		return nil, errors.New("presentation frames define no cameras")
	}
	layers := make([]int, 0, len(set))
	for l := range set {
		layers = append(layers, l)
	}
	sort.Ints(layers)
	return layers, nil
}

func convertFrame(index int, fd frameDoc, layers []int) (Frame, error) {
	name := fd.Name
	if name == "" {
		name = fmt.Sprintf("frame-%d", index)
	}

	if fd.TimeoutMs < 0 {
		return Frame{}, fmt.Errorf("frame %q: negative timeout_ms %d", name, fd.TimeoutMs)
	}

	durationMs := DefaultTransitionDurationMs
	if fd.TransitionDurationMs != nil {
		if *fd.TransitionDurationMs < 0 {
			return Frame{}, fmt.Errorf("frame %q: negative transition_duration_ms %d", name, *fd.TransitionDurationMs)
		}
		durationMs = *fd.TransitionDurationMs
	}

	cameras := make(map[int]viewport.CameraState, len(fd.Cameras))
	for _, cd := range fd.Cameras {
		if _, dup := cameras[cd.Layer]; dup {
			return Frame{}, fmt.Errorf("frame %q: duplicate camera for layer %d", name, cd.Layer)
		}
		zoom := 1.0
		if cd.Zoom != nil {
			zoom = *cd.Zoom
		}
		if zoom <= 0 {
			return Frame{}, fmt.Errorf("frame %q: layer %d: zoom must be positive, got %v", name, cd.Layer, zoom)
		}
		cameras[cd.Layer] = viewport.CameraState{X: cd.X, Y: cd.Y, Zoom: zoom, Angle: cd.Angle}
	}
	for _, l := range layers {
		if _, ok := cameras[l]; !ok {
			return Frame{}, fmt.Errorf("frame %q: missing camera for layer %d", name, l)
		}
	}

	props := make(map[int]LayerProperties, len(fd.LayerProperties))
	for _, pd := range fd.LayerProperties {
		if _, known := cameras[pd.Layer]; !known {
			return Frame{}, fmt.Errorf("frame %q: layer_properties for unknown layer %d", name, pd.Layer)
		}
		if _, dup := props[pd.Layer]; dup {
			return Frame{}, fmt.Errorf("frame %q: duplicate layer_properties for layer %d", name, pd.Layer)
		}
		fnName := pd.TimingFunction
		if fnName == "" {
			fnName = "ease"
		}
		if _, ok := timing.Lookup(fnName); !ok {
			return Frame{}, fmt.Errorf("frame %q: layer %d: unknown timing function %q", name, pd.Layer, fnName)
		}
		var path viewport.Path
		for _, pt := range pd.Path {
			path = append(path, viewport.Point{X: pt.X, Y: pt.Y})
		}
		props[pd.Layer] = LayerProperties{
			RelativeZoom:   pd.RelativeZoom,
			TimingFunction: fnName,
			Path:           path,
		}
	}

	return Frame{
		Name:                 name,
		TimeoutEnable:        fd.TimeoutEnable,
		TimeoutMs:            fd.TimeoutMs,
		TransitionDurationMs: durationMs,
		Cameras:              cameras,
		LayerProperties:      props,
	}, nil
}
