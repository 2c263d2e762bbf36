package viewport

import "math"

// Point is a vertex of a transition path polyline.
type Point struct {
	X float64
	Y float64
}

// Path is an ordered list of intermediate waypoints the view center follows
// during a transition. The transition's start and end states supply the
// implicit first and last vertices.
type Path []Point

// withEndpoints returns the full polyline for a transition from one camera
// state to another. Paths are authored for the forward direction of a frame
// pair; reverse walks the waypoints in the opposite order so a backward step
// retraces the same geometry.
func (p Path) withEndpoints(from, to CameraState, reverse bool) Path {
	full := make(Path, 0, len(p)+2)
	full = append(full, Point{X: from.X, Y: from.Y})
	if reverse {
		for i := len(p) - 1; i >= 0; i-- {
			full = append(full, p[i])
		}
	} else {
		full = append(full, p...)
	}
	return append(full, Point{X: to.X, Y: to.Y})
}

// At returns the position at fraction t of the polyline's arc length.
// t is clamped to [0,1]. A path with fewer than two vertices yields its
// single vertex, or the origin when empty.
func (p Path) At(t float64) (x, y float64) {
	switch len(p) {
	case 0:
		return 0, 0
	case 1:
		return p[0].X, p[0].Y
	}
	if t <= 0 {
		return p[0].X, p[0].Y
	}
	if t >= 1 {
		last := p[len(p)-1]
		return last.X, last.Y
	}

	total := 0.0
	segs := make([]float64, len(p)-1)
	for i := 1; i < len(p); i++ {
		segs[i-1] = math.Hypot(p[i].X-p[i-1].X, p[i].Y-p[i-1].Y)
		total += segs[i-1]
	}
	if total == 0 {
		return p[0].X, p[0].Y
	}

	target := t * total
	for i, seg := range segs {
		if target <= seg || i == len(segs)-1 {
			u := 1.0
			if seg > 0 {
				u = target / seg
			}
			return lerp(p[i].X, p[i+1].X, u), lerp(p[i].Y, p[i+1].Y, u)
		}
		target -= seg
	}
	last := p[len(p)-1]
	return last.X, last.Y
}

// zoomArc is the extra zoom factor at eased progress t for a transition with
// the given relative zoom. It is 1 at both endpoints and peaks mid-arc, so
// start and end scale are unaffected. The factor is floored to keep zoom
// positive for relative zooms at or below -1.
func zoomArc(relativeZoom, t float64) float64 {
	f := 1 + relativeZoom*math.Sin(math.Pi*t)
	if f < 1e-3 {
		f = 1e-3
	}
	return f
}
