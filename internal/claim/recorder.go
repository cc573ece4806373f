package claim

import "github.com/dufutao1/EarthLord-sub000/internal/shared/geo"

// PathRecorder owns the ordered sequence of accepted points for the
// in-progress claim and its cached cumulative length. Appends must already be
// serialized by the session; the recorder itself does no locking.
type PathRecorder struct {
	points  []geo.Point
	lengthM float64
	closed  bool
}

// Append records p unless it sits within minSpacing of the previous point
// (stationary jitter). Jitter drops do not mutate any state, not even with a
// zero-distance length addition. Returns whether the point was recorded.
func (r *PathRecorder) Append(p geo.Point, minSpacingM float64) (bool, error) {
	if r.closed {
		return false, ErrSessionClosed
	}
	if n := len(r.points); n > 0 {
		d := geo.DistanceM(r.points[n-1], p)
		if d < minSpacingM {
			return false, nil
		}
		r.lengthM += d
	}
	r.points = append(r.points, p)
	return true, nil
}

// Snapshot returns a copy of the point sequence safe to hand to geometry
// routines while further appends happen.
func (r *PathRecorder) Snapshot() []geo.Point {
	out := make([]geo.Point, len(r.points))
	copy(out, r.points)
	return out
}

func (r *PathRecorder) Count() int       { return len(r.points) }
func (r *PathRecorder) LengthM() float64 { return r.lengthM }
func (r *PathRecorder) Closed() bool     { return r.closed }

// First returns the path origin.
func (r *PathRecorder) First() (geo.Point, bool) {
	if len(r.points) == 0 {
		return geo.Point{}, false
	}
	return r.points[0], true
}

// Last returns the most recently recorded point.
func (r *PathRecorder) Last() (geo.Point, bool) {
	if len(r.points) == 0 {
		return geo.Point{}, false
	}
	return r.points[len(r.points)-1], true
}

// Close marks the path permanently closed. One-way: a new claim needs a new
// recorder.
func (r *PathRecorder) Close() {
	r.closed = true
}

// Reset discards everything and returns the recorder to its initial state.
func (r *PathRecorder) Reset() {
	r.points = nil
	r.lengthM = 0
	r.closed = false
}
