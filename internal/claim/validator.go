package claim

import "github.com/dufutao1/EarthLord-sub000/internal/shared/geo"

// Seam skip window for self-intersection. The first and last segments of a
// finished loop necessarily meet near the start point, so comparisons where
// both segments fall inside the head and tail windows are skipped.
const (
	seamSkipHead = 2
	seamSkipTail = 2
)

// SelfIntersectionDetector tests every pair of non-adjacent path segments
// for crossing. O(n²), so it runs once per closure confirmation, never per
// sample.
type SelfIntersectionDetector struct {
	HeadSkip int
	TailSkip int
}

// NewSelfIntersectionDetector returns a detector with the production seam
// window.
func NewSelfIntersectionDetector() SelfIntersectionDetector {
	return SelfIntersectionDetector{HeadSkip: seamSkipHead, TailSkip: seamSkipTail}
}

// Detect returns the indices of the first crossing segment pair found, or
// found=false for a simple path. Paths below 4 points cannot cross.
func (d SelfIntersectionDetector) Detect(points []geo.Point) (segA, segB int, found bool) {
	if len(points) < 4 {
		return 0, 0, false
	}

	segs := len(points) - 1
	for i := 0; i < segs-2; i++ {
		// j starts at i+2: adjacent segments share an endpoint and always
		// "cross" there.
		for j := i + 2; j < segs; j++ {
			if i < d.HeadSkip && j >= segs-d.TailSkip {
				continue
			}
			if geo.SegmentsCross(points[i], points[i+1], points[j], points[j+1]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// ClaimValidator orchestrates the confirm-time checks: re-validates the
// closeability floor, runs the self-intersection sweep, and computes the
// final area. Any rejection leaves the path open so the player can keep
// walking.
type ClaimValidator struct {
	th       Thresholds
	detector SelfIntersectionDetector
	eval     ClosureEvaluator
}

// Validate judges a path snapshot. On success it returns the final polygon
// area; the caller is responsible for the one-way closed transition.
func (v ClaimValidator) Validate(points []geo.Point, lengthM float64) (areaM2 float64, rej *Rejection) {
	// State can change between the closeable flag going up and the player
	// tapping confirm, so the floor is re-checked on the snapshot.
	if rej := v.eval.Evaluate(points, lengthM); rej != nil {
		return 0, rej
	}

	if a, b, crossed := v.detector.Detect(points); crossed {
		return 0, &Rejection{Reason: ReasonSelfIntersect, SegmentA: a, SegmentB: b}
	}

	area := geo.PolygonAreaM2(points)
	if area < v.th.MinAreaM2 {
		return 0, &Rejection{
			Reason:   ReasonAreaTooSmall,
			Measured: area,
			Required: v.th.MinAreaM2,
		}
	}
	return area, nil
}
