package claim

import "github.com/dufutao1/EarthLord-sub000/internal/shared/geo"

// Closeability condition names, in evaluation order.
const (
	CondPointCount    = "point_count"
	CondLength        = "length"
	CondArea          = "area"
	CondStartDistance = "start_distance"
)

// ClosureEvaluator decides whether a path currently satisfies every condition
// for manual closure. It never closes anything itself; the result is purely
// advisory state surfaced to the player.
type ClosureEvaluator struct {
	th Thresholds
}

// Evaluate runs the checks in fixed order and short-circuits on the first
// failure, returning it as a not_closeable rejection. A nil rejection means
// the path is closeable. Evaluating the same snapshot twice yields the same
// answer.
func (e ClosureEvaluator) Evaluate(points []geo.Point, lengthM float64) *Rejection {
	if len(points) < e.th.MinPoints {
		return &Rejection{
			Reason:    ReasonNotCloseable,
			Condition: CondPointCount,
			Measured:  float64(len(points)),
			Required:  float64(e.th.MinPoints),
		}
	}
	if lengthM < e.th.MinLengthM {
		return &Rejection{
			Reason:    ReasonNotCloseable,
			Condition: CondLength,
			Measured:  lengthM,
			Required:  e.th.MinLengthM,
		}
	}
	if area := geo.PolygonAreaM2(points); area < e.th.MinAreaM2 {
		return &Rejection{
			Reason:    ReasonNotCloseable,
			Condition: CondArea,
			Measured:  area,
			Required:  e.th.MinAreaM2,
		}
	}
	if d := geo.DistanceM(points[len(points)-1], points[0]); d > e.th.CloseDistanceM {
		return &Rejection{
			Reason:    ReasonNotCloseable,
			Condition: CondStartDistance,
			Measured:  d,
			Required:  e.th.CloseDistanceM,
		}
	}
	return nil
}
