package claim

import "github.com/dufutao1/EarthLord-sub000/internal/shared/geo"

// SampleFilter rejects individual samples that are low-accuracy or represent
// an implausible jump from the last accepted point. It holds no state of its
// own; the previous point is owned by the recorder and passed in.
type SampleFilter struct {
	th Thresholds
}

// Check returns the zero Reason when the sample is acceptable. Rejected
// samples are dropped silently by the caller; the reason is only for
// diagnostics.
func (f SampleFilter) Check(prev *geo.Point, s Sample) Reason {
	if s.AccuracyM > f.th.AccuracyCeilingM {
		return ReasonLowAccuracy
	}
	if prev != nil && geo.DistanceM(*prev, s.point()) > f.th.JumpCeilingM {
		return ReasonImplausibleJump
	}
	return ""
}
