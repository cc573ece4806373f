package claim

import (
	"time"

	"github.com/dufutao1/EarthLord-sub000/internal/shared/geo"
)

// SpeedVerdict classifies one sample's movement speed.
type SpeedVerdict int

const (
	// SpeedOK: record the point, nothing to surface.
	SpeedOK SpeedVerdict = iota
	// SpeedWarning: record the point, surface a warning to the player.
	SpeedWarning
	// SpeedStop: terminate the session, no further points.
	SpeedStop
)

// SpeedGuard classifies movement speed between consecutive accepted samples
// with hysteresis: GPS noise produces single-sample speed spikes, so only
// sustained or extreme excess is punished. Speeds inside the warning band
// start a grace timer; the session is stopped only once the timer outlasts
// the grace period, or the speed exceeds the hard stop threshold.
type SpeedGuard struct {
	th       Thresholds
	last     *Sample
	warning  bool
	warnedAt time.Time
}

// Reset clears all per-session speed state.
func (g *SpeedGuard) Reset() {
	g.last = nil
	g.warning = false
	g.warnedAt = time.Time{}
}

// Warning reports whether the guard is currently inside the warning band.
func (g *SpeedGuard) Warning() bool {
	return g.warning
}

// Check classifies the sample and returns the speed it measured. Verdicts OK
// and Warning both advance the guard; Stop leaves it untouched since the
// session is over.
func (g *SpeedGuard) Check(s Sample) (SpeedVerdict, float64) {
	speed, ok := g.measure(s)
	if !ok {
		// Zero elapsed time between samples: no speed update possible.
		return SpeedOK, 0
	}

	switch {
	case speed <= g.th.WarnSpeedMps:
		g.warning = false
		g.warnedAt = time.Time{}
	case speed <= g.th.StopSpeedMps:
		if !g.warning {
			g.warning = true
			g.warnedAt = s.RecordedAt
		} else if s.RecordedAt.Sub(g.warnedAt) > g.th.GracePeriod {
			return SpeedStop, speed
		}
		g.last = &s
		return SpeedWarning, speed
	default:
		return SpeedStop, speed
	}

	g.last = &s
	return SpeedOK, speed
}

// measure uses the sample's reported speed when valid, otherwise derives it
// from distance over elapsed time since the last accepted sample.
func (g *SpeedGuard) measure(s Sample) (float64, bool) {
	if s.SpeedMps >= 0 {
		return s.SpeedMps, true
	}
	if g.last == nil {
		return 0, true
	}
	elapsed := s.RecordedAt.Sub(g.last.RecordedAt).Seconds()
	if elapsed <= 0 {
		return 0, false
	}
	return geo.DistanceM(g.last.point(), s.point()) / elapsed, true
}
