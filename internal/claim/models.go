package claim

import (
	"errors"
	"time"

	"github.com/dufutao1/EarthLord-sub000/internal/shared/geo"
)

// Sample is one raw position reading from the device location source.
// SpeedMps below zero means the device did not report a speed.
type Sample struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	AccuracyM  float64   `json:"accuracy_m"`
	SpeedMps   float64   `json:"speed_mps"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (s Sample) point() geo.Point {
	return geo.Point{Lat: s.Lat, Lng: s.Lng}
}

// Thresholds bundles every tunable of a claiming session. All values are
// passed in explicitly so tests can vary them.
type Thresholds struct {
	// AccuracyCeilingM drops samples whose reported horizontal accuracy is
	// worse than this.
	AccuracyCeilingM float64

	// JumpCeilingM drops samples further than this from the last accepted
	// point. Such jumps are positioning glitches, not movement.
	JumpCeilingM float64

	// MinPoints, MinLengthM and MinAreaM2 are the floor a path must reach
	// before closure becomes possible.
	MinPoints  int
	MinLengthM float64
	MinAreaM2  float64

	// CloseDistanceM is how near the latest point must be to the path start
	// to count as back at the origin.
	CloseDistanceM float64

	// MinSpacingM suppresses stationary jitter: points closer than this to
	// the previous recorded point are not recorded.
	MinSpacingM float64

	// WarnSpeedMps and StopSpeedMps bound the speed hysteresis band.
	// StopSpeedMps must be greater than WarnSpeedMps.
	WarnSpeedMps float64
	StopSpeedMps float64

	// GracePeriod is how long a player may stay over the warning speed
	// before the session is terminated.
	GracePeriod time.Duration

	// CollisionInterval is the minimum wall-clock gap between periodic
	// territory-collision checks while tracking.
	CollisionInterval time.Duration
}

// DefaultThresholds returns the production game tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AccuracyCeilingM:  50,
		JumpCeilingM:      100,
		MinPoints:         10,
		MinLengthM:        100,
		MinAreaM2:         300,
		CloseDistanceM:    30,
		MinSpacingM:       5,
		WarnSpeedMps:      3.0,  // ~11 km/h, past a brisk walk
		StopSpeedMps:      15.0, // ~54 km/h, unambiguous vehicle use
		GracePeriod:       10 * time.Second,
		CollisionInterval: 10 * time.Second,
	}
}

// Validate checks the internal consistency invariants of the bundle.
func (t Thresholds) Validate() error {
	if t.MinPoints < 4 {
		return errors.New("min points must be at least 4 to form a ring")
	}
	if t.StopSpeedMps <= t.WarnSpeedMps {
		return errors.New("stop speed must exceed warning speed")
	}
	if t.MinSpacingM >= t.CloseDistanceM {
		return errors.New("min spacing must be below closure distance")
	}
	return nil
}

// SessionState is the lifecycle phase of a claiming session.
type SessionState string

const (
	StateTracking SessionState = "tracking"
	StateClosed   SessionState = "closed"
	StateAborted  SessionState = "aborted"
)

// Status is the externally readable snapshot of a session.
type Status struct {
	SessionID     string       `json:"session_id"`
	UserID        string       `json:"user_id"`
	State         SessionState `json:"state"`
	PointCount    int          `json:"point_count"`
	LengthM       float64      `json:"length_m"`
	AreaM2        float64      `json:"area_m2"`
	Closeable     bool         `json:"closeable"`
	SpeedWarning  bool         `json:"speed_warning"`
	CollisionBand Band         `json:"collision_band"`
	StartedAt     time.Time    `json:"started_at"`
}

// ValidatedClaim is the sole artifact of a successful closure. The session
// does not retain it after handoff.
type ValidatedClaim struct {
	SessionID  string      `json:"session_id"`
	UserID     string      `json:"user_id"`
	Polygon    []geo.Point `json:"polygon"`
	AreaM2     float64     `json:"area_m2"`
	PointCount int         `json:"point_count"`
	LengthM    float64     `json:"length_m"`
	StartedAt  time.Time   `json:"started_at"`
	ClosedAt   time.Time   `json:"closed_at"`
}
