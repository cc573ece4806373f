package claim

import (
	"context"
	"sync"
	"time"

	"github.com/dufutao1/EarthLord-sub000/internal/shared/geo"

	"github.com/google/uuid"
)

// Session folds one player's sample stream into a candidate territory
// polygon. All mutation is serialized by a single mutex; geometry heavier
// than O(n) runs on snapshots outside the lock so incoming samples are never
// blocked behind an O(n²) sweep.
//
// Confirmation validates the path as it was at the instant Confirm was
// invoked; once the session is marked closed, later samples are rejected
// with ErrSessionClosed.
type Session struct {
	id        string
	userID    string
	th        Thresholds
	startedAt time.Time

	events Events
	oracle TerritoryOracle

	mu            sync.Mutex
	state         SessionState
	recorder      PathRecorder
	filter        SampleFilter
	guard         SpeedGuard
	eval          ClosureEvaluator
	validator     ClaimValidator
	closeable     bool
	lastRejection *Rejection
	collisionBand Band
	lastCheck     time.Time
}

func newSession(userID string, th Thresholds, oracle TerritoryOracle, events Events) *Session {
	if events == nil {
		events = NopEvents{}
	}
	return &Session{
		id:        uuid.NewString(),
		userID:    userID,
		th:        th,
		startedAt: time.Now(),
		events:    events,
		oracle:    oracle,
		state:     StateTracking,
		filter:    SampleFilter{th: th},
		guard:     SpeedGuard{th: th},
		eval:      ClosureEvaluator{th: th},
		validator: ClaimValidator{
			th:       th,
			detector: NewSelfIntersectionDetector(),
			eval:     ClosureEvaluator{th: th},
		},
		collisionBand: BandNone,
	}
}

func (s *Session) ID() string     { return s.id }
func (s *Session) UserID() string { return s.userID }

// Status returns a readable snapshot of the session, including a live
// open-polygon area estimate.
func (s *Session) Status() Status {
	s.mu.Lock()
	st := s.statusLocked()
	snapshot := s.recorder.Snapshot()
	s.mu.Unlock()

	st.AreaM2 = geo.PolygonAreaM2(snapshot)
	return st
}

func (s *Session) statusLocked() Status {
	return Status{
		SessionID:     s.id,
		UserID:        s.userID,
		State:         s.state,
		PointCount:    s.recorder.Count(),
		LengthM:       s.recorder.LengthM(),
		Closeable:     s.closeable,
		SpeedWarning:  s.guard.Warning(),
		CollisionBand: s.collisionBand,
		StartedAt:     s.startedAt,
	}
}

// Ingest applies one sample in arrival order. Sample-level drops (accuracy,
// jump, jitter) are absorbed silently; a speed violation terminates the
// session and is returned as a *Rejection error.
func (s *Session) Ingest(sample Sample) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateClosed:
		return s.statusLocked(), ErrSessionClosed
	case StateAborted:
		return s.statusLocked(), ErrSessionNotActive
	}

	var prev *geo.Point
	if p, ok := s.recorder.Last(); ok {
		prev = &p
	}
	if reason := s.filter.Check(prev, sample); reason != "" {
		s.events.SampleRejected(s.id, reason, sample)
		return s.statusLocked(), nil
	}

	verdict, speed := s.guard.Check(sample)
	switch verdict {
	case SpeedStop:
		s.state = StateAborted
		s.events.SessionEnded(s.statusLocked())
		// A grace-period escalation stops the session at warn-band speed;
		// report the threshold that was actually exceeded.
		required := s.th.StopSpeedMps
		if speed <= s.th.StopSpeedMps {
			required = s.th.WarnSpeedMps
		}
		return s.statusLocked(), &Rejection{Reason: ReasonSpeedViolation, Measured: speed, Required: required}
	case SpeedWarning:
		s.events.SpeedWarning(s.id, speed)
	}

	recorded, err := s.recorder.Append(sample.point(), s.th.MinSpacingM)
	if err != nil {
		return s.statusLocked(), err
	}
	if !recorded {
		// Jitter drop: no state changed, no re-check.
		return s.statusLocked(), nil
	}

	s.reevaluateLocked()
	s.events.PointRecorded(s.statusLocked())
	return s.statusLocked(), nil
}

// reevaluateLocked refreshes the advisory closeable flag after a recorded
// point. Re-entering the closeable region after leaving it simply re-raises
// the flag.
func (s *Session) reevaluateLocked() {
	rej := s.eval.Evaluate(s.recorder.Snapshot(), s.recorder.LengthM())
	closeable := rej == nil
	s.lastRejection = rej
	if closeable != s.closeable {
		s.closeable = closeable
		s.events.CloseableChanged(s.statusLocked())
	}
}

// Confirm is the explicit closure action. It validates the path snapshot
// taken at invocation; any rejection leaves the path open and the session
// tracking. Success marks the session closed, one-way.
func (s *Session) Confirm() (ValidatedClaim, error) {
	s.mu.Lock()
	switch s.state {
	case StateClosed:
		s.mu.Unlock()
		return ValidatedClaim{}, ErrSessionClosed
	case StateAborted:
		s.mu.Unlock()
		return ValidatedClaim{}, ErrSessionNotActive
	}

	if !s.closeable {
		// The caller already knows why from the last closure re-check; do
		// not re-derive.
		rej := s.lastRejection
		if rej == nil {
			rej = &Rejection{Reason: ReasonNotCloseable}
		}
		s.mu.Unlock()
		return ValidatedClaim{}, rej
	}

	snapshot := s.recorder.Snapshot()
	lengthM := s.recorder.LengthM()
	s.mu.Unlock()

	// O(n²) sweep runs outside the lock.
	area, rej := s.validator.Validate(snapshot, lengthM)
	if rej != nil {
		return ValidatedClaim{}, rej
	}

	s.mu.Lock()
	if s.state != StateTracking {
		err := ErrSessionNotActive
		if s.state == StateClosed {
			err = ErrSessionClosed
		}
		s.mu.Unlock()
		return ValidatedClaim{}, err
	}
	s.recorder.Close()
	s.state = StateClosed
	s.events.SessionEnded(s.statusLocked())
	s.mu.Unlock()

	return ValidatedClaim{
		SessionID:  s.id,
		UserID:     s.userID,
		Polygon:    snapshot,
		AreaM2:     area,
		PointCount: len(snapshot),
		LengthM:    lengthM,
		StartedAt:  s.startedAt,
		ClosedAt:   time.Now(),
	}, nil
}

// Tick runs the periodic territory-collision check. The caller drives the
// cadence; ticks arriving before the configured interval has elapsed are
// no-ops. A hard violation terminates the session.
func (s *Session) Tick(ctx context.Context) (Band, error) {
	s.mu.Lock()
	if s.state != StateTracking {
		band := s.collisionBand
		s.mu.Unlock()
		return band, ErrSessionNotActive
	}
	if s.oracle == nil {
		s.mu.Unlock()
		return BandNone, nil
	}
	now := time.Now()
	if s.th.CollisionInterval > 0 && now.Sub(s.lastCheck) < s.th.CollisionInterval {
		band := s.collisionBand
		s.mu.Unlock()
		return band, nil
	}
	s.lastCheck = now
	snapshot := s.recorder.Snapshot()
	s.mu.Unlock()

	var res CollisionResult
	var err error
	if len(snapshot) >= 2 {
		res, err = s.oracle.CheckPath(ctx, s.userID, snapshot)
	} else if len(snapshot) == 1 {
		res, err = s.oracle.CheckPoint(ctx, s.userID, snapshot[0])
	} else {
		return BandNone, nil
	}
	if err != nil {
		return BandNone, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateTracking {
		return s.collisionBand, nil
	}
	s.collisionBand = res.Band
	if res.Band == BandViolation {
		s.state = StateAborted
		s.events.SessionEnded(s.statusLocked())
		return res.Band, &Rejection{Reason: ReasonCollision, TerritoryID: res.TerritoryID}
	}
	return res.Band, nil
}

// Cancel discards the path and moves the session to its terminal aborted
// state. Already-terminal sessions are left as they are.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateTracking {
		return
	}
	s.recorder.Reset()
	s.closeable = false
	s.state = StateAborted
	s.events.SessionEnded(s.statusLocked())
}

func (s *Session) terminal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != StateTracking
}
