package claim

import (
	"context"
	"fmt"
	"sync"

	"github.com/dufutao1/EarthLord-sub000/internal/shared/geo"
)

// Manager owns the active claiming sessions, at most one per player.
// Starting a new session while another is open is rejected; the player must
// cancel the existing one first.
type Manager struct {
	th     Thresholds
	oracle TerritoryOracle
	events Events

	mu       sync.Mutex
	sessions map[string]*Session // session id -> session
	byUser   map[string]string   // user id -> active session id
}

func NewManager(th Thresholds, oracle TerritoryOracle, events Events) (*Manager, error) {
	if err := th.Validate(); err != nil {
		return nil, fmt.Errorf("claim thresholds: %w", err)
	}
	if events == nil {
		events = NopEvents{}
	}
	return &Manager{
		th:       th,
		oracle:   oracle,
		events:   events,
		sessions: map[string]*Session{},
		byUser:   map[string]string{},
	}, nil
}

// Start opens a fresh session for the player. When the caller supplies its
// current position, the territory oracle is consulted first: starting inside
// someone else's territory is rejected before any tracking begins.
func (m *Manager) Start(ctx context.Context, userID string, origin *geo.Point) (Status, error) {
	if origin != nil && m.oracle != nil {
		res, err := m.oracle.CheckPoint(ctx, userID, *origin)
		if err != nil {
			return Status{}, err
		}
		if res.Band == BandViolation {
			return Status{}, &Rejection{Reason: ReasonCollision, TerritoryID: res.TerritoryID}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byUser[userID]; ok {
		if sess := m.sessions[id]; sess != nil && !sess.terminal() {
			return Status{}, ErrSessionActive
		}
		delete(m.sessions, id)
		delete(m.byUser, userID)
	}

	sess := newSession(userID, m.th, m.oracle, m.events)
	m.sessions[sess.ID()] = sess
	m.byUser[userID] = sess.ID()
	return sess.Status(), nil
}

func (m *Manager) get(sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// release frees the player's session slot once the session reached a
// terminal state.
func (m *Manager) release(sess *Session) {
	if !sess.terminal() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sess.ID())
	if m.byUser[sess.UserID()] == sess.ID() {
		delete(m.byUser, sess.UserID())
	}
}

// Status returns the readable state of a session.
func (m *Manager) Status(sessionID string) (Status, error) {
	sess, err := m.get(sessionID)
	if err != nil {
		return Status{}, err
	}
	return sess.Status(), nil
}

// Ingest forwards one sample to the session. Terminal outcomes free the
// player's slot.
func (m *Manager) Ingest(sessionID string, sample Sample) (Status, error) {
	sess, err := m.get(sessionID)
	if err != nil {
		return Status{}, err
	}
	st, err := sess.Ingest(sample)
	m.release(sess)
	return st, err
}

// Confirm runs closure validation; on success the session is finished and
// removed.
func (m *Manager) Confirm(sessionID string) (ValidatedClaim, error) {
	sess, err := m.get(sessionID)
	if err != nil {
		return ValidatedClaim{}, err
	}
	vc, err := sess.Confirm()
	m.release(sess)
	return vc, err
}

// Tick runs the interval collision check for a session.
func (m *Manager) Tick(ctx context.Context, sessionID string) (Band, error) {
	sess, err := m.get(sessionID)
	if err != nil {
		return BandNone, err
	}
	band, err := sess.Tick(ctx)
	m.release(sess)
	return band, err
}

// Cancel abandons a session and discards its path.
func (m *Manager) Cancel(sessionID string) error {
	sess, err := m.get(sessionID)
	if err != nil {
		return err
	}
	sess.Cancel()
	m.release(sess)
	return nil
}
