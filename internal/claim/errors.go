package claim

import (
	"errors"
	"fmt"
)

// Sequencing errors. These mean the caller broke the session contract, as
// opposed to the gameplay rejections below.
var (
	ErrSessionClosed    = errors.New("session already closed")
	ErrSessionNotActive = errors.New("session is not active")
	ErrSessionActive    = errors.New("player already has an active session")
	ErrSessionNotFound  = errors.New("session not found")
)

// Reason tags a gameplay rejection.
type Reason string

const (
	ReasonLowAccuracy     Reason = "low_accuracy"
	ReasonImplausibleJump Reason = "implausible_jump"
	ReasonSpeedViolation  Reason = "speed_violation"
	ReasonNotCloseable    Reason = "not_closeable"
	ReasonSelfIntersect   Reason = "self_intersecting"
	ReasonAreaTooSmall    Reason = "area_too_small"
	ReasonCollision       Reason = "collision_violation"
)

// Rejection is a typed gameplay failure. It carries enough detail for
// user-facing messaging; rendering is the caller's concern.
type Rejection struct {
	Reason Reason `json:"reason"`

	// Condition names the first closeability check that failed, for
	// not_closeable rejections.
	Condition string  `json:"condition,omitempty"`
	Measured  float64 `json:"measured,omitempty"`
	Required  float64 `json:"required,omitempty"`

	// SegmentA/SegmentB are the crossing segment indices, for
	// self_intersecting rejections.
	SegmentA int `json:"segment_a,omitempty"`
	SegmentB int `json:"segment_b,omitempty"`

	// TerritoryID identifies the territory hit, for collision rejections.
	TerritoryID string `json:"territory_id,omitempty"`
}

func (r *Rejection) Error() string {
	if r.Condition != "" {
		return fmt.Sprintf("claim rejected: %s (%s: %.1f, need %.1f)", r.Reason, r.Condition, r.Measured, r.Required)
	}
	return fmt.Sprintf("claim rejected: %s", r.Reason)
}

// AsRejection unwraps err into a *Rejection if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
