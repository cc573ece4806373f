package stream

import (
	"encoding/json"

	"github.com/dufutao1/EarthLord-sub000/internal/claim"
)

// ClaimEvents forwards session notifications to websocket subscribers as
// JSON frames keyed by session id. It implements claim.Events.
type ClaimEvents struct {
	hub *Hub
}

func NewClaimEvents(hub *Hub) *ClaimEvents {
	return &ClaimEvents{hub: hub}
}

type eventFrame struct {
	Type     string        `json:"type"`
	Reason   claim.Reason  `json:"reason,omitempty"`
	Sample   *claim.Sample `json:"sample,omitempty"`
	SpeedMps float64       `json:"speed_mps,omitempty"`
	Status   *claim.Status `json:"status,omitempty"`
}

func (e *ClaimEvents) SampleRejected(sessionID string, reason claim.Reason, s claim.Sample) {
	e.send(sessionID, eventFrame{Type: "sample_rejected", Reason: reason, Sample: &s})
}

func (e *ClaimEvents) PointRecorded(st claim.Status) {
	e.send(st.SessionID, eventFrame{Type: "point_recorded", Status: &st})
}

func (e *ClaimEvents) CloseableChanged(st claim.Status) {
	e.send(st.SessionID, eventFrame{Type: "closeable_changed", Status: &st})
}

func (e *ClaimEvents) SpeedWarning(sessionID string, speedMps float64) {
	e.send(sessionID, eventFrame{Type: "speed_warning", SpeedMps: speedMps})
}

func (e *ClaimEvents) SessionEnded(st claim.Status) {
	e.send(st.SessionID, eventFrame{Type: "session_ended", Status: &st})
}

func (e *ClaimEvents) send(sessionID string, frame eventFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	e.hub.Broadcast(sessionID, payload)
}
