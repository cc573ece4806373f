package claim

// Events receives diagnostic notifications from a session. Implementations
// must be fast and non-blocking; they are called with the session lock held.
// All methods are optional in spirit: NopEvents is the default sink.
type Events interface {
	SampleRejected(sessionID string, reason Reason, s Sample)
	PointRecorded(st Status)
	CloseableChanged(st Status)
	SpeedWarning(sessionID string, speedMps float64)
	SessionEnded(st Status)
}

// NopEvents discards every event.
type NopEvents struct{}

func (NopEvents) SampleRejected(string, Reason, Sample) {}
func (NopEvents) PointRecorded(Status)                  {}
func (NopEvents) CloseableChanged(Status)               {}
func (NopEvents) SpeedWarning(string, float64)          {}
func (NopEvents) SessionEnded(Status)                   {}
