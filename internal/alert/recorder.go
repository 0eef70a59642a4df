package alert

import "time"

// Recorder observes engine activity, typically for metrics export.
type Recorder interface {
	Emitted(t Type, sev Severity)
	Suppressed(t Type)
	Cleared(t Type)
	SamplerFailed(family Family)
	ObserverFailed(count int)
	CycleCompleted(d time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) Emitted(Type, Severity) {}
func (noopRecorder) Suppressed(Type) {}
func (noopRecorder) Cleared(Type) {}
func (noopRecorder) SamplerFailed(Family) {}
func (noopRecorder) ObserverFailed(int) {}
func (noopRecorder) CycleCompleted(time.Duration) {}
