package types

// EventKind distinguishes the three progress event types.
type EventKind string

const (
	EventPhaseEntered   EventKind = "enter"
	EventPhaseSucceeded EventKind = "success"
	EventPhaseFailed    EventKind = "failure"
)

// Severity qualifies a failure event. A warning never fails the run.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// ProgressEvent is a structured phase notification.
type ProgressEvent struct {
	Kind     EventKind
	Phase    Phase
	Count    int
	Message  string
	Severity Severity
}
