// Package progress provides ProgressSink implementations that do not
// render to a terminal: a no-op sink, a structured-log sink, a recording
// sink for tests and a fan-out.
package progress

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/trinity-method/trinity-sdk/pkg/types"
)

type nop struct{}

func (nop) Emit(types.ProgressEvent) {}

// Nop discards every event.
var Nop types.ProgressSink = nop{}

// LogSink writes events to a zerolog logger.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a sink logging to logger.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit logs the event at a level derived from its kind and severity.
func (s *LogSink) Emit(event types.ProgressEvent) {
	var e *zerolog.Event
	switch {
	case event.Kind != types.EventPhaseFailed:
		e = s.logger.Debug()
	case event.Severity == types.SeverityWarning:
		e = s.logger.Warn()
	case event.Severity == types.SeverityCritical:
		e = s.logger.Error().Bool("critical", true)
	default:
		e = s.logger.Error()
	}
	e = e.Str("phase", event.Phase.String()).Str("event", string(event.Kind))
	if event.Count > 0 {
		e = e.Int("count", event.Count)
	}
	e.Msg(event.Message)
}

// Recorder keeps every event. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []types.ProgressEvent
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(event types.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []types.ProgressEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.ProgressEvent(nil), r.events...)
}

// Phases returns the phases of events of kind, in emission order.
func (r *Recorder) Phases(kind types.EventKind) []types.Phase {
	var phases []types.Phase
	for _, e := range r.Events() {
		if e.Kind == kind {
			phases = append(phases, e.Phase)
		}
	}
	return phases
}

// Failures returns the failure events.
func (r *Recorder) Failures() []types.ProgressEvent {
	var out []types.ProgressEvent
	for _, e := range r.Events() {
		if e.Kind == types.EventPhaseFailed {
			out = append(out, e)
		}
	}
	return out
}

type multi []types.ProgressSink

func (m multi) Emit(event types.ProgressEvent) {
	for _, sink := range m {
		sink.Emit(event)
	}
}

// Multi forwards each event to every non-nil sink, in order.
func Multi(sinks ...types.ProgressSink) types.ProgressSink {
	var out multi
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
