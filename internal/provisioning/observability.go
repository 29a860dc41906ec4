package provisioning

import (
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	// Printf logs a free-form message
	Printf(format string, v ...any)

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress for a phase
	Progress(phase string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "addons", "teams")
	Message   string            // Human-readable message
	Resource  string            // Add-on ID or team name if applicable
	Err       error             // Cause of a failure event
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventAddOnDispatched indicates an add-on's deploy was issued.
	EventAddOnDispatched EventType = "addon.dispatched"
	// EventAddOnMaterialized indicates an add-on's pending result resolved.
	EventAddOnMaterialized EventType = "addon.materialized"
	// EventAddOnFailed indicates an add-on failed to deploy or materialize.
	EventAddOnFailed EventType = "addon.failed"

	// EventTeamSetup indicates a team is being set up.
	EventTeamSetup EventType = "team.setup"
	// EventHookRun indicates a post-deploy hook is running.
	EventHookRun EventType = "hook.run"

	// EventValidationWarning indicates a validation warning.
	EventValidationWarning EventType = "validation.warning"

	// EventProgress indicates progress in a long-running operation.
	EventProgress EventType = "progress"
)

// IsFailure reports whether the event type records a failure.
func (t EventType) IsFailure() bool {
	return t == EventPhaseFailed || t == EventAddOnFailed
}

// LogObserver implements Observer on top of a logr.Logger.
// Failure events are logged as errors, dispatch and progress events at V(1).
type LogObserver struct {
	log logr.Logger
}

// NewLogObserver creates an observer writing to log.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{log: log}
}

// Printf implements Observer.
func (o *LogObserver) Printf(format string, v ...any) {
	o.log.Info(fmt.Sprintf(format, v...))
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	kv := []any{"event", string(event.Type)}
	if event.Phase != "" {
		kv = append(kv, "phase", event.Phase)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	kv = append(kv, sortedKeysAndValues(event.Fields)...)

	switch {
	case event.Type.IsFailure():
		o.log.Error(event.Err, event.Message, kv...)
	case event.Type == EventAddOnDispatched || event.Type == EventProgress:
		o.log.V(1).Info(event.Message, kv...)
	default:
		o.log.Info(event.Message, kv...)
	}
}

// Progress implements Observer.
func (o *LogObserver) Progress(phase string, current, total int) {
	kv := []any{"event", string(EventProgress), "phase", phase, "current", current, "total", total}
	if total > 0 {
		kv = append(kv, "percent", (current*100)/total)
	}
	o.log.V(1).Info("progress", kv...)
}

// WithFields implements Observer.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	return &LogObserver{log: o.log.WithValues(sortedKeysAndValues(fields)...)}
}

func sortedKeysAndValues(fields map[string]string) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kv := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return kv
}

// RecordingObserver keeps every event in memory. It backs the deployment
// summary printed by the CLI and is handy in tests.
type RecordingObserver struct {
	next   Observer
	fields map[string]string
	log    *eventLog
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

// NewRecordingObserver records events and forwards them to next, if set.
func NewRecordingObserver(next Observer) *RecordingObserver {
	return &RecordingObserver{next: next, fields: map[string]string{}, log: &eventLog{}}
}

// Printf implements Observer.
func (o *RecordingObserver) Printf(format string, v ...any) {
	if o.next != nil {
		o.next.Printf(format, v...)
	}
}

// Event implements Observer.
func (o *RecordingObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Fields = mergeFields(o.fields, event.Fields)
	o.log.mu.Lock()
	o.log.events = append(o.log.events, event)
	o.log.mu.Unlock()
	if o.next != nil {
		o.next.Event(event)
	}
}

// Progress implements Observer.
func (o *RecordingObserver) Progress(phase string, current, total int) {
	if o.next != nil {
		o.next.Progress(phase, current, total)
	}
}

// WithFields implements Observer. The returned observer shares the event log.
func (o *RecordingObserver) WithFields(fields map[string]string) Observer {
	merged := mergeFields(o.fields, fields)
	var next Observer
	if o.next != nil {
		next = o.next.WithFields(fields)
	}
	return &RecordingObserver{next: next, fields: merged, log: o.log}
}

func mergeFields(base, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(extra))
	maps.Copy(merged, base)
	maps.Copy(merged, extra)
	return merged
}

// Events returns the recorded events in emission order.
func (o *RecordingObserver) Events() []Event {
	o.log.mu.Lock()
	defer o.log.mu.Unlock()
	return append([]Event(nil), o.log.events...)
}

// EventsOfType returns the recorded events of type t.
func (o *RecordingObserver) EventsOfType(t EventType) []Event {
	var out []Event
	for _, e := range o.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: "failed",
		Err:     err,
	})
}

// LogAddOnDispatched logs that an add-on's deploy was issued.
func LogAddOnDispatched(observer Observer, id string, pending, hook bool) {
	observer.Event(Event{
		Type:     EventAddOnDispatched,
		Phase:    addOnPhaseName,
		Resource: id,
		Message:  "deploy issued",
		Fields: map[string]string{
			"pending": fmt.Sprint(pending),
			"hook":    fmt.Sprint(hook),
		},
	})
}

// LogAddOnMaterialized logs a resolved add-on.
func LogAddOnMaterialized(observer Observer, id string) {
	observer.Event(Event{
		Type:     EventAddOnMaterialized,
		Phase:    addOnPhaseName,
		Resource: id,
		Message:  "materialized",
	})
}

// LogAddOnFailed logs a failed add-on.
func LogAddOnFailed(observer Observer, id string, err error) {
	observer.Event(Event{
		Type:     EventAddOnFailed,
		Phase:    addOnPhaseName,
		Resource: id,
		Message:  "failed to materialize",
		Err:      err,
	})
}

// LogValidationWarning logs a non-fatal configuration issue.
func LogValidationWarning(observer Observer, field, message string) {
	observer.Event(Event{
		Type:     EventValidationWarning,
		Phase:    validationPhaseName,
		Resource: field,
		Message:  message,
	})
}
