package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventTutorialLoad    EventType = "tutorial_load"
	EventStepEnter       EventType = "step_enter"
	EventStepLeave       EventType = "step_leave"
	EventTutorialDismiss EventType = "tutorial_dismiss"
	EventTutorialReset   EventType = "tutorial_reset"
	EventTutorialRestore EventType = "tutorial_restore"
)

// Event describes a committed store mutation.
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	Type       EventType `json:"type"`
	TutorialID string    `json:"tutorial_id"`
	StepID     string    `json:"step_id,omitempty"`
}

// LifecycleHooks defines callbacks for store observability.
// Hooks run after a mutation is committed and before observers are notified.
type LifecycleHooks struct {
	OnLoad      func(*Event)
	OnStepEnter func(*Event)
	OnStepLeave func(*Event)
	OnDismiss   func(*Event)
	OnReset     func(*Event)
}

// Fire dispatches an event to the matching hook, if any.
func (h LifecycleHooks) Fire(e *Event) {
	var fn func(*Event)
	switch e.Type {
	case EventTutorialLoad, EventTutorialRestore:
		fn = h.OnLoad
	case EventStepEnter:
		fn = h.OnStepEnter
	case EventStepLeave:
		fn = h.OnStepLeave
	case EventTutorialDismiss:
		fn = h.OnDismiss
	case EventTutorialReset:
		fn = h.OnReset
	}
	if fn != nil {
		fn(e)
	}
}
