package domain

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// StepMap maps step IDs to steps, iterating in first-insertion order.
type StepMap = orderedmap.OrderedMap[string, Step]

// State is the authoritative snapshot of a loaded tutorial.
type State struct {
	// TutorialID identifies which step graph is loaded.
	TutorialID string `json:"tutorial_id"`

	// Steps holds the step graph. Re-inserting an ID replaces its value but
	// keeps the position of the first occurrence.
	Steps *StepMap `json:"steps"`

	// CurrentStepID points into Steps. Empty means no active step.
	CurrentStepID string `json:"current_step_id,omitempty"`

	// Visible is the display flag, independent of whether a step is active.
	Visible bool `json:"visible"`
}

// NewState builds a visible state from an ordered list of steps.
// Duplicate IDs are resolved by last write wins.
func NewState(tutorialID string, steps []Step) *State {
	m := orderedmap.New[string, Step]()
	for _, s := range steps {
		m.Set(s.ID, s)
	}
	return &State{
		TutorialID: tutorialID,
		Steps:      m,
		Visible:    true,
	}
}

// Step looks up a step by ID.
func (s *State) Step(id string) (Step, bool) {
	if s == nil || s.Steps == nil || id == "" {
		return Step{}, false
	}
	return s.Steps.Get(id)
}

// CurrentStep resolves the current pointer. It returns false when no step is
// active or when the pointer dangles.
func (s *State) CurrentStep() (Step, bool) {
	if s == nil {
		return Step{}, false
	}
	return s.Step(s.CurrentStepID)
}

// FirstStepID returns the first key of the step map, or "" when it is empty.
func (s *State) FirstStepID() string {
	if s == nil || s.Steps == nil {
		return ""
	}
	if p := s.Steps.Oldest(); p != nil {
		return p.Key
	}
	return ""
}

// StepIDs lists the step IDs in iteration order.
func (s *State) StepIDs() []string {
	if s == nil || s.Steps == nil {
		return nil
	}
	ids := make([]string, 0, s.Steps.Len())
	for p := s.Steps.Oldest(); p != nil; p = p.Next() {
		ids = append(ids, p.Key)
	}
	return ids
}

// Snapshot returns a deep copy of the state, safe to hand to observers.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Steps = orderedmap.New[string, Step]()
	if s.Steps != nil {
		for p := s.Steps.Oldest(); p != nil; p = p.Next() {
			cp.Steps.Set(p.Key, p.Value)
		}
	}
	return &cp
}
