package dsl

import "github.com/oolestudio/tamashi/pkg/domain"

// StepBuilder provides a fluent API for configuring a step.
type StepBuilder struct {
	step domain.Step
}

// Say sets the message of the step.
func (s *StepBuilder) Say(text string) *StepBuilder {
	s.step.Text = text
	return s
}

// Next links the step to its successor.
func (s *StepBuilder) Next(id string) *StepBuilder {
	s.step.NextStepID = id
	return s
}

// Terminal marks the step as the last one.
func (s *StepBuilder) Terminal() *StepBuilder {
	s.step.NextStepID = ""
	return s
}

// Speaker overrides the persona name for this step only.
func (s *StepBuilder) Speaker(name string) *StepBuilder {
	s.step.SpeakerName = name
	return s
}

// Asset overrides the persona image for this step only.
func (s *StepBuilder) Asset(ref string) *StepBuilder {
	s.step.AssetRef = ref
	return s
}

// Dismissible sets whether hosts should offer a close action on this step.
func (s *StepBuilder) Dismissible(v bool) *StepBuilder {
	s.step.Dismissible = v
	return s
}

// Build returns the configured step without persona defaults.
func (s *StepBuilder) Build() domain.Step {
	return s.step
}
