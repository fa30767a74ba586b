package graph

import (
	"errors"
	"fmt"
)

// DanglingReferenceError reports a NextStepID that names no step of the graph.
type DanglingReferenceError struct {
	StepID     string
	NextStepID string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("step %q: next step %q does not exist", e.StepID, e.NextStepID)
}

// DuplicateIDError reports an ID used by more than one step. The store keeps
// only the last one.
type DuplicateIDError struct {
	ID    string
	Count int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("step id %q is defined %d times", e.ID, e.Count)
}

// EmptyIDError reports a step without an ID.
type EmptyIDError struct {
	Index int
}

func (e *EmptyIDError) Error() string {
	return fmt.Sprintf("step #%d has no id", e.Index)
}

// UnknownStartError reports a start step that is not part of the graph.
type UnknownStartError struct {
	StartStepID string
}

func (e *UnknownStartError) Error() string {
	return fmt.Sprintf("start step %q does not exist", e.StartStepID)
}

// AggregateError collects every problem found in one graph.
type AggregateError struct {
	TutorialID string
	Errors     []error
}

func (e *AggregateError) Error() string {
	prefix := ""
	if e.TutorialID != "" {
		prefix = fmt.Sprintf("tutorial %q: ", e.TutorialID)
	}
	if len(e.Errors) == 1 {
		return prefix + e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%s%d validation errors:\n", prefix, len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual problems to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns the problems carried by err, or nil when err is
// not (and does not wrap) an AggregateError.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
