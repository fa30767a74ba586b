package graph

import (
	"github.com/oolestudio/tamashi/pkg/domain"
)

// Validate checks steps for empty IDs, duplicate IDs and dangling NextStepIDs.
// It returns nil or an *AggregateError listing every problem in step order.
func Validate(steps []domain.Step) error {
	return aggregate("", problems(steps, ""))
}

// ValidateTutorial validates the steps of t and, when set, its start step.
func ValidateTutorial(t domain.Tutorial) error {
	return aggregate(t.ID, problems(t.Steps, t.StartStepID))
}

// DanglingReferences lists every NextStepID that does not resolve within steps.
func DanglingReferences(steps []domain.Step) []*DanglingReferenceError {
	ids := index(steps)
	var out []*DanglingReferenceError
	for _, s := range steps {
		if s.NextStepID == "" {
			continue
		}
		if _, ok := ids[s.NextStepID]; !ok {
			out = append(out, &DanglingReferenceError{StepID: s.ID, NextStepID: s.NextStepID})
		}
	}
	return out
}

func problems(steps []domain.Step, start string) []error {
	var errs []error

	counts := make(map[string]int, len(steps))
	var order []string
	for i, s := range steps {
		if s.ID == "" {
			errs = append(errs, &EmptyIDError{Index: i})
			continue
		}
		if counts[s.ID] == 0 {
			order = append(order, s.ID)
		}
		counts[s.ID]++
	}
	for _, id := range order {
		if counts[id] > 1 {
			errs = append(errs, &DuplicateIDError{ID: id, Count: counts[id]})
		}
	}

	for _, d := range DanglingReferences(steps) {
		errs = append(errs, d)
	}

	if start != "" {
		if _, ok := counts[start]; !ok {
			errs = append(errs, &UnknownStartError{StartStepID: start})
		}
	}
	return errs
}

func aggregate(tutorialID string, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{TutorialID: tutorialID, Errors: errs}
}

// index maps IDs to their last definition, matching the store.
func index(steps []domain.Step) map[string]domain.Step {
	ids := make(map[string]domain.Step, len(steps))
	for _, s := range steps {
		ids[s.ID] = s
	}
	return ids
}
