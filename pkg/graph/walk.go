package graph

import "github.com/oolestudio/tamashi/pkg/domain"

// Walk returns the IDs visited by repeatedly advancing from start, the same
// way the store does. An empty start means the first step. The walk stops at
// a terminal step, at a dangling reference (which is not included) or when a
// step would be visited twice.
func Walk(steps []domain.Step, start string) []string {
	if len(steps) == 0 {
		return nil
	}
	ids := index(steps)
	if _, ok := ids[start]; start == "" || !ok {
		start = steps[0].ID
	}

	var path []string
	seen := make(map[string]bool)
	for id := start; id != ""; {
		step, ok := ids[id]
		if !ok || seen[id] {
			break
		}
		seen[id] = true
		path = append(path, id)
		id = step.NextStepID
	}
	return path
}

// Cyclic reports whether advancing from start loops forever.
func Cyclic(steps []domain.Step, start string) bool {
	path := Walk(steps, start)
	if len(path) == 0 {
		return false
	}
	ids := index(steps)
	last := ids[path[len(path)-1]]
	if last.NextStepID == "" {
		return false
	}
	for _, id := range path {
		if id == last.NextStepID {
			return true
		}
	}
	return false
}

// Unreachable lists the step IDs, in step order, that advancing from start
// never visits.
func Unreachable(steps []domain.Step, start string) []string {
	visited := make(map[string]bool)
	for _, id := range Walk(steps, start) {
		visited[id] = true
	}
	var out []string
	seen := make(map[string]bool)
	for _, s := range steps {
		if s.ID == "" || visited[s.ID] || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, s.ID)
	}
	return out
}
