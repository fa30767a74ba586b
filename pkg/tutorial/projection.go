package tutorial

import (
	"sync"

	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/observable"
)

// Project derives the view for a state. Absent state, absent pointer and a
// pointer that does not resolve all yield a hidden view with no step.
func Project(state *domain.State) domain.View {
	if state == nil {
		return domain.View{}
	}
	step, ok := state.CurrentStep()
	if !ok {
		return domain.View{TutorialID: state.TutorialID}
	}
	return domain.View{
		TutorialID: state.TutorialID,
		Visible:    state.Visible,
		Step:       &step,
	}
}

// StateSource is what a Projection follows; *Store satisfies it.
type StateSource interface {
	Subscribe(fn func(*domain.State)) (unsubscribe func())
}

// Projection republishes a View for every snapshot of its source.
// Views are re-derived each time; equal consecutive views are not collapsed.
type Projection struct {
	subject observable.Subject[domain.View]

	mu          sync.Mutex
	unsubscribe func()
}

// NewProjection follows src until Close is called. Before src publishes
// anything the projection holds the hidden zero view.
func NewProjection(src StateSource) *Projection {
	p := &Projection{}
	unsubscribe := src.Subscribe(func(state *domain.State) {
		p.subject.Publish(Project(state))
	})
	if _, ok := p.subject.Value(); !ok {
		p.subject.Publish(Project(nil))
	}

	p.mu.Lock()
	p.unsubscribe = unsubscribe
	p.mu.Unlock()
	return p
}

// View returns the latest derived view.
func (p *Projection) View() domain.View {
	v, _ := p.subject.Value()
	return v
}

// Subscribe registers fn for every derived view, starting with the latest.
func (p *Projection) Subscribe(fn func(domain.View)) (unsubscribe func()) {
	return p.subject.Subscribe(fn)
}

// Close stops following the source. Existing subscribers keep the last view
// but receive nothing new.
func (p *Projection) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}
