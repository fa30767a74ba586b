package tutorial

import (
	"log/slog"
	"sync"
	"time"

	"github.com/oolestudio/tamashi/internal/logging"
	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/observable"
)

// Store holds and transitions the state of a single tutorial.
// Mutations are serialized; observers are notified outside the lock so they
// may call back into the store.
type Store struct {
	mu      sync.Mutex
	state   *domain.State
	subject observable.Subject[*domain.State]

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a structured logger for state transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Store) {
		s.hooks = hooks
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty store. Nothing is published until the first Load.
func NewStore(opts ...Option) *Store {
	s := &Store{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces any existing state with a new step graph.
//
// The start pointer is startStepID when it names a loaded step, otherwise the
// first element of steps, otherwise none. The guide becomes visible.
func (s *Store) Load(tutorialID string, steps []domain.Step, startStepID string) {
	s.mu.Lock()
	prev := s.state
	next := domain.NewState(tutorialID, steps)
	switch {
	case startStepID != "" && hasStep(next, startStepID):
		next.CurrentStepID = startStepID
	case len(steps) > 0:
		next.CurrentStepID = steps[0].ID
	}

	events := make([]*domain.Event, 0, 3)
	if cur, ok := prev.CurrentStep(); ok && prev.Visible {
		events = append(events, s.event(domain.EventStepLeave, prev.TutorialID, cur.ID))
	}
	events = append(events, s.event(domain.EventTutorialLoad, tutorialID, next.CurrentStepID))
	if _, ok := next.CurrentStep(); ok {
		events = append(events, s.event(domain.EventStepEnter, tutorialID, next.CurrentStepID))
	}
	s.commit(next)
	s.mu.Unlock()

	s.logger.Debug("tutorial loaded",
		"tutorial_id", tutorialID,
		"steps", next.Steps.Len(),
		"step_id", next.CurrentStepID,
	)
	s.notify(events)
}

// Advance moves to the current step's successor. On a terminal step it
// behaves exactly like Dismiss. It is a no-op when nothing is loaded or the
// current pointer does not resolve to a step.
func (s *Store) Advance() {
	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		return
	}
	cur, ok := s.state.CurrentStep()
	if !ok {
		s.mu.Unlock()
		return
	}
	if cur.IsTerminal() {
		events := s.dismissLocked()
		s.mu.Unlock()
		s.notify(events)
		return
	}

	next := s.state.Snapshot()
	// Referential integrity is an authoring concern; the target is not checked.
	next.CurrentStepID = cur.NextStepID

	events := []*domain.Event{s.event(domain.EventStepLeave, next.TutorialID, cur.ID)}
	if _, ok := next.CurrentStep(); ok {
		events = append(events, s.event(domain.EventStepEnter, next.TutorialID, next.CurrentStepID))
	} else {
		s.logger.Warn("advanced to unknown step, tutorial hidden",
			"tutorial_id", next.TutorialID,
			"step_id", cur.ID,
			"next_step_id", cur.NextStepID,
		)
	}
	s.commit(next)
	s.mu.Unlock()

	s.notify(events)
}

// Dismiss hides the guide, keeping the current pointer. Calling it again
// re-publishes the same hidden state. No-op before the first Load.
func (s *Store) Dismiss() {
	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		return
	}
	events := s.dismissLocked()
	s.mu.Unlock()

	s.notify(events)
}

func (s *Store) dismissLocked() []*domain.Event {
	next := s.state.Snapshot()
	next.Visible = false
	s.commit(next)

	s.logger.Debug("tutorial dismissed", "tutorial_id", next.TutorialID, "step_id", next.CurrentStepID)
	return []*domain.Event{s.event(domain.EventTutorialDismiss, next.TutorialID, next.CurrentStepID)}
}

// Reset rewinds to the first entry of the loaded step map and shows the guide
// again. No-op before the first Load.
func (s *Store) Reset() {
	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		return
	}
	next := s.state.Snapshot()
	next.CurrentStepID = next.FirstStepID()
	next.Visible = true

	events := []*domain.Event{s.event(domain.EventTutorialReset, next.TutorialID, next.CurrentStepID)}
	if _, ok := next.CurrentStep(); ok {
		events = append(events, s.event(domain.EventStepEnter, next.TutorialID, next.CurrentStepID))
	}
	s.commit(next)
	s.mu.Unlock()

	s.logger.Debug("tutorial reset", "tutorial_id", next.TutorialID, "step_id", next.CurrentStepID)
	s.notify(events)
}

// Restore replaces the state with a previously persisted snapshot.
// A nil state is ignored.
func (s *Store) Restore(state *domain.State) {
	if state == nil {
		return
	}
	next := state.Snapshot()

	s.mu.Lock()
	events := []*domain.Event{s.event(domain.EventTutorialRestore, next.TutorialID, next.CurrentStepID)}
	s.commit(next)
	s.mu.Unlock()

	s.logger.Debug("tutorial restored", "tutorial_id", next.TutorialID, "step_id", next.CurrentStepID)
	s.notify(events)
}

// Unload discards the state, returning the store to its never-loaded shape.
// Observers receive a nil snapshot.
func (s *Store) Unload() {
	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		return
	}
	s.state = nil
	s.subject.Push(nil)
	s.mu.Unlock()

	s.logger.Debug("tutorial unloaded")
	s.notify(nil)
}

// State returns a copy of the latest state, or nil before the first Load.
func (s *Store) State() *domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// Subscribe registers fn for every published snapshot. If something was
// published already, fn receives the latest snapshot immediately.
func (s *Store) Subscribe(fn func(*domain.State)) (unsubscribe func()) {
	return s.subject.Subscribe(fn)
}

// commit installs next and stages its snapshot. Caller holds s.mu.
func (s *Store) commit(next *domain.State) {
	s.state = next
	s.subject.Push(next.Snapshot())
}

// notify fires hooks and delivers staged snapshots. Caller must not hold s.mu.
func (s *Store) notify(events []*domain.Event) {
	for _, e := range events {
		s.hooks.Fire(e)
	}
	s.subject.Drain()
}

func (s *Store) event(t domain.EventType, tutorialID, stepID string) *domain.Event {
	return &domain.Event{
		Timestamp:  s.now(),
		Type:       t,
		TutorialID: tutorialID,
		StepID:     stepID,
	}
}

func hasStep(state *domain.State, id string) bool {
	_, ok := state.Step(id)
	return ok
}
