package tamashi

import (
	"context"
	"log/slog"

	"github.com/oolestudio/tamashi/internal/logging"
	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/graph"
	"github.com/oolestudio/tamashi/pkg/observable"
	"github.com/oolestudio/tamashi/pkg/tutorial"
)

// ValidationMode decides what Start does with an invalid step graph.
type ValidationMode int

const (
	// ValidationWarn logs each problem and loads anyway. This is the default.
	ValidationWarn ValidationMode = iota
	// ValidationStrict rejects the tutorial.
	ValidationStrict
	// ValidationOff skips validation.
	ValidationOff
)

// Tutorial bundles a store and its projection for a single host.
type Tutorial struct {
	store      *tutorial.Store
	projection *tutorial.Projection
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	mode       ValidationMode
}

// Option defines a functional option for configuring a Tutorial.
type Option func(*Tutorial)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tutorial) {
		t.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(t *Tutorial) {
		t.hooks = hooks
	}
}

// WithValidation sets how Start treats invalid graphs.
func WithValidation(mode ValidationMode) Option {
	return func(t *Tutorial) {
		t.mode = mode
	}
}

// New creates an empty tutorial host. Nothing is visible until Start or Load.
func New(opts ...Option) *Tutorial {
	t := &Tutorial{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.store = tutorial.NewStore(
		tutorial.WithLogger(t.logger),
		tutorial.WithLifecycleHooks(t.hooks),
	)
	t.projection = tutorial.NewProjection(t.store)
	return t
}

// Start validates def according to the validation mode and loads it.
// Only ValidationStrict can return an error.
func (t *Tutorial) Start(def domain.Tutorial) error {
	if t.mode != ValidationOff {
		if err := graph.ValidateTutorial(def); err != nil {
			if t.mode == ValidationStrict {
				return err
			}
			for _, problem := range graph.ValidationErrors(err) {
				t.logger.Warn("tutorial graph problem",
					"tutorial_id", def.ID,
					"err", problem,
				)
			}
		}
	}
	t.store.Load(def.ID, def.Steps, def.StartStepID)
	return nil
}

// Load loads steps without validation.
func (t *Tutorial) Load(tutorialID string, steps []domain.Step, startStepID string) {
	t.store.Load(tutorialID, steps, startStepID)
}

// Advance moves to the next step, dismissing after the last one.
func (t *Tutorial) Advance() { t.store.Advance() }

// Dismiss hides the guide.
func (t *Tutorial) Dismiss() { t.store.Dismiss() }

// Reset restarts from the first step.
func (t *Tutorial) Reset() { t.store.Reset() }

// View returns the current view.
func (t *Tutorial) View() domain.View { return t.projection.View() }

// State returns a copy of the current state, or nil before the first load.
func (t *Tutorial) State() *domain.State { return t.store.State() }

// Subscribe calls fn with the current view and every later one.
func (t *Tutorial) Subscribe(fn func(domain.View)) (unsubscribe func()) {
	return t.projection.Subscribe(fn)
}

// Watch streams views until ctx is done. A slow reader skips intermediate
// views but always receives the latest one.
func (t *Tutorial) Watch(ctx context.Context) <-chan domain.View {
	return observable.Watch[domain.View](ctx, t.projection, 16)
}

// Close detaches the projection from the store.
func (t *Tutorial) Close() { t.projection.Close() }

// Store exposes the underlying store.
func (t *Tutorial) Store() *tutorial.Store { return t.store }

// Projection exposes the underlying projection.
func (t *Tutorial) Projection() *tutorial.Projection { return t.projection }
