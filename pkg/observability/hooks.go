package observability

import (
	"log/slog"

	"github.com/oolestudio/tamashi/pkg/domain"
)

// Combine returns hooks that call each of the given hooks in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad:      chain(hooks, func(h domain.LifecycleHooks) func(*domain.Event) { return h.OnLoad }),
		OnStepEnter: chain(hooks, func(h domain.LifecycleHooks) func(*domain.Event) { return h.OnStepEnter }),
		OnStepLeave: chain(hooks, func(h domain.LifecycleHooks) func(*domain.Event) { return h.OnStepLeave }),
		OnDismiss:   chain(hooks, func(h domain.LifecycleHooks) func(*domain.Event) { return h.OnDismiss }),
		OnReset:     chain(hooks, func(h domain.LifecycleHooks) func(*domain.Event) { return h.OnReset }),
	}
}

func chain(hooks []domain.LifecycleHooks, pick func(domain.LifecycleHooks) func(*domain.Event)) func(*domain.Event) {
	var fns []func(*domain.Event)
	for _, h := range hooks {
		if fn := pick(h); fn != nil {
			fns = append(fns, fn)
		}
	}
	if len(fns) == 0 {
		return nil
	}
	return func(e *domain.Event) {
		for _, fn := range fns {
			fn(e)
		}
	}
}

// LogHooks logs every event at info level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	log := func(e *domain.Event) {
		logger.Info(string(e.Type),
			"tutorial_id", e.TutorialID,
			"step_id", e.StepID,
		)
	}
	return domain.LifecycleHooks{
		OnLoad:      log,
		OnStepEnter: log,
		OnStepLeave: log,
		OnDismiss:   log,
		OnReset:     log,
	}
}
