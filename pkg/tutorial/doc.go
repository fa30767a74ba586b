/*
Package tutorial implements the tutorial step state machine.

A Store owns the authoritative domain.State of one tutorial and publishes an
immutable snapshot after every mutation (Load, Advance, Dismiss, Reset,
Restore). A Projection derives the domain.View a host renders from each of
those snapshots.

The store never fails: advancing or dismissing before anything was loaded is a
no-op, duplicate step IDs resolve by last write wins, and a dangling
NextStepID simply hides the guide. Use package graph to catch authoring
mistakes before loading.

	store := tutorial.NewStore()
	view := tutorial.NewProjection(store)
	defer view.Close()

	view.Subscribe(func(v domain.View) { render(v) })
	store.Load("home", steps, "")
	store.Advance()
*/
package tutorial
