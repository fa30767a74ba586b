/*
Package tamashi drives in-app onboarding tutorials: a guide character walks the
user through a linear sequence of steps, one speech bubble at a time.

The state machine is tiny on purpose. A tutorial is a list of steps, each
pointing at its successor; the store tracks which step is current and whether
the guide is visible, and every observer receives each new state in commit
order. Hosts render the derived View and call Advance, Dismiss or Reset in
response to user input.

# Usage

	tut := tamashi.New(tamashi.WithValidation(tamashi.ValidationStrict))
	defer tut.Close()

	tut.Subscribe(func(v domain.View) {
		if v.Visible && v.Step != nil {
			fmt.Printf("%s: %s\n", v.Step.SpeakerName, v.Step.Text)
		}
	})

	if err := tut.Start(catalog.HomePlaylists(domain.DefaultPersona)); err != nil {
		log.Fatal(err)
	}
	tut.Advance()

# Packages

  - pkg/tutorial: the store and its projection.
  - pkg/graph: authoring-time validation of step graphs.
  - pkg/dsl and pkg/catalog: building and loading tutorials.
  - pkg/session: many stores keyed by session, persisted through pkg/ports.
  - pkg/adapters: memory, Redis, gdata, loam, HTTP and MCP.
*/
package tamashi
