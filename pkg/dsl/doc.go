/*
Package dsl provides a fluent Go builder for tutorial step graphs.

Steps are kept in the order they are added, which is the order the store uses
for its default start step and for Reset. The guide persona is injected once
into the builder and stamped into every step, instead of being read from
global configuration at each call site.

Example usage:

	b := dsl.New("home_playlists", dsl.WithPersona(persona))

	b.Add("step1").
		Say("Use the \"New playlist\" button below to create one.").
		Next("step2")

	b.Add("step2").
		Say("Now give your playlist a name.").
		Terminal()

	t, err := b.Build() // validated domain.Tutorial
*/
package dsl
