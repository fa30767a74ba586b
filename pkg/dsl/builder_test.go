package dsl

import (
	"testing"

	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	b := New("home", WithTitle("Home"))

	b.Add("step1").
		Say("Tap the button below.").
		Next("step2")

	b.Add("step2").
		Say("Name your playlist.").
		Dismissible(false).
		Terminal()

	tut, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "home", tut.ID)
	assert.Equal(t, "Home", tut.Title)
	require.Len(t, tut.Steps, 2)

	first := tut.Steps[0]
	assert.Equal(t, "step1", first.ID)
	assert.Equal(t, "step2", first.NextStepID)
	assert.Equal(t, domain.DefaultPersona.Name, first.SpeakerName)
	assert.Equal(t, domain.DefaultPersona.AssetRef, first.AssetRef)
	assert.True(t, first.Dismissible)

	last := tut.Steps[1]
	assert.True(t, last.IsTerminal())
	assert.False(t, last.Dismissible)
}

func TestBuilder_PersonaInjection(t *testing.T) {
	kumo := domain.Persona{Name: "Kumo", AssetRef: "asset_tamashi_kumo"}
	b := New("t", WithPersona(kumo))

	b.Add("a").Say("hi").Next("b")
	b.Add("b").Say("bye").Speaker("Narrator").Asset("asset_narrator")

	steps := b.Steps()
	assert.Equal(t, "Kumo", steps[0].SpeakerName)
	assert.Equal(t, "asset_tamashi_kumo", steps[0].AssetRef)
	assert.Equal(t, "Narrator", steps[1].SpeakerName)
	assert.Equal(t, "asset_narrator", steps[1].AssetRef)
}

func TestBuilder_AddKeepsPosition(t *testing.T) {
	b := New("t")
	b.Add("a").Next("b")
	b.Add("b")
	b.Add("a").Say("updated")

	steps := b.Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, "a", steps[0].ID)
	assert.Equal(t, "updated", steps[0].Text)
	assert.Equal(t, "b", steps[0].NextStepID)
}

func TestBuilder_Chain(t *testing.T) {
	tut := New("t").Chain("step", "one", "two", "three").MustBuild()

	require.Len(t, tut.Steps, 3)
	assert.Equal(t, []string{"step1", "step2", "step3"}, graph.Walk(tut.Steps, ""))
	assert.Equal(t, "two", tut.Steps[1].Text)
}

func TestBuilder_RejectsBrokenGraph(t *testing.T) {
	b := New("broken")
	b.Add("a").Next("ghost")

	_, err := b.Build()
	require.Error(t, err)

	var dangling *graph.DanglingReferenceError
	assert.ErrorAs(t, err, &dangling)
	assert.Panics(t, func() { b.MustBuild() })
}

func TestBuilder_RejectsUnknownStart(t *testing.T) {
	b := New("t").StartAt("nope")
	b.Add("a")

	_, err := b.Build()
	var unknown *graph.UnknownStartError
	assert.ErrorAs(t, err, &unknown)
}

func TestBuilder_RequiresID(t *testing.T) {
	_, err := New("").Build()
	assert.Error(t, err)
}
