package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/oolestudio/tamashi/internal/testutils"
	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCatalog(t *testing.T, files map[string]string, opts ...Option) *Catalog {
	t.Helper()
	_, repo := testutils.SetupTestRepo(t, files)
	return New(loam.NewTypedRepository[StepMetadata](repo), opts...)
}

func TestCatalog_AssemblesTutorialInOrder(t *testing.T) {
	cat := setupCatalog(t, map[string]string{
		"home/b.md": `---
id: step2
order: 2
---
Name it.`,
		"home/a.md": `---
id: step1
title: Home playlists
next: step2
order: 1
dismissible: false
---
Tap the button.
`,
	})
	ctx := context.Background()

	ids, err := cat.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"home"}, ids)

	tut, err := cat.Get(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "Home playlists", tut.Title)
	require.Len(t, tut.Steps, 2)

	assert.Equal(t, domain.Step{
		ID:          "step1",
		SpeakerName: domain.DefaultPersona.Name,
		Text:        "Tap the button.",
		AssetRef:    domain.DefaultPersona.AssetRef,
		Dismissible: false,
		NextStepID:  "step2",
	}, tut.Steps[0])
	assert.Equal(t, "step2", tut.Steps[1].ID)
	assert.True(t, tut.Steps[1].Dismissible, "dismissible defaults to true")
}

func TestCatalog_ExplicitTutorialAndPersona(t *testing.T) {
	kumo := domain.Persona{Name: "Kumo", AssetRef: "asset_kumo"}
	cat := setupCatalog(t, map[string]string{
		"intro.md": `---
tutorial: onboarding
start: true
speaker: Narrator
---
Welcome.`,
	}, WithPersona(kumo))

	tut, err := cat.Get(context.Background(), "onboarding")
	require.NoError(t, err)
	require.Len(t, tut.Steps, 1)
	assert.Equal(t, "intro", tut.Steps[0].ID, "step id falls back to the file name")
	assert.Equal(t, "Narrator", tut.Steps[0].SpeakerName)
	assert.Equal(t, "asset_kumo", tut.Steps[0].AssetRef)
	assert.Equal(t, "intro", tut.StartStepID)
}

func TestCatalog_NotFound(t *testing.T) {
	cat := setupCatalog(t, map[string]string{
		"home/a.md": "---\nid: a\n---\nhi",
	})
	_, err := cat.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrTutorialNotFound)
}

func TestCatalog_RejectsOrphanDocument(t *testing.T) {
	cat := setupCatalog(t, map[string]string{
		"orphan.md": "---\nid: a\n---\nhi",
	})
	_, err := cat.List(context.Background())
	assert.Error(t, err)
}

func TestCatalog_RejectsBrokenGraph(t *testing.T) {
	cat := setupCatalog(t, map[string]string{
		"home/a.md": "---\nid: a\nnext: ghost\n---\nhi",
	})
	_, err := cat.Get(context.Background(), "home")
	var dangling *graph.DanglingReferenceError
	assert.ErrorAs(t, err, &dangling)
}
