package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oolestudio/tamashi/internal/config"
	"github.com/oolestudio/tamashi/pkg/catalog"
)

func play(t *testing.T, app *App, input string, opts PlayOptions) string {
	t.Helper()
	var out bytes.Buffer
	opts.In = strings.NewReader(input)
	opts.Out = &out
	require.NoError(t, Play(context.Background(), app, opts))
	return out.String()
}

func TestPlay_LineModeToCompletion(t *testing.T) {
	app, err := NewApp(context.Background(), baseConfig(), AppOptions{})
	require.NoError(t, err)
	defer app.Close()

	out := play(t, app, "\n\n\n\n", PlayOptions{})
	assert.Contains(t, out, `"New playlist" button`)
	assert.Contains(t, out, `tap "Create"`)
	assert.Contains(t, out, "(the guide is resting)")

	state, err := app.Sessions.Store().Load(context.Background(), DefaultSessionID)
	require.NoError(t, err)
	assert.Equal(t, catalog.HomePlaylistsID, state.TutorialID)
	assert.Equal(t, "step4", state.CurrentStepID)
	assert.False(t, state.Visible)
}

func TestPlay_ResumesSavedProgress(t *testing.T) {
	app, err := NewApp(context.Background(), baseConfig(), AppOptions{})
	require.NoError(t, err)
	defer app.Close()

	// One advance, then the input ends on step2.
	play(t, app, "\n", PlayOptions{})

	out := play(t, app, "", PlayOptions{})
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "Bublu: Great, now give your playlist a name"), out)

	out = play(t, app, "", PlayOptions{Restart: true})
	assert.Contains(t, out, `"New playlist" button`)
}

func TestPlay_FinishedTutorialStartsOver(t *testing.T) {
	app, err := NewApp(context.Background(), baseConfig(), AppOptions{})
	require.NoError(t, err)
	defer app.Close()

	play(t, app, "q\n", PlayOptions{})

	out := play(t, app, "", PlayOptions{})
	assert.Contains(t, out, `"New playlist" button`)
}

func TestPlay_UnknownTutorial(t *testing.T) {
	app, err := NewApp(context.Background(), baseConfig(), AppOptions{})
	require.NoError(t, err)
	defer app.Close()

	err = Play(context.Background(), app, PlayOptions{TutorialID: "nope", In: strings.NewReader(""), Out: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestPlay_FileStoreResumesAcrossRuns(t *testing.T) {
	cfg := baseConfig()
	cfg.Store.Backend = config.BackendFile
	cfg.Store.File.Dir = t.TempDir()

	first, err := NewApp(context.Background(), cfg, AppOptions{})
	require.NoError(t, err)
	play(t, first, "\n\n", PlayOptions{})
	require.NoError(t, first.Close())

	second, err := NewApp(context.Background(), cfg, AppOptions{})
	require.NoError(t, err)
	defer second.Close()

	out := play(t, second, "", PlayOptions{})
	assert.Contains(t, out, `Then pick a category`)
}
