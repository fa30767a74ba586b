package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oolestudio/tamashi/internal/config"
	"github.com/oolestudio/tamashi/pkg/catalog"
	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/persona"
)

func baseConfig() config.Config {
	return config.Config{
		Log:         config.LogConfig{Level: "error", Format: "text"},
		Store:       config.StoreConfig{Backend: config.BackendMemory},
		Preferences: config.PreferencesConfig{Backend: config.BackendMemory, AppName: "tamashi-test"},
	}
}

func TestNewApp_Memory(t *testing.T) {
	ctx := context.Background()
	app, err := NewApp(ctx, baseConfig(), AppOptions{})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, domain.DefaultPersona, app.Persona)

	ids, err := app.Catalog.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{catalog.HomePlaylistsID}, ids)

	sess, err := app.Sessions.Open(ctx, "a")
	require.NoError(t, err)
	tut, err := app.Catalog.Get(ctx, catalog.HomePlaylistsID)
	require.NoError(t, err)
	_, err = sess.Load(ctx, tut.ID, tut.Steps, tut.StartStepID)
	require.NoError(t, err)

	// Metrics hooks are wired into every session.
	families, err := app.Registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "tamashi_tutorial_loads_total")
}

func TestNewApp_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	cfg := baseConfig()
	cfg.Store.Backend = config.BackendRedis
	cfg.Store.Redis = config.RedisConfig{Addr: mr.Addr(), TTL: time.Hour, Lock: true}
	cfg.Preferences.Backend = config.BackendRedis

	app, err := NewApp(ctx, cfg, AppOptions{})
	require.NoError(t, err)
	defer app.Close()

	sess, err := app.Sessions.Open(ctx, "r1")
	require.NoError(t, err)
	_, err = sess.Load(ctx, "t", []domain.Step{{ID: "s1", Text: "hi"}}, "s1")
	require.NoError(t, err)

	ids, err := app.Sessions.Store().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, ids)

	require.NoError(t, app.Personas.Confirm(ctx, domain.DefaultPersona))
	assert.True(t, mr.Exists("tamashi:preferences"))
}

func TestNewApp_RedisUnavailable(t *testing.T) {
	cfg := baseConfig()
	cfg.Store.Backend = config.BackendRedis
	cfg.Store.Redis = config.RedisConfig{Addr: "127.0.0.1:1"}

	_, err := NewApp(context.Background(), cfg, AppOptions{})
	assert.ErrorContains(t, err, "connect to redis")
}

func TestNewApp_GdataKeepsPersonaAcrossRuns(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ctx := context.Background()
	cfg := baseConfig()
	cfg.Preferences.Backend = config.BackendGdata

	first, err := NewApp(ctx, cfg, AppOptions{})
	require.NoError(t, err)
	kumo := domain.Persona{Name: "Kumo", AssetRef: "asset_kumo"}
	require.NoError(t, first.Personas.Confirm(ctx, kumo))
	require.NoError(t, first.Close())

	second, err := NewApp(ctx, cfg, AppOptions{})
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, kumo, second.Persona)
	chosen, err := second.Personas.Chosen(ctx)
	require.NoError(t, err)
	assert.True(t, chosen)
}

func TestNewApp_GdataUnavailableFallsBackToMemory(t *testing.T) {
	t.Setenv("HOME", "")
	cfg := baseConfig()
	cfg.Preferences.Backend = config.BackendGdata

	app, err := NewApp(context.Background(), cfg, AppOptions{})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, domain.DefaultPersona, app.Persona)
	require.NoError(t, app.Personas.Select(context.Background(), domain.DefaultPersona))
}

func TestNewApp_Overrides(t *testing.T) {
	cfg := baseConfig()
	cfg.Persona = config.PersonaConfig{Name: "Momo", Asset: "asset_momo"}

	app, err := NewApp(context.Background(), cfg, AppOptions{LogLevel: "debug", Debug: true})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, domain.Persona{Name: "Momo", AssetRef: "asset_momo"}, app.Persona)
	assert.Equal(t, "debug", app.Config.Log.Level)

	tut, err := app.Catalog.Get(context.Background(), catalog.HomePlaylistsID)
	require.NoError(t, err)
	assert.Equal(t, "Momo", tut.Steps[0].SpeakerName)
}

func TestNewApp_BadLogFormat(t *testing.T) {
	cfg := baseConfig()
	cfg.Log.Format = "xml"
	_, err := NewApp(context.Background(), cfg, AppOptions{})
	assert.Error(t, err)
}

func TestResolvePersona_KnownNameKeepsAsset(t *testing.T) {
	cfg := config.PersonaConfig{Name: domain.DefaultPersona.Name}
	p := resolvePersona(context.Background(), cfg, nil)
	assert.Equal(t, domain.DefaultPersona, p)

	_, known := persona.Lookup("nobody")
	assert.False(t, known)
}
