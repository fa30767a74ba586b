package persona_test

import (
	"context"
	"errors"
	"testing"

	"github.com/oolestudio/tamashi/pkg/adapters/memory"
	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/persona"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kumo = domain.Persona{Name: "Kumo", AssetRef: "asset_tamashi_kumo"}

func TestRepository_DefaultsBeforeChoice(t *testing.T) {
	ctx := context.Background()
	repo, err := persona.New(ctx, memory.NewPreferences())
	require.NoError(t, err)

	p, ok, err := repo.Selected(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, domain.DefaultPersona, p)

	chosen, err := repo.Chosen(ctx)
	require.NoError(t, err)
	assert.False(t, chosen)
	assert.Equal(t, domain.DefaultPersona, repo.Resolve(ctx))
}

func TestRepository_ConfirmPersists(t *testing.T) {
	ctx := context.Background()
	prefs := memory.NewPreferences()
	repo, err := persona.New(ctx, prefs)
	require.NoError(t, err)

	require.NoError(t, repo.Confirm(ctx, kumo))

	name, _ := prefs.Get(ctx, persona.KeySelectedName)
	asset, _ := prefs.Get(ctx, persona.KeySelectedAsset)
	chosen, _ := prefs.Get(ctx, persona.KeyChosen)
	assert.Equal(t, "Kumo", name)
	assert.Equal(t, "asset_tamashi_kumo", asset)
	assert.Equal(t, "true", chosen)

	reopened, err := persona.New(ctx, prefs)
	require.NoError(t, err)
	assert.Equal(t, kumo, reopened.Resolve(ctx))
}

func TestRepository_PartialSelectionIsIgnored(t *testing.T) {
	ctx := context.Background()
	prefs := memory.NewPreferences()
	require.NoError(t, prefs.Set(ctx, persona.KeySelectedName, "Kumo"))

	repo, err := persona.New(ctx, prefs)
	require.NoError(t, err)

	_, ok, err := repo.Selected(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "an asset is required too")
}

func TestRepository_Subscriptions(t *testing.T) {
	ctx := context.Background()
	repo, err := persona.New(ctx, memory.NewPreferences())
	require.NoError(t, err)

	var seen []string
	unsubscribe := repo.SubscribeSelected(func(p domain.Persona) { seen = append(seen, p.Name) })
	var flags []bool
	repo.SubscribeChosen(func(b bool) { flags = append(flags, b) })

	require.NoError(t, repo.Confirm(ctx, kumo))
	unsubscribe()
	require.NoError(t, repo.Clear(ctx))

	assert.Equal(t, []string{"Bublu", "Kumo"}, seen)
	assert.Equal(t, []bool{false, true, false}, flags)
}

func TestRepository_Errors(t *testing.T) {
	ctx := context.Background()
	prefs := memory.NewPreferences()
	repo, err := persona.New(ctx, prefs)
	require.NoError(t, err)

	assert.Error(t, repo.Select(ctx, domain.Persona{}))

	require.NoError(t, prefs.Set(ctx, persona.KeyChosen, "maybe"))
	_, err = repo.Chosen(ctx)
	assert.Error(t, err)

	_, err = persona.New(ctx, failingPrefs{})
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	p, ok := persona.Lookup("Bublu")
	assert.True(t, ok)
	assert.Equal(t, domain.DefaultPersona, p)

	_, ok = persona.Lookup("Nobody")
	assert.False(t, ok)
}

type failingPrefs struct{}

func (failingPrefs) Get(context.Context, string) (string, error) { return "", errors.New("boom") }
func (failingPrefs) Set(context.Context, string, string) error   { return errors.New("boom") }
func (failingPrefs) Delete(context.Context, string) error        { return errors.New("boom") }
