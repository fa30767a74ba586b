// Package persona stores which guide character the user picked.
//
// The choice lives in a ports.PreferenceStore under three keys. Values are
// cached in observables so hosts can react to a new pick without polling.
package persona

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/observable"
	"github.com/oolestudio/tamashi/pkg/ports"
)

// Preference keys.
const (
	KeySelectedName  = "selected_tamashi_name"
	KeySelectedAsset = "selected_tamashi_asset"
	KeyChosen        = "is_tamashi_chosen"
)

// Options lists the personas a user can pick from.
func Options() []domain.Persona {
	return []domain.Persona{
		domain.DefaultPersona,
	}
}

// Lookup finds an option by name.
func Lookup(name string) (domain.Persona, bool) {
	for _, p := range Options() {
		if p.Name == name {
			return p, true
		}
	}
	return domain.Persona{}, false
}

// Repository reads and writes the persona preferences.
type Repository struct {
	prefs    ports.PreferenceStore
	selected observable.Subject[domain.Persona]
	chosen   observable.Subject[bool]
}

// New reads the stored preferences and returns a repository whose
// subscriptions start from them.
func New(ctx context.Context, prefs ports.PreferenceStore) (*Repository, error) {
	r := &Repository{prefs: prefs}

	p, _, err := r.Selected(ctx)
	if err != nil {
		return nil, err
	}
	chosen, err := r.Chosen(ctx)
	if err != nil {
		return nil, err
	}
	r.selected.Publish(p)
	r.chosen.Publish(chosen)
	return r, nil
}

// Selected returns the stored persona. ok is false, and p is the default
// persona, unless both name and asset are stored.
func (r *Repository) Selected(ctx context.Context) (p domain.Persona, ok bool, err error) {
	name, err := r.get(ctx, KeySelectedName)
	if err != nil {
		return domain.DefaultPersona, false, err
	}
	asset, err := r.get(ctx, KeySelectedAsset)
	if err != nil {
		return domain.DefaultPersona, false, err
	}
	if name == nil || asset == nil {
		return domain.DefaultPersona, false, nil
	}
	return domain.Persona{Name: *name, AssetRef: *asset}, true, nil
}

// Resolve returns the selected persona or the default one. Storage errors
// also fall back to the default.
func (r *Repository) Resolve(ctx context.Context) domain.Persona {
	p, _, _ := r.Selected(ctx)
	return p
}

// Select stores p as the current persona.
func (r *Repository) Select(ctx context.Context, p domain.Persona) error {
	if p.Name == "" {
		return fmt.Errorf("persona name is required")
	}
	if err := r.prefs.Set(ctx, KeySelectedName, p.Name); err != nil {
		return err
	}
	if err := r.prefs.Set(ctx, KeySelectedAsset, p.AssetRef); err != nil {
		return err
	}
	r.selected.Publish(p)
	return nil
}

// Chosen reports whether the user confirmed a persona.
func (r *Repository) Chosen(ctx context.Context) (bool, error) {
	v, err := r.get(ctx, KeyChosen)
	if err != nil || v == nil {
		return false, err
	}
	chosen, err := strconv.ParseBool(*v)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", KeyChosen, *v, err)
	}
	return chosen, nil
}

// SetChosen stores the confirmation flag.
func (r *Repository) SetChosen(ctx context.Context, chosen bool) error {
	if err := r.prefs.Set(ctx, KeyChosen, strconv.FormatBool(chosen)); err != nil {
		return err
	}
	r.chosen.Publish(chosen)
	return nil
}

// Confirm selects p and marks the choice as made.
func (r *Repository) Confirm(ctx context.Context, p domain.Persona) error {
	if err := r.Select(ctx, p); err != nil {
		return err
	}
	return r.SetChosen(ctx, true)
}

// Clear forgets the stored choice.
func (r *Repository) Clear(ctx context.Context) error {
	for _, key := range []string{KeySelectedName, KeySelectedAsset, KeyChosen} {
		if err := r.prefs.Delete(ctx, key); err != nil {
			return err
		}
	}
	r.selected.Publish(domain.DefaultPersona)
	r.chosen.Publish(false)
	return nil
}

// SubscribeSelected calls fn with the current persona and every later one.
func (r *Repository) SubscribeSelected(fn func(domain.Persona)) (unsubscribe func()) {
	return r.selected.Subscribe(fn)
}

// SubscribeChosen calls fn with the current flag and every later one.
func (r *Repository) SubscribeChosen(fn func(bool)) (unsubscribe func()) {
	return r.chosen.Subscribe(fn)
}

func (r *Repository) get(ctx context.Context, key string) (*string, error) {
	v, err := r.prefs.Get(ctx, key)
	if errors.Is(err, domain.ErrPreferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return &v, nil
}
