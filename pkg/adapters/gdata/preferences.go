// Package gdata persists preferences in the per-user application data
// directory managed by quasilyte/gdata.
package gdata

import (
	"context"
	"fmt"

	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/quasilyte/gdata/v2"
)

// DefaultObject is the gdata object that groups every preference property.
const DefaultObject = "preferences"

// Preferences implements ports.PreferenceStore on top of a gdata.Manager.
// Each preference is one property of a single object.
type Preferences struct {
	manager *gdata.Manager
	object  string
}

// Open creates the gdata manager for appName.
func Open(appName string) (*Preferences, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gdata storage for %q: %w", appName, err)
	}
	return New(m), nil
}

// New wraps an existing manager.
func New(m *gdata.Manager) *Preferences {
	return &Preferences{manager: m, object: DefaultObject}
}

func (p *Preferences) Get(ctx context.Context, key string) (string, error) {
	if !p.manager.ObjectPropExists(p.object, key) {
		return "", domain.ErrPreferenceNotFound
	}
	data, err := p.manager.LoadObjectProp(p.object, key)
	if err != nil {
		return "", fmt.Errorf("failed to load preference %q: %w", key, err)
	}
	return string(data), nil
}

func (p *Preferences) Set(ctx context.Context, key, value string) error {
	if err := p.manager.SaveObjectProp(p.object, key, []byte(value)); err != nil {
		return fmt.Errorf("failed to save preference %q: %w", key, err)
	}
	return nil
}

func (p *Preferences) Delete(ctx context.Context, key string) error {
	if !p.manager.ObjectPropExists(p.object, key) {
		return nil
	}
	if err := p.manager.DeleteObjectProp(p.object, key); err != nil {
		return fmt.Errorf("failed to delete preference %q: %w", key, err)
	}
	return nil
}
