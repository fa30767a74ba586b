package memory

import (
	"context"
	"sync"

	"github.com/oolestudio/tamashi/pkg/domain"
)

// Preferences implements ports.PreferenceStore in memory.
type Preferences struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewPreferences creates an empty preference store.
func NewPreferences() *Preferences {
	return &Preferences{data: make(map[string]string)}
}

func (p *Preferences) Get(ctx context.Context, key string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.data[key]
	if !ok {
		return "", domain.ErrPreferenceNotFound
	}
	return v, nil
}

func (p *Preferences) Set(ctx context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = value
	return nil
}

func (p *Preferences) Delete(ctx context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.data, key)
	return nil
}
