package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/oolestudio/tamashi/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPreferencesKey is the hash holding every preference.
const DefaultPreferencesKey = "tamashi:preferences"

// Preferences implements ports.PreferenceStore as fields of one Redis hash.
type Preferences struct {
	client *backend.Client
	key    string
}

// NewPreferences stores preferences under the given hash key, or
// DefaultPreferencesKey when key is empty.
func NewPreferences(client *backend.Client, key string) *Preferences {
	if key == "" {
		key = DefaultPreferencesKey
	}
	return &Preferences{client: client, key: key}
}

func (p *Preferences) Get(ctx context.Context, key string) (string, error) {
	v, err := p.client.HGet(ctx, p.key, key).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", domain.ErrPreferenceNotFound
		}
		return "", fmt.Errorf("failed to read preference %q: %w", key, err)
	}
	return v, nil
}

func (p *Preferences) Set(ctx context.Context, key, value string) error {
	if err := p.client.HSet(ctx, p.key, key, value).Err(); err != nil {
		return fmt.Errorf("failed to write preference %q: %w", key, err)
	}
	return nil
}

func (p *Preferences) Delete(ctx context.Context, key string) error {
	return p.client.HDel(ctx, p.key, key).Err()
}
