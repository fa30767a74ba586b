package ports

import (
	"context"

	"github.com/oolestudio/tamashi/pkg/domain"
)

// SnapshotStore persists tutorial state so a session can be resumed later.
type SnapshotStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.State) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.State, error)

	// Delete removes the state for a given session ID. Deleting an unknown
	// session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}

// PreferenceStore is a small key/value store for user preferences.
type PreferenceStore interface {
	// Get returns domain.ErrPreferenceNotFound for keys never written.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Catalog resolves tutorial definitions.
type Catalog interface {
	// Get returns domain.ErrTutorialNotFound for unknown IDs.
	Get(ctx context.Context, id string) (domain.Tutorial, error)

	// List returns the IDs of every tutorial, sorted.
	List(ctx context.Context) ([]string, error)
}
