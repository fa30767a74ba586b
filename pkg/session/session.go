package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/observable"
	"github.com/oolestudio/tamashi/pkg/tutorial"
)

// Session is one live tutorial store bound to a session ID.
//
// Mutations go through the Manager lock and are persisted before they return.
// Reading methods and subscriptions are served by the in-memory store.
type Session struct {
	ID string

	manager    *Manager
	store      *tutorial.Store
	projection *tutorial.Projection

	amu      sync.Mutex
	lastUsed time.Time
	watchers int
}

func newSession(m *Manager, id string, state *domain.State) *Session {
	store := tutorial.NewStore(
		tutorial.WithLogger(m.logger.With("session_id", id)),
		tutorial.WithLifecycleHooks(m.hooks),
	)
	if state != nil {
		store.Restore(state)
	}
	return &Session{
		ID:         id,
		manager:    m,
		store:      store,
		projection: tutorial.NewProjection(store),
		lastUsed:   m.now(),
	}
}

// Store returns the session's tutorial store. Mutating it directly bypasses
// locking and persistence.
func (s *Session) Store() *tutorial.Store { return s.store }

// Projection returns the session's view stream.
func (s *Session) Projection() *tutorial.Projection { return s.projection }

// Watch streams views until ctx is done. A watched session is never evicted.
func (s *Session) Watch(ctx context.Context, buffer int) <-chan domain.View {
	s.amu.Lock()
	s.watchers++
	s.lastUsed = s.manager.now()
	s.amu.Unlock()

	views := observable.Watch[domain.View](ctx, s.projection, buffer)
	go func() {
		<-ctx.Done()
		s.amu.Lock()
		s.watchers--
		s.lastUsed = s.manager.now()
		s.amu.Unlock()
	}()
	return views
}

func (s *Session) touch() {
	s.amu.Lock()
	s.lastUsed = s.manager.now()
	s.amu.Unlock()
}

func (s *Session) idle(now time.Time, maxIdle time.Duration) bool {
	s.amu.Lock()
	defer s.amu.Unlock()
	return s.watchers == 0 && now.Sub(s.lastUsed) >= maxIdle
}

// View returns the current view.
func (s *Session) View() domain.View { return s.projection.View() }

// Load starts a tutorial in this session.
func (s *Session) Load(ctx context.Context, tutorialID string, steps []domain.Step, startStepID string) (domain.View, error) {
	return s.mutate(ctx, func(st *tutorial.Store) {
		st.Load(tutorialID, steps, startStepID)
	})
}

// Advance moves to the next step.
func (s *Session) Advance(ctx context.Context) (domain.View, error) {
	return s.mutate(ctx, (*tutorial.Store).Advance)
}

// Dismiss hides the guide.
func (s *Session) Dismiss(ctx context.Context) (domain.View, error) {
	return s.mutate(ctx, (*tutorial.Store).Dismiss)
}

// Reset restarts the loaded tutorial.
func (s *Session) Reset(ctx context.Context) (domain.View, error) {
	return s.mutate(ctx, (*tutorial.Store).Reset)
}

func (s *Session) mutate(ctx context.Context, op func(*tutorial.Store)) (domain.View, error) {
	err := s.manager.WithLock(ctx, s.ID, func(ctx context.Context) error {
		if s.manager.locker != nil {
			if err := s.refresh(ctx); err != nil {
				return err
			}
		}

		s.touch()
		prev := s.store.State()
		op(s.store)

		state := s.store.State()
		if state == nil {
			return nil
		}
		if err := s.manager.store.Save(ctx, s.ID, state); err != nil {
			s.rollback(prev)
			return fmt.Errorf("failed to persist session %s: %w", s.ID, err)
		}
		return nil
	})
	return s.View(), err
}

// rollback puts the live store back on the last persisted state so watchers
// never run ahead of the store.
func (s *Session) rollback(prev *domain.State) {
	if prev == nil {
		s.store.Unload()
	} else {
		s.store.Restore(prev)
	}
	s.manager.logger.Warn("session rolled back after failed save", "session_id", s.ID)
}

// refresh picks up a snapshot written by another replica since this session
// last saw the store.
func (s *Session) refresh(ctx context.Context) error {
	stored, err := s.manager.store.Load(ctx, s.ID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to refresh session %s: %w", s.ID, err)
	}

	remote, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	local, err := json.Marshal(s.store.State())
	if err != nil {
		return err
	}
	if !bytes.Equal(remote, local) {
		s.store.Restore(stored)
	}
	return nil
}
