package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/oolestudio/tamashi/pkg/adapters/memory"
	"github.com/oolestudio/tamashi/pkg/adapters/redis"
	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var homeSteps = []domain.Step{
	{ID: "step1", Text: "one", NextStepID: "step2"},
	{ID: "step2", Text: "two", NextStepID: "step3"},
	{ID: "step3", Text: "three"},
}

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	*memory.Store
	saves int
	mu    sync.Mutex
}

func NewSlowStore() *SlowStore {
	return &SlowStore{Store: memory.NewStore()}
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, state *domain.State) error {
	time.Sleep(5 * time.Millisecond)
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	return s.Store.Save(ctx, sessionID, state)
}

var errDiskFull = errors.New("disk full")

// FlakyStore fails every Save while failing is set.
type FlakyStore struct {
	*memory.Store
	failing bool
}

func (s *FlakyStore) Save(ctx context.Context, sessionID string, state *domain.State) error {
	if s.failing {
		return errDiskFull
	}
	return s.Store.Save(ctx, sessionID, state)
}

func TestManager_OpenStartsEmptySession(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	sess, err := mgr.Open(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", sess.ID)
	assert.Equal(t, domain.View{}, sess.View())

	again, err := mgr.Open(ctx, "s1")
	require.NoError(t, err)
	assert.Same(t, sess, again, "Open returns the live session")
}

func TestManager_MutationsArePersisted(t *testing.T) {
	store := memory.NewStore()
	mgr := session.NewManager(store)
	ctx := context.Background()

	sess, err := mgr.Open(ctx, "s1")
	require.NoError(t, err)

	view, err := sess.Load(ctx, "home", homeSteps, "")
	require.NoError(t, err)
	assert.Equal(t, "step1", view.StepID())

	view, err = sess.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "step2", view.StepID())

	saved, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "step2", saved.CurrentStepID)

	_, err = sess.Dismiss(ctx)
	require.NoError(t, err)
	saved, _ = store.Load(ctx, "s1")
	assert.False(t, saved.Visible)

	view, err = sess.Reset(ctx)
	require.NoError(t, err)
	assert.True(t, view.Visible)
	assert.Equal(t, "step1", view.StepID())
}

func TestManager_MutationBeforeLoadPersistsNothing(t *testing.T) {
	store := memory.NewStore()
	mgr := session.NewManager(store)
	ctx := context.Background()

	sess, err := mgr.Open(ctx, "s1")
	require.NoError(t, err)
	_, err = sess.Advance(ctx)
	require.NoError(t, err)

	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_ResumeFromAnotherManager(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	first := session.NewManager(store)
	sess, _ := first.Open(ctx, "s1")
	_, _ = sess.Load(ctx, "home", homeSteps, "step2")

	second := session.NewManager(store)
	resumed, err := second.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "step2", resumed.View().StepID())
	assert.Equal(t, "home", resumed.View().TutorialID)

	_, err = second.Get(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_CloseAndDelete(t *testing.T) {
	store := memory.NewStore()
	mgr := session.NewManager(store)
	ctx := context.Background()

	sess, _ := mgr.Open(ctx, "s1")
	_, _ = sess.Load(ctx, "home", homeSteps, "")
	_, _ = mgr.Open(ctx, "live-only")

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"live-only", "s1"}, ids)

	require.NoError(t, mgr.Close(ctx, "s1"))
	reopened, err := mgr.Get(ctx, "s1")
	require.NoError(t, err)
	assert.NotSame(t, sess, reopened)
	assert.Equal(t, "step1", reopened.View().StepID())

	require.NoError(t, mgr.Delete(ctx, "s1"))
	_, err = mgr.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_LifecycleHooks(t *testing.T) {
	var mu sync.Mutex
	var events []domain.EventType
	record := func(e *domain.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e.Type)
	}

	mgr := session.NewManager(memory.NewStore(), session.WithLifecycleHooks(domain.LifecycleHooks{
		OnLoad:      record,
		OnStepEnter: record,
		OnDismiss:   record,
	}))
	ctx := context.Background()

	sess, _ := mgr.Open(ctx, "s1")
	_, _ = sess.Load(ctx, "home", homeSteps[2:], "")
	_, _ = sess.Advance(ctx)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []domain.EventType{
		domain.EventTutorialLoad,
		domain.EventStepEnter,
		domain.EventTutorialDismiss,
	}, events)
}

func TestManager_ConcurrentAdvancesAreSerialized(t *testing.T) {
	store := NewSlowStore()
	mgr := session.NewManager(store)
	ctx := context.Background()

	sess, err := mgr.Open(ctx, "race")
	require.NoError(t, err)

	steps := make([]domain.Step, 0, 11)
	for i := 0; i < 11; i++ {
		s := domain.Step{ID: string(rune('a' + i))}
		if i < 10 {
			s.NextStepID = string(rune('a' + i + 1))
		}
		steps = append(steps, s)
	}
	_, err = sess.Load(ctx, "t", steps, "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sess.Advance(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	saved, err := store.Load(ctx, "race")
	require.NoError(t, err)
	assert.Equal(t, "k", saved.CurrentStepID, "every advance was applied exactly once")
	assert.Equal(t, 11, store.saves)
}

func TestManager_DistributedLockSyncsReplicas(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := redis.NewFromClient(client)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	replicaA := session.NewManager(store, session.WithLocker(locker))
	replicaB := session.NewManager(store, session.WithLocker(locker))

	a, err := replicaA.Open(ctx, "shared")
	require.NoError(t, err)
	_, err = a.Load(ctx, "home", homeSteps, "")
	require.NoError(t, err)

	b, err := replicaB.Open(ctx, "shared")
	require.NoError(t, err)
	view, err := b.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "step2", view.StepID())

	view, err = a.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "step3", view.StepID(), "replica A sees B's advance before applying its own")

	assert.False(t, mr.Exists("test:lock:shared"), "lock released after each mutation")
}

func TestManager_FailedSaveRollsBackLiveState(t *testing.T) {
	store := &FlakyStore{Store: memory.NewStore()}
	mgr := session.NewManager(store)
	ctx := context.Background()

	sess, err := mgr.Open(ctx, "s1")
	require.NoError(t, err)
	_, err = sess.Load(ctx, "home", homeSteps, "")
	require.NoError(t, err)

	var seen []string
	unsubscribe := sess.Projection().Subscribe(func(v domain.View) { seen = append(seen, v.StepID()) })
	defer unsubscribe()

	store.failing = true
	view, err := sess.Advance(ctx)
	require.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, "step1", view.StepID(), "returned view matches what is persisted")
	assert.Equal(t, "step1", sess.Store().State().CurrentStepID)
	assert.Equal(t, "step1", seen[len(seen)-1], "watchers are moved back too")

	saved, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "step1", saved.CurrentStepID)

	store.failing = false
	view, err = sess.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "step2", view.StepID())
}

func TestManager_FailedFirstLoadLeavesSessionEmpty(t *testing.T) {
	store := &FlakyStore{Store: memory.NewStore(), failing: true}
	mgr := session.NewManager(store)
	ctx := context.Background()

	sess, err := mgr.Open(ctx, "s1")
	require.NoError(t, err)
	view, err := sess.Load(ctx, "home", homeSteps, "")
	require.Error(t, err)
	assert.Equal(t, domain.View{}, view)
	assert.Nil(t, sess.Store().State())
}

func TestManager_EvictDropsIdleSessions(t *testing.T) {
	var mu sync.Mutex
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	tick := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	store := memory.NewStore()
	mgr := session.NewManager(store, session.WithClock(clock))
	ctx := context.Background()

	idle, _ := mgr.Open(ctx, "idle")
	_, err := idle.Load(ctx, "home", homeSteps, "")
	require.NoError(t, err)
	busy, _ := mgr.Open(ctx, "busy")
	_, err = busy.Load(ctx, "home", homeSteps, "")
	require.NoError(t, err)

	tick(10 * time.Minute)
	_, err = busy.Advance(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, mgr.Evict(5*time.Minute))

	again, err := mgr.Get(ctx, "busy")
	require.NoError(t, err)
	assert.Same(t, busy, again)

	restored, err := mgr.Get(ctx, "idle")
	require.NoError(t, err)
	assert.NotSame(t, idle, restored, "evicted session is restored from the store")
	assert.Equal(t, "step1", restored.View().StepID())
}

func TestManager_EvictKeepsWatchedSessions(t *testing.T) {
	var mu sync.Mutex
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	tick := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	mgr := session.NewManager(memory.NewStore(), session.WithClock(clock))
	ctx := context.Background()

	sess, _ := mgr.Open(ctx, "watched")
	_, err := sess.Load(ctx, "home", homeSteps, "")
	require.NoError(t, err)

	watchCtx, cancel := context.WithCancel(ctx)
	views := sess.Watch(watchCtx, 4)
	assert.Equal(t, "step1", (<-views).StepID())

	tick(time.Hour)
	assert.Equal(t, 0, mgr.Evict(time.Minute))

	cancel()
	assert.Eventually(t, func() bool {
		tick(time.Hour)
		return mgr.Evict(time.Minute) == 1
	}, time.Second, 10*time.Millisecond)
}
