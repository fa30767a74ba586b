package ports

import (
	"context"
	"testing"
	"time"

	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	steps := []domain.Step{
		{ID: "step1", Text: "first", SpeakerName: "Bublu", Dismissible: true, NextStepID: "step2"},
		{ID: "step2", Text: "second", SpeakerName: "Bublu"},
		{ID: "step0", Text: "zeroth"},
	}

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState("home", steps)
		state.CurrentStepID = "step2"

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "home", loaded.TutorialID)
		assert.Equal(t, "step2", loaded.CurrentStepID)
		assert.True(t, loaded.Visible)
		assert.Equal(t, []string{"step1", "step2", "step0"}, loaded.StepIDs(), "step order must survive persistence")

		step, ok := loaded.Step("step1")
		require.True(t, ok)
		assert.Equal(t, steps[0], step)
	})

	t.Run("Load returns an independent copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.CurrentStepID = "mutated"
		loaded.Steps.Delete("step1")

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "step2", again.CurrentStepID)
		assert.Len(t, again.StepIDs(), 3)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState("home", steps))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "deleting twice is fine")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState("a", nil))
		_ = store.Save(ctx, id2, domain.NewState("b", nil))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunPreferenceStoreContract verifies a PreferenceStore implementation.
func RunPreferenceStoreContract(t *testing.T, store PreferenceStore) {
	ctx := context.Background()
	key := "contract-pref-" + time.Now().Format("20060102150405")

	t.Run("Missing key", func(t *testing.T) {
		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrPreferenceNotFound)
	})

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, "Bublu"))
		v, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "Bublu", v)

		require.NoError(t, store.Set(ctx, key, "Kumo"))
		v, err = store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "Kumo", v, "Set overwrites")
	})

	t.Run("Empty value is stored", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key+"-empty", ""))
		v, err := store.Get(ctx, key+"-empty")
		require.NoError(t, err)
		assert.Equal(t, "", v)
		_ = store.Delete(ctx, key+"-empty")
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, key))
		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrPreferenceNotFound)
		assert.NoError(t, store.Delete(ctx, key), "deleting twice is fine")
	})
}
