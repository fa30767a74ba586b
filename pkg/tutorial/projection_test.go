package tutorial_test

import (
	"testing"

	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/tutorial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	loaded := domain.NewState("t", chain("a", "b"))
	loaded.CurrentStepID = "a"

	hidden := loaded.Snapshot()
	hidden.Visible = false

	noPointer := loaded.Snapshot()
	noPointer.CurrentStepID = ""

	dangling := loaded.Snapshot()
	dangling.CurrentStepID = "ghost"

	tests := []struct {
		name        string
		state       *domain.State
		wantVisible bool
		wantStep    string
	}{
		{name: "nil state", state: nil},
		{name: "visible step", state: loaded, wantVisible: true, wantStep: "a"},
		{name: "dismissed keeps step", state: hidden, wantStep: "a"},
		{name: "no pointer", state: noPointer},
		{name: "dangling pointer", state: dangling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := tutorial.Project(tt.state)
			assert.Equal(t, tt.wantVisible, view.Visible)
			assert.Equal(t, tt.wantStep, view.StepID())
			if tt.wantStep == "" {
				assert.Nil(t, view.Step)
			}
		})
	}
}

func TestProjection_HiddenBeforeLoad(t *testing.T) {
	store := tutorial.NewStore()
	p := tutorial.NewProjection(store)
	defer p.Close()

	view := p.View()
	assert.False(t, view.Visible)
	assert.Nil(t, view.Step)
}

func TestProjection_EmptyLoadRendersNothing(t *testing.T) {
	store := tutorial.NewStore()
	p := tutorial.NewProjection(store)
	defer p.Close()

	store.Load("empty", nil, "")

	view := p.View()
	assert.False(t, view.Visible)
	assert.Nil(t, view.Step)
}

func TestProjection_FollowsStore(t *testing.T) {
	store := tutorial.NewStore()
	p := tutorial.NewProjection(store)
	defer p.Close()

	var views []domain.View
	p.Subscribe(func(v domain.View) { views = append(views, v) })

	store.Load("home_playlists", chain("step1", "step2", "step3", "step4"), "step1")
	store.Advance()
	store.Advance()
	store.Advance()
	store.Advance()

	require.Len(t, views, 6, "initial hidden view + load + four advances")
	assert.False(t, views[0].Visible)

	var ids []string
	for _, v := range views[1:5] {
		assert.True(t, v.Visible)
		ids = append(ids, v.StepID())
	}
	assert.Equal(t, []string{"step1", "step2", "step3", "step4"}, ids)

	last := views[5]
	assert.False(t, last.Visible)
	assert.Equal(t, "step4", last.StepID(), "the step still resolves after dismissal")
}

func TestProjection_DismissTwiceEmitsTwice(t *testing.T) {
	store := tutorial.NewStore()
	store.Load("t", chain("a"), "")
	p := tutorial.NewProjection(store)
	defer p.Close()

	var views []domain.View
	p.Subscribe(func(v domain.View) { views = append(views, v) })

	store.Dismiss()
	store.Dismiss()

	require.Len(t, views, 3)
	assert.Equal(t, views[1], views[2])
	assert.False(t, views[2].Visible)
}

func TestProjection_RederivesAcrossLoads(t *testing.T) {
	store := tutorial.NewStore()
	p := tutorial.NewProjection(store)
	defer p.Close()

	store.Load("one", []domain.Step{{ID: "a", Text: "from one"}}, "")
	assert.Equal(t, "from one", p.View().Step.Text)

	store.Load("two", []domain.Step{{ID: "a", Text: "from two"}}, "")
	assert.Equal(t, "from two", p.View().Step.Text)
	assert.Equal(t, "two", p.View().TutorialID)
}

func TestProjection_Purity(t *testing.T) {
	run := func() []domain.View {
		store := tutorial.NewStore()
		p := tutorial.NewProjection(store)
		defer p.Close()

		var views []domain.View
		p.Subscribe(func(v domain.View) { views = append(views, v) })

		store.Load("t", chain("a", "b", "c"), "")
		store.Advance()
		store.Dismiss()
		store.Reset()
		store.Advance()
		store.Advance()
		store.Advance()
		return views
	}

	assert.Equal(t, run(), run())
}

func TestProjection_CloseStopsUpdates(t *testing.T) {
	store := tutorial.NewStore()
	p := tutorial.NewProjection(store)
	store.Load("t", chain("a", "b"), "")

	p.Close()
	p.Close()
	store.Advance()

	assert.Equal(t, "a", p.View().StepID())
}
