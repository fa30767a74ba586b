package catalog

import (
	"github.com/oolestudio/tamashi/pkg/adapters/memory"
	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/dsl"
)

// HomePlaylistsID is the onboarding shown on the home screen.
const HomePlaylistsID = "home_playlists"

// HomePlaylists walks a new user through creating their first playlist.
func HomePlaylists(p domain.Persona) domain.Tutorial {
	b := dsl.New(HomePlaylistsID,
		dsl.WithTitle("Create your first playlist"),
		dsl.WithPersona(p),
	)

	b.Add("step1").
		Say(`To create a new playlist, use the "New playlist" button below.`).
		Next("step2")

	b.Add("step2").
		Say(`Great, now give your playlist a name, for example "Exercise", "Yoga" or "Study".`).
		Next("step3")

	b.Add("step3").
		Say(`Then pick a category. If your playlist is called "Exercise", put it in "Physical health".`).
		Next("step4")

	b.Add("step4").
		Say(`Finally choose your favorite color for the playlist and tap "Create" at the top right.`).
		Terminal()

	return b.StartAt("step1").MustBuild()
}

// Builtin returns every tutorial shipped with tamashi.
func Builtin(p domain.Persona) []domain.Tutorial {
	return []domain.Tutorial{
		HomePlaylists(p),
	}
}

// NewBuiltin returns the built-in tutorials as a catalog.
func NewBuiltin(p domain.Persona) *memory.Catalog {
	return memory.NewCatalog(Builtin(p)...)
}
