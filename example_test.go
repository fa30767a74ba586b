package tamashi_test

import (
	"fmt"

	"github.com/oolestudio/tamashi"
	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/dsl"
)

func ExampleNew() {
	b := dsl.New("welcome")
	b.Add("hello").Say("Hi, I'm Bublu!").Next("tip")
	b.Add("tip").Say("Tap me to continue.")

	tut := tamashi.New(tamashi.WithValidation(tamashi.ValidationStrict))
	defer tut.Close()

	tut.Subscribe(func(v domain.View) {
		if !v.Visible || v.Step == nil {
			fmt.Println("(hidden)")
			return
		}
		fmt.Printf("%s: %s\n", v.Step.SpeakerName, v.Step.Text)
	})

	if err := tut.Start(b.MustBuild()); err != nil {
		fmt.Println(err)
		return
	}
	tut.Advance()
	tut.Advance()

	// Output:
	// (hidden)
	// Bublu: Hi, I'm Bublu!
	// Bublu: Tap me to continue.
	// (hidden)
}
