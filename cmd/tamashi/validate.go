package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oolestudio/tamashi/internal/cli"
	"github.com/oolestudio/tamashi/pkg/graph"
)

var validateCmd = &cobra.Command{
	Use:   "validate [tutorial-id...]",
	Short: "Check tutorials for consistency",
	Long: `Reports dangling next steps, duplicate or empty step IDs and unknown start steps.
Unreachable steps and loops are reported as warnings. Without arguments every
tutorial in the catalog is checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd, cli.AppOptions{LenientCatalog: true})
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmd.Context()
		ids := args
		if len(ids) == 0 {
			if ids, err = app.Catalog.List(ctx); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, id := range ids {
			t, err := app.Catalog.Get(ctx, id)
			if err == nil {
				err = graph.ValidateTutorial(t)
			}
			if err != nil {
				failed++
				fmt.Fprintf(out, "❌ %s\n", id)
				problems := graph.ValidationErrors(err)
				if problems == nil {
					problems = []error{err}
				}
				for _, p := range problems {
					fmt.Fprintf(out, "   - %v\n", p)
				}
				continue
			}

			fmt.Fprintf(out, "✅ %s (%d steps)\n", id, len(t.Steps))
			for _, unreachable := range graph.Unreachable(t.Steps, t.StartStepID) {
				fmt.Fprintf(out, "   ⚠️  step %q is never reached from %q\n", unreachable, t.StartStepID)
			}
			if graph.Cyclic(t.Steps, t.StartStepID) {
				fmt.Fprintf(out, "   ⚠️  the tutorial loops and never ends on its own\n")
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d tutorials are invalid", failed, len(ids))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
