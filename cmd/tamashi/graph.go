package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oolestudio/tamashi/internal/presentation/graph"
	"github.com/oolestudio/tamashi/pkg/domain"
)

var graphCmd = &cobra.Command{
	Use:   "graph <tutorial-id>",
	Short: "Export the tutorial graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the tutorial's steps.
With --session, the steps the session went through and its current step are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmd.Context()
		t, err := app.Catalog.Get(ctx, args[0])
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if sessionID, _ := cmd.Flags().GetString("session"); sessionID != "" {
			state, err := app.Sessions.Store().Load(ctx, sessionID)
			switch {
			case errors.Is(err, domain.ErrSessionNotFound):
				app.Logger.Warn("session not found, rendering without overlay", "session_id", sessionID)
			case err != nil:
				return err
			case state.TutorialID == t.ID:
				overlay = graph.OverlayFromState(state)
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(t, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Highlight the progress of this session")
}
