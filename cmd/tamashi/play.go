package main

import (
	"github.com/spf13/cobra"

	"github.com/oolestudio/tamashi/internal/cli"
)

var playCmd = &cobra.Command{
	Use:   "play [tutorial-id]",
	Short: "Play a tutorial in the terminal",
	Long: `Shows the tutorial as a speech bubble. Enter advances, r restarts, esc closes.
Progress is kept in the configured session store, so an interrupted run resumes.
Without a terminal, steps are printed as lines and each input line is a command.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		opts := cli.PlayOptions{
			In:  cmd.InOrStdin(),
			Out: cmd.OutOrStdout(),
		}
		if len(args) > 0 {
			opts.TutorialID = args[0]
		}
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.StartStepID, _ = cmd.Flags().GetString("start")
		opts.Restart, _ = cmd.Flags().GetBool("restart")
		opts.Plain, _ = cmd.Flags().GetBool("plain")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Play(ctx, app, opts)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().String("session", cli.DefaultSessionID, "Session ID the progress is saved under")
	playCmd.Flags().String("start", "", "Start at this step instead of the tutorial's start step")
	playCmd.Flags().Bool("restart", false, "Ignore saved progress")
	playCmd.Flags().Bool("plain", false, "Use the line-based player even on a terminal")

	// Playing is what running tamashi without a subcommand means.
	rootCmd.Args = playCmd.Args
	rootCmd.RunE = playCmd.RunE
	rootCmd.Flags().AddFlagSet(playCmd.Flags())
}
