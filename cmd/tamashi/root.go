package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oolestudio/tamashi/internal/cli"
	"github.com/oolestudio/tamashi/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "tamashi",
	Short: "Tamashi is an onboarding guide that walks users through short tutorials",
	Long: `Tamashi plays step-by-step tutorials voiced by a guide character.
Tutorials come from the built-in catalog, a YAML file or a directory of Markdown steps.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default $TAMASHI_CONFIG or ~/.config/tamashi/config.yaml)")
	rootCmd.PersistentFlags().String("catalog", "", "Tutorial catalog: a YAML file or a directory of Markdown steps (default: built-in)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("debug", false, "Log every tutorial lifecycle event")
}

// newApp loads the config and builds the app for a command.
func newApp(cmd *cobra.Command) (*cli.App, error) {
	return openApp(cmd, cli.AppOptions{})
}

// openApp is newApp with command-specific options; flags fill in the rest.
func openApp(cmd *cobra.Command, opts cli.AppOptions) (*cli.App, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	catalogPath, _ := cmd.Flags().GetString("catalog")
	level, _ := cmd.Flags().GetString("log-level")
	debug, _ := cmd.Flags().GetBool("debug")
	if debug && level == "" {
		level = "debug"
	}

	opts.CatalogPath = catalogPath
	opts.LogLevel = level
	opts.Debug = debug
	return cli.NewApp(cmd.Context(), cfg, opts)
}
