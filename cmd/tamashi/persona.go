package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/persona"
)

var personaCmd = &cobra.Command{
	Use:   "persona",
	Short: "Choose the guide character",
	Long:  `List the available guides and store which one voices the tutorials.`,
}

var personaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available guides",
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range persona.Options() {
			fmt.Fprintf(cmd.OutOrStdout(), "- %s (%s)\n", p.Name, p.AssetRef)
		}
	},
}

var personaShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the guide in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		chosen, err := app.Personas.Chosen(cmd.Context())
		if err != nil {
			return err
		}
		status := "default"
		if chosen {
			status = "chosen"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) [%s]\n", app.Persona.Name, app.Persona.AssetRef, status)
		return nil
	},
}

var personaSelectCmd = &cobra.Command{
	Use:   "select <name>",
	Short: "Store the guide to use",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, ok := persona.Lookup(args[0])
		if !ok {
			asset, _ := cmd.Flags().GetString("asset")
			if asset == "" {
				return fmt.Errorf("unknown guide %q: pass --asset to use a custom one", args[0])
			}
			p = domain.Persona{Name: args[0], AssetRef: asset}
		}

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Personas.Confirm(cmd.Context(), p); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s will guide you now\n", p.Name)
		return nil
	},
}

var personaClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the stored guide",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()
		return app.Personas.Clear(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(personaCmd)
	personaCmd.AddCommand(personaListCmd, personaShowCmd, personaSelectCmd, personaClearCmd)
	personaSelectCmd.Flags().String("asset", "", "Asset reference for a custom guide")
}
