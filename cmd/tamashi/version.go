package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oolestudio/tamashi"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tamashi",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tamashi version %s\n", strings.TrimSpace(tamashi.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
