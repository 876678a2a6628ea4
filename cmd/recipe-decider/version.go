package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	recipedecider "github.com/aretw0/recipe-decider"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of recipe-decider",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "recipe-decider version %s\n", strings.TrimSpace(recipedecider.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
