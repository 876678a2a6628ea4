package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/recipe-decider/internal/cli"
	"github.com/aretw0/recipe-decider/internal/config"
	"github.com/aretw0/recipe-decider/pkg/domain"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "recipe-decider",
	Short: "Decide what to cook from a shared recipe list",
	Long: `Recipe Decider keeps a shared list of recipes in sync across clients.
Add, edit and delete recipes, then roll one at random.

Run 'recipe-decider serve' to start the reference backend.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		applyFlags(cmd, loaded)
		if err := loaded.Validate(); err != nil {
			return err
		}

		l, err := cli.NewLogger(loaded)
		if err != nil {
			return err
		}
		cfg, logger = loaded, l
		return nil
	},
}

// applyFlags overrides file and environment values with explicit flags.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("session") {
		c.SessionID, _ = flags.GetString("session")
	}
	if flags.Changed("base-url") {
		c.BaseURL, _ = flags.GetString("base-url")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringP("session", "s", domain.DefaultSessionID, "Session whose UI state is used")
	rootCmd.PersistentFlags().String("base-url", "http://localhost:3000", "Backend base URL")
}
