package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/recipe-decider/internal/cli"
	"github.com/aretw0/recipe-decider/internal/presentation/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the recipe list as other clients change it",
	Long: `Loads the list, then prints one line per change pushed by the backend
until interrupted. The connection is retried after a short delay when it drops.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		c, err := cli.OpenClient(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer c.Close()

		out := cmd.OutOrStdout()
		if tui.IsTerminal(out) {
			tui.PrintBanner(out)
		}
		if err := c.Controller.Init(ctx); err != nil {
			cli.PrintSystemMessage(cmd.ErrOrStderr(), "Backend unavailable at %s, waiting for it.", cfg.BaseURL)
		}

		err = cli.Watch(ctx, c, out)
		if sig := ctx.Signal(); sig != nil {
			cli.PrintSystemMessage(cmd.ErrOrStderr(), "Stopped (%s).", sig)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
