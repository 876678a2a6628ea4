package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aretw0/recipe-decider/internal/cli"
)

// withClient opens the configured session, loads the list and runs fn under
// the session lock. A failed initial load is reported but not fatal.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *cli.Client) error) error {
	ctx := cli.NewSignalContext(cmd.Context())
	defer ctx.Cancel()

	c, err := cli.OpenClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	return c.Run(ctx, func(ctx context.Context) error {
		if err := c.Controller.Init(ctx); err != nil {
			cli.PrintSystemMessage(cmd.ErrOrStderr(), "Backend unavailable at %s, showing an empty list.", cfg.BaseURL)
		}
		if err := fn(ctx, c); err != nil {
			return err
		}
		c.Controller.Wait()
		return nil
	})
}
