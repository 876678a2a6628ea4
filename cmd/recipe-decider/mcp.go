package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/recipe-decider/internal/cli"
	"github.com/aretw0/recipe-decider/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the recipe backend to AI agents as MCP tools
(list_recipes, add_recipe, update_recipe, delete_recipe, roll_recipe).

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.

With --http the HTTP API is served on the configured server port as well, so
recipes rolled by an agent are pushed to watching clients.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyServeFlags(cmd, cfg)
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("mcp-port")
		withHTTP, _ := cmd.Flags().GetBool("http")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		b, err := cli.OpenBackend(cfg, logger, nil)
		if err != nil {
			return err
		}
		defer b.Close()

		if withHTTP {
			go func() {
				if err := listenAndServe(ctx, logger, cfg.Server.Port, b.Handler); err != nil {
					logger.Error("http api stopped", "error", err)
				}
			}()
		}

		srv := mcp.NewServer(b.Service, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			// Keep stray log output off the JSON-RPC stream.
			log.SetOutput(os.Stderr)
			logger.Info("starting MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("starting MCP server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("MCP server stopped")
			return nil
		default:
			return fmt.Errorf("unknown transport %q (stdio or sse)", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("mcp-port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().Bool("http", false, "Also serve the HTTP API and push channel")
	mcpCmd.Flags().String("storage", "file", "Recipe storage: memory, file or redis")
	mcpCmd.Flags().String("recipes-file", "recipes.json", "Recipe file for the file storage")
}
