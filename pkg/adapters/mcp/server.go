package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	recipedecider "github.com/aretw0/recipe-decider"
	"github.com/aretw0/recipe-decider/internal/logging"
	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RecipesURI is the resource exposing the current list.
const RecipesURI = "recipes://list"

// Service is the backend the tools operate on.
type Service interface {
	List(ctx context.Context) (domain.RecipeList, error)
	Add(ctx context.Context, recipe domain.Recipe) (domain.Recipe, error)
	Update(ctx context.Context, index int, recipe domain.Recipe) error
	Delete(ctx context.Context, index int) error
	// Announce rolls and broadcasts the result to connected clients.
	Announce(ctx context.Context) (*domain.Recipe, error)
}

// Server exposes the recipe backend as an MCP server.
type Server struct {
	service   Service
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(service Service, opts ...Option) *Server {
	s := &Server{
		service:   service,
		mcpServer: server.NewMCPServer("recipe-decider-mcp", strings.TrimSpace(recipedecider.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_recipes",
		mcp.WithDescription("List every recipe in display order. Indices are zero-based positions."),
	), s.handleList)

	s.mcpServer.AddTool(mcp.NewTool("add_recipe",
		mcp.WithDescription("Append a recipe to the shared list."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Recipe name")),
		mcp.WithString("instructions", mcp.Required(), mcp.Description("Free-text cooking instructions")),
	), s.handleAdd)

	s.mcpServer.AddTool(mcp.NewTool("update_recipe",
		mcp.WithDescription("Replace the recipe at a position."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based position")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Recipe name")),
		mcp.WithString("instructions", mcp.Required(), mcp.Description("Free-text cooking instructions")),
	), s.handleUpdate)

	s.mcpServer.AddTool(mcp.NewTool("delete_recipe",
		mcp.WithDescription("Remove the recipe at a position. Later recipes shift down by one."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based position")),
	), s.handleDelete)

	s.mcpServer.AddTool(mcp.NewTool("roll_recipe",
		mcp.WithDescription("Pick a random recipe and announce it to every connected client."),
	), s.handleRoll)
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.service.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	return jsonResult(list)
}

func (s *Server) handleAdd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recipe, err := recipeArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	added, err := s.service.Add(ctx, recipe)
	if err != nil {
		return toolError("add", err), nil
	}
	s.logger.Info("MCP: recipe added", "name", added.Name)
	return jsonResult(added)
}

func (s *Server) handleUpdate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := request.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recipe, err := recipeArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.service.Update(ctx, index, recipe); err != nil {
		return toolError("update", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("recipe %d updated", index)), nil
}

func (s *Server) handleDelete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := request.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.service.Delete(ctx, index); err != nil {
		return toolError("delete", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("recipe %d deleted", index)), nil
}

func (s *Server) handleRoll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rolled, err := s.service.Announce(ctx)
	if err != nil {
		return toolError("roll", err), nil
	}
	if rolled == nil {
		return mcp.NewToolResultText("no recipes to roll"), nil
	}
	return jsonResult(rolled)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(RecipesURI, "Recipe List",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		list, err := s.service.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list recipes: %w", err)
		}
		data, err := json.Marshal(list)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      RecipesURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func recipeArgs(request mcp.CallToolRequest) (domain.Recipe, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return domain.Recipe{}, err
	}
	instructions, err := request.RequireString("instructions")
	if err != nil {
		return domain.Recipe{}, err
	}
	return domain.Recipe{Name: name, Instructions: instructions}, nil
}

func toolError(op string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, domain.ErrIndexOutOfRange):
		return mcp.NewToolResultError("invalid recipe index")
	case errors.Is(err, domain.ErrInvalidRecipe):
		return mcp.NewToolResultError("name and instructions are required")
	default:
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", op, err))
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
