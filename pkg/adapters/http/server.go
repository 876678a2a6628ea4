package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	recipedecider "github.com/aretw0/recipe-decider"
	"github.com/aretw0/recipe-decider/internal/logging"
	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/aretw0/recipe-decider/pkg/metrics"
	"github.com/aretw0/recipe-decider/pkg/protocol"
	"github.com/go-chi/chi/v5"
)

// RecipeService is the backend the handler exposes.
type RecipeService interface {
	List(ctx context.Context) (domain.RecipeList, error)
	Add(ctx context.Context, recipe domain.Recipe) (domain.Recipe, error)
	Update(ctx context.Context, index int, recipe domain.Recipe) error
	Delete(ctx context.Context, index int) error
	Roll(ctx context.Context) (*domain.Recipe, error)
}

// Server serves the recipe resource and the push channel.
type Server struct {
	Service RecipeService
	Streams *StreamManager

	logger     *slog.Logger
	metrics    *metrics.Server
	apiVersion string
}

// ServerOption configures the handler.
type ServerOption func(*Server)

// WithStreams shares a StreamManager with the backend publisher.
func WithStreams(sm *StreamManager) ServerOption {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics enables request instrumentation.
func WithMetrics(m *metrics.Server) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewHandler creates the HTTP handler for svc.
func NewHandler(svc RecipeService, opts ...ServerOption) (http.Handler, error) {
	server := &Server{
		Service: svc,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.Streams == nil {
		server.Streams = NewStreamManager(server.logger, server.metrics)
	}

	doc, err := LoadSpec()
	if err != nil {
		return nil, err
	}
	validator, err := newRequestValidator(doc)
	if err != nil {
		return nil, err
	}
	if doc.Info != nil {
		server.apiVersion = doc.Info.Version
	}

	r := chi.NewRouter()
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/events", server.SubscribeEvents)
	r.Get("/recipes", server.GetRecipes)
	r.With(validator.Middleware).Post("/recipes", server.PostRecipes)

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetRecipes handles GET /recipes.
func (s *Server) GetRecipes(w http.ResponseWriter, r *http.Request) {
	list, err := s.Service.List(r.Context())
	if err != nil {
		s.fail(w, protocol.TagGetRecipes, err)
		return
	}
	s.metrics.ObserveRequest(protocol.TagGetRecipes, metrics.ResultOK)
	s.respond(w, http.StatusOK, func() ([]byte, error) { return protocol.EncodeRecipes(list) })
}

// PostRecipes handles POST /recipes. The body has already passed schema validation.
func (s *Server) PostRecipes(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req, err := protocol.DecodeRequest(body)
	if err != nil {
		s.logger.Warn("PostRecipes: rejected request", "error", err)
		s.metrics.ObserveRequest("unknown", metrics.ResultInvalid)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	s.logger.Debug("PostRecipes", "request", req.Tag())

	switch req := req.(type) {
	case protocol.AddRecipe:
		added, err := s.Service.Add(ctx, req.Recipe)
		if err != nil {
			s.fail(w, req.Tag(), err)
			return
		}
		s.metrics.ObserveRequest(req.Tag(), metrics.ResultOK)
		s.respond(w, http.StatusCreated, func() ([]byte, error) { return protocol.EncodeRecipeAdded(added) })

	case protocol.UpdateRecipe:
		if err := s.Service.Update(ctx, req.Index, req.Recipe); err != nil {
			s.fail(w, req.Tag(), err)
			return
		}
		s.metrics.ObserveRequest(req.Tag(), metrics.ResultOK)
		s.respond(w, http.StatusOK, protocol.EncodeRecipeUpdated)

	case protocol.DeleteRecipe:
		if err := s.Service.Delete(ctx, req.Index); err != nil {
			s.fail(w, req.Tag(), err)
			return
		}
		s.metrics.ObserveRequest(req.Tag(), metrics.ResultOK)
		s.respond(w, http.StatusOK, protocol.EncodeRecipeDeleted)

	case protocol.RollRecipe:
		rolled, err := s.Service.Roll(ctx)
		if err != nil {
			s.fail(w, req.Tag(), err)
			return
		}
		s.metrics.ObserveRequest(req.Tag(), metrics.ResultOK)
		s.respond(w, http.StatusOK, func() ([]byte, error) { return protocol.EncodeRolledRecipe(rolled) })

	case protocol.GetRecipes:
		s.GetRecipes(w, r)

	default:
		writeError(w, http.StatusBadRequest, "Unsupported request")
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := s.apiVersion
	if apiVersion == "" {
		apiVersion = "unknown"
	}
	resp := map[string]any{
		"app":         "recipe-decider",
		"version":     strings.TrimSpace(recipedecider.Version),
		"api_version": apiVersion,
		"subscribers": s.Streams.Len(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	q := r.URL.Query()
	client := q.Get("node") + "/" + q.Get("process")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(client)
	defer cancel()
	s.logger.Info("SSE: Client connected", "client", client)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected", "client", client)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// fail maps service errors to the wire error body.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrIndexOutOfRange):
		s.metrics.ObserveRequest(op, metrics.ResultInvalid)
		writeError(w, http.StatusBadRequest, "Invalid recipe index")
	case errors.Is(err, domain.ErrInvalidRecipe):
		s.metrics.ObserveRequest(op, metrics.ResultInvalid)
		writeError(w, http.StatusBadRequest, "Invalid recipe")
	default:
		s.logger.Error("request failed", "op", op, "error", err)
		s.metrics.ObserveRequest(op, metrics.ResultError)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (s *Server) respond(w http.ResponseWriter, status int, encode func() ([]byte, error)) {
	data, err := encode()
	if err != nil {
		s.logger.Error("response encode failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	data, err := protocol.EncodeError(msg)
	if err != nil {
		http.Error(w, msg, status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
