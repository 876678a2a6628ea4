package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/recipe-decider/internal/logging"
	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/aretw0/recipe-decider/pkg/ports"
	"github.com/aretw0/recipe-decider/pkg/protocol"
)

// DefaultRequestTimeout bounds a single request when no http.Client is supplied.
const DefaultRequestTimeout = 10 * time.Second

// DefaultMaxResponseSize caps the body of a backend response.
const DefaultMaxResponseSize int64 = 32 << 20

// ErrResponseTooLarge is returned when a response body exceeds the client's limit.
var ErrResponseTooLarge = errors.New("response too large")

var _ ports.RecipeAPI = (*Client)(nil)

// Client implements ports.RecipeAPI over the /recipes resource.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	maxBody int64
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets the transport. Its Timeout applies to every request.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithClientLogger configures the structured logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMaxResponseSize overrides DefaultMaxResponseSize.
func WithMaxResponseSize(n int64) ClientOption {
	return func(c *Client) {
		c.maxBody = n
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultRequestTimeout},
		logger:  logging.NewNop(),
		maxBody: DefaultMaxResponseSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List implements ports.RecipeAPI.
func (c *Client) List(ctx context.Context) (domain.RecipeList, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/recipes", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return protocol.DecodeRecipes(body)
}

// Add implements ports.RecipeAPI. An answer without a decodable echo yields a nil recipe.
func (c *Client) Add(ctx context.Context, recipe domain.Recipe) (*domain.Recipe, error) {
	body, err := c.post(ctx, protocol.AddRecipe{Recipe: recipe})
	if err != nil {
		return nil, err
	}
	added, err := protocol.DecodeRecipeAdded(body)
	if err != nil {
		c.logger.Warn("add: ignoring undecodable echo", "error", err)
		return nil, nil
	}
	return added, nil
}

// Update implements ports.RecipeAPI.
func (c *Client) Update(ctx context.Context, index int, recipe domain.Recipe) error {
	_, err := c.post(ctx, protocol.UpdateRecipe{Index: index, Recipe: recipe})
	return err
}

// Delete implements ports.RecipeAPI.
func (c *Client) Delete(ctx context.Context, index int) error {
	_, err := c.post(ctx, protocol.DeleteRecipe{Index: index})
	return err
}

// Roll implements ports.RecipeAPI.
func (c *Client) Roll(ctx context.Context) (*domain.Recipe, error) {
	body, err := c.post(ctx, protocol.RollRecipe{})
	if err != nil {
		return nil, err
	}
	return protocol.DecodeRolledRecipe(body)
}

func (c *Client) post(ctx context.Context, r protocol.Request) ([]byte, error) {
	payload, err := protocol.EncodeRequest(r)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recipes", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// do sends req and returns the body of a 2xx answer. Other statuses map to domain.ErrRemote.
func (c *Client) do(req *http.Request) ([]byte, error) {
	c.logger.Debug("backend request", "method", req.Method, "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	// One extra byte tells a body at the limit from a truncated one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: more than %d bytes from %s", ErrResponseTooLarge, c.maxBody, req.URL.Path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		var eb protocol.ErrorBody
		if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
			msg = eb.Error
		}
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrRemote, resp.StatusCode, msg)
	}
	return body, nil
}
