package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/aretw0/recipe-decider/internal/config"
	"github.com/aretw0/recipe-decider/pkg/adapters/file"
	httpadapter "github.com/aretw0/recipe-decider/pkg/adapters/http"
	"github.com/aretw0/recipe-decider/pkg/adapters/memory"
	"github.com/aretw0/recipe-decider/pkg/adapters/redis"
	"github.com/aretw0/recipe-decider/pkg/backend"
	"github.com/aretw0/recipe-decider/pkg/controller"
	"github.com/aretw0/recipe-decider/pkg/metrics"
	"github.com/aretw0/recipe-decider/pkg/ports"
	"github.com/aretw0/recipe-decider/pkg/session"
	"github.com/aretw0/recipe-decider/pkg/store"
)

// Client bundles the components a client-side command needs.
type Client struct {
	Config     *config.Config
	Logger     *slog.Logger
	API        *httpadapter.Client
	Sessions   *session.Manager
	Store      *store.Store
	Controller *controller.Controller

	untrack func()
	close   func() error
}

// ClientOption configures OpenClient.
type ClientOption func(*clientOptions)

type clientOptions struct {
	registerer prometheus.Registerer
	httpClient *http.Client
}

// WithRegisterer registers the sync collectors on reg.
func WithRegisterer(reg prometheus.Registerer) ClientOption {
	return func(o *clientOptions) {
		o.registerer = reg
	}
}

// WithTransport overrides the HTTP client used for backend calls.
func WithTransport(hc *http.Client) ClientOption {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// OpenClient restores the configured session and wires the controller to the
// backend. UI changes are saved back to the session until Close.
func OpenClient(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...ClientOption) (*Client, error) {
	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}

	sessions, closeSessions, err := NewSessionManager(cfg, logger)
	if err != nil {
		return nil, err
	}

	st, err := sessions.Restore(ctx, cfg.SessionID, store.WithLogger(logger))
	if err != nil {
		closeSessions()
		return nil, fmt.Errorf("failed to restore session %q: %w", cfg.SessionID, err)
	}

	api := httpadapter.NewClient(cfg.BaseURL,
		httpadapter.WithHTTPClient(o.httpClient),
		httpadapter.WithClientLogger(logger),
	)

	ctrlOpts := []controller.Option{controller.WithLogger(logger)}
	if o.registerer != nil {
		ctrlOpts = append(ctrlOpts, controller.WithMetrics(metrics.NewSync(o.registerer)))
	}

	return &Client{
		Config:     cfg,
		Logger:     logger,
		API:        api,
		Sessions:   sessions,
		Store:      st,
		Controller: controller.New(api, st, ctrlOpts...),
		untrack:    sessions.Track(ctx, cfg.SessionID, st),
		close:      closeSessions,
	}, nil
}

// Run executes fn while holding the session lock.
func (c *Client) Run(ctx context.Context, fn func(context.Context) error) error {
	return c.Sessions.WithLock(ctx, c.Config.SessionID, fn)
}

// PushClient builds the push-channel client feeding the controller.
// Every (re)connection triggers a reconciling read.
func (c *Client) PushClient(opts ...httpadapter.PushOption) *httpadapter.PushClient {
	base := []httpadapter.PushOption{
		httpadapter.WithReconnectDelay(c.Config.ReconnectDelay),
		httpadapter.WithPushLogger(c.Logger),
		httpadapter.WithOnConnect(c.Controller.Reconcile),
	}
	return httpadapter.NewPushClient(c.Config.BaseURL, c.Config.Node, c.Config.Process,
		c.Controller.HandlePush, append(base, opts...)...)
}

// Close waits for in-flight reads, stops session tracking and releases the
// UI-state store.
func (c *Client) Close() error {
	c.Controller.Wait()
	c.untrack()
	return c.close()
}

// NewSessionManager builds the session manager over the configured UI-state
// backend. The returned func releases backend connections.
func NewSessionManager(cfg *config.Config, logger *slog.Logger) (*session.Manager, func() error, error) {
	opts := []session.Option{session.WithLogger(logger)}

	var st ports.UIStateStore
	closeFn := func() error { return nil }

	switch cfg.StateBackend {
	case config.BackendMemory:
		st = memory.NewStore()
	case config.BackendFile:
		st = file.New(cfg.StateDir)
	case config.BackendRedis:
		client := newRedisClient(cfg)
		st = redis.NewFromClient(client,
			redis.WithPrefix(cfg.Redis.Prefix+"session:"),
			redis.WithTTL(cfg.Redis.TTL),
		)
		opts = append(opts, session.WithLocker(redis.NewLocker(client, cfg.Redis.Prefix)))
		closeFn = client.Close
	default:
		return nil, nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
	}

	return session.NewManager(st, opts...), closeFn, nil
}

func newRedisClient(cfg *config.Config) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// Backend is the reference server assembled from configuration.
type Backend struct {
	Service *backend.Service
	Streams *httpadapter.StreamManager
	Handler http.Handler

	close func() error
}

// Close releases storage connections.
func (b *Backend) Close() error {
	return b.close()
}

// OpenBackend builds the recipe service over the configured storage and the
// HTTP handler serving it. Collectors are registered on reg when it is not nil.
func OpenBackend(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*Backend, error) {
	var serverMetrics *metrics.Server
	if reg != nil {
		serverMetrics = metrics.NewServer(reg)
	}

	streams := httpadapter.NewStreamManager(logger, serverMetrics)
	opts := []backend.Option{
		backend.WithPublisher(streams),
		backend.WithLogger(logger),
		backend.WithMetrics(serverMetrics),
	}

	var repo ports.RecipeRepository
	closeFn := func() error { return nil }

	switch cfg.Server.Storage {
	case config.BackendMemory:
		repo = memory.NewRepository()
	case config.BackendFile:
		r, err := file.NewRepository(cfg.Server.RecipesFile)
		if err != nil {
			return nil, err
		}
		repo = r
	case config.BackendRedis:
		client := newRedisClient(cfg)
		repo = redis.NewRepository(client, cfg.Redis.Prefix)
		opts = append(opts, backend.WithLocker(redis.NewLocker(client, cfg.Redis.Prefix), session.DefaultLockTTL))
		closeFn = client.Close
	default:
		return nil, fmt.Errorf("unknown server storage %q", cfg.Server.Storage)
	}

	svc := backend.NewService(repo, opts...)
	handler, err := httpadapter.NewHandler(svc,
		httpadapter.WithStreams(streams),
		httpadapter.WithLogger(logger),
		httpadapter.WithMetrics(serverMetrics),
	)
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("failed to build http handler: %w", err)
	}

	return &Backend{
		Service: svc,
		Streams: streams,
		Handler: handler,
		close:   closeFn,
	}, nil
}
