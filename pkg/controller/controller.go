package controller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/recipe-decider/internal/logging"
	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/aretw0/recipe-decider/pkg/metrics"
	"github.com/aretw0/recipe-decider/pkg/ports"
	"github.com/aretw0/recipe-decider/pkg/store"
)

// Operation and snapshot-source labels.
const (
	opAdd    = "add"
	opUpdate = "update"
	opDelete = "delete"
	opRoll   = "roll"

	sourceInitial   = "initial"
	sourceReconcile = "reconcile"
	sourcePush      = "push"
)

// Controller orchestrates the update paths of the Recipe Store.
// Safe for concurrent use.
type Controller struct {
	api     ports.RecipeAPI
	store   *store.Store
	logger  *slog.Logger
	metrics *metrics.Sync

	mu      sync.Mutex
	pending int
	status  domain.SyncStatus

	inflight sync.WaitGroup
}

// Option configures the Controller.
type Option func(*Controller)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Sync) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// New creates a controller operating on st through api.
func New(api ports.RecipeAPI, st *store.Store, opts ...Option) *Controller {
	c := &Controller{
		api:    api,
		store:  st,
		logger: logging.NewNop(),
		status: domain.SyncIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the store the controller writes to.
func (c *Controller) Store() *store.Store {
	return c.store
}

// Status reports the state of the recipe-list view.
// It is SyncFetching while any read is outstanding, otherwise the outcome of the
// last read (SyncIdle before the first one).
func (c *Controller) Status() domain.SyncStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending > 0 {
		return domain.SyncFetching
	}
	return c.status
}

// Wait blocks until every reconciling read started so far has completed.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// Init performs the initial load. On failure the store stays empty.
func (c *Controller) Init(ctx context.Context) error {
	list, err := c.fetch(ctx, c.store.NextVersion(), sourceInitial)
	if err != nil {
		c.logger.Error("initial load failed, starting with an empty list", "error", err)
		return fmt.Errorf("failed to load recipes: %w", err)
	}

	tab := domain.TabRoll
	if len(list) == 0 {
		tab = domain.TabInput
	}
	c.store.SetUIState(domain.UIPatch{CurrentTab: &tab})
	c.logger.Info("recipes loaded", "count", len(list), "tab", tab)
	return nil
}

// Reconcile starts a fire-and-forget full read. The ticket is taken before the
// goroutine starts so the read is ordered after every mutation already applied.
// The read is detached from ctx cancellation.
func (c *Controller) Reconcile(ctx context.Context) {
	ticket := c.store.NextVersion()
	ctx = context.WithoutCancel(ctx)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		if _, err := c.fetch(ctx, ticket, sourceReconcile); err != nil {
			c.logger.Error("reconciling read failed", "error", err)
		}
	}()
}

// fetch reads the list and applies it with the given ticket.
func (c *Controller) fetch(ctx context.Context, ticket uint64, source string) (domain.RecipeList, error) {
	c.beginFetch()

	list, err := c.api.List(ctx)
	if err != nil {
		c.endFetch(domain.SyncFetchFailed)
		c.metrics.ObserveSnapshot(source, metrics.OutcomeFailed)
		return nil, err
	}

	if c.store.ApplySnapshot(ticket, list) {
		c.metrics.ObserveSnapshot(source, metrics.OutcomeApplied)
	} else {
		c.logger.Debug("authoritative read superseded", "source", source, "ticket", ticket)
		c.metrics.ObserveSnapshot(source, metrics.OutcomeStale)
	}
	c.endFetch(domain.SyncApplied)
	return list, nil
}

func (c *Controller) beginFetch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending++
}

func (c *Controller) endFetch(outcome domain.SyncStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending--
	c.status = outcome
}
