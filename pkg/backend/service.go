package backend

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aretw0/recipe-decider/internal/logging"
	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/aretw0/recipe-decider/pkg/metrics"
	"github.com/aretw0/recipe-decider/pkg/ports"
)

const (
	lockKey        = "recipes"
	defaultLockTTL = 5 * time.Second
)

// Service is the recipe backend. Safe for concurrent use.
type Service struct {
	repo      ports.RecipeRepository
	publisher ports.EventPublisher
	locker    ports.DistributedLocker
	lockTTL   time.Duration
	logger    *slog.Logger
	metrics   *metrics.Server
	pick      func(n int) int

	mu sync.Mutex
}

// Option configures the Service.
type Option func(*Service)

// WithPublisher sets where push events go. The default discards them.
func WithPublisher(p ports.EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithLocker serializes mutations across replicas.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(s *Service) {
		s.locker = l
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics enables broadcast instrumentation.
func WithMetrics(m *metrics.Server) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithRandom replaces the roll selector. pick receives the list length (> 0)
// and must return an index in [0, n).
func WithRandom(pick func(n int) int) Option {
	return func(s *Service) {
		s.pick = pick
	}
}

// NewService creates a Service over repo.
func NewService(repo ports.RecipeRepository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: discard{},
		lockTTL:   defaultLockTTL,
		logger:    logging.NewNop(),
		pick:      rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the authoritative list.
func (s *Service) List(ctx context.Context) (domain.RecipeList, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return list, nil
}

// Add appends recipe and broadcasts NewRecipe.
func (s *Service) Add(ctx context.Context, recipe domain.Recipe) (domain.Recipe, error) {
	if err := recipe.Validate(); err != nil {
		return domain.Recipe{}, err
	}

	err := s.mutate(ctx, func(ctx context.Context) error {
		return s.repo.Append(ctx, recipe)
	})
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("failed to add recipe: %w", err)
	}

	s.logger.Info("recipe added", "name", recipe.Name)
	s.publish(domain.NewRecipeEvent{Recipe: recipe})
	return recipe, nil
}

// Update replaces the recipe at index and broadcasts the full list.
func (s *Service) Update(ctx context.Context, index int, recipe domain.Recipe) error {
	if err := recipe.Validate(); err != nil {
		return err
	}

	var list domain.RecipeList
	err := s.mutate(ctx, func(ctx context.Context) error {
		if err := s.repo.Replace(ctx, index, recipe); err != nil {
			return err
		}
		var err error
		list, err = s.repo.List(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update recipe %d: %w", index, err)
	}

	s.logger.Info("recipe updated", "index", index, "name", recipe.Name)
	s.publish(domain.RecipeListReplacedEvent{Recipes: list})
	return nil
}

// Delete removes the recipe at index and broadcasts the full list.
func (s *Service) Delete(ctx context.Context, index int) error {
	var list domain.RecipeList
	err := s.mutate(ctx, func(ctx context.Context) error {
		if err := s.repo.Remove(ctx, index); err != nil {
			return err
		}
		var err error
		list, err = s.repo.List(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe %d: %w", index, err)
	}

	s.logger.Info("recipe deleted", "index", index, "remaining", len(list))
	s.publish(domain.RecipeListReplacedEvent{Recipes: list})
	return nil
}

// Roll picks a uniformly random recipe. It returns nil for an empty list.
func (s *Service) Roll(ctx context.Context) (*domain.Recipe, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	r := list[s.pick(len(list))]
	return &r, nil
}

// Announce rolls and broadcasts the result as RecipeRolled.
func (s *Service) Announce(ctx context.Context) (*domain.Recipe, error) {
	r, err := s.Roll(ctx)
	if err != nil {
		return nil, err
	}
	s.publish(domain.RecipeRolledEvent{Recipe: r})
	return r, nil
}

// mutate runs fn holding the local mutex and, if configured, the distributed lock.
func (s *Service) mutate(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, lockKey, s.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("failed to release lock", "error", err)
			}
		}()
	}
	return fn(ctx)
}

func (s *Service) publish(ev domain.Event) {
	s.publisher.Publish(ev)
	s.metrics.ObserveBroadcast(ev.Kind())
}

type discard struct{}

func (discard) Publish(domain.Event) {}
