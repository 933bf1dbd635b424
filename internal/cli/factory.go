package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/config"
	"github.com/aretw0/tally/pkg/adapters/redis"
	"github.com/aretw0/tally/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// Runtime is a store plus the collaborators the configuration asked for.
type Runtime struct {
	Store    *tally.Store
	Registry *prometheus.Registry
	// Publisher is nil unless redis.addr is configured.
	Publisher *redis.Publisher
	Logger    *slog.Logger
}

// NewRuntime initializes a store with standard CLI conventions.
func NewRuntime(cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	rt := &Runtime{
		Registry: prometheus.NewRegistry(),
		Logger:   logger,
	}

	initial := cfg.State()
	opts := []tally.Option{
		tally.WithLogger(logger),
		tally.WithInitialState(initial),
		tally.WithLifecycleHooks(observability.NewTracer(logger)),
	}

	if cfg.Legacy() {
		opts = append(opts, tally.WithLegacyReducer())
	}

	if cfg.Metrics {
		metrics, err := observability.NewMetrics(rt.Registry)
		if err != nil {
			return nil, fmt.Errorf("error initializing metrics: %w", err)
		}
		metrics.Seed(initial)
		opts = append(opts, tally.WithLifecycleHooks(metrics.Hooks()))
	}

	rt.Store = tally.New(opts...)

	if cfg.Redis.Addr != "" {
		pubOpts := []redis.Option{redis.WithLogger(logger)}
		if cfg.Redis.Prefix != "" {
			pubOpts = append(pubOpts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		rt.Publisher = redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, pubOpts...)
		rt.Publisher.Attach(rt.Store)
		logger.Info("Publishing state changes", "addr", cfg.Redis.Addr, "channel", rt.Publisher.Channel())
	}

	return rt, nil
}

// Close releases the Redis connection, if any.
func (r *Runtime) Close() error {
	if r.Publisher == nil {
		return nil
	}
	return r.Publisher.Close()
}
