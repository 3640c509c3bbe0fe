package main

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"go-rates-cache/internal/cache"
	"go-rates-cache/internal/cache/l1"
	"go-rates-cache/internal/cache/l2"
	"go-rates-cache/internal/cache/multi"
	"go-rates-cache/internal/cache/noop"
	"go-rates-cache/internal/config"
	"go-rates-cache/internal/httpserver"
	"go-rates-cache/internal/interfaces"
	"go-rates-cache/internal/resolver"
	"go-rates-cache/internal/upstream"
	"go-rates-cache/internal/warmer"
)

// CompositionRoot holds all application dependencies and owns their lifecycle
type CompositionRoot struct {
	Config *config.Config
	Logger *zap.Logger

	// Cache components
	L1Cache    *l1.BigCache
	KeyDBCache *l2.KeyDBCache
	Store      interfaces.Cache
	KeyBuilder interfaces.KeyBuilder

	// Services
	Endpoints  *upstream.Endpoints
	Resolver   *resolver.Resolver
	HTTPServer *httpserver.Server
	Warmer     *warmer.Warmer
}

// NewCompositionRoot creates and initializes all application dependencies.
//
// Initialization order:
// 1. Logger (needed by all other components)
// 2. Configuration
// 3. Cache store (optional L1 in front of the network store)
// 4. Upstream fetcher and resolver
// 5. HTTP server and warmer
func NewCompositionRoot() (*CompositionRoot, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadConfig(getConfigPath(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return newCompositionRoot(cfg, logger)
}

func newCompositionRoot(cfg *config.Config, logger *zap.Logger) (*CompositionRoot, error) {
	root := &CompositionRoot{Config: cfg, Logger: logger}

	if cfg.Upstream.AppID == "" {
		logger.Warn("No upstream app id configured, upstream calls will likely be rejected")
	}

	if err := root.initCacheComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache components: %w", err)
	}

	root.initServices()

	if err := root.initWarmer(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache warmer: %w", err)
	}

	return root, nil
}

// initCacheComponents builds the store the resolver reads from and writes to
func (r *CompositionRoot) initCacheComponents() error {
	network := r.initNetworkStore()

	if r.Config.BigCache.Enabled {
		bc, err := l1.NewBigCache(r.Config, r.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize L1 cache: %w", err)
		}
		r.L1Cache = bc
		r.Store = multi.NewMultiCache([]interfaces.Cache{bc, network}, r.Logger, r.Config.MultiCache.EnablePropagation)
		r.Logger.Info("BigCache (L1) initialized", zap.Int("size_mb", r.Config.BigCache.Size))
	} else {
		r.Store = network
		r.Logger.Info("BigCache (L1) disabled")
	}

	r.KeyBuilder = cache.NewKeyBuilder()
	return nil
}

// initNetworkStore selects the shared store. Only a malformed KeyDB URL degrades to no store;
// an unreachable KeyDB stays wired and its lookups miss until it recovers.
func (r *CompositionRoot) initNetworkStore() interfaces.Cache {
	switch r.Config.Store.Backend {
	case config.BackendKeyDB:
		keydbURL := GetKeyDBURL(r.Logger)
		client, err := l2.NewRedisKeyDbClient(r.Config, keydbURL, r.Logger)
		if err != nil {
			r.Logger.Warn("Invalid KeyDB URL, falling back to no store",
				zap.String("keydb_url", keydbURL),
				zap.Error(err))
			return noop.NewNoOpCache()
		}
		r.KeyDBCache = l2.NewKeyDBCache(r.Config, client, r.Logger)
		r.Logger.Info("KeyDB store initialized", zap.String("keydb_url", keydbURL))
		return r.KeyDBCache

	case config.BackendMemcache:
		store := l2.NewMemcacheStore(r.Config, l2.NewMemcacheClient(r.Config), r.Logger)
		r.Logger.Info("Memcache store initialized", zap.String("addr", r.Config.Memcache.Addr))
		return store

	default:
		r.Logger.Info("Network store disabled")
		return noop.NewNoOpCache()
	}
}

func (r *CompositionRoot) initServices() {
	r.Endpoints = upstream.NewEndpoints(r.Config.Upstream)

	fetcher := upstream.NewHTTPFetcher(&http.Client{}, r.Logger)
	r.Resolver = resolver.New(resolver.ConfigFrom(r.Config), r.Store, fetcher, r.Logger)

	var pinger interfaces.Pinger
	if p, ok := r.Store.(interfaces.Pinger); ok {
		pinger = p
	}
	r.HTTPServer = httpserver.NewServer(r.Config.Server, r.Resolver, r.KeyBuilder, r.Endpoints, pinger, r.Logger)
}

func (r *CompositionRoot) initWarmer() error {
	if !r.Config.Warmer.Enabled {
		return nil
	}

	w, err := warmer.New(r.Config.Warmer.Schedule, r.Resolver, r.KeyBuilder, r.Endpoints, r.Logger)
	if err != nil {
		return err
	}
	r.Warmer = w
	return nil
}

// Cleanup stops the warmer, drains pending cache writes and closes the stores
func (r *CompositionRoot) Cleanup() error {
	var errs []error

	if r.Warmer != nil {
		r.Warmer.Stop()
	}

	if r.Resolver != nil {
		r.Resolver.Wait()
	}

	if r.L1Cache != nil {
		if err := r.L1Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close L1 cache: %w", err))
		}
	}

	if r.KeyDBCache != nil {
		if err := r.KeyDBCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close KeyDB store: %w", err))
		}
	}

	if r.Logger != nil {
		// Sync errors on stderr are expected
		_ = r.Logger.Sync()
	}

	return errors.Join(errs...)
}
