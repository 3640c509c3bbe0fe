// Package resolver implements cache-aside resolution of upstream rate payloads.
//
// A key is served from the cache store when present. Otherwise the upstream
// fetch is raced against a fixed deadline and, on success, the bytes are
// written back to the store in the background while the caller gets its
// response immediately. Failures never reach the store.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"go-rates-cache/internal/config"
	"go-rates-cache/internal/deadline"
	"go-rates-cache/internal/interfaces"
	"go-rates-cache/internal/metrics"
	"go-rates-cache/internal/models"
)

// AbsenceSentinel is a stored value that counts as "not cached"
const AbsenceSentinel = "null"

// Ensure Resolver implements interfaces.Resolver
var _ interfaces.Resolver = (*Resolver)(nil)

// Config holds resolver settings
type Config struct {
	// FetchTimeout bounds every upstream call
	FetchTimeout time.Duration
	// WriteTimeout bounds every deferred cache write
	WriteTimeout time.Duration
	// CoalesceInFlight shares one upstream fetch between concurrent misses of the same key
	CoalesceInFlight bool
}

// ConfigFrom extracts resolver settings from the application configuration
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		FetchTimeout:     cfg.GetFetchTimeout(),
		WriteTimeout:     cfg.GetWriteTimeout(),
		CoalesceInFlight: cfg.Resolver.CoalesceInFlight,
	}
}

// Resolver serves keys from the cache store, falling back to the upstream fetcher
type Resolver struct {
	cfg     Config
	cache   interfaces.Cache
	fetcher interfaces.Fetcher
	logger  *zap.Logger

	inFlight singleflight.Group
	writes   sync.WaitGroup
}

// New creates a resolver
func New(cfg Config, cache interfaces.Cache, fetcher interfaces.Fetcher, logger *zap.Logger) *Resolver {
	return &Resolver{
		cfg:     cfg,
		cache:   cache,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Resolve returns the bytes for key, from the cache or by running op.
// It never blocks on the cache write that follows a successful fetch.
func (r *Resolver) Resolve(ctx context.Context, key string, op models.FetchOperation) models.Outcome {
	route := string(op.Endpoint)

	if val, ok := r.lookup(ctx, key); ok {
		metrics.RecordCacheHit(route)
		return models.CacheHit(val)
	}
	metrics.RecordCacheMiss(route)

	if !r.cfg.CoalesceInFlight {
		body, err := r.fetch(ctx, op)
		if err != nil {
			return r.fail(key, op, err)
		}
		r.storeAsync(key, body)
		return models.Fetched(body, true)
	}

	// Do runs the function in the caller's goroutine, so only the leader sets owner
	owner := false
	val, err, _ := r.inFlight.Do(key, func() (interface{}, error) {
		owner = true
		// Detached from the leader's request so a disconnect does not fail followers
		body, err := r.fetch(context.WithoutCancel(ctx), op)
		if err != nil {
			return nil, err
		}
		r.storeAsync(key, body)
		return body, nil
	})
	if err != nil {
		return r.fail(key, op, err)
	}
	if !owner {
		metrics.RecordCoalescedFetch(route)
	}
	return models.Fetched(val.([]byte), owner)
}

// Wait blocks until every scheduled cache write has settled
func (r *Resolver) Wait() {
	r.writes.Wait()
}

// lookup reads key from the store. Lookup errors degrade to a miss.
func (r *Resolver) lookup(ctx context.Context, key string) ([]byte, bool) {
	stop := metrics.TimeCacheGetOperation("store")
	val, found, err := r.cache.Get(ctx, key)
	stop()

	if err != nil {
		r.logger.Warn("Cache lookup failed, treating as miss", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !found || isAbsent(val) {
		return nil, false
	}
	return val, true
}

func (r *Resolver) fetch(ctx context.Context, op models.FetchOperation) ([]byte, error) {
	endpoint := string(op.Endpoint)
	stop := metrics.TimeUpstreamFetch(endpoint)
	defer stop()

	body, err := deadline.Run(ctx, r.cfg.FetchTimeout, func(ctx context.Context) ([]byte, error) {
		return r.fetcher.Fetch(ctx, op)
	})
	if err != nil {
		metrics.RecordUpstreamError(endpoint, errorKind(err))
		return nil, err
	}
	return body, nil
}

// storeAsync writes val under key without blocking the caller. The result is only logged.
func (r *Resolver) storeAsync(key string, val []byte) {
	r.writes.Add(1)
	go func() {
		defer r.writes.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.WriteTimeout)
		defer cancel()

		if err := r.cache.Set(ctx, key, val); err != nil {
			metrics.RecordCacheWrite("error")
			r.logger.Warn("Deferred cache write failed", zap.String("key", key), zap.Error(err))
			return
		}
		metrics.RecordCacheWrite("ok")
		r.logger.Debug("Deferred cache write stored", zap.String("key", key), zap.Int("bytes", len(val)))
	}()
}

func (r *Resolver) fail(key string, op models.FetchOperation, err error) models.Outcome {
	reason := failureReason(err)
	r.logger.Error("Failed to resolve rates",
		zap.String("key", key),
		zap.String("endpoint", string(op.Endpoint)),
		zap.String("reason", reason),
		zap.Error(err))
	return models.Failed(reason, err)
}

func isAbsent(val []byte) bool {
	return len(val) == 0 || string(val) == AbsenceSentinel
}

func failureReason(err error) string {
	if errors.Is(err, deadline.ErrTimeout) {
		return models.ReasonTimeout
	}

	var fetchErr *models.FetchError
	if errors.As(err, &fetchErr) && fetchErr.Kind == models.FetchErrorBadStatus {
		return fmt.Sprintf("Upstream status %d", fetchErr.StatusCode)
	}
	return err.Error()
}

func errorKind(err error) string {
	if errors.Is(err, deadline.ErrTimeout) {
		return "timeout"
	}

	var fetchErr *models.FetchError
	if errors.As(err, &fetchErr) {
		return string(fetchErr.Kind)
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "unknown"
}
