package multi

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"go-rates-cache/internal/interfaces"
)

// Ensure MultiCache implements interfaces.Cache
var _ interfaces.Cache = (*MultiCache)(nil)

// MultiCache implements a composite cache that tries multiple cache implementations.
// Levels are ordered from fastest to slowest.
type MultiCache struct {
	caches            []interfaces.Cache
	logger            *zap.Logger
	enablePropagation bool
}

// NewMultiCache creates a new MultiCache instance with provided cache implementations
func NewMultiCache(caches []interfaces.Cache, logger *zap.Logger, enablePropagation bool) *MultiCache {
	return &MultiCache{
		caches:            caches,
		logger:            logger,
		enablePropagation: enablePropagation,
	}
}

// Get returns the value from the first level that has the key.
// A failing level is logged and skipped; the error is returned only if no level answered.
func (mc *MultiCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for get operation", zap.String("key", key))
		return nil, false, nil
	}

	var errs []error
	for i, cache := range mc.caches {
		val, found, err := cache.Get(ctx, key)
		if err != nil {
			mc.logger.Warn("Cache level lookup failed", zap.Int("level", i+1), zap.String("key", key), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if found {
			if mc.enablePropagation && i > 0 {
				mc.propagate(ctx, key, val, i)
			}
			return val, true, nil
		}
	}

	if len(errs) == len(mc.caches) {
		return nil, false, fmt.Errorf("all cache levels failed: %w", errors.Join(errs...))
	}
	return nil, false, nil
}

// Set stores value in all available caches. Every level is attempted; errors are joined.
func (mc *MultiCache) Set(ctx context.Context, key string, val []byte) error {
	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for set operation", zap.String("key", key))
		return nil
	}

	var errs []error
	for _, cache := range mc.caches {
		if err := cache.Set(ctx, key, val); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Ping reports the first reachability failure among levels that support it
func (mc *MultiCache) Ping(ctx context.Context) error {
	for _, cache := range mc.caches {
		if pinger, ok := cache.(interfaces.Pinger); ok {
			if err := pinger.Ping(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetCacheCount returns the number of caches in the multi-cache
func (mc *MultiCache) GetCacheCount() int {
	return len(mc.caches)
}

// propagate back-fills faster levels after a hit in a slower one
func (mc *MultiCache) propagate(ctx context.Context, key string, val []byte, hitLevel int) {
	for i := 0; i < hitLevel; i++ {
		if err := mc.caches[i].Set(ctx, key, val); err != nil {
			mc.logger.Debug("Failed to propagate cache entry", zap.Int("level", i+1), zap.String("key", key), zap.Error(err))
		}
	}
}
