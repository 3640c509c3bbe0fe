package l1

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"go-rates-cache/internal/config"
	"go-rates-cache/internal/interfaces"
	"go-rates-cache/internal/metrics"
)

const metricsInterval = 30 * time.Second

// Ensure BigCache implements interfaces.Cache
var _ interfaces.Cache = (*BigCache)(nil)

// BigCache implements the in-process L1 cache using BigCache
type BigCache struct {
	cache  *bigcache.BigCache
	logger *zap.Logger
	stop   chan struct{}
	done   chan struct{}
}

// NewBigCache creates a new BigCache instance
func NewBigCache(cfg *config.Config, logger *zap.Logger) (*BigCache, error) {
	bcConfig := bigcache.DefaultConfig(cfg.GetLifeWindow())
	bcConfig.HardMaxCacheSize = cfg.BigCache.Size // Size in MB
	bcConfig.Verbose = false
	bcConfig.MaxEntrySize = 1024 * 1024 // 1MB max entry size

	cache, err := bigcache.New(context.Background(), bcConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create bigcache: %w", err)
	}

	bc := &BigCache{
		cache:  cache,
		logger: logger,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	bc.startMetricsCollection()

	return bc, nil
}

// Get retrieves value from cache
func (bc *BigCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := bc.cache.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		metrics.RecordCacheError("l1", "get")
		return nil, false, fmt.Errorf("bigcache get %q: %w", key, err)
	}
	return data, true, nil
}

// Set stores value in cache
func (bc *BigCache) Set(_ context.Context, key string, val []byte) error {
	if err := bc.cache.Set(key, val); err != nil {
		metrics.RecordCacheError("l1", "set")
		return fmt.Errorf("bigcache set %q: %w", key, err)
	}
	return nil
}

// Close stops metrics collection and closes the cache
func (bc *BigCache) Close() error {
	close(bc.stop)
	<-bc.done
	bc.logger.Debug("Stopped L1 cache metrics collection")

	return bc.cache.Close()
}

// GetStats returns cache statistics for metrics
func (bc *BigCache) GetStats() (capacity, used int64) {
	// Capacity is the allocated shard space, Len is the number of stored entries
	return int64(bc.cache.Capacity()), int64(bc.cache.Len())
}

// startMetricsCollection starts periodic metrics collection
func (bc *BigCache) startMetricsCollection() {
	bc.updateMetrics()

	go func() {
		defer close(bc.done)

		ticker := time.NewTicker(metricsInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				bc.updateMetrics()
			case <-bc.stop:
				return
			}
		}
	}()

	bc.logger.Debug("Started L1 cache metrics collection")
}

func (bc *BigCache) updateMetrics() {
	capacity, used := bc.GetStats()
	metrics.UpdateL1CacheCapacity(capacity, used)
}
