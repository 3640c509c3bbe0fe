package l2

import (
	"context"
	"errors"
	"fmt"

	"github.com/bradfitz/gomemcache/memcache"
	"go.uber.org/zap"

	"go-rates-cache/internal/config"
	"go-rates-cache/internal/interfaces"
	"go-rates-cache/internal/metrics"
)

// Ensure MemcacheStore implements interfaces.Cache
var _ interfaces.Cache = (*MemcacheStore)(nil)

// MemcacheStore implements the network cache store on memcached
type MemcacheStore struct {
	client     interfaces.MemcacheClient
	expiration int32
	logger     *zap.Logger
}

// NewMemcacheClient dials memcached with the configured address and timeout
func NewMemcacheClient(cfg *config.Config) interfaces.MemcacheClient {
	client := memcache.New(cfg.Memcache.Addr)
	client.Timeout = cfg.GetMemcacheTimeout()
	return client
}

// NewMemcacheStore creates a memcached backed store
func NewMemcacheStore(cfg *config.Config, client interfaces.MemcacheClient, logger *zap.Logger) *MemcacheStore {
	return &MemcacheStore{
		client:     client,
		expiration: int32(cfg.GetKeyTTL().Seconds()),
		logger:     logger,
	}
}

// Get retrieves value from memcached. A cache miss is not an error.
func (ms *MemcacheStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	item, err := ms.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		metrics.RecordCacheError("l2", "get")
		return nil, false, fmt.Errorf("memcache get %q: %w", key, err)
	}
	return item.Value, true, nil
}

// Set stores value in memcached
func (ms *MemcacheStore) Set(_ context.Context, key string, val []byte) error {
	err := ms.client.Set(&memcache.Item{Key: key, Value: val, Expiration: ms.expiration})
	if err != nil {
		metrics.RecordCacheError("l2", "set")
		return fmt.Errorf("memcache set %q: %w", key, err)
	}
	return nil
}

// Ping checks memcached reachability
func (ms *MemcacheStore) Ping(_ context.Context) error {
	return ms.client.Ping()
}
