package l2

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-rates-cache/internal/config"
	"go-rates-cache/internal/interfaces"
	"go-rates-cache/internal/metrics"
)

// Ensure KeyDBCache implements interfaces.Cache
var _ interfaces.Cache = (*KeyDBCache)(nil)

// KeyDBCache implements the network cache store using Redis/KeyDB.
// Values are stored as-is so the bytes read back equal the bytes written.
type KeyDBCache struct {
	client interfaces.KeyDbClient
	config *config.Config
	logger *zap.Logger
}

// NewKeyDBCache creates a new KeyDBCache instance with provided client
func NewKeyDBCache(cfg *config.Config, client interfaces.KeyDbClient, logger *zap.Logger) *KeyDBCache {
	return &KeyDBCache{
		client: client,
		config: cfg,
		logger: logger,
	}
}

// Get retrieves value from KeyDB. A missing key is not an error.
func (kc *KeyDBCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, kc.config.GetReadTimeout())
	defer cancel()

	data, err := kc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		metrics.RecordCacheError("l2", "get")
		return nil, false, fmt.Errorf("keydb get %q: %w", key, err)
	}

	return data, true, nil
}

// Set stores value in KeyDB using the configured key TTL (0 keeps it forever)
func (kc *KeyDBCache) Set(ctx context.Context, key string, val []byte) error {
	ctx, cancel := context.WithTimeout(ctx, kc.config.GetSendTimeout())
	defer cancel()

	reply, err := kc.client.Set(ctx, key, val, kc.config.GetKeyTTL()).Result()
	if err != nil {
		metrics.RecordCacheError("l2", "set")
		return fmt.Errorf("keydb set %q: %w", key, err)
	}

	kc.logger.Debug("L2 cache entry stored", zap.String("key", key), zap.String("reply", reply))
	return nil
}

// Ping checks KeyDB reachability
func (kc *KeyDBCache) Ping(ctx context.Context) error {
	return kc.client.Ping(ctx).Err()
}

// Close closes the KeyDB connection
func (kc *KeyDBCache) Close() error {
	return kc.client.Close()
}
