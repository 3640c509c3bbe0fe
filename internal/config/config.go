package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort           = 3001
	DefaultFetchTimeoutMs = 5000
	DefaultWriteTimeoutMs = 2000

	DefaultLatestURL     = "https://openexchangerates.org/api/latest.json?app_id={app_id}"
	DefaultHistoricalURL = "https://openexchangerates.org/api/historical/{date}.json?app_id={app_id}"
	DefaultCurrenciesURL = "https://openexchangerates.org/api/currencies.json"

	DefaultWarmerSchedule = "0 1 * * * *"
)

// Store backends
const (
	BackendKeyDB    = "keydb"
	BackendMemcache = "memcache"
	BackendNone     = "none"
)

// Config represents the main configuration structure
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Resolver   ResolverConfig   `yaml:"resolver"`
	Store      StoreConfig      `yaml:"store"`
	KeyDB      KeyDBConfig      `yaml:"keydb"`
	Memcache   MemcacheConfig   `yaml:"memcache"`
	BigCache   BigCacheConfig   `yaml:"bigcache"`
	MultiCache MultiCacheConfig `yaml:"multi_cache"`
	Warmer     WarmerConfig     `yaml:"warmer"`
}

// ServerConfig holds HTTP listener settings. Timeouts are in milliseconds.
type ServerConfig struct {
	Port         int    `yaml:"port" validate:"min=1,max=65535"`
	StaticDir    string `yaml:"static_dir"`
	ReadTimeout  int    `yaml:"read_timeout" validate:"min=0"`
	WriteTimeout int    `yaml:"write_timeout" validate:"min=0"`
	IdleTimeout  int    `yaml:"idle_timeout" validate:"min=0"`
}

// UpstreamConfig holds the exchange-rate API endpoint templates and credential
type UpstreamConfig struct {
	AppID         string `yaml:"app_id"`
	LatestURL     string `yaml:"latest_url" validate:"required"`
	HistoricalURL string `yaml:"historical_url" validate:"required,contains={date}"`
	CurrenciesURL string `yaml:"currencies_url" validate:"required"`
}

// ResolverConfig holds cache-aside resolution settings. Timeouts are in milliseconds.
type ResolverConfig struct {
	FetchTimeout     int  `yaml:"fetch_timeout" validate:"min=1"`
	WriteTimeout     int  `yaml:"write_timeout" validate:"min=1"`
	CoalesceInFlight bool `yaml:"coalesce_in_flight"`
}

// StoreConfig selects the network cache backend
type StoreConfig struct {
	Backend string `yaml:"backend" validate:"oneof=keydb memcache none"`
}

// KeyDBConfig holds KeyDB/Redis connection settings
type KeyDBConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Keepalive  KeepaliveConfig  `yaml:"keepalive"`
	Cache      KeyDBCacheConfig `yaml:"cache"`
}

// ConnectionConfig holds timeouts in milliseconds
type ConnectionConfig struct {
	ConnectTimeout int `yaml:"connect_timeout" validate:"min=0"`
	SendTimeout    int `yaml:"send_timeout" validate:"min=0"`
	ReadTimeout    int `yaml:"read_timeout" validate:"min=0"`
}

// KeepaliveConfig holds pool settings
type KeepaliveConfig struct {
	PoolSize       int `yaml:"pool_size" validate:"min=0"`
	MaxIdleTimeout int `yaml:"max_idle_timeout" validate:"min=0"`
}

// KeyDBCacheConfig holds stored value settings. TTL is in seconds, 0 disables expiry.
type KeyDBCacheConfig struct {
	TTL int `yaml:"ttl" validate:"min=0"`
}

// MemcacheConfig holds memcached settings. Timeout is in milliseconds.
type MemcacheConfig struct {
	Addr    string `yaml:"addr"`
	Timeout int    `yaml:"timeout" validate:"min=0"`
}

// BigCacheConfig holds in-process L1 settings. Size is in MB, LifeWindow in seconds.
type BigCacheConfig struct {
	Enabled    bool `yaml:"enabled"`
	Size       int  `yaml:"size" validate:"min=0"`
	LifeWindow int  `yaml:"life_window" validate:"min=0"`
}

// MultiCacheConfig controls how cache levels interact
type MultiCacheConfig struct {
	EnablePropagation bool `yaml:"enable_propagation"`
}

// WarmerConfig controls the scheduled cache warmer
type WarmerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

// Default returns a configuration with all defaults applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads configuration from file path. A missing file yields the defaults.
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	var config Config

	file, err := os.Open(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Warn("Configuration file not found, using defaults", zap.String("path", configPath))
	case err != nil:
		return nil, fmt.Errorf("failed to open config file: %w", err)
	default:
		defer func() { _ = file.Close() }()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode YAML config: %w", err)
		}
	}

	config.applyDefaults()
	config.applyEnv(logger)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30000
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30000
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60000
	}

	if c.Upstream.LatestURL == "" {
		c.Upstream.LatestURL = DefaultLatestURL
	}
	if c.Upstream.HistoricalURL == "" {
		c.Upstream.HistoricalURL = DefaultHistoricalURL
	}
	if c.Upstream.CurrenciesURL == "" {
		c.Upstream.CurrenciesURL = DefaultCurrenciesURL
	}

	if c.Resolver.FetchTimeout == 0 {
		c.Resolver.FetchTimeout = DefaultFetchTimeoutMs
	}
	if c.Resolver.WriteTimeout == 0 {
		c.Resolver.WriteTimeout = DefaultWriteTimeoutMs
	}

	if c.Store.Backend == "" {
		c.Store.Backend = BackendKeyDB
	}

	if c.KeyDB.Connection.ConnectTimeout == 0 {
		c.KeyDB.Connection.ConnectTimeout = 1000
	}
	if c.KeyDB.Connection.SendTimeout == 0 {
		c.KeyDB.Connection.SendTimeout = 1000
	}
	if c.KeyDB.Connection.ReadTimeout == 0 {
		c.KeyDB.Connection.ReadTimeout = 1000
	}
	if c.KeyDB.Keepalive.PoolSize == 0 {
		c.KeyDB.Keepalive.PoolSize = 10
	}
	if c.KeyDB.Keepalive.MaxIdleTimeout == 0 {
		c.KeyDB.Keepalive.MaxIdleTimeout = 10000
	}

	if c.Memcache.Addr == "" {
		c.Memcache.Addr = "memcached:11211"
	}
	if c.Memcache.Timeout == 0 {
		c.Memcache.Timeout = 1000
	}

	if c.BigCache.Size == 0 {
		c.BigCache.Size = 100
	}
	if c.BigCache.LifeWindow == 0 {
		c.BigCache.LifeWindow = 3600
	}

	if c.Warmer.Schedule == "" {
		c.Warmer.Schedule = DefaultWarmerSchedule
	}
}

// applyEnv overrides file values with environment variables
func (c *Config) applyEnv(logger *zap.Logger) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		} else {
			logger.Warn("Ignoring invalid PORT", zap.String("port", port))
		}
	}

	if appID := GetAppID(logger); appID != "" {
		c.Upstream.AppID = appID
	}

	if addr := os.Getenv("MEMCACHE_ADDR"); addr != "" {
		c.Memcache.Addr = addr
	}
}

// GetAppID returns the upstream credential with the following priority:
// 1. OXR_APP_ID environment variable
// 2. OXR_APP_ID_FILE file content
func GetAppID(logger *zap.Logger) string {
	if appID := os.Getenv("OXR_APP_ID"); appID != "" {
		logger.Debug("Using upstream app id from environment variable")
		return appID
	}

	path := os.Getenv("OXR_APP_ID_FILE")
	if path == "" {
		return ""
	}
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Upstream app id file not readable", zap.String("file", path), zap.Error(err))
		return ""
	}
	logger.Debug("Using upstream app id from file", zap.String("file", path))
	return strings.TrimSpace(string(content))
}

// GetFetchTimeout returns the upstream deadline
func (c *Config) GetFetchTimeout() time.Duration {
	return millis(c.Resolver.FetchTimeout)
}

// GetWriteTimeout returns the deadline for a single deferred cache write
func (c *Config) GetWriteTimeout() time.Duration {
	return millis(c.Resolver.WriteTimeout)
}

// GetReadTimeout returns the store read timeout
func (c *Config) GetReadTimeout() time.Duration {
	return millis(c.KeyDB.Connection.ReadTimeout)
}

// GetSendTimeout returns the store send timeout
func (c *Config) GetSendTimeout() time.Duration {
	return millis(c.KeyDB.Connection.SendTimeout)
}

// GetConnectTimeout returns the store connect timeout
func (c *Config) GetConnectTimeout() time.Duration {
	return millis(c.KeyDB.Connection.ConnectTimeout)
}

// GetMaxIdleTimeout returns the pool idle timeout
func (c *Config) GetMaxIdleTimeout() time.Duration {
	return millis(c.KeyDB.Keepalive.MaxIdleTimeout)
}

// GetKeyTTL returns the expiry applied to stored values, 0 means none
func (c *Config) GetKeyTTL() time.Duration {
	return time.Duration(c.KeyDB.Cache.TTL) * time.Second
}

// GetMemcacheTimeout returns the memcached socket timeout
func (c *Config) GetMemcacheTimeout() time.Duration {
	return millis(c.Memcache.Timeout)
}

// GetLifeWindow returns the L1 entry lifetime
func (c *Config) GetLifeWindow() time.Duration {
	return time.Duration(c.BigCache.LifeWindow) * time.Second
}

// GetListenAddr returns the TCP address for the HTTP server
func (c *Config) GetListenAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
