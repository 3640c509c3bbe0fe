package interfaces

import (
	"github.com/bradfitz/gomemcache/memcache"
)

//go:generate mockgen -source=memcache_client.go -destination=mock/memcache_client.go -package=mock

// MemcacheClient defines the subset of memcache.Client used by the memcached store
type MemcacheClient interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Ping() error
}
