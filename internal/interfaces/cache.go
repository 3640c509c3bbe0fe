package interfaces

import (
	"context"
)

//go:generate mockgen -package=mock -source=cache.go -destination=mock/cache.go

// Cache interface defines the contract for cache store implementations.
// Values are opaque bytes; a store never parses or re-encodes them.
type Cache interface {
	// Get returns the stored value. found is false with a nil error for a key that was never written.
	Get(ctx context.Context, key string) (val []byte, found bool, err error)
	// Set stores val under key, overwriting any previous value
	Set(ctx context.Context, key string, val []byte) error
}

// Pinger is implemented by stores that can report backend reachability
type Pinger interface {
	Ping(ctx context.Context) error
}
