package cache

import (
	"time"

	"go-rates-cache/internal/interfaces"
)

const (
	// CurrenciesKey is the constant key of the supported currency list
	CurrenciesKey = "CURRENCIES"

	// hourBucketLayout buckets latest rates per UTC hour, e.g. 2023-04-01:13
	hourBucketLayout = "2006-01-02:15"
)

// Ensure KeyBuilderImpl implements interfaces.KeyBuilder
var _ interfaces.KeyBuilder = (*KeyBuilderImpl)(nil)

// KeyBuilderImpl implements the KeyBuilder interface
type KeyBuilderImpl struct{}

// NewKeyBuilder creates a new KeyBuilder instance
func NewKeyBuilder() *KeyBuilderImpl {
	return &KeyBuilderImpl{}
}

// Currencies returns the currency list key
func (kb *KeyBuilderImpl) Currencies() string {
	return CurrenciesKey
}

// Latest returns the key of the UTC hour containing now.
// The key is computed from the server clock, never from client input.
func (kb *KeyBuilderImpl) Latest(now time.Time) string {
	return now.UTC().Format(hourBucketLayout)
}

// Historical returns the date verbatim. The date is not validated; the upstream decides.
func (kb *KeyBuilderImpl) Historical(date string) string {
	return date
}
