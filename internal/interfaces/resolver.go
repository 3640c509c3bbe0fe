package interfaces

import (
	"context"

	"go-rates-cache/internal/models"
)

//go:generate mockgen -package=mock -source=resolver.go -destination=mock/resolver.go

// Resolver serves a key from cache or resolves it through a fetch operation
type Resolver interface {
	Resolve(ctx context.Context, key string, op models.FetchOperation) models.Outcome
}
