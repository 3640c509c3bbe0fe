package interfaces

import (
	"context"

	"go-rates-cache/internal/models"
)

//go:generate mockgen -package=mock -source=fetcher.go -destination=mock/fetcher.go

// Fetcher performs a single upstream call and returns the raw response body
type Fetcher interface {
	Fetch(ctx context.Context, op models.FetchOperation) ([]byte, error)
}
