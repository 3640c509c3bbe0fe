package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"go-rates-cache/internal/interfaces"
	"go-rates-cache/internal/models"
)

// maxBodySize caps the upstream payload read into memory
const maxBodySize = 8 << 20

// Ensure HTTPFetcher implements interfaces.Fetcher
var _ interfaces.Fetcher = (*HTTPFetcher)(nil)

// HTTPFetcher issues one-shot upstream GETs. It performs no retry, caching or timeout handling;
// cancellation comes from the caller's context.
type HTTPFetcher struct {
	client *http.Client
	logger *zap.Logger
}

// NewHTTPFetcher creates a fetcher using client, or http.DefaultClient when nil
func NewHTTPFetcher(client *http.Client, logger *zap.Logger) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{
		client: client,
		logger: logger,
	}
}

// Fetch performs op and returns the raw response body on HTTP 200
func (f *HTTPFetcher) Fetch(ctx context.Context, op models.FetchOperation) ([]byte, error) {
	method := op.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, op.URL(), nil)
	if err != nil {
		return nil, &models.FetchError{Kind: models.FetchErrorTransport, Err: fmt.Errorf("build request: %w", err)}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &models.FetchError{Kind: models.FetchErrorTransport, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		f.logger.Debug("Upstream returned non-200 status",
			zap.String("endpoint", string(op.Endpoint)),
			zap.Int("status", resp.StatusCode))
		return nil, &models.FetchError{Kind: models.FetchErrorBadStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, &models.FetchError{Kind: models.FetchErrorTransport, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(body) > maxBodySize {
		return nil, &models.FetchError{Kind: models.FetchErrorTransport, Err: fmt.Errorf("body exceeds limit of %d bytes", maxBodySize)}
	}

	f.logger.Debug("Fetched upstream rates",
		zap.String("endpoint", string(op.Endpoint)),
		zap.Int("bytes", len(body)))
	return body, nil
}
