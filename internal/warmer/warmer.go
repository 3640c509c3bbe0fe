// Package warmer periodically resolves the hot keys so the first client
// request of each hour bucket is already a cache hit.
package warmer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron"
	"go.uber.org/zap"

	"go-rates-cache/internal/interfaces"
	"go-rates-cache/internal/metrics"
	"go-rates-cache/internal/models"
	"go-rates-cache/internal/upstream"
)

// Warmer runs the cache warm-up job on a cron schedule
type Warmer struct {
	resolver  interfaces.Resolver
	keys      interfaces.KeyBuilder
	endpoints *upstream.Endpoints
	logger    *zap.Logger
	cron      *cron.Cron
	now       func() time.Time

	mu      sync.Mutex
	stopped bool
	running sync.WaitGroup
}

// New creates a warmer. The schedule uses six fields, seconds first.
func New(schedule string, resolver interfaces.Resolver, keys interfaces.KeyBuilder, endpoints *upstream.Endpoints, logger *zap.Logger) (*Warmer, error) {
	w := &Warmer{
		resolver:  resolver,
		keys:      keys,
		endpoints: endpoints,
		logger:    logger,
		cron:      cron.New(),
		now:       time.Now,
	}

	if err := w.cron.AddFunc(schedule, w.scheduledRun); err != nil {
		return nil, fmt.Errorf("invalid warmer schedule %q: %w", schedule, err)
	}
	return w, nil
}

// Start begins running the job in the background
func (w *Warmer) Start() {
	w.logger.Info("Starting cache warmer")
	w.cron.Start()
}

// Stop halts the schedule and waits for a run already in progress to finish
func (w *Warmer) Stop() {
	w.logger.Info("Stopping cache warmer")
	w.cron.Stop()

	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()

	w.running.Wait()
}

func (w *Warmer) scheduledRun() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.running.Add(1)
	w.mu.Unlock()
	defer w.running.Done()

	w.Run(context.Background())
}

// Run resolves the current hour's latest rates and the currency list once
func (w *Warmer) Run(ctx context.Context) {
	w.warm(ctx, w.keys.Latest(w.now()), w.endpoints.Latest())
	w.warm(ctx, w.keys.Currencies(), w.endpoints.Currencies())
}

func (w *Warmer) warm(ctx context.Context, key string, op models.FetchOperation) {
	route := string(op.Endpoint)
	outcome := w.resolver.Resolve(ctx, key, op)
	if !outcome.OK() {
		metrics.RecordWarmerRun(route, "error")
		w.logger.Warn("Cache warm-up failed", zap.String("key", key), zap.String("reason", outcome.Reason))
		return
	}

	metrics.RecordWarmerRun(route, string(outcome.Kind))
	w.logger.Debug("Cache warm-up done", zap.String("key", key), zap.String("outcome", string(outcome.Kind)))
}
