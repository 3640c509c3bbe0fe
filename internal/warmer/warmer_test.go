package warmer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"go-rates-cache/internal/cache"
	"go-rates-cache/internal/config"
	"go-rates-cache/internal/deadline"
	"go-rates-cache/internal/interfaces/mock"
	"go-rates-cache/internal/metrics"
	"go-rates-cache/internal/models"
	"go-rates-cache/internal/upstream"
)

func newTestWarmer(t *testing.T, schedule string, res *mock.MockResolver) (*Warmer, *upstream.Endpoints) {
	endpoints := upstream.NewEndpoints(config.Default().Upstream)
	w, err := New(schedule, res, cache.NewKeyBuilder(), endpoints, zaptest.NewLogger(t))
	require.NoError(t, err)
	return w, endpoints
}

func TestNew_InvalidSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	endpoints := upstream.NewEndpoints(config.Default().Upstream)

	_, err := New("not a schedule", mock.NewMockResolver(ctrl), cache.NewKeyBuilder(), endpoints, zaptest.NewLogger(t))

	assert.Error(t, err)
}

func TestWarmer_Run_ResolvesHotKeys(t *testing.T) {
	ctrl := gomock.NewController(t)
	res := mock.NewMockResolver(ctrl)
	w, endpoints := newTestWarmer(t, config.DefaultWarmerSchedule, res)
	w.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	gomock.InOrder(
		res.EXPECT().Resolve(gomock.Any(), "2024-01-02:03", endpoints.Latest()).Return(models.Fetched([]byte(`{}`), true)),
		res.EXPECT().Resolve(gomock.Any(), "CURRENCIES", endpoints.Currencies()).Return(models.CacheHit([]byte(`{}`))),
	)

	before := testutil.ToFloat64(metrics.WarmerRuns.WithLabelValues("latest", string(models.OutcomeFetchedAndCached)))
	w.Run(context.Background())
	after := testutil.ToFloat64(metrics.WarmerRuns.WithLabelValues("latest", string(models.OutcomeFetchedAndCached)))

	assert.Equal(t, before+1, after)
}

func TestWarmer_Run_FailureDoesNotStopOtherKeys(t *testing.T) {
	ctrl := gomock.NewController(t)
	res := mock.NewMockResolver(ctrl)
	w, _ := newTestWarmer(t, config.DefaultWarmerSchedule, res)

	res.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.Failed(models.ReasonTimeout, deadline.ErrTimeout)).Times(2)

	before := testutil.ToFloat64(metrics.WarmerRuns.WithLabelValues("currencies", "error"))
	w.Run(context.Background())
	after := testutil.ToFloat64(metrics.WarmerRuns.WithLabelValues("currencies", "error"))

	assert.Equal(t, before+1, after)
}

// signalResolver reports every call on a channel and never touches the test after it returns
type signalResolver struct {
	fired chan string
}

func (r *signalResolver) Resolve(_ context.Context, key string, _ models.FetchOperation) models.Outcome {
	select {
	case r.fired <- key:
	default:
	}
	return models.CacheHit([]byte(`{}`))
}

func TestWarmer_StartRunsOnSchedule(t *testing.T) {
	res := &signalResolver{fired: make(chan string, 4)}
	endpoints := upstream.NewEndpoints(config.Default().Upstream)
	w, err := New("* * * * * *", res, cache.NewKeyBuilder(), endpoints, zap.NewNop())
	require.NoError(t, err)

	w.Start()
	defer w.Stop()

	select {
	case key := <-res.fired:
		assert.NotEmpty(t, key)
	case <-time.After(3 * time.Second):
		t.Fatal("warmer did not run on schedule")
	}
}

// blockingResolver holds every call until release is closed
type blockingResolver struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *blockingResolver) Resolve(_ context.Context, _ string, _ models.FetchOperation) models.Outcome {
	r.once.Do(func() { close(r.started) })
	<-r.release
	return models.CacheHit([]byte(`{}`))
}

func TestWarmer_StopWaitsForRunningJob(t *testing.T) {
	res := &blockingResolver{started: make(chan struct{}), release: make(chan struct{})}
	endpoints := upstream.NewEndpoints(config.Default().Upstream)
	w, err := New("* * * * * *", res, cache.NewKeyBuilder(), endpoints, zap.NewNop())
	require.NoError(t, err)

	w.Start()

	select {
	case <-res.started:
	case <-time.After(3 * time.Second):
		t.Fatal("warmer did not run on schedule")
	}

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a run was in progress")
	case <-time.After(100 * time.Millisecond):
	}

	close(res.release)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the run finished")
	}
}

func TestWarmer_NoRunAfterStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No expectations: a scheduled run after Stop would fail the test
	w, _ := newTestWarmer(t, "* * * * * *", mock.NewMockResolver(ctrl))

	w.Stop()
	w.scheduledRun()
}
