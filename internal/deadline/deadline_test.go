package deadline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CompletesBeforeDeadline(t *testing.T) {
	val, err := Run(context.Background(), time.Second, func(ctx context.Context) ([]byte, error) {
		return []byte("ok"), nil
	})

	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), val)
}

func TestRun_OperationError(t *testing.T) {
	opErr := errors.New("boom")

	_, err := Run(context.Background(), time.Second, func(ctx context.Context) ([]byte, error) {
		return nil, opErr
	})

	assert.ErrorIs(t, err, opErr)
}

func TestRun_Timeout(t *testing.T) {
	start := time.Now()

	val, err := Run(context.Background(), 50*time.Millisecond, func(ctx context.Context) ([]byte, error) {
		select {
		case <-time.After(10 * time.Second):
			return []byte("too late"), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Nil(t, val)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_LoserIsCancelled(t *testing.T) {
	cancelled := make(chan error, 1)

	_, err := Run(context.Background(), 20*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		cancelled <- ctx.Err()
		return 0, ctx.Err()
	})

	assert.ErrorIs(t, err, ErrTimeout)
	select {
	case ctxErr := <-cancelled:
		assert.ErrorIs(t, ctxErr, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("operation context was not cancelled")
	}
}

func TestRun_OperationIgnoringContextIsAbandoned(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	_, err := Run(context.Background(), 20*time.Millisecond, func(ctx context.Context) (string, error) {
		<-release
		return "ignored", nil
	})

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestRun_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, time.Second, func(ctx context.Context) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}
