// Package deadline races an operation against a fixed timer.
package deadline

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when the timer fires before the operation completes
var ErrTimeout = errors.New("operation timed out")

type result[T any] struct {
	val T
	err error
}

// Run executes op and returns its result, or ErrTimeout if d elapses first.
// The context handed to op is cancelled when Run returns, so a losing
// operation is stopped rather than left running in the background.
func Run[T any](ctx context.Context, d time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan result[T], 1)
	go func() {
		val, err := op(ctx)
		done <- result[T]{val: val, err: err}
	}()

	var zero T
	select {
	case r := <-done:
		// op may observe the deadline and return its own error first
		if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return r.val, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return zero, ctx.Err()
	}
}
