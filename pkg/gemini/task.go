package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultPollInterval is the default polling interval for
	// long-running operations.
	DefaultPollInterval = 5 * time.Second

	// DefaultMaxPolls bounds how many times a task is queried before
	// Wait gives up. At the default interval this is ten minutes.
	DefaultMaxPolls = 120
)

// ErrPollBudget is returned when a task did not complete within the
// polling budget. The task may still finish server-side; Wait can be
// called again on the same task.
var ErrPollBudget = errors.New("gemini: polling budget exhausted")

// Task represents a long-running operation that can be polled for
// completion.
type Task[T any] struct {
	// ID is the server-side operation name.
	ID string

	// MaxPolls bounds the number of queries per Wait call. Defaults to
	// DefaultMaxPolls.
	MaxPolls int

	// poll queries the operation once. done is true when the
	// operation finished and result is valid.
	poll func(ctx context.Context) (result *T, done bool, err error)
}

// Wait waits for the task to complete and returns the result.
//
// Uses a default polling interval of 5 seconds. Use WaitWithInterval
// for custom intervals. Polling is always bounded: by ctx and by the
// task's MaxPolls budget.
func (t *Task[T]) Wait(ctx context.Context) (*T, error) {
	return t.WaitWithInterval(ctx, DefaultPollInterval)
}

// WaitWithInterval waits for the task to complete with a custom
// polling interval.
func (t *Task[T]) WaitWithInterval(ctx context.Context, interval time.Duration) (*T, error) {
	maxPolls := t.MaxPolls
	if maxPolls <= 0 {
		maxPolls = DefaultMaxPolls
	}

	// Query immediately before the first ticker interval.
	result, done, err := t.poll(ctx)
	if err != nil {
		return nil, err
	}
	if done {
		return result, nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for polls := 1; polls < maxPolls; polls++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			result, done, err := t.poll(ctx)
			if err != nil {
				return nil, err
			}
			if done {
				return result, nil
			}
		}
	}
	return nil, fmt.Errorf("task %s: %w", t.ID, ErrPollBudget)
}
