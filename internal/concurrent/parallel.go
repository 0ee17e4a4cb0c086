// Package concurrent provides bounded parallel execution for independent
// simulation runs. Each task owns its jobs, engine and metrics, so trials in
// an experiment batch never share mutable state.
package concurrent

import (
	"context"
	"sync"
)

// Task is one unit of work executed in parallel.
type Task[T any] func(ctx context.Context) (T, error)

// Result pairs a task's value or error with its original index, so callers
// can keep outputs aligned with inputs.
type Result[T any] struct {
	Value T
	Error error
	Index int
}

// Map runs fn over every item with at most maxConcurrent running at once
// (no limit when maxConcurrent <= 0) and waits for all of them, even if some
// fail.
func Map[T, R any](ctx context.Context, items []T, fn func(ctx context.Context, item T) (R, error), maxConcurrent int) []Result[R] {
	tasks := make([]Task[R], len(items))
	for i, item := range items {
		tasks[i] = func(ctx context.Context) (R, error) {
			return fn(ctx, item)
		}
	}
	return Execute(ctx, tasks, maxConcurrent)
}

// Execute runs tasks with at most maxConcurrent in flight and returns all
// results in input order.
func Execute[T any](ctx context.Context, tasks []Task[T], maxConcurrent int) []Result[T] {
	if maxConcurrent <= 0 {
		maxConcurrent = len(tasks)
	}

	results := make([]Result[T], len(tasks))
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		go func(index int, t Task[T]) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			value, err := t(ctx)
			results[index] = Result[T]{Value: value, Error: err, Index: index}
		}(i, task)
	}

	wg.Wait()
	return results
}

// FirstError returns the first error among the results, or nil.
func FirstError[T any](results []Result[T]) error {
	for _, r := range results {
		if r.Error != nil {
			return r.Error
		}
	}
	return nil
}
