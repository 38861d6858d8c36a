package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEach runs action for every item in its own goroutine and waits for all
// of them. It returns the first error encountered.
func ForEach[T any](items []T, action func(T) error) error {
	errGroup := errgroup.Group{}
	for _, item := range items {
		errGroup.Go(func() error {
			return action(item)
		})
	}
	return errGroup.Wait()
}

// ForEachContext is ForEach with a context that is cancelled as soon as one
// action fails.
func ForEachContext[T any](ctx context.Context, items []T, action func(context.Context, T) error) error {
	errGroup, gctx := errgroup.WithContext(ctx)
	for _, item := range items {
		errGroup.Go(func() error {
			return action(gctx, item)
		})
	}
	return errGroup.Wait()
}
