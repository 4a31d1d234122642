package views

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Batch runs the independent fetches of one view concurrently. The first
// failure cancels the others and is returned; callers show no partial result.
func Batch(ctx context.Context, fetches ...func(ctx context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, f := range fetches {
		g.Go(func() error { return f(ctx) })
	}
	return g.Wait()
}
