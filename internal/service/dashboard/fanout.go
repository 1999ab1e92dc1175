package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"ticketpulse/internal/apperr"
)

// Coverage tells a caller whether every planned sub-window made it into a
// view
type Coverage struct {
	Partial       bool                   `json:"partial"`
	FailedWindows []apperr.WindowFailure `json:"failed_windows,omitempty"`
}

// Err is a *apperr.PartialDataError naming the failed sub-windows, or nil
// when the view is complete
func (c Coverage) Err() error {
	if !c.Partial {
		return nil
	}
	return &apperr.PartialDataError{Failures: c.FailedWindows}
}

// task is one sub-window fetch
type task[T any] struct {
	label string
	run   func(ctx context.Context) (T, error)
}

// fanOut runs tasks with at most limit in flight. A failed task contributes
// its zero value and is listed in the coverage. Validation errors abort the
// whole run, and so does every task failing: the first failure is returned.
func fanOut[T any](ctx context.Context, limit int, tasks []task[T]) ([]T, Coverage, error) {
	results := make([]T, len(tasks))
	errs := make([]error, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, t := range tasks {
		g.Go(func() error {
			v, err := t.run(gctx)
			if err != nil {
				if apperr.IsValidation(err) {
					return err
				}
				errs[i] = err
				return nil
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Coverage{}, err
	}

	var cov Coverage
	var first error
	for i, err := range errs {
		if err == nil {
			continue
		}
		if first == nil {
			first = err
		}
		cov.FailedWindows = append(cov.FailedWindows, apperr.WindowFailure{
			Window: tasks[i].label,
			Reason: err.Error(),
		})
	}
	if len(tasks) > 0 && len(cov.FailedWindows) == len(tasks) {
		return nil, Coverage{}, first
	}
	cov.Partial = len(cov.FailedWindows) > 0
	return results, cov, nil
}
