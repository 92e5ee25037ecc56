package slogx

import (
	"context"
	"time"
)

// Traced wraps fn with start/finish records carrying the step name and its duration.
func Traced[T any](name string, fn func(context.Context, T) error) func(context.Context, T) error {
	return func(ctx context.Context, arg T) error {
		start := time.Now()
		logger := Default()

		step := Step(name)
		logger.Debug(ctx, "start migration step", step)

		err := fn(ctx, arg)

		durAttr := Duration(time.Since(start))
		if err != nil {
			logger.Error(ctx, "finish with error", step, durAttr, Err(err))
		} else {
			logger.Info(ctx, "finish success", step, durAttr)
		}

		return err
	}
}
