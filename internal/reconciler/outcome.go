package reconciler

import (
	"context"
	"errors"
	"time"

	"fjacquet/finrecon/internal/models"
	"fjacquet/finrecon/internal/remote"
)

// Outcome is the settled result of one source: a value or an error.
type Outcome[T any] struct {
	Value T
	Err   error
}

// OK reports whether the source produced a value.
func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

// settle runs fetch under its own deadline and records the result instead of
// returning it, so one failing source never stops the others.
func settle[T any](ctx context.Context, timeout time.Duration, fetch func(context.Context) (T, error)) Outcome[T] {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	v, err := fetch(ctx)
	return Outcome[T]{Value: v, Err: err}
}

func status(err error) models.SourceStatus {
	if err == nil {
		return models.SourceOK
	}
	var terr *remote.TransportError
	if errors.As(err, &terr) && terr.Timeout() {
		return models.SourceTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return models.SourceTimeout
	}
	return models.SourceFailed
}
